// Package player walks a single player through every question of a game and
// keeps their in-progress answers.
package player

import (
	"errors"
	"sort"

	"quiz-game-service/internal/domain"
)

// ErrComplete is returned when acting on a walk that has already finished.
var ErrComplete = errors.New("game already complete")

// ErrNoSelection is returned when moving on from a question nothing was selected for.
var ErrNoSelection = errors.New("select an answer first")

// ErrAnswerOutOfRange is returned when selecting an answer index the question does not have.
var ErrAnswerOutOfRange = errors.New("answer out of range")

// Step is the question the player is currently looking at.
type Step struct {
	Position  domain.Position
	QuizTitle string
	Type      domain.QuizType
	Question  domain.Question
	Selected  []int
	Number    int // 1-based among all questions
	Total     int
}

// Walk is a linear walk over the flattened (quiz, question) positions of a game.
// It is not safe for concurrent use.
type Walk struct {
	quizzes   []domain.Quiz
	positions []domain.Position
	cursor    int
	answers   domain.Answers
	complete  bool
}

// NewWalk starts at the first question. Quizzes without questions are skipped;
// a game with no questions at all yields ErrNoQuestions.
func NewWalk(quizzes []domain.Quiz) (*Walk, error) {
	w := &Walk{quizzes: quizzes, answers: make(domain.Answers)}
	for qi, quiz := range quizzes {
		for qj := range quiz.Questions {
			w.positions = append(w.positions, domain.Position{Quiz: qi, Question: qj})
		}
	}
	if len(w.positions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	return w, nil
}

func (w *Walk) Complete() bool { return w.complete }

// Current returns the question under the cursor.
func (w *Walk) Current() Step {
	pos := w.positions[w.cursor]
	quiz := w.quizzes[pos.Quiz]
	return Step{
		Position:  pos,
		QuizTitle: quiz.Title,
		Type:      quiz.Type,
		Question:  quiz.Questions[pos.Question],
		Selected:  append([]int(nil), w.answers[pos]...),
		Number:    w.cursor + 1,
		Total:     len(w.positions),
	}
}

// Select records an answer for the current question. Single-type quizzes keep
// only the latest selection; multiple-type quizzes toggle the index in or out.
func (w *Walk) Select(answer int) error {
	if w.complete {
		return ErrComplete
	}
	pos := w.positions[w.cursor]
	quiz := w.quizzes[pos.Quiz]
	if answer < 0 || answer >= len(quiz.Questions[pos.Question].Answers) {
		return ErrAnswerOutOfRange
	}

	if quiz.Type == domain.QuizTypeSingle {
		w.answers[pos] = []int{answer}
		return nil
	}

	current := w.answers[pos]
	for i, selected := range current {
		if selected == answer {
			w.answers[pos] = append(current[:i:i], current[i+1:]...)
			return nil
		}
	}
	next := append(current, answer)
	sort.Ints(next)
	w.answers[pos] = next
	return nil
}

// Next advances to the following question once the current one has a
// selection. Advancing past the last question of the last quiz completes the walk.
func (w *Walk) Next() error {
	if w.complete {
		return ErrComplete
	}
	if len(w.answers[w.positions[w.cursor]]) == 0 {
		return ErrNoSelection
	}
	if w.cursor == len(w.positions)-1 {
		w.complete = true
		return nil
	}
	w.cursor++
	return nil
}

// Previous moves back one question, crossing into the previous quiz when
// needed. It reports false at the first question.
func (w *Walk) Previous() (bool, error) {
	if w.complete {
		return false, ErrComplete
	}
	if w.cursor == 0 {
		return false, nil
	}
	w.cursor--
	return true, nil
}

// Answers returns a copy of the selections made so far.
func (w *Walk) Answers() domain.Answers {
	out := make(domain.Answers, len(w.answers))
	for pos, selected := range w.answers {
		out[pos] = append([]int(nil), selected...)
	}
	return out
}

// Score grades the answers given so far.
func (w *Walk) Score() (domain.Score, error) {
	return domain.ScoreQuizzes(w.quizzes, w.answers)
}
