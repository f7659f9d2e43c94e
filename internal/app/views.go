package app

import (
	"sort"
	"time"

	"quiz-game-service/internal/domain"
)

// CreateGameInput is the payload for creating a game.
type CreateGameInput struct {
	Title        string `json:"title" yaml:"title"`
	CreatorEmail string `json:"creatorEmail" yaml:"creatorEmail"`
}

// QuestionInput describes a question when adding or replacing a quiz.
type QuestionInput struct {
	Text           string   `json:"text" yaml:"text"`
	Answers        []string `json:"answers" yaml:"answers"`
	CorrectAnswers []int    `json:"correctAnswers" yaml:"correctAnswers"`
}

// QuizInput describes a whole quiz. Updates replace the stored quiz with it.
type QuizInput struct {
	Title     string          `json:"title" yaml:"title"`
	Type      domain.QuizType `json:"type" yaml:"type"`
	Questions []QuestionInput `json:"questions" yaml:"questions"`
}

// QuestionView is the wire form of a question. Question ids stay internal.
type QuestionView struct {
	Text           string   `json:"text"`
	Answers        []string `json:"answers"`
	CorrectAnswers []int    `json:"correctAnswers"`
}

type QuizView struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Type      domain.QuizType `json:"type"`
	Questions []QuestionView  `json:"questions"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// GameView is the canonical wire representation of a game.
type GameView struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Key          string     `json:"key"`
	CreatorEmail string     `json:"creatorEmail"`
	Quizzes      []QuizView `json:"quizzes"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// MapGame converts a stored game to its view.
func MapGame(game domain.Game) GameView {
	view := GameView{
		ID:           game.ID,
		Title:        game.Title,
		Key:          game.Key,
		CreatorEmail: game.CreatorEmail,
		Quizzes:      make([]QuizView, 0, len(game.Quizzes)),
		CreatedAt:    game.CreatedAt,
		UpdatedAt:    game.UpdatedAt,
	}
	for _, quiz := range game.Quizzes {
		qv := QuizView{
			ID:        quiz.ID,
			Title:     quiz.Title,
			Type:      quiz.Type,
			Questions: make([]QuestionView, 0, len(quiz.Questions)),
			CreatedAt: quiz.CreatedAt,
			UpdatedAt: quiz.UpdatedAt,
		}
		for _, q := range quiz.Questions {
			qv.Questions = append(qv.Questions, QuestionView{
				Text:           q.Text,
				Answers:        orEmpty(q.Answers),
				CorrectAnswers: orEmpty(q.CorrectAnswers),
			})
		}
		view.Quizzes = append(view.Quizzes, qv)
	}
	return view
}

// DomainQuizzes converts the view back into gradable domain quizzes.
func (v GameView) DomainQuizzes() []domain.Quiz {
	quizzes := make([]domain.Quiz, 0, len(v.Quizzes))
	for _, qv := range v.Quizzes {
		quiz := domain.Quiz{ID: qv.ID, Title: qv.Title, Type: qv.Type}
		for _, q := range qv.Questions {
			quiz.Questions = append(quiz.Questions, domain.Question{
				Text:           q.Text,
				Answers:        q.Answers,
				CorrectAnswers: q.CorrectAnswers,
			})
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

// AnswerInput is one question's selections in a score request.
type AnswerInput struct {
	Quiz     int   `json:"quiz"`
	Question int   `json:"question"`
	Selected []int `json:"selected"`
}

type ScoreInput struct {
	Answers []AnswerInput `json:"answers"`
}

// NewScoreInput flattens answers into request order (quiz, then question).
func NewScoreInput(answers domain.Answers) ScoreInput {
	in := ScoreInput{Answers: make([]AnswerInput, 0, len(answers))}
	for pos, selected := range answers {
		in.Answers = append(in.Answers, AnswerInput{Quiz: pos.Quiz, Question: pos.Question, Selected: selected})
	}
	sort.Slice(in.Answers, func(i, j int) bool {
		if in.Answers[i].Quiz != in.Answers[j].Quiz {
			return in.Answers[i].Quiz < in.Answers[j].Quiz
		}
		return in.Answers[i].Question < in.Answers[j].Question
	})
	return in
}

// ToAnswers merges repeated entries for the same question.
func (in ScoreInput) ToAnswers() domain.Answers {
	answers := make(domain.Answers, len(in.Answers))
	for _, a := range in.Answers {
		pos := domain.Position{Quiz: a.Quiz, Question: a.Question}
		answers[pos] = append(answers[pos], a.Selected...)
	}
	return answers
}

// ScoreView is a graded result with its feedback line.
type ScoreView struct {
	domain.Score
	Feedback string `json:"feedback"`
}

func MapScore(score domain.Score) ScoreView {
	return ScoreView{Score: score, Feedback: domain.Feedback(score.Percentage)}
}
