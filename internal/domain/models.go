package domain

import "time"

// QuizType constrains how every question of a quiz is graded.
type QuizType string

const (
	QuizTypeSingle   QuizType = "single"
	QuizTypeMultiple QuizType = "multiple"
)

// Question is a prompt with an ordered answer list and the indices of the correct answers.
type Question struct {
	ID             string   `json:"id"`
	Text           string   `json:"text"`
	Answers        []string `json:"answers"`
	CorrectAnswers []int    `json:"correctAnswers"`
}

// Quiz is an ordered set of questions embedded in a game.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Type      QuizType   `json:"type"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Game is the aggregate root persisted as a single document.
type Game struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Key          string    `json:"key"`
	CreatorEmail string    `json:"creatorEmail"`
	Quizzes      []Quiz    `json:"quizzes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// QuizIndex returns the position of the quiz with the given id, or -1.
func (g Game) QuizIndex(quizID string) int {
	for i := range g.Quizzes {
		if g.Quizzes[i].ID == quizID {
			return i
		}
	}
	return -1
}

// QuestionCount is the number of questions across all quizzes.
func (g Game) QuestionCount() int {
	total := 0
	for _, quiz := range g.Quizzes {
		total += len(quiz.Questions)
	}
	return total
}

// Clone returns a deep copy so stores never share slices with callers.
func (g Game) Clone() Game {
	out := g
	if g.Quizzes == nil {
		return out
	}
	out.Quizzes = make([]Quiz, len(g.Quizzes))
	for i, quiz := range g.Quizzes {
		out.Quizzes[i] = quiz
		if quiz.Questions == nil {
			continue
		}
		out.Quizzes[i].Questions = make([]Question, len(quiz.Questions))
		for j, q := range quiz.Questions {
			q.Answers = append([]string(nil), q.Answers...)
			q.CorrectAnswers = append([]int(nil), q.CorrectAnswers...)
			out.Quizzes[i].Questions[j] = q
		}
	}
	return out
}
