package domain

import "math"

// Position addresses a question by quiz index and question index within that quiz.
type Position struct {
	Quiz     int `json:"quiz"`
	Question int `json:"question"`
}

// Answers holds a player's selected answer indices per question.
type Answers map[Position][]int

// Score is the outcome of grading a full set of answers.
type Score struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// IsCorrect grades one question. Single-type questions need exactly one selection equal to
// the first correct index; multiple-type questions need the selection to equal the correct
// set, ignoring order and duplicates.
func IsCorrect(kind QuizType, correct, selected []int) bool {
	if len(correct) == 0 || len(selected) == 0 {
		return false
	}
	if kind == QuizTypeSingle {
		return len(selected) == 1 && selected[0] == correct[0]
	}
	return sameSet(selected, correct)
}

func sameSet(a, b []int) bool {
	left := make(map[int]struct{}, len(a))
	for _, v := range a {
		left[v] = struct{}{}
	}
	right := make(map[int]struct{}, len(b))
	for _, v := range b {
		right[v] = struct{}{}
	}
	if len(left) != len(right) {
		return false
	}
	for v := range right {
		if _, ok := left[v]; !ok {
			return false
		}
	}
	return true
}

// ScoreQuizzes grades answers against every question of the given quizzes.
// Unanswered questions count as incorrect.
func ScoreQuizzes(quizzes []Quiz, answers Answers) (Score, error) {
	var score Score
	for qi, quiz := range quizzes {
		for qj, question := range quiz.Questions {
			score.Total++
			if IsCorrect(quiz.Type, question.CorrectAnswers, answers[Position{Quiz: qi, Question: qj}]) {
				score.Correct++
			}
		}
	}
	if score.Total == 0 {
		return Score{}, ErrNoQuestions
	}
	score.Percentage = int(math.Round(float64(score.Correct) / float64(score.Total) * 100))
	return score, nil
}

// Feedback is the short message shown alongside a percentage.
func Feedback(percentage int) string {
	switch {
	case percentage >= 90:
		return "Excellent job!"
	case percentage >= 70:
		return "Great work!"
	case percentage >= 50:
		return "Good effort! Keep practicing."
	default:
		return "Don't give up! You can improve."
	}
}
