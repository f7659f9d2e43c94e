package player

import (
	"errors"
	"reflect"
	"testing"

	"quiz-game-service/internal/domain"
)

func sampleQuizzes() []domain.Quiz {
	return []domain.Quiz{
		{
			Title: "Warm up",
			Type:  domain.QuizTypeSingle,
			Questions: []domain.Question{
				{Text: "2+2", Answers: []string{"3", "4", "5"}, CorrectAnswers: []int{1}},
				{Text: "3+3", Answers: []string{"6", "9"}, CorrectAnswers: []int{0}},
			},
		},
		{Title: "Empty", Type: domain.QuizTypeSingle},
		{
			Title: "Sets",
			Type:  domain.QuizTypeMultiple,
			Questions: []domain.Question{
				{Text: "evens", Answers: []string{"2", "3", "4"}, CorrectAnswers: []int{0, 2}},
			},
		},
	}
}

func TestWalkNavigatesAcrossQuizzes(t *testing.T) {
	w, err := NewWalk(sampleQuizzes())
	if err != nil {
		t.Fatalf("new walk: %v", err)
	}

	if step := w.Current(); step.Position != (domain.Position{Quiz: 0, Question: 0}) || step.Total != 3 {
		t.Fatalf("unexpected first step %+v", step)
	}
	if moved, _ := w.Previous(); moved {
		t.Fatalf("expected no previous question at start")
	}

	if err := w.Next(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection before selecting, got %v", err)
	}
	if step := w.Current(); step.Number != 1 {
		t.Fatalf("expected to stay on the first question, got %d", step.Number)
	}

	_ = w.Select(1)
	_ = w.Next()
	_ = w.Select(0)
	_ = w.Next()
	step := w.Current()
	if step.Position != (domain.Position{Quiz: 2, Question: 0}) || step.QuizTitle != "Sets" || step.Number != 3 {
		t.Fatalf("expected empty quiz to be skipped, got %+v", step)
	}

	if moved, _ := w.Previous(); !moved {
		t.Fatalf("expected to move back")
	}
	if step := w.Current(); step.Position != (domain.Position{Quiz: 0, Question: 1}) {
		t.Fatalf("expected last question of previous quiz, got %+v", step.Position)
	}

	_ = w.Next()
	_ = w.Select(0)
	if err := w.Next(); err != nil {
		t.Fatalf("next past last: %v", err)
	}
	if !w.Complete() {
		t.Fatalf("expected walk complete after last question")
	}
	if err := w.Next(); !errors.Is(err, ErrComplete) {
		t.Fatalf("expected ErrComplete, got %v", err)
	}
	if err := w.Select(0); !errors.Is(err, ErrComplete) {
		t.Fatalf("expected ErrComplete on select, got %v", err)
	}
}

func TestWalkSelection(t *testing.T) {
	w, _ := NewWalk(sampleQuizzes())

	_ = w.Select(0)
	_ = w.Select(1)
	if got := w.Current().Selected; !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("single choice should keep the latest selection, got %v", got)
	}
	if err := w.Select(7); !errors.Is(err, ErrAnswerOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}

	_ = w.Next()
	_ = w.Select(0)
	_ = w.Next()

	_ = w.Select(2)
	_ = w.Select(1)
	_ = w.Select(0)
	_ = w.Select(1)
	if got := w.Current().Selected; !reflect.DeepEqual(got, []int{0, 2}) {
		t.Fatalf("multiple choice should toggle, got %v", got)
	}

	score, err := w.Score()
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score.Correct != 3 || score.Total != 3 || score.Percentage != 100 {
		t.Fatalf("unexpected score %+v", score)
	}
}

func TestWalkUnansweredQuestionsCountAsWrong(t *testing.T) {
	w, _ := NewWalk(sampleQuizzes())
	_ = w.Select(1)

	score, err := w.Score()
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score.Correct != 1 || score.Percentage != 33 {
		t.Fatalf("unexpected score %+v", score)
	}
}

func TestNewWalkWithoutQuestions(t *testing.T) {
	if _, err := NewWalk([]domain.Quiz{{Title: "Empty"}}); !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestWalkNextNeedsSelectionForMultiple(t *testing.T) {
	w, _ := NewWalk(sampleQuizzes()[2:])

	_ = w.Select(0)
	_ = w.Select(0)
	if err := w.Next(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection after toggling everything off, got %v", err)
	}
	_ = w.Select(2)
	if err := w.Next(); err != nil || !w.Complete() {
		t.Fatalf("expected walk complete, complete=%v err=%v", w.Complete(), err)
	}
}
