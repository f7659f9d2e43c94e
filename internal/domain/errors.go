package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is returned by stores when a game key is already taken.
	ErrDuplicateKey = errors.New("game key already in use")
	// ErrNoQuestions is returned when scoring a game that has no questions.
	ErrNoQuestions = errors.New("game has no questions")
)

// Entity kinds used in NotFoundError.
const (
	KindGame     = "Game"
	KindQuiz     = "Quiz"
	KindQuestion = "Question"
)

// NotFoundError reports a failed lookup of an entity by id or key.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q was not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NotFound builds a NotFoundError.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}
