package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"quiz-game-service/internal/domain"
)

func newTestRepository(t *testing.T) *GameRepository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewGameRepository(db)
}

func TestGameRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := repo.Create(ctx, sampleGame("g1", "ABC123", "a@b.com", now)); err != nil {
		t.Fatalf("create: %v", err)
	}

	byKey, err := repo.GetByKey(ctx, "ABC123")
	if err != nil {
		t.Fatalf("get by key: %v", err)
	}
	if byKey.ID != "g1" || len(byKey.Quizzes) != 1 {
		t.Fatalf("unexpected game %+v", byKey)
	}

	byKey.Title = "Renamed"
	byKey.UpdatedAt = now.Add(time.Minute)
	if _, err := repo.Replace(ctx, byKey); err != nil {
		t.Fatalf("replace: %v", err)
	}
	byID, err := repo.GetByID(ctx, "g1")
	if err != nil || byID.Title != "Renamed" {
		t.Fatalf("expected replaced document, got %+v err=%v", byID, err)
	}

	removed, err := repo.Delete(ctx, "g1")
	if err != nil || !removed {
		t.Fatalf("expected removal, removed=%v err=%v", removed, err)
	}
	removed, _ = repo.Delete(ctx, "g1")
	if removed {
		t.Fatalf("expected second delete to remove nothing")
	}
	if _, err := repo.GetByID(ctx, "g1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGameRepositoryRejectsDuplicateKey(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	now := time.Now().UTC()

	if _, err := repo.Create(ctx, sampleGame("g1", "ABC123", "a@b.com", now)); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.Create(ctx, sampleGame("g2", "ABC123", "a@b.com", now))
	if !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("expected duplicate key, got %v", err)
	}
}

func TestGameRepositoryListByCreator(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, g := range []domain.Game{
		sampleGame("g2", "BBB222", "a@b.com", base.Add(time.Hour)),
		sampleGame("g1", "AAA111", "a@b.com", base),
		sampleGame("g3", "CCC333", "A@B.COM", base),
	} {
		if _, err := repo.Create(ctx, g); err != nil {
			t.Fatalf("create %s: %v", g.ID, err)
		}
	}

	games, err := repo.ListByCreator(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(games) != 2 || games[0].ID != "g1" || games[1].ID != "g2" {
		t.Fatalf("unexpected games %+v", games)
	}
}

func TestGameRepositoryReplaceMissing(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.Replace(context.Background(), sampleGame("ghost", "ZZZ999", "a@b.com", time.Now()))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func sampleGame(id, key, email string, createdAt time.Time) domain.Game {
	return domain.Game{
		ID:           id,
		Title:        "Math Night",
		Key:          key,
		CreatorEmail: email,
		Quizzes: []domain.Quiz{
			{
				ID:    "quiz-1",
				Title: "Warm up",
				Type:  domain.QuizTypeSingle,
				Questions: []domain.Question{
					{ID: "q1", Text: "What is 2 + 2?", Answers: []string{"3", "4"}, CorrectAnswers: []int{1}},
				},
			},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}
