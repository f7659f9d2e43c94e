package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"quiz-game-service/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// GameRepository abstracts how game documents are stored (in-memory, Postgres, Redis, SQLite).
// Every call touches a single document.
type GameRepository interface {
	Create(ctx context.Context, game domain.Game) (domain.Game, error)
	GetByID(ctx context.Context, id string) (domain.Game, error)
	GetByKey(ctx context.Context, key string) (domain.Game, error)
	ListByCreator(ctx context.Context, email string) ([]domain.Game, error)
	Replace(ctx context.Context, game domain.Game) (domain.Game, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// DefaultKeyAttempts bounds how many keys CreateGame tries before giving up.
const DefaultKeyAttempts = 5

const lookupTimeout = 10 * time.Second

// Options tunes a GameService. Zero values fall back to defaults.
type Options struct {
	Now         func() time.Time
	NewKey      KeyGenerator
	KeyAttempts int
}

// GameService contains the game authoring and playing use cases.
type GameService struct {
	games       GameRepository
	now         func() time.Time
	newKey      KeyGenerator
	keyAttempts int
	lookups     singleflight.Group
}

func NewGameService(games GameRepository) *GameService {
	return NewGameServiceWithOptions(games, Options{})
}

func NewGameServiceWithOptions(games GameRepository, opts Options) *GameService {
	s := &GameService{
		games:       games,
		now:         opts.Now,
		newKey:      opts.NewKey,
		keyAttempts: opts.KeyAttempts,
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newKey == nil {
		s.newKey = GenerateKey
	}
	if s.keyAttempts <= 0 {
		s.keyAttempts = DefaultKeyAttempts
	}
	return s
}

// CreateGame stores a new empty game under a freshly generated key.
func (s *GameService) CreateGame(ctx context.Context, in CreateGameInput) (GameView, error) {
	now := s.now()
	game := domain.Game{
		ID:           uuid.NewString(),
		Title:        in.Title,
		CreatorEmail: in.CreatorEmail,
		Quizzes:      []domain.Quiz{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var lastErr error
	for attempt := 1; attempt <= s.keyAttempts; attempt++ {
		key, err := s.newKey()
		if err != nil {
			return GameView{}, err
		}
		game.Key = key

		created, err := s.games.Create(ctx, game)
		if err == nil {
			slog.Info("game created", "gameId", created.ID, "key", created.Key, "attempt", attempt)
			return MapGame(created), nil
		}
		if !errors.Is(err, domain.ErrDuplicateKey) {
			return GameView{}, err
		}
		slog.Warn("game key collision", "key", key, "attempt", attempt)
		lastErr = err
	}
	return GameView{}, fmt.Errorf("create game after %d attempts: %w", s.keyAttempts, lastErr)
}

func (s *GameService) GetGameByID(ctx context.Context, id string) (GameView, error) {
	game, err := s.games.GetByID(ctx, id)
	if err != nil {
		return GameView{}, err
	}
	return MapGame(game), nil
}

// GetGameByKey looks a game up by its public key. Concurrent lookups for the
// same key share one store call.
func (s *GameService) GetGameByKey(ctx context.Context, key string) (GameView, error) {
	game, err := s.loadByKey(ctx, key)
	if err != nil {
		return GameView{}, err
	}
	return MapGame(game), nil
}

// loadByKey shares one store call between concurrent callers. The shared call
// is detached from any single caller's cancellation and bounded by
// lookupTimeout; each caller still gives up on its own ctx.
func (s *GameService) loadByKey(ctx context.Context, key string) (domain.Game, error) {
	key = NormalizeKey(key)
	ch := s.lookups.DoChan(key, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		return s.games.GetByKey(shared, key)
	})
	select {
	case <-ctx.Done():
		return domain.Game{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Game{}, res.Err
		}
		return res.Val.(domain.Game), nil
	}
}

// ListGamesByCreator never returns a nil slice.
func (s *GameService) ListGamesByCreator(ctx context.Context, email string) ([]GameView, error) {
	games, err := s.games.ListByCreator(ctx, email)
	if err != nil {
		return nil, err
	}
	views := make([]GameView, 0, len(games))
	for _, game := range games {
		views = append(views, MapGame(game))
	}
	return views, nil
}

// AddQuiz appends a new quiz to the game.
func (s *GameService) AddQuiz(ctx context.Context, gameID string, in QuizInput) (GameView, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return GameView{}, err
	}

	now := s.now()
	game.Quizzes = append(game.Quizzes, domain.Quiz{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Type:      in.Type,
		Questions: newQuestions(in.Questions),
		CreatedAt: now,
		UpdatedAt: now,
	})
	game.UpdatedAt = now

	return s.replace(ctx, game)
}

// UpdateQuiz replaces title, type and the whole question list of a quiz.
// Question ids are regenerated.
func (s *GameService) UpdateQuiz(ctx context.Context, gameID, quizID string, in QuizInput) (GameView, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return GameView{}, err
	}
	idx := game.QuizIndex(quizID)
	if idx < 0 {
		return GameView{}, domain.NotFound(domain.KindQuiz, quizID)
	}

	now := s.now()
	quiz := &game.Quizzes[idx]
	quiz.Title = in.Title
	quiz.Type = in.Type
	quiz.Questions = newQuestions(in.Questions)
	quiz.UpdatedAt = now
	game.UpdatedAt = now

	return s.replace(ctx, game)
}

func (s *GameService) DeleteQuiz(ctx context.Context, gameID, quizID string) (bool, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return false, err
	}
	idx := game.QuizIndex(quizID)
	if idx < 0 {
		return false, domain.NotFound(domain.KindQuiz, quizID)
	}

	game.Quizzes = append(game.Quizzes[:idx], game.Quizzes[idx+1:]...)
	game.UpdatedAt = s.now()

	if _, err := s.games.Replace(ctx, game); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteGame reports whether a game was removed.
func (s *GameService) DeleteGame(ctx context.Context, id string) (bool, error) {
	removed, err := s.games.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		slog.Info("game deleted", "gameId", id)
	}
	return removed, nil
}

// ScoreGame grades a player's answers against the game stored under key.
func (s *GameService) ScoreGame(ctx context.Context, key string, answers domain.Answers) (domain.Score, error) {
	game, err := s.loadByKey(ctx, key)
	if err != nil {
		return domain.Score{}, err
	}
	return domain.ScoreQuizzes(game.Quizzes, answers)
}

func (s *GameService) replace(ctx context.Context, game domain.Game) (GameView, error) {
	updated, err := s.games.Replace(ctx, game)
	if err != nil {
		return GameView{}, err
	}
	return MapGame(updated), nil
}

func newQuestions(in []QuestionInput) []domain.Question {
	questions := make([]domain.Question, 0, len(in))
	for _, q := range in {
		questions = append(questions, domain.Question{
			ID:             uuid.NewString(),
			Text:           q.Text,
			Answers:        append([]string(nil), q.Answers...),
			CorrectAnswers: append([]int(nil), q.CorrectAnswers...),
		})
	}
	return questions
}
