package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-game-service/internal/domain"
)

// GameRepository keeps game documents in a map owned by the instance (useful for tests/demos).
// Stored games are deep-copied on the way in and out.
type GameRepository struct {
	mu    sync.RWMutex
	games map[string]domain.Game
	keys  map[string]string // key -> game id
}

func NewGameRepository() *GameRepository {
	return &GameRepository{
		games: make(map[string]domain.Game),
		keys:  make(map[string]string),
	}
}

func (r *GameRepository) Create(_ context.Context, game domain.Game) (domain.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.keys[game.Key]; taken {
		return domain.Game{}, domain.ErrDuplicateKey
	}
	r.games[game.ID] = game.Clone()
	r.keys[game.Key] = game.ID
	return game.Clone(), nil
}

func (r *GameRepository) GetByID(_ context.Context, id string) (domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	game, ok := r.games[id]
	if !ok {
		return domain.Game{}, domain.NotFound(domain.KindGame, id)
	}
	return game.Clone(), nil
}

func (r *GameRepository) GetByKey(_ context.Context, key string) (domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.keys[key]
	if !ok {
		return domain.Game{}, domain.NotFound(domain.KindGame, key)
	}
	return r.games[id].Clone(), nil
}

// ListByCreator returns games oldest first.
func (r *GameRepository) ListByCreator(_ context.Context, email string) ([]domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := make([]domain.Game, 0)
	for _, game := range r.games {
		if game.CreatorEmail == email {
			games = append(games, game.Clone())
		}
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})
	return games, nil
}

// Replace overwrites the whole document. The key index is left untouched since keys never change.
func (r *GameRepository) Replace(_ context.Context, game domain.Game) (domain.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[game.ID]; !ok {
		return domain.Game{}, domain.NotFound(domain.KindGame, game.ID)
	}
	r.games[game.ID] = game.Clone()
	return game.Clone(), nil
}

func (r *GameRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	game, ok := r.games[id]
	if !ok {
		return false, nil
	}
	delete(r.games, id)
	delete(r.keys, game.Key)
	return true, nil
}
