package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quiz-game-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// GameRepository keeps each game as a JSON document in Redis.
// Documents are stored as:  SET  game:{id} {json}
// Keys are indexed as:      SET  game:key:{key} {id}   (SETNX, enforces uniqueness)
// Creators are indexed as:  ZADD game:creator:{email} {createdAt} {id}
type GameRepository struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) *GameRepository {
	return &GameRepository{client: client}
}

func (r *GameRepository) Create(ctx context.Context, game domain.Game) (domain.Game, error) {
	data, err := json.Marshal(game)
	if err != nil {
		return domain.Game{}, fmt.Errorf("marshal game: %w", err)
	}

	claimed, err := r.client.SetNX(ctx, keyIndex(game.Key), game.ID, 0).Result()
	if err != nil {
		return domain.Game{}, fmt.Errorf("claim key: %w", err)
	}
	if !claimed {
		return domain.Game{}, domain.ErrDuplicateKey
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, documentKey(game.ID), data, 0)
		pipe.ZAdd(ctx, creatorIndex(game.CreatorEmail), redis.Z{
			Score:  float64(game.CreatedAt.UnixNano()),
			Member: game.ID,
		})
		return nil
	})
	if err != nil {
		// release the key so a retry can claim it again
		_ = r.client.Del(ctx, keyIndex(game.Key)).Err()
		return domain.Game{}, fmt.Errorf("store game: %w", err)
	}
	return game, nil
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (domain.Game, error) {
	raw, err := r.client.Get(ctx, documentKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Game{}, domain.NotFound(domain.KindGame, id)
	}
	if err != nil {
		return domain.Game{}, fmt.Errorf("load game: %w", err)
	}
	return decodeGame(raw)
}

func (r *GameRepository) GetByKey(ctx context.Context, key string) (domain.Game, error) {
	id, err := r.client.Get(ctx, keyIndex(key)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Game{}, domain.NotFound(domain.KindGame, key)
	}
	if err != nil {
		return domain.Game{}, fmt.Errorf("resolve key: %w", err)
	}
	game, err := r.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Game{}, domain.NotFound(domain.KindGame, key)
	}
	return game, err
}

// ListByCreator returns games in creation order.
func (r *GameRepository) ListByCreator(ctx context.Context, email string) ([]domain.Game, error) {
	ids, err := r.client.ZRange(ctx, creatorIndex(email), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list creator games: %w", err)
	}
	games := make([]domain.Game, 0, len(ids))
	if len(ids) == 0 {
		return games, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = documentKey(id)
	}
	docs, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load creator games: %w", err)
	}
	for _, doc := range docs {
		raw, ok := doc.(string)
		if !ok {
			// index entry outlived its document
			continue
		}
		game, err := decodeGame([]byte(raw))
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, nil
}

// Replace overwrites an existing document; it never creates one.
func (r *GameRepository) Replace(ctx context.Context, game domain.Game) (domain.Game, error) {
	data, err := json.Marshal(game)
	if err != nil {
		return domain.Game{}, fmt.Errorf("marshal game: %w", err)
	}
	ok, err := r.client.SetXX(ctx, documentKey(game.ID), data, 0).Result()
	if err != nil {
		return domain.Game{}, fmt.Errorf("replace game: %w", err)
	}
	if !ok {
		return domain.Game{}, domain.NotFound(domain.KindGame, game.ID)
	}
	return game, nil
}

func (r *GameRepository) Delete(ctx context.Context, id string) (bool, error) {
	game, err := r.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var removed *redis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.Del(ctx, documentKey(id))
		pipe.Del(ctx, keyIndex(game.Key))
		pipe.ZRem(ctx, creatorIndex(game.CreatorEmail), id)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete game: %w", err)
	}
	return removed.Val() > 0, nil
}

func documentKey(id string) string {
	return "game:" + id
}

func keyIndex(key string) string {
	return "game:key:" + key
}

func creatorIndex(email string) string {
	return "game:creator:" + email
}

func decodeGame(raw []byte) (domain.Game, error) {
	var game domain.Game
	if err := json.Unmarshal(raw, &game); err != nil {
		return domain.Game{}, fmt.Errorf("unmarshal game: %w", err)
	}
	return game, nil
}
