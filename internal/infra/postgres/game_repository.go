package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quiz-game-service/internal/domain"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const uniqueViolation = "23505"

// GameRepository stores each game as one JSONB document in the games table.
// key and creator_email are copied into columns for lookups and the unique constraint.
type GameRepository struct {
	pool *pgxpool.Pool
}

func NewGameRepository(pool *pgxpool.Pool) *GameRepository {
	return &GameRepository{pool: pool}
}

func (r *GameRepository) Create(ctx context.Context, game domain.Game) (domain.Game, error) {
	data, err := json.Marshal(game)
	if err != nil {
		return domain.Game{}, fmt.Errorf("marshal game: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO games (id, key, creator_email, data, created_at, updated_at) VALUES ($1, $2, $3, $4::jsonb, $5, $6)`,
		game.ID, game.Key, game.CreatorEmail, string(data), game.CreatedAt, game.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "games_key_key" {
			return domain.Game{}, domain.ErrDuplicateKey
		}
		return domain.Game{}, fmt.Errorf("insert game: %w", err)
	}
	return game, nil
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (domain.Game, error) {
	return r.getOne(ctx, `SELECT data FROM games WHERE id=$1`, id)
}

func (r *GameRepository) GetByKey(ctx context.Context, key string) (domain.Game, error) {
	return r.getOne(ctx, `SELECT data FROM games WHERE key=$1`, key)
}

func (r *GameRepository) getOne(ctx context.Context, query, arg string) (domain.Game, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, query, arg).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Game{}, domain.NotFound(domain.KindGame, arg)
	}
	if err != nil {
		return domain.Game{}, fmt.Errorf("load game: %w", err)
	}
	return decodeGame(raw)
}

func (r *GameRepository) ListByCreator(ctx context.Context, email string) ([]domain.Game, error) {
	rows, err := r.pool.Query(ctx, `SELECT data FROM games WHERE creator_email=$1 ORDER BY created_at, id`, email)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	games := make([]domain.Game, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		game, err := decodeGame(raw)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

func (r *GameRepository) Replace(ctx context.Context, game domain.Game) (domain.Game, error) {
	data, err := json.Marshal(game)
	if err != nil {
		return domain.Game{}, fmt.Errorf("marshal game: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE games SET data=$2::jsonb, updated_at=$3 WHERE id=$1`,
		game.ID, string(data), game.UpdatedAt)
	if err != nil {
		return domain.Game{}, fmt.Errorf("replace game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Game{}, domain.NotFound(domain.KindGame, game.ID)
	}
	return game, nil
}

func (r *GameRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM games WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete game: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func decodeGame(raw []byte) (domain.Game, error) {
	var game domain.Game
	if err := json.Unmarshal(raw, &game); err != nil {
		return domain.Game{}, fmt.Errorf("unmarshal game: %w", err)
	}
	return game, nil
}
