package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"quiz-game-service/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gameRecord is the single games table; the full aggregate lives in Data.
type gameRecord struct {
	ID           string `gorm:"primaryKey"`
	Key          string `gorm:"uniqueIndex;not null"`
	CreatorEmail string `gorm:"index;not null"`
	Data         string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (gameRecord) TableName() string { return "games" }

// Open connects to the SQLite file at path and migrates the games table.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// one writer at a time; also keeps in-memory databases on a single connection
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&gameRecord{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

// GameRepository stores games as JSON documents in SQLite through gorm.
type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Create(ctx context.Context, game domain.Game) (domain.Game, error) {
	rec, err := toRecord(game)
	if err != nil {
		return domain.Game{}, err
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isDuplicate(err) {
			return domain.Game{}, domain.ErrDuplicateKey
		}
		return domain.Game{}, fmt.Errorf("insert game: %w", err)
	}
	return game, nil
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (domain.Game, error) {
	return r.take(ctx, map[string]interface{}{"id": id}, id)
}

func (r *GameRepository) GetByKey(ctx context.Context, key string) (domain.Game, error) {
	return r.take(ctx, map[string]interface{}{"key": key}, key)
}

func (r *GameRepository) take(ctx context.Context, cond map[string]interface{}, ident string) (domain.Game, error) {
	var rec gameRecord
	err := r.db.WithContext(ctx).Where(cond).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Game{}, domain.NotFound(domain.KindGame, ident)
	}
	if err != nil {
		return domain.Game{}, fmt.Errorf("load game: %w", err)
	}
	return fromRecord(rec)
}

func (r *GameRepository) ListByCreator(ctx context.Context, email string) ([]domain.Game, error) {
	var recs []gameRecord
	err := r.db.WithContext(ctx).
		Where(map[string]interface{}{"creator_email": email}).
		Order("created_at, id").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	games := make([]domain.Game, 0, len(recs))
	for _, rec := range recs {
		game, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, nil
}

func (r *GameRepository) Replace(ctx context.Context, game domain.Game) (domain.Game, error) {
	data, err := json.Marshal(game)
	if err != nil {
		return domain.Game{}, fmt.Errorf("marshal game: %w", err)
	}
	res := r.db.WithContext(ctx).Model(&gameRecord{}).
		Where(map[string]interface{}{"id": game.ID}).
		Updates(map[string]interface{}{"data": string(data), "updated_at": game.UpdatedAt})
	if res.Error != nil {
		return domain.Game{}, fmt.Errorf("replace game: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Game{}, domain.NotFound(domain.KindGame, game.ID)
	}
	return game, nil
}

func (r *GameRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where(map[string]interface{}{"id": id}).Delete(&gameRecord{})
	if res.Error != nil {
		return false, fmt.Errorf("delete game: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func toRecord(game domain.Game) (gameRecord, error) {
	data, err := json.Marshal(game)
	if err != nil {
		return gameRecord{}, fmt.Errorf("marshal game: %w", err)
	}
	return gameRecord{
		ID:           game.ID,
		Key:          game.Key,
		CreatorEmail: game.CreatorEmail,
		Data:         string(data),
		CreatedAt:    game.CreatedAt,
		UpdatedAt:    game.UpdatedAt,
	}, nil
}

func fromRecord(rec gameRecord) (domain.Game, error) {
	var game domain.Game
	if err := json.Unmarshal([]byte(rec.Data), &game); err != nil {
		return domain.Game{}, fmt.Errorf("unmarshal game: %w", err)
	}
	return game, nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
