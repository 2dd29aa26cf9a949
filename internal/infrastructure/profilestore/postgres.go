package profilestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/dagligdags/backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const profilesSchema = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id TEXT PRIMARY KEY,
	data JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps profiles as JSONB documents in PostgreSQL
type PostgresStore struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore connects to dsn, verifies the connection and prepares the schema
func NewPostgresStore(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, profilesSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("host", poolConfig.ConnConfig.Host),
		zap.String("database", poolConfig.ConnConfig.Database),
	)

	return &PostgresStore{db: pool, logger: logger}, nil
}

// Close releases the pool
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

// Load returns the stored profile, or ErrProfileNotFound when the user has none
func (s *PostgresStore) Load(ctx context.Context, userID string) (domain.UserProfile, error) {
	if err := validateUserID(userID); err != nil {
		return domain.UserProfile{}, err
	}

	query, args, err := loadProfileQuery(userID)
	if err != nil {
		return domain.UserProfile{}, err
	}

	var data []byte
	err = s.db.QueryRow(ctx, query, args...).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserProfile{}, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, userID)
	}
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("query profile %s: %w", userID, err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return domain.UserProfile{}, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	return profile, nil
}

// Save inserts or replaces the user's profile
func (s *PostgresStore) Save(ctx context.Context, userID string, profile domain.UserProfile) error {
	if err := validateUserID(userID); err != nil {
		return err
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", userID, err)
	}

	query, args, err := saveProfileQuery(userID, data)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save profile %s: %w", userID, err)
	}
	return nil
}

func loadProfileQuery(userID string) (string, []interface{}, error) {
	return squirrel.Select("data").
		From("profiles").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func saveProfileQuery(userID string, data []byte) (string, []interface{}, error) {
	return squirrel.Insert("profiles").
		Columns("user_id", "data").
		Values(userID, data).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}
