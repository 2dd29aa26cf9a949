package profilestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dagligdags/backend/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps profiles as JSON documents in a local sqlite database
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and prepares the schema
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{conn: conn}
	if err := store.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.conn.Exec(`
	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`)
	return err
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// Load returns the stored profile, or ErrProfileNotFound when the user has none
func (s *SQLiteStore) Load(ctx context.Context, userID string) (domain.UserProfile, error) {
	if err := validateUserID(userID); err != nil {
		return domain.UserProfile{}, err
	}

	var data string
	err := s.conn.QueryRowContext(ctx, `SELECT data FROM profiles WHERE user_id = ?`, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserProfile{}, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, userID)
	}
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("query profile %s: %w", userID, err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return domain.UserProfile{}, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	return profile, nil
}

// Save inserts or replaces the user's profile
func (s *SQLiteStore) Save(ctx context.Context, userID string, profile domain.UserProfile) error {
	if err := validateUserID(userID); err != nil {
		return err
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", userID, err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO profiles (user_id, data) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		userID, string(data))
	if err != nil {
		return fmt.Errorf("save profile %s: %w", userID, err)
	}
	return nil
}
