package profilestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dagligdags/backend/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileStore keeps one profile per file: <dir>/user_<id>.json, or .yaml/.yml written by hand
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed profile store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Load reads a user's profile. A missing file yields ErrProfileNotFound.
func (s *FileStore) Load(ctx context.Context, userID string) (domain.UserProfile, error) {
	if err := validateUserID(userID); err != nil {
		return domain.UserProfile{}, err
	}

	for _, ext := range []string{".json", ".yaml", ".yml"} {
		data, err := os.ReadFile(s.path(userID, ext))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.UserProfile{}, fmt.Errorf("read profile %s: %w", userID, err)
		}

		var profile domain.UserProfile
		if ext == ".json" {
			err = json.Unmarshal(data, &profile)
		} else {
			err = yaml.Unmarshal(data, &profile)
		}
		if err != nil {
			return domain.UserProfile{}, fmt.Errorf("decode profile %s: %w", userID, err)
		}
		return profile, nil
	}

	return domain.UserProfile{}, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, userID)
}

// Save writes the profile as indented JSON, replacing any previous file atomically
func (s *FileStore) Save(ctx context.Context, userID string, profile domain.UserProfile) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", userID, err)
	}

	tmp, err := os.CreateTemp(s.dir, "user_*.tmp")
	if err != nil {
		return fmt.Errorf("write profile %s: %w", userID, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write profile %s: %w", userID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write profile %s: %w", userID, err)
	}

	return os.Rename(tmp.Name(), s.path(userID, ".json"))
}

func (s *FileStore) path(userID, ext string) string {
	return filepath.Join(s.dir, "user_"+userID+ext)
}

// validateUserID rejects ids that cannot be used as a storage key
func validateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: empty user id", domain.ErrInvalidRequest)
	}
	if strings.ContainsAny(userID, `/\`) || strings.Contains(userID, "..") {
		return fmt.Errorf("%w: user id %q contains path characters", domain.ErrInvalidRequest, userID)
	}
	return nil
}
