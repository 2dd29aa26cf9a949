package profilestore

import (
	"context"
	"fmt"

	"github.com/dagligdags/backend/internal/domain"
	"go.uber.org/zap"
)

// Backend names accepted by Open
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Options selects and configures a profile backend
type Options struct {
	Backend     string
	Dir         string
	SQLitePath  string
	PostgresDSN string
}

// Store is a profile repository that may hold resources
type Store interface {
	domain.ProfileRepository
	Close() error
}

type fileCloser struct {
	*FileStore
}

func (fileCloser) Close() error { return nil }

// Open creates the configured profile repository
func Open(ctx context.Context, opts Options, logger *zap.Logger) (Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		return fileCloser{NewFileStore(opts.Dir)}, nil
	case BackendSQLite:
		store, err := NewSQLiteStore(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendPostgres:
		store, err := NewPostgresStore(ctx, opts.PostgresDSN, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: profile backend %q", domain.ErrUnknownBackend, opts.Backend)
	}
}
