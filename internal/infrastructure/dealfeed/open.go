package dealfeed

import (
	"fmt"

	"github.com/dagligdags/backend/internal/domain"
	"go.uber.org/zap"
)

// Source names accepted by Open
const (
	SourceFile = "file"
	SourceHTTP = "http"
)

// Options selects and configures a deal source
type Options struct {
	Source     string
	Dir        string
	FeedURL    string
	FeedAPIKey string
}

// Open creates the configured deal source
func Open(opts Options, logger *zap.Logger) (domain.DealSource, error) {
	switch opts.Source {
	case SourceFile, "":
		return NewFileSource(opts.Dir), nil
	case SourceHTTP:
		if opts.FeedURL == "" {
			return nil, fmt.Errorf("%w: deal feed url is empty", domain.ErrInvalidRequest)
		}
		return NewClient(opts.FeedURL, opts.FeedAPIKey, logger), nil
	default:
		return nil, fmt.Errorf("%w: deal source %q", domain.ErrUnknownBackend, opts.Source)
	}
}
