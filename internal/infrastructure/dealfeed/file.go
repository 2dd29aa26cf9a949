package dealfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dagligdags/backend/internal/domain"
)

// dealFilePattern matches the normalized deal snapshots written by the scrapers
const dealFilePattern = "deals_*.json"

// FileSource serves the newest deal snapshot found in a directory
type FileSource struct {
	dir string
}

// NewFileSource creates a deal source reading snapshots from dir
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// LatestFile returns the snapshot with the greatest name (snapshots are date-stamped)
func (s *FileSource) LatestFile() (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, dealFilePattern))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDealSourceFailure, err)
	}
	if len(matches) == 0 {
		return "", domain.ErrNoDealsAvailable
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// ListDeals reads every deal from the newest snapshot
func (s *FileSource) ListDeals(ctx context.Context) ([]domain.Deal, error) {
	path, err := s.LatestFile()
	if err != nil {
		return nil, err
	}
	return ReadDealsFile(path)
}

// ReadDealsFile decodes a JSON array of deals
func ReadDealsFile(path string) ([]domain.Deal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDealSourceFailure, err)
	}

	var deals []domain.Deal
	if err := json.Unmarshal(data, &deals); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrDealSourceFailure, filepath.Base(path), err)
	}
	return deals, nil
}
