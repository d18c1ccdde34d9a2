package domain

import (
	"context"
	"fmt"
	"os"

	"listings-web/models"
)

// FileSource reads properties.json from disk on every Load.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load(ctx context.Context) (*models.ListingSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrSourceUnavailable, s.path, err)
	}
	set, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return set, nil
}
