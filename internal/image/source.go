package image

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Source supplies raw image bytes for an opaque handle.
type Source interface {
	Fetch(ctx context.Context, handle string) (name string, data []byte, err error)
}

// FileSource reads images from the filesystem; the handle is a path.
type FileSource struct{}

// Fetch reads the file at handle.
func (FileSource) Fetch(ctx context.Context, handle string) (string, []byte, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(handle)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open image: %w", err)
	}
	return filepath.Base(handle), data, nil
}
