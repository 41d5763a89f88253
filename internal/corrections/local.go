package corrections

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/nourish/pkg/pagination"
)

const (
	imagesDir       = "images"
	annotationsFile = "annotations.jsonl"
)

type local struct {
	dir    string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewLocal creates a backend that writes images under dir/images and appends
// one JSON line per correction to dir/annotations.jsonl.
func NewLocal(dir string, logger *slog.Logger) Backend {
	return &local{
		dir:    dir,
		logger: logger.With("backend", BackendLocal),
	}
}

func (l *local) Name() string {
	return BackendLocal
}

func (l *local) Message() string {
	return "Correction saved locally."
}

func (l *local) Save(ctx context.Context, c *Correction, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	images := filepath.Join(l.dir, imagesDir)
	if err := os.MkdirAll(images, 0o755); err != nil {
		return fmt.Errorf("%w: create corrections dir: %w", ErrStore, err)
	}

	imagePath := filepath.Join(images, c.StorageKey)
	if err := os.WriteFile(imagePath, data, 0o644); err != nil {
		return fmt.Errorf("%w: write image: %w", ErrStore, err)
	}
	c.ImagePath = imagePath

	line, err := json.Marshal(annotation{
		ImageID:   c.ID.String(),
		ImagePath: c.ImagePath,
		Detected:  c.Detected,
		Corrected: c.Corrected,
		Consent:   c.Consent,
	})
	if err != nil {
		return fmt.Errorf("%w: encode annotation: %w", ErrStore, err)
	}

	f, err := os.OpenFile(filepath.Join(l.dir, annotationsFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open annotations: %w", ErrStore, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("%w: write annotation: %w", ErrStore, err)
	}

	l.logger.InfoContext(ctx, "correction saved", "image_id", c.ID, "path", imagePath)
	return nil
}

func (l *local) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Correction], error) {
	return nil, ErrRemoteOnly
}

func (l *local) Find(ctx context.Context, id uuid.UUID) (*Correction, error) {
	return nil, ErrRemoteOnly
}

func (l *local) Image(ctx context.Context, c *Correction) (io.ReadCloser, error) {
	return nil, ErrRemoteOnly
}
