package corrections

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/nourish/internal/telemetry"
	"github.com/JaimeStill/nourish/pkg/pagination"
)

// Backend persists corrections.
type Backend interface {
	Name() string
	// Message is the confirmation returned to the client after Save.
	Message() string
	// Save stores the image and annotation. It sets ImagePath on c.
	Save(ctx context.Context, c *Correction, data []byte) error
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Correction], error)
	Find(ctx context.Context, id uuid.UUID) (*Correction, error)
	Image(ctx context.Context, c *Correction) (io.ReadCloser, error)
}

// System defines the public contract for correction operations.
type System interface {
	Handler(maxUploadSize int64) *Handler
	Save(ctx context.Context, s Submission) (*Saved, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Correction], error)

	Find(ctx context.Context, id uuid.UUID) (*Correction, error)
	Image(ctx context.Context, id uuid.UUID) (io.ReadCloser, *Correction, error)
}

type system struct {
	backend    Backend
	metrics    *telemetry.Metrics
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the correction system over the given backend.
func New(backend Backend, metrics *telemetry.Metrics, logger *slog.Logger, pagination pagination.Config) System {
	return &system{
		backend:    backend,
		metrics:    metrics,
		logger:     logger.With("system", "corrections"),
		pagination: pagination,
	}
}

func (s *system) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, s.pagination, maxUploadSize)
}

func (s *system) Save(ctx context.Context, sub Submission) (*Saved, error) {
	id := uuid.New()

	c := &Correction{
		ID:          id,
		StorageKey:  fmt.Sprintf("%s.%s", id, Extension(sub.Filename)),
		ContentType: sub.ContentType,
		Detected:    sub.Detected,
		Corrected:   sub.Corrected,
		Consent:     true,
	}
	if c.ContentType == "" {
		c.ContentType = "image/jpeg"
	}

	if err := s.backend.Save(ctx, c, sub.Data); err != nil {
		return nil, err
	}

	s.metrics.RecordCorrection(s.backend.Name())

	return &Saved{
		OK:      true,
		ImageID: c.ID.String(),
		Message: s.backend.Message(),
	}, nil
}

func (s *system) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Correction], error) {
	return s.backend.List(ctx, page, filters)
}

func (s *system) Find(ctx context.Context, id uuid.UUID) (*Correction, error) {
	return s.backend.Find(ctx, id)
}

func (s *system) Image(ctx context.Context, id uuid.UUID) (io.ReadCloser, *Correction, error) {
	c, err := s.backend.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	body, err := s.backend.Image(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	return body, c, nil
}
