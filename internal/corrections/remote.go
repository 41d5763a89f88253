package corrections

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/nourish/pkg/pagination"
	"github.com/JaimeStill/nourish/pkg/query"
	"github.com/JaimeStill/nourish/pkg/repository"
	"github.com/JaimeStill/nourish/pkg/storage"
)

type remote struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewRemote creates a backend that uploads images to blob storage and
// records annotations in the ingredient_corrections table.
func NewRemote(db *sql.DB, store storage.System, logger *slog.Logger, pagination pagination.Config) Backend {
	return &remote{
		db:         db,
		storage:    store,
		logger:     logger.With("backend", BackendRemote),
		pagination: pagination,
	}
}

func (r *remote) Name() string {
	return BackendRemote
}

func (r *remote) Message() string {
	return "Correction saved to remote storage."
}

func (r *remote) Save(ctx context.Context, c *Correction, data []byte) error {
	if err := r.storage.Upload(ctx, c.StorageKey, bytes.NewReader(data), c.ContentType); err != nil {
		return fmt.Errorf("%w: upload image: %w", ErrStore, err)
	}
	c.ImagePath = r.storage.Path(c.StorageKey)

	detected, err := json.Marshal(c.Detected)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	corrected, err := json.Marshal(c.Corrected)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}

	q := `
		INSERT INTO ingredient_corrections(image_id, image_path, storage_key, content_type, detected_ingredients, corrected_ingredients, consent, labels)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING image_id, image_path, storage_key, content_type, detected_ingredients, corrected_ingredients, consent, created_at, labels`

	args := []any{
		c.ID,
		c.ImagePath,
		c.StorageKey,
		c.ContentType,
		string(detected),
		string(corrected),
		c.Consent,
		searchLabels(c.Corrected),
	}

	saved, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Correction, error) {
		return repository.QueryOne(ctx, tx, q, args, scanCorrection)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, c.StorageKey); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", c.StorageKey, "error", delErr)
		}
		return fmt.Errorf("%w: %w", ErrStore, repository.MapError(err, ErrNotFound, ErrDuplicate))
	}

	*c = saved
	r.logger.InfoContext(ctx, "correction saved", "image_id", c.ID, "path", c.ImagePath)
	return nil
}

func (r *remote) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Correction], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Labels", "ImagePath")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count corrections: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCorrection)
	if err != nil {
		return nil, fmt.Errorf("query corrections: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *remote) Find(ctx context.Context, id uuid.UUID) (*Correction, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCorrection)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *remote) Image(ctx context.Context, c *Correction) (io.ReadCloser, error) {
	return r.storage.Download(ctx, c.StorageKey)
}

// searchLabels flattens corrected labels into the text column used for search.
func searchLabels(items []Corrected) string {
	labels := make([]string, 0, len(items))
	for _, item := range items {
		if item.Label != "" {
			labels = append(labels, item.Label)
		}
	}
	return strings.Join(labels, ", ")
}
