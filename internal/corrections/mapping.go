package corrections

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/JaimeStill/nourish/pkg/query"
	"github.com/JaimeStill/nourish/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "ingredient_corrections", "c").
	Project("image_id", "ID").
	Project("image_path", "ImagePath").
	Project("storage_key", "StorageKey").
	Project("content_type", "ContentType").
	Project("detected_ingredients", "Detected").
	Project("corrected_ingredients", "Corrected").
	Project("consent", "Consent").
	Project("created_at", "CreatedAt").
	Project("labels", "Labels")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for correction queries.
// Label matches any corrected label case-insensitively. ContentType is exact.
type Filters struct {
	Label       *string `json:"label,omitempty"`
	ContentType *string `json:"content_type,omitempty"`
	Consent     *bool   `json:"consent,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Labels", f.Label).
		WhereEquals("ContentType", f.ContentType).
		WhereEquals("Consent", f.Consent)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if l := values.Get("label"); l != "" {
		f.Label = &l
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	if c := values.Get("consent"); c != "" {
		if v, err := strconv.ParseBool(c); err == nil {
			f.Consent = &v
		}
	}

	return f
}

func scanCorrection(s repository.Scanner) (Correction, error) {
	var (
		c         Correction
		detected  []byte
		corrected []byte
		labels    string
	)

	err := s.Scan(
		&c.ID,
		&c.ImagePath,
		&c.StorageKey,
		&c.ContentType,
		&detected,
		&corrected,
		&c.Consent,
		&c.CreatedAt,
		&labels,
	)
	if err != nil {
		return c, err
	}

	if err := json.Unmarshal(detected, &c.Detected); err != nil {
		return c, err
	}
	if err := json.Unmarshal(corrected, &c.Corrected); err != nil {
		return c, err
	}
	return c, nil
}
