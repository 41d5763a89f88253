// Package corrections records human-in-the-loop ingredient corrections for
// detector retraining. Records go to blob storage plus PostgreSQL when a
// remote backend is configured, or to a local image directory plus a JSON
// lines annotation file otherwise.
package corrections

import (
	"time"

	"github.com/google/uuid"
)

// Backend names.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Detected is an ingredient the detector reported.
type Detected struct {
	Label string `json:"label"`
}

// Corrected is an ingredient confirmed or supplied by the user. Box is nil
// unless the client sent a four-element [x0, y0, x1, y1] list.
type Corrected struct {
	Label string    `json:"label"`
	Box   []float64 `json:"box"`
}

// Correction is a persisted correction record.
type Correction struct {
	ID          uuid.UUID   `json:"image_id"`
	ImagePath   string      `json:"image_path"`
	StorageKey  string      `json:"storage_key"`
	ContentType string      `json:"content_type"`
	Detected    []Detected  `json:"detected"`
	Corrected   []Corrected `json:"corrected"`
	Consent     bool        `json:"consent"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Submission is a validated correction waiting to be stored.
type Submission struct {
	Data        []byte
	Filename    string
	ContentType string
	Detected    []Detected
	Corrected   []Corrected
}

// Saved is the response to a stored correction.
type Saved struct {
	OK      bool   `json:"ok"`
	ImageID string `json:"image_id"`
	Message string `json:"message"`
}

// annotation is one line of the local annotations file.
type annotation struct {
	ImageID   string      `json:"image_id"`
	ImagePath string      `json:"image_path"`
	Detected  []Detected  `json:"detected"`
	Corrected []Corrected `json:"corrected"`
	Consent   bool        `json:"consent"`
}
