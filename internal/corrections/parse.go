package corrections

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

var allowedExtensions = []string{"jpg", "jpeg", "png", "webp", "bmp"}

// CheckConsent requires consent to equal "true" ignoring case.
func CheckConsent(consent string) error {
	if !strings.EqualFold(consent, "true") {
		return ErrConsentRequired
	}
	return nil
}

// ParseIngredients decodes and normalizes the detected and corrected
// ingredient arrays. Detected entries that are not objects are dropped and
// keep only their trimmed label. Every corrected entry must be an object
// with a label; its box survives only as a four-element list.
func ParseIngredients(detectedJSON, correctedJSON string) ([]Detected, []Corrected, error) {
	var rawDetected, rawCorrected any
	if err := json.Unmarshal([]byte(detectedJSON), &rawDetected); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if err := json.Unmarshal([]byte(correctedJSON), &rawCorrected); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	detectedList, ok1 := rawDetected.([]any)
	correctedList, ok2 := rawCorrected.([]any)
	if !ok1 || !ok2 {
		return nil, nil, ErrNotArray
	}

	corrected := make([]Corrected, 0, len(correctedList))
	for _, item := range correctedList {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, nil, ErrMissingLabel
		}
		label, ok := obj["label"]
		if !ok {
			return nil, nil, ErrMissingLabel
		}
		corrected = append(corrected, Corrected{
			Label: labelString(label),
			Box:   parseBox(obj["box"]),
		})
	}

	detected := make([]Detected, 0, len(detectedList))
	for _, item := range detectedList {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		detected = append(detected, Detected{Label: labelString(obj["label"])})
	}

	return detected, corrected, nil
}

// Extension returns the lowercased filename extension when it is an
// accepted image extension, and "jpg" otherwise.
func Extension(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return ext
		}
	}
	return "jpg"
}

func labelString(v any) string {
	switch l := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(l)
	default:
		b, _ := json.Marshal(l)
		return strings.TrimSpace(string(b))
	}
}

func parseBox(v any) []float64 {
	list, ok := v.([]any)
	if !ok || len(list) != 4 {
		return nil
	}

	box := make([]float64, 4)
	for i, c := range list {
		f, ok := c.(float64)
		if !ok {
			return nil
		}
		box[i] = f
	}
	return box
}
