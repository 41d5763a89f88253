package detection

import (
	"math"
	"slices"
	"strings"
)

// Detection is one post-processed ingredient. Box is nil when boxes were not requested.
type Detection struct {
	Label string    `json:"label"`
	Score float64   `json:"score"`
	Box   []float64 `json:"box"`
}

// Options control post-processing of raw detector output.
type Options struct {
	Prompts      []string
	Category     string
	IncludeBoxes bool
	MaxBoxArea   float64
	Width        int
	Height       int
}

// ParsePrompts splits a comma separated ingredient prompt. A blank prompt
// selects the default ingredient list.
func ParsePrompts(prompt string) []string {
	if strings.TrimSpace(prompt) == "" {
		return slices.Clone(Ingredients)
	}

	var out []string
	for part := range strings.SplitSeq(prompt, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// PostProcess drops oversized or malformed boxes, normalizes labels against
// the prompt list, rounds scores and applies the meal category filter.
func PostProcess(raw []Raw, opts Options) []Detection {
	var allowed []string
	if opts.Category != "" {
		allowed = MealCategories[opts.Category]
	}

	out := make([]Detection, 0, len(raw))
	for _, r := range raw {
		if len(r.Box) != 4 {
			continue
		}
		if TooLarge(r.Box, opts.Width, opts.Height, opts.MaxBoxArea) {
			continue
		}

		d := Detection{
			Label: NormalizeLabel(r.Label, opts.Prompts),
			Score: Round4(r.Score),
		}
		if opts.IncludeBoxes {
			d.Box = slices.Clone(r.Box)
		}

		if allowed != nil && !slices.Contains(allowed, d.Label) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// NormalizeLabel maps a possibly concatenated model label to the first
// ingredient in list order that appears in it, either as a substring or as a
// subset of its words. Unmatched labels are returned unchanged.
func NormalizeLabel(label string, ingredients []string) string {
	lower := strings.ToLower(strings.TrimSpace(label))
	words := strings.Fields(lower)

	for _, ing := range ingredients {
		ingLower := strings.ToLower(ing)
		if strings.Contains(lower, ingLower) {
			return ing
		}
		ingWords := strings.Fields(ingLower)
		if len(ingWords) > 0 && subset(ingWords, words) {
			return ing
		}
	}
	return label
}

// TooLarge reports whether box covers more than ratio of the image area.
func TooLarge(box []float64, width, height int, ratio float64) bool {
	area := float64(width) * float64(height)
	if area <= 0 {
		return false
	}
	w := math.Max(0, box[2]-box[0])
	h := math.Max(0, box[3]-box[1])
	return w*h/area > ratio
}

// Round4 rounds v to four decimal places.
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func subset(sub, set []string) bool {
	for _, w := range sub {
		if !slices.Contains(set, w) {
			return false
		}
	}
	return true
}
