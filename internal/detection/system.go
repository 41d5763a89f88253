// Package detection identifies food ingredients in dish photos through a
// text-prompted object detector and filters the results for meal planning.
package detection

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strconv"

	"github.com/JaimeStill/nourish/internal/telemetry"
	"github.com/JaimeStill/nourish/pkg/imaging"
)

// frameQuality is the JPEG quality of frames sent to the detector.
const frameQuality = 95

// Params are the caller-supplied detection options.
type Params struct {
	Category      string
	Prompt        string
	BoxThreshold  float64
	TextThreshold float64
	IncludeBoxes  bool
}

// Catalog describes the ingredient vocabulary and meal categories.
type Catalog struct {
	Ingredients []string            `json:"ingredients"`
	Categories  map[string][]string `json:"categories"`
	LabelsES    map[string]string   `json:"labels_es"`
}

// System defines the public contract for ingredient detection.
type System interface {
	Handler(maxUploadSize int64) *Handler
	Detect(ctx context.Context, image []byte, p Params) ([]Detection, error)
	Annotate(ctx context.Context, image []byte, p Params) ([]byte, error)
	Catalog() Catalog
}

type system struct {
	detector func() (Detector, error)
	cfg      Config
	metrics  *telemetry.Metrics
	logger   *slog.Logger
}

// New creates the detection system. detector is resolved per request so a
// missing endpoint only fails the requests that need it.
func New(detector func() (Detector, error), cfg Config, metrics *telemetry.Metrics, logger *slog.Logger) System {
	return &system{
		detector: detector,
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger.With("system", "detection"),
	}
}

func (s *system) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *system) Detect(ctx context.Context, data []byte, p Params) ([]Detection, error) {
	detections, _, err := s.run(ctx, data, p)
	return detections, err
}

func (s *system) Annotate(ctx context.Context, data []byte, p Params) ([]byte, error) {
	p.IncludeBoxes = true

	detections, img, err := s.run(ctx, data, p)
	if err != nil {
		return nil, err
	}

	Draw(img, detections)
	return imaging.EncodeJPEG(img, AnnotatedQuality)
}

func (s *system) Catalog() Catalog {
	categories := make(map[string][]string, len(MealCategories))
	for _, c := range Categories() {
		categories[c] = MealCategories[c]
	}
	return Catalog{
		Ingredients: Ingredients,
		Categories:  categories,
		LabelsES:    LabelsES,
	}
}

func (s *system) run(ctx context.Context, data []byte, p Params) ([]Detection, *image.RGBA, error) {
	if p.Category != "" && !ValidCategory(p.Category) {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidCategory, p.Category)
	}

	img, err := imaging.Decode(data)
	if err != nil {
		s.metrics.RecordDetect("invalid_image", nil)
		return nil, nil, err
	}

	prompts := ParsePrompts(p.Prompt)
	if len(prompts) == 0 {
		s.metrics.RecordDetect("ok", nil)
		return []Detection{}, img, nil
	}

	raw, err := s.infer(ctx, img, prompts, p)
	if err != nil {
		s.metrics.RecordDetect("error", nil)
		return nil, nil, err
	}

	bounds := img.Bounds()
	detections := PostProcess(raw, Options{
		Prompts:      prompts,
		Category:     p.Category,
		IncludeBoxes: p.IncludeBoxes,
		MaxBoxArea:   s.cfg.MaxBoxArea,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
	})

	labels := make([]string, len(detections))
	for i, d := range detections {
		labels[i] = d.Label
	}
	s.metrics.RecordDetect("ok", labels)

	s.logger.InfoContext(ctx, "detection complete",
		"raw", len(raw),
		"kept", len(detections),
		"category", p.Category,
	)

	return detections, img, nil
}

func (s *system) infer(ctx context.Context, img *image.RGBA, prompts []string, p Params) ([]Raw, error) {
	detector, err := s.detector()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetector, err)
	}

	frame, err := imaging.EncodeJPEG(img, frameQuality)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetector, err)
	}

	req := Request{
		Image:         imaging.EncodeBase64(frame),
		Labels:        prompts,
		BoxThreshold:  orDefault(p.BoxThreshold, s.cfg.BoxThreshold),
		TextThreshold: orDefault(p.TextThreshold, s.cfg.TextThreshold),
	}

	raw, err := detector.Detect(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetector, err)
	}
	return raw, nil
}

// ParseParams reads detection options from query values. Zero or absent
// thresholds fall back to configured defaults; include_boxes defaults to true.
func ParseParams(get func(string) string) (Params, error) {
	p := Params{
		Category:     get("category"),
		Prompt:       get("ingredients_prompt"),
		IncludeBoxes: true,
	}

	var err error
	if p.BoxThreshold, err = parseFloat(get("box_threshold")); err != nil {
		return p, fmt.Errorf("%w: box_threshold: %w", ErrInvalidParam, err)
	}
	if p.TextThreshold, err = parseFloat(get("text_threshold")); err != nil {
		return p, fmt.Errorf("%w: text_threshold: %w", ErrInvalidParam, err)
	}
	if v := get("include_boxes"); v != "" {
		if p.IncludeBoxes, err = strconv.ParseBool(v); err != nil {
			return p, fmt.Errorf("%w: include_boxes: %w", ErrInvalidParam, err)
		}
	}
	if p.Category != "" && !ValidCategory(p.Category) {
		return p, fmt.Errorf("%w: %s", ErrInvalidCategory, p.Category)
	}

	return p, nil
}

func parseFloat(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
