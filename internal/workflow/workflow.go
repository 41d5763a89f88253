package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JaimeStill/nourish/pkg/imaging"
)

// JPEGQuality is the compression used for the frame sent to the classifier.
const JPEGQuality = 95

// Execute runs the label pipeline on raw image bytes under the runtime
// deadline: classify, search when ultra-processed, then finalize.
// Stage results are values; no stage rewrites an earlier field.
func Execute(ctx context.Context, rt *Runtime, image []byte) (*Report, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, rt.timeout())
	defer cancel()

	final, err := run(ctx, rt, image)
	rt.Metrics.RecordPipeline(outcome(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	return &final.Report, nil
}

func run(ctx context.Context, rt *Runtime, image []byte) (Finalized, error) {
	in, err := encodeFrame(image)
	if err != nil {
		return Finalized{}, err
	}

	analyzed, err := Classify(ctx, rt, in)
	if err != nil {
		return Finalized{}, err
	}

	searched := Search(ctx, rt, analyzed)

	return Finalize(ctx, rt, searched)
}

func encodeFrame(image []byte) (Input, error) {
	img, err := imaging.Decode(image)
	if err != nil {
		return Input{}, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	data, err := imaging.EncodeJPEG(img, JPEGQuality)
	if err != nil {
		return Input{}, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	return Input{JPEG: data}, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidImage):
		return "invalid_image"
	case errors.Is(err, ErrClassification):
		return "classification_error"
	case errors.Is(err, ErrConsolidation):
		return "consolidation_error"
	default:
		return "error"
	}
}
