package workflow

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JaimeStill/nourish/internal/prompts"
	"github.com/JaimeStill/nourish/pkg/formatting"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type classifyResponse struct {
	Product        *string   `json:"producto" validate:"required"`
	NovaCategory   *novaTier `json:"categoria_nova" validate:"required,min=1,max=4"`
	UltraProcessed *flag     `json:"es_ultraprocesado" validate:"required"`
	Ingredients    []string  `json:"ingredientes_principales"`
	Reasoning      *string   `json:"razonamiento"`
}

// novaTier accepts 4, 4.0 and "4".
type novaTier int

func (n *novaTier) UnmarshalJSON(data []byte) error {
	raw := unquote(data)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return fmt.Errorf("categoria_nova is not an integer: %s", data)
	}
	*n = novaTier(f)
	return nil
}

// flag accepts JSON booleans and their common string and 0/1 spellings.
type flag bool

func (b *flag) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(unquote(data)) {
	case "true", "1", "yes", "y", "on", "t":
		*b = true
	case "false", "0", "no", "n", "off", "f":
		*b = false
	default:
		return fmt.Errorf("es_ultraprocesado is not a boolean: %s", data)
	}
	return nil
}

func unquote(data []byte) string {
	raw := string(data)
	if s, err := strconv.Unquote(raw); err == nil {
		raw = s
	}
	return strings.TrimSpace(raw)
}

// Classify sends the frame to the vision model and parses its reading.
// The ultra-processed flag is taken as returned, never derived from the tier.
func Classify(ctx context.Context, rt *Runtime, in Input) (Analyzed, error) {
	model, err := rt.Model()
	if err != nil {
		return Analyzed{}, fmt.Errorf("%w: %w", ErrClassification, err)
	}

	text, err := model.Vision(ctx, prompts.Classify(), in.JPEG)
	if err != nil {
		return Analyzed{}, fmt.Errorf("%w: vision call: %w", ErrClassification, err)
	}

	parsed, err := formatting.Parse[classifyResponse](text)
	if err != nil {
		return Analyzed{}, fmt.Errorf("%w: %w", ErrClassification, err)
	}

	if err := validate.Struct(parsed); err != nil {
		return Analyzed{}, fmt.Errorf("%w: invalid response: %w", ErrClassification, err)
	}

	rec := Record{
		ProductName:     *parsed.Product,
		NovaCategory:    int(*parsed.NovaCategory),
		UltraProcessed:  bool(*parsed.UltraProcessed),
		MainIngredients: parsed.Ingredients,
	}
	if parsed.Reasoning != nil {
		rec.Reasoning = *parsed.Reasoning
	}

	rt.Logger.InfoContext(
		ctx, "classify stage complete",
		"product", rec.ProductName,
		"nova", rec.NovaCategory,
		"ultra_processed", rec.UltraProcessed,
	)

	return Analyzed{Input: in, Analysis: rec}, nil
}
