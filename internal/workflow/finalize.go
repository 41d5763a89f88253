package workflow

import (
	"context"
	"fmt"
	"strings"
)

const (
	maxReportIngredients   = 10
	maxAnalysisIngredients = 5
	redFlagPenalty         = 2
	minHealthScore         = 1
	defaultNovaCategory    = 4
)

// Warning messages, in the order they are emitted.
const (
	WarnUltraProcessed = "ultra-processed product — occasional consumption recommended"
	WarnHighProcessing = "high processing level — review ingredient list"
	WarnSugar          = "high sugar or sweetener content"
)

var (
	baseScores = map[int]int{1: 10, 2: 8, 3: 6}

	redFlagTerms = []string{"conservante", "edulcorante artificial", "colorante", "saborizante artificial"}
	sugarTerms   = []string{"azúcar", "jarabe", "sirope", "edulcorante"}
)

const defaultBaseScore = 3

// Finalize consolidates the accumulated state into a validated report.
func Finalize(ctx context.Context, rt *Runtime, s Searched) (Finalized, error) {
	report, err := Consolidate(s.Analysis, s.Alternative)
	if err != nil {
		return Finalized{}, err
	}

	rt.Logger.InfoContext(
		ctx, "finalize stage complete",
		"nova", report.NovaCategory,
		"score", report.HealthScore,
		"warnings", len(report.Warnings),
	)

	return Finalized{Searched: s, Report: report}, nil
}

// Consolidate derives the report from a classification and an alternative
// name. It has no side effects. A record without a tier is treated as the
// worst case: tier 4 and ultra-processed.
func Consolidate(rec Record, alternative string) (Report, error) {
	if rec.NovaCategory == 0 {
		rec.NovaCategory = defaultNovaCategory
		rec.UltraProcessed = true
	}

	ingredientText := strings.ToLower(strings.Join(rec.MainIngredients, " "))

	report := Report{
		ProductName:      rec.ProductName,
		NovaCategory:     rec.NovaCategory,
		UltraProcessed:   rec.UltraProcessed,
		CriticalAnalysis: criticalAnalysis(rec),
		HealthScore:      HealthScore(rec.NovaCategory, ingredientText),
		MainIngredients:  headIngredients(rec.MainIngredients, maxReportIngredients),
		Warnings:         Warnings(rec.NovaCategory, rec.UltraProcessed, ingredientText),
	}

	if rec.UltraProcessed {
		if alt := strings.TrimSpace(alternative); alt != "" {
			report.HealthyAlternative = &alt
		}
	}

	if err := validate.Struct(report); err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrConsolidation, err)
	}

	return report, nil
}

// HealthScore maps a tier to its base score and applies the red flag
// penalty when ingredientText (lowercase) names an artificial additive.
func HealthScore(tier int, ingredientText string) int {
	score, ok := baseScores[tier]
	if !ok {
		score = defaultBaseScore
	}
	if containsAny(ingredientText, redFlagTerms) {
		score = max(minHealthScore, score-redFlagPenalty)
	}
	return score
}

// Warnings returns the triggered messages in fixed order, or nil when none fired.
func Warnings(tier int, ultraProcessed bool, ingredientText string) []string {
	var warnings []string
	if ultraProcessed {
		warnings = append(warnings, WarnUltraProcessed)
	}
	if tier == 4 {
		warnings = append(warnings, WarnHighProcessing)
	}
	if containsAny(ingredientText, sugarTerms) {
		warnings = append(warnings, WarnSugar)
	}
	return warnings
}

func criticalAnalysis(rec Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product classified as NOVA %d. ", rec.NovaCategory)

	if rec.Reasoning != "" {
		b.WriteString(rec.Reasoning)
		b.WriteString(" ")
	}

	if rec.UltraProcessed {
		b.WriteString("This product is considered ultra-processed due to its high level of processing and the likely presence of artificial additives. ")
	} else {
		b.WriteString("This product has a low or moderate level of processing. ")
	}

	if len(rec.MainIngredients) > 0 {
		fmt.Fprintf(&b, "Main ingredients: %s.", strings.Join(headIngredients(rec.MainIngredients, maxAnalysisIngredients), ", "))
	}

	return strings.TrimSpace(b.String())
}

func headIngredients(ingredients []string, n int) []string {
	out := make([]string, 0, min(len(ingredients), n))
	return append(out, ingredients[:min(len(ingredients), n)]...)
}
