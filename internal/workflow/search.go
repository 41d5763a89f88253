package workflow

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/patrickmn/go-cache"

	"github.com/JaimeStill/nourish/internal/prompts"
)

const (
	maxCandidates   = 3
	descriptionLen  = 200
	listingLen      = 120
	maxNameLen      = 120
	fallbackNameLen = 80
)

func substituteQuery(product string) string {
	return fmt.Sprintf("alimento sustituto de %s opción más saludable natural", product)
}

func recipeQuery(product string) string {
	return fmt.Sprintf("receta casera o producto natural similar a %s menos procesado", product)
}

// Search runs the alternative finder for an ultra-processed product and
// passes every other product through with no alternative.
func Search(ctx context.Context, rt *Runtime, a Analyzed) Searched {
	if !a.Analysis.UltraProcessed {
		return Searched{Analyzed: a}
	}

	alt := FindAlternative(ctx, rt, a.Analysis.ProductName)

	rt.Logger.InfoContext(
		ctx, "search stage complete",
		"product", a.Analysis.ProductName,
		"alternative", alt,
	)

	return Searched{Analyzed: a, Alternative: alt}
}

// FindAlternative derives one healthier food name for product from web
// search results. Every failure degrades to "".
func FindAlternative(ctx context.Context, rt *Runtime, product string) string {
	key := memoKey(product)
	if key != "" && rt.Memo != nil {
		if v, ok := rt.Memo.Get(key); ok {
			rt.Metrics.RecordAlternativeCache(true)
			return v.(string)
		}
		rt.Metrics.RecordAlternativeCache(false)
	}

	candidates, err := gatherCandidates(ctx, rt, product)
	if err != nil {
		degrade(ctx, rt, "search", err)
		return ""
	}

	if len(candidates) == 0 {
		degrade(ctx, rt, "no_candidates", nil)
		return ""
	}

	name := extractName(ctx, rt, product, candidates)
	if name != "" && key != "" && rt.Memo != nil {
		rt.Memo.Set(key, name, cache.DefaultExpiration)
	}
	return name
}

// memoKey folds case and surrounding space. A blank product name is never memoized.
func memoKey(product string) string {
	return strings.ToLower(strings.TrimSpace(product))
}

func gatherCandidates(ctx context.Context, rt *Runtime, product string) ([]Candidate, error) {
	searcher, err := rt.Search()
	if err != nil {
		return nil, err
	}

	candidates, err := searchFiltered(ctx, searcher, substituteQuery(product))
	if err != nil {
		return nil, err
	}

	if len(candidates) < maxCandidates {
		extra, err := searchFiltered(ctx, searcher, recipeQuery(product))
		if err != nil {
			return nil, err
		}
		candidates = appendUnique(candidates, extra)
	}

	return rank(candidates), nil
}

func searchFiltered(ctx context.Context, s Searcher, query string) ([]Candidate, error) {
	results, err := s.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	var out []Candidate
	for _, r := range results {
		if r.URL == "" || r.Title == "" {
			continue
		}
		if ClassifyContent(r.Title, r.URL, r.Content) == Explanatory {
			continue
		}
		out = append(out, Candidate{
			Title:       r.Title,
			URL:         r.URL,
			Description: truncate(r.Content, descriptionLen),
		})
	}
	return out, nil
}

// appendUnique adds extra candidates with unseen URLs until maxCandidates.
func appendUnique(base, extra []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(base))
	for _, c := range base {
		seen[c.URL] = struct{}{}
	}

	for _, c := range extra {
		if len(base) >= maxCandidates {
			break
		}
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		base = append(base, c)
	}
	return base
}

// rank moves food or recipe hits ahead of the rest, keeping search order
// within each group, and keeps the top maxCandidates.
func rank(candidates []Candidate) []Candidate {
	score := func(c Candidate) int {
		if looksLikeFood(c.Title, c.Description) {
			return 1
		}
		return 0
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(score(b), score(a))
	})

	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}

func listing(candidates []Candidate) string {
	lines := make([]string, len(candidates))
	for i, c := range candidates {
		lines[i] = fmt.Sprintf("- %s. %s", c.Title, truncate(c.Description, listingLen))
	}
	return strings.Join(lines, "\n")
}

func extractName(ctx context.Context, rt *Runtime, product string, candidates []Candidate) string {
	model, err := rt.Model()
	if err != nil {
		degrade(ctx, rt, "extract", err)
		return fallbackName(candidates[0].Title)
	}

	answer, err := model.Generate(ctx, prompts.Extract(product, listing(candidates)))
	if err != nil {
		degrade(ctx, rt, "extract", err)
		return fallbackName(candidates[0].Title)
	}

	name := strings.Trim(strings.TrimSpace(answer), `"`)
	if name != "" && utf8.RuneCountInString(name) < maxNameLen {
		return name
	}
	return fallbackName(candidates[0].Title)
}

// fallbackName cuts a page title down to something that reads like a name.
func fallbackName(title string) string {
	name, _, _ := strings.Cut(title, "|")
	name, _, _ = strings.Cut(name, "-")
	return truncate(strings.TrimSpace(name), fallbackNameLen)
}

func degrade(ctx context.Context, rt *Runtime, reason string, err error) {
	rt.Metrics.RecordSearchDegradation(reason)
	if err != nil {
		rt.Logger.WarnContext(ctx, "alternative search degraded", "reason", reason, "error", err)
		return
	}
	rt.Logger.WarnContext(ctx, "alternative search degraded", "reason", reason)
}
