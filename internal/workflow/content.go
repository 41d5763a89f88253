package workflow

import (
	"slices"
	"strings"
)

// Content is the kind of page a search hit points at.
type Content int

const (
	Unknown Content = iota
	Explanatory
	FoodOrRecipe
)

func (c Content) String() string {
	switch c {
	case Explanatory:
		return "explanatory"
	case FoodOrRecipe:
		return "food_or_recipe"
	default:
		return "unknown"
	}
}

// Keyword tables. Their membership is the filtering contract; edit with tests.
var (
	novaScaleTerms   = []string{"clasificación nova", "clasificacion nova", "nova scale", "escala nova"}
	openFoodFacts    = "open food facts"
	openFoodTerms    = []string{"nova", "clasificación", "clasificacion"}
	whatIsNovaTerms  = []string{"qué es nova", "que es nova", "qué es la nova"}
	encyclopediaHost = "wikipedia"
	guideTerms       = []string{"guía ", "guia "}
	guideTopics      = []string{"nova", "ultraprocesado"}

	foodHints = []string{
		"receta", "recetas", "comprar", "producto", "marca", "ingredientes",
		"cómo hacer", "como hacer", "alternativa a", "sustituto", "sustituir",
		"en lugar de", "opción saludable", "versión casera", "versión natural",
	}
)

const (
	explanatorySnippet = 300
	hintSnippet        = 200
)

// ClassifyContent tags a search hit. Explanatory pages about the NOVA scale itself
// take precedence over food vocabulary.
func ClassifyContent(title, url, snippet string) Content {
	if isExplanatory(title, url, snippet) {
		return Explanatory
	}
	if looksLikeFood(title, snippet) {
		return FoodOrRecipe
	}
	return Unknown
}

func isExplanatory(title, url, snippet string) bool {
	t := strings.ToLower(title + " " + url + " " + truncate(snippet, explanatorySnippet))

	switch {
	case containsAny(t, novaScaleTerms):
		return true
	case strings.Contains(t, openFoodFacts) && containsAny(t, openFoodTerms):
		return true
	case containsAny(t, whatIsNovaTerms):
		return true
	case strings.Contains(url, encyclopediaHost):
		return true
	case containsAny(t, guideTerms) && containsAny(t, guideTopics):
		return true
	}
	return false
}

func looksLikeFood(title, snippet string) bool {
	t := strings.ToLower(title + " " + truncate(snippet, hintSnippet))
	return containsAny(t, foodHints)
}

func containsAny(s string, terms []string) bool {
	return slices.ContainsFunc(terms, func(term string) bool {
		return strings.Contains(s, term)
	})
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
