package prompts

import (
	"fmt"
	"strings"
)

// leadingBody marks stages whose instructions refer back to the body.
var leadingBody = map[Stage]bool{
	StageExtract: true,
}

// Compose joins the stage instructions, the optional body and the stage
// output spec into one prompt. The spec always comes last.
func Compose(stage Stage, body string) (string, error) {
	inst, err := Instructions(stage)
	if err != nil {
		return "", err
	}
	spec, err := Spec(stage)
	if err != nil {
		return "", err
	}

	var parts []string
	switch body = strings.TrimSpace(body); {
	case body == "":
		parts = []string{inst}
	case leadingBody[stage]:
		parts = []string{body, inst}
	default:
		parts = []string{inst, body}
	}
	parts = append(parts, spec)

	return strings.Join(parts, "\n\n"), nil
}

// Classify returns the prompt sent with a label image.
func Classify() string {
	p, _ := Compose(StageClassify, "")
	return p
}

// Extract returns the prompt asking for one alternative food name from a
// listing of search candidates.
func Extract(product, listing string) string {
	body := fmt.Sprintf("Producto analizado: %s.\n\nResultados de búsqueda de alternativas:\n%s", product, listing)
	p, _ := Compose(StageExtract, body)
	return p
}

// Condense returns the prompt that rewrites a follow-up message into a
// standalone question. history is already rendered as "role: content" lines.
func Condense(history, message string) string {
	body := fmt.Sprintf("Conversación:\n%s\n\nMensaje de seguimiento: %s", history, message)
	p, _ := Compose(StageCondense, body)
	return p
}

// Answer returns the system message that carries retrieved context.
func Answer(context string) string {
	body := fmt.Sprintf("Contexto:\n%s", context)
	p, _ := Compose(StageAnswer, body)
	return p
}
