// Package prompts holds the fixed instruction text sent to the language
// models at each stage of the label pipeline and the chat engine.
package prompts

// Stage identifies a model call that carries fixed instructions.
type Stage string

const (
	StageClassify Stage = "classify"
	StageExtract  Stage = "extract"
	StageCondense Stage = "condense"
	StageAnswer   Stage = "answer"
)
