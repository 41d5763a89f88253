package prompts

import "errors"

var ErrInvalidStage = errors.New("stage must be classify, extract, condense, or answer")
