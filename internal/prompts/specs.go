package prompts

const classifySpec = `{
  "producto": "nombre del producto",
  "categoria_nova": 1-4,
  "es_ultraprocesado": true/false,
  "ingredientes_principales": ["ingrediente1", "ingrediente2", ...],
  "razonamiento": "breve explicación de por qué es NOVA X"
}

Responde SOLO con el JSON, sin texto adicional.`

const extractSpec = `Responde en una sola línea, solo el nombre del alimento, sin enlaces ni explicaciones.`

const condenseSpec = `Responde solo con la pregunta reescrita, sin explicaciones.`

const answerSpec = `Responde en el idioma del usuario, de forma clara y precisa.`

var specs = map[Stage]string{
	StageClassify: classifySpec,
	StageExtract:  extractSpec,
	StageCondense: condenseSpec,
	StageAnswer:   answerSpec,
}

// Spec returns the output format constraints for a stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
