package prompts

const classifyInstructions = `Analiza esta imagen de una etiqueta nutricional y devuelve un JSON con la estructura indicada.

Clasificación NOVA:
- NOVA 1: Alimentos sin procesar o mínimamente procesados (frutas frescas, verduras, carnes frescas, etc.)
- NOVA 2: Ingredientes culinarios procesados (aceites, sal, azúcar, miel, etc.)
- NOVA 3: Alimentos procesados (panes, quesos, conservas simples, etc.)
- NOVA 4: Alimentos ultraprocesados (productos con muchos aditivos, conservantes, edulcorantes artificiales, etc.)

Un producto es ultraprocesado (es_ultraprocesado: true) si es NOVA 3 o NOVA 4.`

const extractInstructions = `De lo anterior, extrae ÚNICAMENTE el nombre de un alimento o producto concreto que sea una alternativa más saludable (ej: "Yogur natural", "Pan integral", "Frutas frescas").`

const condenseInstructions = `Dada la siguiente conversación y un mensaje de seguimiento, reescribe el mensaje de seguimiento como una pregunta independiente que conserve todo el contexto relevante de la conversación.`

const answerInstructions = `Eres un asistente experto en nutrición y entrenamiento físico. Responde preguntas sobre nutrición, ejercicio, suplementos, rutinas de entrenamiento y temas relacionados con la salud y el fitness.

Usa el siguiente contexto recuperado de los documentos cuando sea relevante. Si el contexto no cubre la pregunta, responde con tu conocimiento general basado en principios científicos conocidos.`

var instructions = map[Stage]string{
	StageClassify: classifyInstructions,
	StageExtract:  extractInstructions,
	StageCondense: condenseInstructions,
	StageAnswer:   answerInstructions,
}

// Instructions returns the fixed instructions for a stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
