package workflow

// Record is the classifier's reading of a label.
type Record struct {
	ProductName     string   `json:"producto"`
	NovaCategory    int      `json:"categoria_nova"`
	UltraProcessed  bool     `json:"es_ultraprocesado"`
	MainIngredients []string `json:"ingredientes_principales,omitempty"`
	Reasoning       string   `json:"razonamiento,omitempty"`
}

// Candidate is one filtered search hit.
type Candidate struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Report is the response body of a label analysis.
type Report struct {
	ProductName        string   `json:"producto"`
	NovaCategory       int      `json:"categoria_nova" validate:"min=1,max=4"`
	UltraProcessed     bool     `json:"es_ultraprocesado"`
	CriticalAnalysis   string   `json:"analisis_critico" validate:"required"`
	HealthyAlternative *string  `json:"alternativa_saludable"`
	AlternativeLink    *string  `json:"link_alternativa"`
	HealthScore        int      `json:"score_salud" validate:"min=1,max=10"`
	MainIngredients    []string `json:"ingredientes_principales" validate:"required,max=10"`
	Warnings           []string `json:"advertencias"`
}

// Input is the encoded frame a run starts from.
type Input struct {
	JPEG []byte
}

// Analyzed is the pipeline state after classification.
type Analyzed struct {
	Input
	Analysis Record
}

// Searched is the pipeline state after the optional alternative search.
type Searched struct {
	Analyzed
	Alternative string
}

// Finalized is the terminal pipeline state.
type Finalized struct {
	Searched
	Report Report
}
