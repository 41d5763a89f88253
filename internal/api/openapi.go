package api

import (
	"github.com/JaimeStill/nourish/internal/config"
	"github.com/JaimeStill/nourish/internal/detection"
	"github.com/JaimeStill/nourish/pkg/openapi"
)

// NewSpec describes every route the API module registers.
func NewSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	if cfg.API.BasePath != "" {
		spec.AddServer(cfg.API.BasePath)
	}

	spec.Components.AddSchemas(schemas())

	for path, item := range labelPaths() {
		spec.Paths[path] = item
	}
	for path, item := range detectionPaths() {
		spec.Paths[path] = item
	}
	for path, item := range correctionPaths() {
		spec.Paths[path] = item
	}
	for path, item := range chatPaths() {
		spec.Paths[path] = item
	}

	return spec
}

func errorResponses(codes ...int) map[int]*openapi.Response {
	names := map[int]string{
		400: "BadRequest",
		404: "NotFound",
		409: "Conflict",
		413: "PayloadTooLarge",
		500: "InternalError",
	}

	responses := make(map[int]*openapi.Response, len(codes)+1)
	for _, code := range codes {
		responses[code] = openapi.ResponseRef(names[code])
	}
	return responses
}

func withOK(responses map[int]*openapi.Response, ok *openapi.Response) map[int]*openapi.Response {
	responses[200] = ok
	return responses
}

func labelPaths() map[string]*openapi.PathItem {
	return map[string]*openapi.PathItem{
		"/analyze-label": {
			Post: &openapi.Operation{
				Summary:     "Analyze a nutrition label",
				Description: "Classifies the product on a label photo and proposes a healthier alternative.",
				Tags:        []string{"labels"},
				RequestBody: openapi.RequestBodyMultipart(map[string]*openapi.Schema{
					"file": openapi.FileField("Label photo"),
				}, "file"),
				Responses: withOK(errorResponses(400, 413, 500), openapi.ResponseJSON("Analysis report", "Report")),
			},
		},
		"/health": {
			Get: &openapi.Operation{
				Summary:   "Label pipeline credential status",
				Tags:      []string{"labels"},
				Responses: withOK(errorResponses(), openapi.ResponseJSON("Health", "Health")),
			},
		},
	}
}

func detectionParams() []*openapi.Parameter {
	return []*openapi.Parameter{
		openapi.QueryParam("category", "string", "Meal category filter", false),
		openapi.QueryParam("ingredients_prompt", "string", "Comma-separated ingredient prompts", false),
		openapi.QueryParam("box_threshold", "number", "Detector box threshold", false),
		openapi.QueryParam("text_threshold", "number", "Detector text threshold", false),
		openapi.QueryParam("include_boxes", "boolean", "Include bounding boxes (default true)", false),
	}
}

func detectionPaths() map[string]*openapi.PathItem {
	upload := openapi.RequestBodyMultipart(map[string]*openapi.Schema{
		"file": openapi.FileField("Meal photo"),
	}, "file")

	return map[string]*openapi.PathItem{
		"/detect": {
			Post: &openapi.Operation{
				Summary:     "Detect ingredients",
				Tags:        []string{"detection"},
				Parameters:  detectionParams(),
				RequestBody: upload,
				Responses:   withOK(errorResponses(400, 413, 500), openapi.ResponseJSON("Detections", "Detections")),
			},
		},
		"/detect/image": {
			Post: &openapi.Operation{
				Summary:     "Detect ingredients and draw boxes",
				Tags:        []string{"detection"},
				Parameters:  detectionParams(),
				RequestBody: upload,
				Responses:   withOK(errorResponses(400, 413, 500), openapi.ResponseBinary("Annotated image", "image/jpeg")),
			},
		},
		"/detect/labels": {
			Get: &openapi.Operation{
				Summary:   "Ingredient vocabulary and meal categories",
				Tags:      []string{"detection"},
				Responses: withOK(errorResponses(), openapi.ResponseJSON("Catalog", "Catalog")),
			},
		},
	}
}

func correctionPaths() map[string]*openapi.PathItem {
	return map[string]*openapi.PathItem{
		"/corrections": {
			Post: &openapi.Operation{
				Summary: "Save a human correction",
				Tags:    []string{"corrections"},
				RequestBody: openapi.RequestBodyMultipart(map[string]*openapi.Schema{
					"file":                  openapi.FileField("Meal photo"),
					"detected_ingredients":  {Type: "string", Description: "JSON array of detected ingredients"},
					"corrected_ingredients": {Type: "string", Description: "JSON array of corrected ingredients"},
					"consent":               {Type: "string", Description: "Must be \"true\""},
				}, "file", "detected_ingredients", "corrected_ingredients", "consent"),
				Responses: withOK(errorResponses(400, 413, 500), openapi.ResponseJSON("Saved", "Saved")),
			},
			Get: &openapi.Operation{
				Summary: "List corrections",
				Tags:    []string{"corrections"},
				Parameters: []*openapi.Parameter{
					openapi.QueryParam("page", "integer", "Page number", false),
					openapi.QueryParam("page_size", "integer", "Results per page", false),
					openapi.QueryParam("search", "string", "Search labels and image path", false),
					openapi.QueryParam("sort", "string", "Sort fields", false),
					openapi.QueryParam("label", "string", "Corrected label filter", false),
					openapi.QueryParam("consent", "boolean", "Consent filter", false),
				},
				Responses: withOK(errorResponses(400, 404, 500), openapi.ResponseJSON("Corrections page", "CorrectionPage")),
			},
		},
		"/corrections/{id}": {
			Get: &openapi.Operation{
				Summary:    "Find a correction",
				Tags:       []string{"corrections"},
				Parameters: []*openapi.Parameter{openapi.PathParam("id", "Image ID")},
				Responses:  withOK(errorResponses(400, 404, 500), openapi.ResponseJSON("Correction", "Correction")),
			},
		},
		"/corrections/{id}/image": {
			Get: &openapi.Operation{
				Summary:    "Download a correction image",
				Tags:       []string{"corrections"},
				Parameters: []*openapi.Parameter{openapi.PathParam("id", "Image ID")},
				Responses:  withOK(errorResponses(400, 404, 500), openapi.ResponseBinary("Stored image", "application/octet-stream")),
			},
		},
	}
}

func chatPaths() map[string]*openapi.PathItem {
	return map[string]*openapi.PathItem{
		"/chat": {
			Post: &openapi.Operation{
				Summary:     "Ask the nutrition assistant",
				Tags:        []string{"chat"},
				RequestBody: openapi.RequestBodyJSON("ChatRequest", true),
				Responses:   withOK(errorResponses(400, 500), openapi.ResponseJSON("Answer", "ChatResponse")),
			},
		},
		"/chat/health": {
			Get: &openapi.Operation{
				Summary:   "Chat liveness",
				Tags:      []string{"chat"},
				Responses: withOK(errorResponses(), openapi.ResponseJSON("Status", "Status")),
			},
		},
	}
}

func schemas() map[string]*openapi.Schema {
	nullableString := &openapi.Schema{Type: "string", Description: "Null when unavailable"}
	stringList := &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}
	box := &openapi.Schema{
		Type:        "array",
		Description: "[x0, y0, x1, y1] in pixels",
		Items:       &openapi.Schema{Type: "number"},
	}

	categories := make([]any, 0, len(detection.Categories()))
	for _, c := range detection.Categories() {
		categories = append(categories, c)
	}

	return map[string]*openapi.Schema{
		"Report": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"producto":                 {Type: "string"},
				"categoria_nova":           {Type: "integer", Enum: []any{1, 2, 3, 4}},
				"es_ultraprocesado":        {Type: "boolean"},
				"analisis_critico":         {Type: "string"},
				"alternativa_saludable":    nullableString,
				"link_alternativa":         nullableString,
				"score_salud":              {Type: "integer", Description: "1 to 10"},
				"ingredientes_principales": stringList,
				"advertencias":             stringList,
			},
		},
		"Health": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"status":  {Type: "string", Enum: []any{"ok", "warning", "error"}},
				"details": {Type: "object"},
			},
		},
		"Detection": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"label": {Type: "string"},
				"score": {Type: "number"},
				"box":   box,
			},
		},
		"Detections": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"ingredients": {Type: "array", Items: openapi.SchemaRef("Detection")},
			},
		},
		"Catalog": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"ingredients": stringList,
				"categories":  {Type: "object", Description: "Category name to ingredient labels"},
				"labels_es":   {Type: "object", Description: "Ingredient label to Spanish name"},
			},
		},
		"Category": {Type: "string", Enum: categories},
		"Saved": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"ok":       {Type: "boolean"},
				"image_id": {Type: "string", Format: "uuid"},
				"message":  {Type: "string"},
			},
		},
		"Correction": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"image_id":     {Type: "string", Format: "uuid"},
				"image_path":   {Type: "string"},
				"storage_key":  {Type: "string"},
				"content_type": {Type: "string"},
				"detected":     {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"corrected":    {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"consent":      {Type: "boolean"},
				"created_at":   {Type: "string", Format: "date-time"},
			},
		},
		"CorrectionPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Correction")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"ChatMessage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"role":    {Type: "string", Enum: []any{"user", "assistant"}},
				"content": {Type: "string"},
			},
		},
		"ChatRequest": {
			Type:     "object",
			Required: []string{"message"},
			Properties: map[string]*openapi.Schema{
				"message":      {Type: "string"},
				"chat_history": {Type: "array", Items: openapi.SchemaRef("ChatMessage")},
			},
		},
		"ChatResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"response": {Type: "string"},
			},
		},
		"Status": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"status": {Type: "string"},
			},
		},
	}
}
