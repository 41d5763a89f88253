package workflow_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/JaimeStill/nourish/internal/telemetry"
	"github.com/JaimeStill/nourish/internal/workflow"
	"github.com/JaimeStill/nourish/pkg/tavily"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExecuteWholeFood(t *testing.T) {
	model := &fakeModel{vision: `{"producto":"Manzana","categoria_nova":1,"es_ultraprocesado":false,"ingredientes_principales":["manzana"],"razonamiento":"Fruta fresca."}`}
	searcher := &fakeSearcher{}
	rt := newRuntime(model, searcher)

	report, err := workflow.Execute(t.Context(), rt, labelImage(t))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if report.HealthScore != 10 || report.HealthyAlternative != nil || report.Warnings != nil {
		t.Errorf("report = %+v", report)
	}
	if len(searcher.queries) != 0 {
		t.Error("search must be skipped for a NOVA 1 product")
	}
}

func TestExecuteUltraProcessed(t *testing.T) {
	model := &fakeModel{
		vision: "```json\n" + `{"producto":"Refresco cola","categoria_nova":4,"es_ultraprocesado":true,"ingredientes_principales":["agua carbonatada","azúcar","conservante"]}` + "\n```",
		answer: "Yogur natural",
	}
	searcher := &fakeSearcher{results: [][]tavily.Result{{
		{Title: "Receta de agua de jamaica", URL: "https://a.example", Content: "receta casera"},
	}}}
	metrics := telemetry.New()
	rt := newRuntime(model, searcher)
	rt.Metrics = metrics

	report, err := workflow.Execute(t.Context(), rt, labelImage(t))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if report.ProductName != "Refresco cola" || report.NovaCategory != 4 {
		t.Errorf("classification fields = %q %d", report.ProductName, report.NovaCategory)
	}
	if report.HealthScore != 1 {
		t.Errorf("HealthScore = %d, want 1", report.HealthScore)
	}
	if report.HealthyAlternative == nil || *report.HealthyAlternative != "Yogur natural" {
		t.Errorf("HealthyAlternative = %v", report.HealthyAlternative)
	}
	if len(report.Warnings) != 3 {
		t.Errorf("Warnings = %v", report.Warnings)
	}
	if got := testutil.ToFloat64(metrics.PipelineRuns.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok runs = %v, want 1", got)
	}
}

func TestExecuteTrustsClassifierFlag(t *testing.T) {
	model := &fakeModel{vision: `{"producto":"Aceite","categoria_nova":2,"es_ultraprocesado":true}`}
	rt := newRuntime(model, nil)

	report, err := workflow.Execute(t.Context(), rt, labelImage(t))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !report.UltraProcessed || report.NovaCategory != 2 {
		t.Errorf("report = tier %d ultra %v, want 2 true", report.NovaCategory, report.UltraProcessed)
	}
}

func TestExecuteSearchUnavailable(t *testing.T) {
	model := &fakeModel{vision: `{"producto":"Galletas","categoria_nova":4,"es_ultraprocesado":true,"ingredientes_principales":["harina"]}`}

	for name, searcher := range map[string]*fakeSearcher{
		"missing credential": nil,
		"search error":       {err: errors.New("connection refused")},
	} {
		t.Run(name, func(t *testing.T) {
			rt := newRuntime(model, searcher)
			rt.Metrics = telemetry.New()

			report, err := workflow.Execute(t.Context(), rt, labelImage(t))
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if report.HealthyAlternative != nil {
				t.Errorf("HealthyAlternative = %q, want nil", *report.HealthyAlternative)
			}
			if report.ProductName != "Galletas" || report.HealthScore != 3 {
				t.Errorf("report = %+v", report)
			}
			if got := testutil.ToFloat64(rt.Metrics.SearchDegradations.WithLabelValues("search")); got != 1 {
				t.Errorf("degradations = %v, want 1", got)
			}
		})
	}
}

func TestExecuteLenientClassifierValues(t *testing.T) {
	tests := []struct {
		name      string
		vision    string
		wantTier  int
		wantUltra bool
	}{
		{"float tier", `{"producto":"X","categoria_nova":4.0,"es_ultraprocesado":true}`, 4, true},
		{"string tier", `{"producto":"X","categoria_nova":"2","es_ultraprocesado":false}`, 2, false},
		{"string flag", `{"producto":"X","categoria_nova":3,"es_ultraprocesado":"true"}`, 3, true},
		{"numeric flag", `{"producto":"X","categoria_nova":1,"es_ultraprocesado":0}`, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := newRuntime(&fakeModel{vision: tt.vision, answer: "Yogur natural"}, &fakeSearcher{})

			report, err := workflow.Execute(t.Context(), rt, labelImage(t))
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if report.NovaCategory != tt.wantTier || report.UltraProcessed != tt.wantUltra {
				t.Errorf("report = tier %d ultra %v, want %d %v", report.NovaCategory, report.UltraProcessed, tt.wantTier, tt.wantUltra)
			}
		})
	}
}

func TestExecuteClassificationErrors(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
	}{
		{"malformed json", &fakeModel{vision: "la etiqueta dice galletas"}},
		{"missing product", &fakeModel{vision: `{"categoria_nova":3,"es_ultraprocesado":true}`}},
		{"tier out of range", &fakeModel{vision: `{"producto":"X","categoria_nova":5,"es_ultraprocesado":true}`}},
		{"fractional tier", &fakeModel{vision: `{"producto":"X","categoria_nova":3.5,"es_ultraprocesado":true}`}},
		{"unreadable flag", &fakeModel{vision: `{"producto":"X","categoria_nova":3,"es_ultraprocesado":"quizás"}`}},
		{"missing flag", &fakeModel{vision: `{"producto":"X","categoria_nova":3}`}},
		{"upstream error", &fakeModel{visionErr: errors.New("503")}},
		{"missing credential", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &fakeSearcher{}
			rt := newRuntime(tt.model, searcher)

			_, err := workflow.Execute(t.Context(), rt, labelImage(t))
			if !errors.Is(err, workflow.ErrClassification) {
				t.Fatalf("Execute() error = %v, want ErrClassification", err)
			}
			if workflow.MapHTTPStatus(err) != http.StatusInternalServerError {
				t.Errorf("status = %d, want 500", workflow.MapHTTPStatus(err))
			}
			if len(searcher.queries) != 0 {
				t.Error("pipeline must stop before search")
			}
			if tt.model != nil && tt.model.generateCalls != 0 {
				t.Error("pipeline must stop before extraction")
			}
		})
	}
}

func TestExecuteInvalidImage(t *testing.T) {
	model := &fakeModel{}
	rt := newRuntime(model, nil)

	_, err := workflow.Execute(t.Context(), rt, []byte("not an image"))
	if !errors.Is(err, workflow.ErrInvalidImage) {
		t.Fatalf("Execute() error = %v, want ErrInvalidImage", err)
	}
	if workflow.MapHTTPStatus(err) != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", workflow.MapHTTPStatus(err))
	}
	if model.visionCalls != 0 {
		t.Error("classifier must not be called for undecodable input")
	}
}

func TestExecuteDeadline(t *testing.T) {
	rt := newRuntime(nil, nil)
	rt.Model = func() (workflow.Model, error) { return blockingModel{}, nil }
	rt.Timeout = 20 * time.Millisecond

	_, err := workflow.Execute(t.Context(), rt, labelImage(t))
	if !errors.Is(err, workflow.ErrClassification) {
		t.Fatalf("Execute() error = %v, want ErrClassification", err)
	}
}
