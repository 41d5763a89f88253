package openapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/nourish/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")
	spec.AddServer("http://localhost:8002")
	spec.SetDescription("A test API")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Test API" || spec.Info.Version != "1.0.0" {
		t.Errorf("info: got %s %s", spec.Info.Title, spec.Info.Version)
	}
	if spec.Info.Description != "A test API" {
		t.Errorf("description: got %s", spec.Info.Description)
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "http://localhost:8002" {
		t.Errorf("servers: got %+v", spec.Servers)
	}
	if spec.Components == nil || spec.Paths == nil {
		t.Fatal("components and paths should not be nil")
	}
}

func TestNewComponentsDefaults(t *testing.T) {
	c := openapi.NewComponents()

	for _, name := range []string{"Error", "PageRequest"} {
		if _, ok := c.Schemas[name]; !ok {
			t.Errorf("missing default schema: %s", name)
		}
	}

	for _, name := range []string{"BadRequest", "NotFound", "Conflict", "PayloadTooLarge", "InternalError"} {
		resp, ok := c.Responses[name]
		if !ok {
			t.Errorf("missing default response: %s", name)
			continue
		}
		if ref := resp.Content["application/json"].Schema.Ref; ref != "#/components/schemas/Error" {
			t.Errorf("%s schema ref: got %s", name, ref)
		}
	}
}

func TestAddSchemas(t *testing.T) {
	c := openapi.NewComponents()
	c.AddSchemas(map[string]*openapi.Schema{
		"Detection": {Type: "object"},
	})

	if _, ok := c.Schemas["Detection"]; !ok {
		t.Error("Detection schema not added")
	}
	if _, ok := c.Schemas["PageRequest"]; !ok {
		t.Error("default PageRequest schema should still exist")
	}
}

func TestRefs(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"schema ref", openapi.SchemaRef("Report").Ref, "#/components/schemas/Report"},
		{"response ref", openapi.ResponseRef("NotFound").Ref, "#/components/responses/NotFound"},
		{"json body", openapi.RequestBodyJSON("ChatRequest", true).Content["application/json"].Schema.Ref, "#/components/schemas/ChatRequest"},
		{"json response", openapi.ResponseJSON("ok", "ChatResponse").Content["application/json"].Schema.Ref, "#/components/schemas/ChatResponse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestRequestBodyMultipart(t *testing.T) {
	rb := openapi.RequestBodyMultipart(map[string]*openapi.Schema{
		"file":     openapi.FileField("Label image"),
		"category": {Type: "string"},
	}, "file")

	if !rb.Required {
		t.Error("multipart body should be required")
	}
	mt, ok := rb.Content["multipart/form-data"]
	if !ok {
		t.Fatal("missing multipart/form-data content type")
	}
	if len(mt.Schema.Required) != 1 || mt.Schema.Required[0] != "file" {
		t.Errorf("required: got %v", mt.Schema.Required)
	}
	if f := mt.Schema.Properties["file"]; f.Format != "binary" {
		t.Errorf("file format: got %s", f.Format)
	}
}

func TestResponseBinary(t *testing.T) {
	resp := openapi.ResponseBinary("Annotated image", "image/jpeg")

	mt, ok := resp.Content["image/jpeg"]
	if !ok {
		t.Fatal("missing image/jpeg content type")
	}
	if mt.Schema.Format != "binary" {
		t.Errorf("format: got %s", mt.Schema.Format)
	}
}

func TestParams(t *testing.T) {
	p := openapi.PathParam("id", "Correction ID")
	if p.In != "path" || !p.Required || p.Schema.Format != "uuid" {
		t.Errorf("path param: got %+v", p)
	}

	q := openapi.QueryParam("search", "string", "Search query", false)
	if q.In != "query" || q.Required || q.Schema.Type != "string" {
		t.Errorf("query param: got %+v", q)
	}
}

func TestServeSpec(t *testing.T) {
	data, err := openapi.MarshalJSON(openapi.NewSpec("Test", "1.0.0"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content-type: got %s", ct)
	}

	body, _ := io.ReadAll(res.Body)
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("body unmarshal failed: %v", err)
	}
}

func TestConfigFinalize(t *testing.T) {
	cfg := openapi.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.Title != "Nourish API" {
		t.Errorf("title: got %s, want Nourish API", cfg.Title)
	}

	t.Setenv("TEST_TITLE", "Custom API")
	env := &openapi.ConfigEnv{Title: "TEST_TITLE"}

	custom := openapi.Config{}
	if err := custom.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if custom.Title != "Custom API" {
		t.Errorf("title: got %s, want Custom API", custom.Title)
	}

	base := openapi.Config{Title: "Base"}
	base.Merge(&openapi.Config{Title: "Overlay"})
	if base.Title != "Overlay" {
		t.Errorf("merged title: got %s, want Overlay", base.Title)
	}
}
