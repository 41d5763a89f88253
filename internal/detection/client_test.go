package detection_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/nourish/internal/detection"
)

func TestClientDetect(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"detections":[{"label":"rice","box":[1,2,3,4],"score":0.7}]}`))
	}))
	defer srv.Close()

	cfg := defaultConfig(t)
	cfg.Endpoint = srv.URL
	cfg.Token = "secret"

	c, err := detection.NewClient(cfg)
	if err != nil {
		t.Fatal(err)
	}

	raw, err := c.Detect(context.Background(), detection.Request{
		Image:         "aGVsbG8=",
		Labels:        []string{"rice"},
		BoxThreshold:  0.3,
		TextThreshold: 0.25,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(raw) != 1 || raw[0].Label != "rice" || len(raw[0].Box) != 4 {
		t.Errorf("raw = %+v", raw)
	}
	if got["model"] != detection.DefaultModelID {
		t.Errorf("model = %v", got["model"])
	}
	if got["image"] != "aGVsbG8=" || got["box_threshold"] != 0.3 {
		t.Errorf("request body = %v", got)
	}
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := defaultConfig(t)
	cfg.Endpoint = srv.URL

	c, err := detection.NewClient(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Detect(context.Background(), detection.Request{}); !errors.Is(err, detection.ErrDetector) {
		t.Errorf("err = %v, want ErrDetector", err)
	}

	cfg.Endpoint = ""
	if _, err := detection.NewClient(cfg); !errors.Is(err, detection.ErrMissingEndpoint) {
		t.Errorf("err = %v, want ErrMissingEndpoint", err)
	}
}

func TestConfigFinalize(t *testing.T) {
	env := &detection.Env{
		Endpoint:      "TEST_DETECTOR_ENDPOINT",
		ModelID:       "TEST_DETECTOR_MODEL",
		BoxThreshold:  "TEST_DETECTOR_BOX",
		TextThreshold: "TEST_DETECTOR_TEXT",
	}

	t.Run("defaults", func(t *testing.T) {
		var cfg detection.Config
		if err := cfg.Finalize(env); err != nil {
			t.Fatal(err)
		}
		if cfg.ModelID != detection.DefaultModelID || cfg.BoxThreshold != 0.30 || cfg.TextThreshold != 0.25 {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.MaxBoxArea != 0.45 || cfg.TimeoutDuration().Seconds() != 60 {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_DETECTOR_ENDPOINT", "http://dino:9000/detect")
		t.Setenv("TEST_DETECTOR_MODEL", "IDEA-Research/grounding-dino-base")
		t.Setenv("TEST_DETECTOR_BOX", "0.4")
		t.Setenv("TEST_DETECTOR_TEXT", "0.35")

		var cfg detection.Config
		if err := cfg.Finalize(env); err != nil {
			t.Fatal(err)
		}
		if cfg.Endpoint != "http://dino:9000/detect" || cfg.ModelID != "IDEA-Research/grounding-dino-base" {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.BoxThreshold != 0.4 || cfg.TextThreshold != 0.35 {
			t.Errorf("thresholds = %v/%v", cfg.BoxThreshold, cfg.TextThreshold)
		}
	})

	t.Run("invalid env", func(t *testing.T) {
		t.Setenv("TEST_DETECTOR_BOX", "abc")
		var cfg detection.Config
		if err := cfg.Finalize(env); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("out of range", func(t *testing.T) {
		cfg := detection.Config{BoxThreshold: 1.5}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error")
		}
	})
}
