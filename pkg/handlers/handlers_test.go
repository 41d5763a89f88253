package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/nourish/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
	}{
		{
			name:       "200 with map",
			status:     http.StatusOK,
			data:       map[string]string{"key": "value"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "201 with struct",
			status:     http.StatusCreated,
			data:       struct{ ID int }{ID: 42},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatus {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.wantStatus)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %s", ct)
			}

			body, _ := io.ReadAll(res.Body)
			var parsed map[string]any
			if err := json.Unmarshal(body, &parsed); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()

	handlers.RespondError(rec, logger, http.StatusBadRequest, errors.New("invalid input"))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %s", ct)
	}

	body, _ := io.ReadAll(res.Body)
	var parsed map[string]string
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if parsed["error"] != "invalid input" {
		t.Errorf("error: got %s, want invalid input", parsed["error"])
	}
}

func TestParseMultipart(t *testing.T) {
	form := func(size int) (*bytes.Buffer, string) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, _ := mw.CreateFormFile("file", "photo.jpg")
		part.Write(bytes.Repeat([]byte("x"), size))
		mw.Close()
		return &body, mw.FormDataContentType()
	}

	tests := []struct {
		name    string
		body    func() (*bytes.Buffer, string)
		maxSize int64
		want    error
	}{
		{"within limit", func() (*bytes.Buffer, string) { return form(64) }, 1 << 10, nil},
		{"over limit", func() (*bytes.Buffer, string) { return form(4 << 10) }, 1 << 10, handlers.ErrBodyTooLarge},
		{"json body", func() (*bytes.Buffer, string) {
			return bytes.NewBufferString(`{"file":"x"}`), "application/json"
		}, 1 << 10, handlers.ErrMalformedForm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := tt.body()
			req := httptest.NewRequest(http.MethodPost, "/upload", body)
			req.Header.Set("Content-Type", contentType)

			err := handlers.ParseMultipart(httptest.NewRecorder(), req, tt.maxSize)

			if tt.want == nil {
				if err != nil {
					t.Fatalf("ParseMultipart() error = %v", err)
				}
				if _, _, err := req.FormFile("file"); err != nil {
					t.Errorf("FormFile() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseMultipart() error = %v, want %v", err, tt.want)
			}
		})
	}
}
