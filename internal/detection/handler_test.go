package detection_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"slices"
	"testing"

	"github.com/JaimeStill/nourish/internal/detection"
	"github.com/JaimeStill/nourish/internal/telemetry"
	"github.com/JaimeStill/nourish/pkg/routes"
)

type fakeDetector struct {
	raw  []detection.Raw
	err  error
	reqs []detection.Request
}

func (d *fakeDetector) Detect(ctx context.Context, req detection.Request) ([]detection.Raw, error) {
	d.reqs = append(d.reqs, req)
	return d.raw, d.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaultConfig(t *testing.T) detection.Config {
	t.Helper()
	var cfg detection.Config
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func newMux(t *testing.T, det detection.Detector, detErr error) *http.ServeMux {
	t.Helper()
	resolve := func() (detection.Detector, error) {
		if detErr != nil {
			return nil, detErr
		}
		return det, nil
	}
	sys := detection.New(resolve, defaultConfig(t), telemetry.New(), discardLogger())

	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(1<<20).Routes())
	return mux
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, target string, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="plate.png"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func plateDetections() []detection.Raw {
	return []detection.Raw{
		{Label: "rice white", Box: []float64{10, 10, 40, 40}, Score: 0.81234},
		{Label: "pizza", Box: []float64{50, 50, 90, 90}, Score: 0.6},
		{Label: "plate", Box: []float64{0, 0, 100, 100}, Score: 0.95},
	}
}

func TestDetect(t *testing.T) {
	det := &fakeDetector{raw: plateDetections()}
	mux := newMux(t, det, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, "/detect", "image/png", pngImage(t, 100, 100)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Ingredients []detection.Detection `json:"ingredients"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}

	if len(body.Ingredients) != 2 {
		t.Fatalf("ingredients = %+v, want 2", body.Ingredients)
	}
	if body.Ingredients[0].Label != "rice" || body.Ingredients[0].Score != 0.8123 {
		t.Errorf("first = %+v", body.Ingredients[0])
	}
	if body.Ingredients[0].Box == nil {
		t.Error("box omitted by default")
	}

	if len(det.reqs) != 1 {
		t.Fatalf("detector called %d times", len(det.reqs))
	}
	req := det.reqs[0]
	if !slices.Equal(req.Labels, detection.Ingredients) {
		t.Error("default ingredient list not sent")
	}
	if req.BoxThreshold != detection.DefaultBoxThreshold || req.TextThreshold != detection.DefaultTextThreshold {
		t.Errorf("thresholds = %v/%v", req.BoxThreshold, req.TextThreshold)
	}
	if req.Image == "" {
		t.Error("image not sent")
	}
}

func TestDetectParams(t *testing.T) {
	det := &fakeDetector{raw: plateDetections()}
	mux := newMux(t, det, nil)

	target := "/detect?category=breakfast&include_boxes=false&box_threshold=0.5&text_threshold=0&ingredients_prompt=rice,pizza"
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, target, "image/png", pngImage(t, 100, 100)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "{\"ingredients\":[]}\n" {
		t.Errorf("body = %s", got)
	}

	req := det.reqs[0]
	if !slices.Equal(req.Labels, []string{"rice", "pizza"}) {
		t.Errorf("labels = %v", req.Labels)
	}
	if req.BoxThreshold != 0.5 || req.TextThreshold != detection.DefaultTextThreshold {
		t.Errorf("thresholds = %v/%v", req.BoxThreshold, req.TextThreshold)
	}
}

func TestDetectOmitsBoxes(t *testing.T) {
	mux := newMux(t, &fakeDetector{raw: plateDetections()}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, "/detect?include_boxes=false", "image/png", pngImage(t, 100, 100)))

	var body struct {
		Ingredients []map[string]any `json:"ingredients"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	for _, ing := range body.Ingredients {
		if box, ok := ing["box"]; !ok || box != nil {
			t.Errorf("box = %v, want null", box)
		}
	}
}

func TestDetectErrors(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		contentType string
		data        []byte
		detErr      error
		rawErr      error
		want        int
	}{
		{name: "invalid category", target: "/detect?category=brunch", contentType: "image/png", want: http.StatusBadRequest},
		{name: "invalid threshold", target: "/detect?box_threshold=high", contentType: "image/png", want: http.StatusBadRequest},
		{name: "invalid include_boxes", target: "/detect?include_boxes=maybe", contentType: "image/png", want: http.StatusBadRequest},
		{name: "unsupported type", target: "/detect", contentType: "application/pdf", want: http.StatusBadRequest},
		{name: "empty file", target: "/detect", contentType: "image/png", data: []byte{}, want: http.StatusBadRequest},
		{name: "corrupt image", target: "/detect", contentType: "image/png", data: []byte("not an image"), want: http.StatusBadRequest},
		{name: "detector unavailable", target: "/detect", contentType: "image/png", detErr: detection.ErrMissingEndpoint, want: http.StatusInternalServerError},
		{name: "detector failure", target: "/detect", contentType: "image/png", rawErr: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newMux(t, &fakeDetector{err: tt.rawErr}, tt.detErr)

			data := tt.data
			if data == nil {
				data = pngImage(t, 10, 10)
			}

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, uploadRequest(t, tt.target, tt.contentType, data))

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}

			var body map[string]string
			json.NewDecoder(rec.Body).Decode(&body)
			if body["error"] == "" {
				t.Error("missing error message")
			}
		})
	}
}

func TestDetectEmptyPrompt(t *testing.T) {
	det := &fakeDetector{raw: plateDetections()}
	mux := newMux(t, det, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, "/detect?ingredients_prompt=,,", "image/png", pngImage(t, 10, 10)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(det.reqs) != 0 {
		t.Error("detector called with empty prompt list")
	}
}

func TestDetectImage(t *testing.T) {
	mux := newMux(t, &fakeDetector{raw: plateDetections()}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, "/detect/image?include_boxes=false", "image/png", pngImage(t, 100, 100)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("content type = %s", ct)
	}

	img, err := jpeg.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("size = %v", b)
	}
}

func TestLabels(t *testing.T) {
	mux := newMux(t, &fakeDetector{}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/detect/labels", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var catalog detection.Catalog
	if err := json.NewDecoder(rec.Body).Decode(&catalog); err != nil {
		t.Fatal(err)
	}
	if len(catalog.Ingredients) != len(detection.Ingredients) {
		t.Errorf("ingredients = %d", len(catalog.Ingredients))
	}
	if len(catalog.Categories) != 4 {
		t.Errorf("categories = %d", len(catalog.Categories))
	}
	if catalog.LabelsES["rice"] != "arroz" {
		t.Errorf("labels_es[rice] = %q", catalog.LabelsES["rice"])
	}
}

func TestDetectUploadBody(t *testing.T) {
	jsonBody := httptest.NewRequest(http.MethodPost, "/detect", bytes.NewBufferString(`{"file":"plate.png"}`))
	jsonBody.Header.Set("Content-Type", "application/json")

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"not multipart", jsonBody, http.StatusBadRequest},
		{"over upload limit", uploadRequest(t, "/detect", "image/png", bytes.Repeat([]byte{0}, 2<<20)), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det := &fakeDetector{raw: plateDetections()}
			rec := httptest.NewRecorder()
			newMux(t, det, nil).ServeHTTP(rec, tt.req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if len(det.reqs) != 0 {
				t.Error("detector called for a rejected upload")
			}
		})
	}
}
