package workflow_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/JaimeStill/nourish/internal/workflow"
	"github.com/JaimeStill/nourish/pkg/tavily"
)

type fakeModel struct {
	mu sync.Mutex

	vision    string
	visionErr error
	answer    string
	answerErr error

	visionCalls   int
	generateCalls int
	lastPrompt    string
}

func (m *fakeModel) Vision(ctx context.Context, prompt string, jpeg []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visionCalls++
	return m.vision, m.visionErr
}

func (m *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateCalls++
	m.lastPrompt = prompt
	return m.answer, m.answerErr
}

type fakeSearcher struct {
	mu      sync.Mutex
	results [][]tavily.Result
	err     error
	queries []string
}

func (s *fakeSearcher) Search(ctx context.Context, query string) ([]tavily.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.queries)
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	if i < len(s.results) {
		return s.results[i], nil
	}
	return nil, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRuntime(m *fakeModel, s *fakeSearcher) *workflow.Runtime {
	return &workflow.Runtime{
		Model: func() (workflow.Model, error) {
			if m == nil {
				return nil, errors.New("GOOGLE_API_KEY is not configured")
			}
			return m, nil
		},
		Search: func() (workflow.Searcher, error) {
			if s == nil {
				return nil, tavily.ErrMissingKey
			}
			return s, nil
		},
		Logger: discardLogger(),
	}
}

func labelImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := range 16 {
		for y := range 16 {
			img.Set(x, y, color.RGBA{R: 240, G: 240, B: 220, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

type blockingModel struct{}

func (blockingModel) Vision(ctx context.Context, prompt string, jpeg []byte) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (blockingModel) Generate(ctx context.Context, prompt string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}
