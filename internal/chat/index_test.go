package chat_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/JaimeStill/nourish/internal/chat"
)

// keywordEmbedder maps text onto a few keyword dimensions.
type keywordEmbedder struct {
	calls atomic.Int32
}

var keywords = []string{"nutrición", "entrenamiento", "proteína", "fibra"}

func (e *keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls.Add(1)
	lower := strings.ToLower(text)
	v := make([]float32, len(keywords)+1)
	for i, k := range keywords {
		v[i] = float32(strings.Count(lower, k))
	}
	v[len(keywords)] = 0.1
	return v, nil
}

func indexConfig(t *testing.T) chat.Config {
	t.Helper()
	cfg := chat.Config{
		DataSource: t.TempDir(),
		Storage:    t.TempDir(),
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestOpenIndexFallback(t *testing.T) {
	cfg := indexConfig(t)
	embedder := &keywordEmbedder{}

	idx, err := chat.OpenIndex(context.Background(), cfg, embedder, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if idx.Count() != 1 {
		t.Fatalf("count = %d, want 1 fallback document", idx.Count())
	}

	chunks, err := idx.Retrieve(context.Background(), "entrenamiento", cfg.TopK)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 || !strings.Contains(chunks[0], "asistente experto en nutrición") {
		t.Errorf("chunks = %q", chunks)
	}
}

func TestOpenIndexReusesPersisted(t *testing.T) {
	cfg := indexConfig(t)

	first := &keywordEmbedder{}
	if _, err := chat.OpenIndex(context.Background(), cfg, first, discardLogger()); err != nil {
		t.Fatal(err)
	}

	second := &keywordEmbedder{}
	idx, err := chat.OpenIndex(context.Background(), cfg, second, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if idx.Count() != 1 {
		t.Errorf("count = %d", idx.Count())
	}
	if n := second.calls.Load(); n != 0 {
		t.Errorf("reopening embedded %d documents, want 0", n)
	}
}
