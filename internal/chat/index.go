package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/philippgille/chromem-go"
)

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever returns the texts most similar to query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]string, error)
	Count() int
}

// Index is a persistent vector collection of document chunks.
type Index struct {
	collection *chromem.Collection
}

// OpenIndex opens the persisted collection under cfg.Storage, building it
// from the PDFs under cfg.DataSource when it is missing or empty.
func OpenIndex(ctx context.Context, cfg Config, embedder Embedder, logger *slog.Logger) (*Index, error) {
	db, err := chromem.NewPersistentDB(cfg.Storage, false)
	if err != nil {
		return nil, fmt.Errorf("%w: open store %s: %w", ErrIndex, cfg.Storage, err)
	}

	embed := chromem.EmbeddingFunc(embedder.Embed)

	if col := db.GetCollection(cfg.Collection, embed); col != nil && col.Count() > 0 {
		logger.Info("index loaded", "collection", cfg.Collection, "chunks", col.Count())
		return &Index{collection: col}, nil
	}

	col, err := db.GetOrCreateCollection(cfg.Collection, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("%w: create collection: %w", ErrIndex, err)
	}

	pages, err := LoadPages(ctx, cfg.DataSource, cfg.Workers, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndex, err)
	}

	docs := Documents(pages, cfg.ChunkSize, cfg.ChunkOverlap)
	if len(docs) == 0 {
		logger.Warn("no document text found, indexing fallback", "data_source", cfg.DataSource)
		docs = []chromem.Document{{ID: "fallback", Content: fallbackText}}
	}

	if err := col.AddDocuments(ctx, docs, cfg.Workers); err != nil {
		return nil, fmt.Errorf("%w: add documents: %w", ErrIndex, err)
	}

	logger.Info("index built", "collection", cfg.Collection, "pages", len(pages), "chunks", col.Count())
	return &Index{collection: col}, nil
}

// Documents chunks pages into collection documents with source metadata.
func Documents(pages []Page, size, overlap int) []chromem.Document {
	var docs []chromem.Document
	for _, p := range pages {
		for i, chunk := range Chunk(p.Text, size, overlap) {
			docs = append(docs, chromem.Document{
				ID:      fmt.Sprintf("%s#%d-%d", p.Source, p.Number, i),
				Content: chunk,
				Metadata: map[string]string{
					"file_name": p.Source,
					"page":      strconv.Itoa(p.Number),
				},
			})
		}
	}
	return docs
}

// Retrieve returns up to k chunk texts ordered by similarity.
func (x *Index) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	k = min(k, x.collection.Count())
	if k == 0 {
		return nil, nil
	}

	results, err := x.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", ErrIndex, err)
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Content
	}
	return texts, nil
}

// Count returns the number of indexed chunks.
func (x *Index) Count() int {
	return x.collection.Count()
}
