package chat

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"
)

// fallbackText is indexed when no source document yields text, so the
// collection always exists and answers fall back to general knowledge.
const fallbackText = "Eres un asistente experto en nutrición y entrenamiento físico. " +
	"Responde preguntas sobre nutrición, ejercicio, suplementos, rutinas de entrenamiento, " +
	"y temas relacionados con la salud y el fitness usando tu conocimiento general. " +
	"Proporciona respuestas útiles, precisas y basadas en principios científicos conocidos."

// Page is the text of one page of a source document.
type Page struct {
	Source string
	Number int
	Text   string
}

// FindPDFs returns every .pdf file under root, recursively, in lexical order.
// A missing root yields no files.
func FindPDFs(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return files, nil
}

// ExtractPages reads the plain text of every page of a PDF. Pages without
// text are skipped. The PDF reader panics on some malformed streams; those
// panics are returned as errors.
func ExtractPages(path string) (pages []Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("parse %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d of %s: %w", i, path, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, Page{Source: filepath.Base(path), Number: i, Text: text})
		}
	}
	return pages, nil
}

// LoadPages extracts every PDF under root with at most workers files in
// flight. Files that fail to parse are logged and skipped. Pages keep file
// order then page order.
func LoadPages(ctx context.Context, root string, workers int, logger *slog.Logger) ([]Page, error) {
	files, err := FindPDFs(root)
	if err != nil {
		return nil, err
	}

	results := make([][]Page, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pages, err := ExtractPages(file)
			if err != nil {
				logger.Warn("skipping document", "file", file, "error", err)
				return nil
			}
			results[i] = pages
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pages []Page
	for _, r := range results {
		pages = append(pages, r...)
	}
	return pages, nil
}

// Chunk splits text into pieces of at most size runes that overlap by
// roughly overlap runes. Splits prefer whitespace boundaries.
func Chunk(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var (
		chunks []string
		start  int
	)

	for start < len(words) {
		length := 0
		end := start
		for end < len(words) {
			n := len([]rune(words[end]))
			if end > start {
				n++
			}
			if length+n > size && end > start {
				break
			}
			length += n
			end++
		}

		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}

		back := 0
		next := end
		for next > start+1 && back < overlap {
			next--
			back += len([]rune(words[next])) + 1
		}
		start = next
	}

	return chunks
}
