package storage_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/JaimeStill/nourish/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=nourishstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/nourishstore;"

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewReturnsSystem(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    storage.DefaultContainer,
		ConnectionString: azuriteConnString,
	}

	sys, err := storage.New(cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sys == nil {
		t.Fatal("New() returned nil system")
	}
}

func TestNewInvalidConnectionString(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    storage.DefaultContainer,
		ConnectionString: "not-a-connection-string",
	}

	if _, err := storage.New(cfg, discard()); err == nil {
		t.Fatal("expected error for invalid connection string, got nil")
	}
}

func TestPath(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    "mlops-corrections",
		ConnectionString: azuriteConnString,
	}

	sys, err := storage.New(cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := sys.Path("abc.jpg"); got != "mlops-corrections/abc.jpg" {
		t.Errorf("Path() = %q, want mlops-corrections/abc.jpg", got)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", storage.ErrNotFound, http.StatusNotFound},
		{"empty key", storage.ErrEmptyKey, http.StatusBadRequest},
		{"invalid key", storage.ErrInvalidKey, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("operation failed: %w", storage.ErrNotFound), http.StatusNotFound},
		{"unknown", errors.New("unexpected failure"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storage.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKeyValidation(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    storage.DefaultContainer,
		ConnectionString: azuriteConnString,
	}

	sys, err := storage.New(cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"empty key", "", storage.ErrEmptyKey},
		{"path traversal", "images/../secrets/key", storage.ErrInvalidKey},
		{"double dot in middle", "images/..hidden/file.jpg", storage.ErrInvalidKey},
	}

	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := sys.Upload(ctx, tt.key, bytes.NewReader(nil), "image/jpeg"); !errors.Is(err, tt.wantErr) {
				t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
			}
			if _, err := sys.Download(ctx, tt.key); !errors.Is(err, tt.wantErr) {
				t.Errorf("Download() error = %v, want %v", err, tt.wantErr)
			}
			if err := sys.Delete(ctx, tt.key); !errors.Is(err, tt.wantErr) {
				t.Errorf("Delete() error = %v, want %v", err, tt.wantErr)
			}
			if _, err := sys.Exists(ctx, tt.key); !errors.Is(err, tt.wantErr) {
				t.Errorf("Exists() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
