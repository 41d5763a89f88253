// Package gemini wraps the Gemini generative API for the three calls the
// service makes: multimodal classification, plain text completion and
// text embedding.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var (
	ErrMissingKey    = errors.New("GOOGLE_API_KEY is not configured")
	ErrEmptyResponse = errors.New("empty response from model")
)

// Client is a process-wide handle over a genai.Client.
type Client struct {
	client *genai.Client
	cfg    Config
}

// New builds a client for cfg. It fails when no API key is configured.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrMissingKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{client: client, cfg: cfg}, nil
}

// Vision sends prompt together with a JPEG image and returns the text answer.
func (c *Client) Vision(ctx context.Context, prompt string, jpeg []byte) (string, error) {
	resp, err := c.model().GenerateContent(ctx, genai.Text(prompt), genai.ImageData("jpeg", jpeg))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return responseText(resp)
}

// Generate sends a text-only prompt and returns the text answer.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model().GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return responseText(resp)
}

// Embed returns the embedding vector of text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.EmbeddingModel(c.cfg.EmbeddingModel).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, ErrEmptyResponse
	}
	return resp.Embedding.Values, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) model() *genai.GenerativeModel {
	m := c.client.GenerativeModel(c.cfg.Model)
	m.SetTemperature(c.cfg.Temperature)
	return m
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	content := resp.Candidates[0].Content
	if content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
