package detection

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// ErrMissingEndpoint is returned when no detector endpoint is configured.
var ErrMissingEndpoint = errors.New("detector endpoint is not configured")

// Raw is one detection as returned by the model, before post-processing.
type Raw struct {
	Label string    `json:"label"`
	Box   []float64 `json:"box"`
	Score float64   `json:"score"`
}

// Request is one inference call.
type Request struct {
	Image         string   `json:"image"`
	Labels        []string `json:"labels"`
	BoxThreshold  float64  `json:"box_threshold"`
	TextThreshold float64  `json:"text_threshold"`
}

// Detector runs text-prompted object detection on a JPEG frame.
type Detector interface {
	Detect(ctx context.Context, req Request) ([]Raw, error)
}

type inferenceRequest struct {
	Model string `json:"model"`
	Request
}

type inferenceResponse struct {
	Detections []Raw `json:"detections"`
}

// Client calls a Grounding DINO inference endpoint over HTTP.
type Client struct {
	httpc    *resty.Client
	endpoint string
	model    string
}

// NewClient builds a detector client for cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}

	httpc := resty.New().
		SetTimeout(cfg.TimeoutDuration()).
		SetHeader("Content-Type", "application/json")

	if cfg.Token != "" {
		httpc.SetAuthToken(cfg.Token)
	}

	return &Client{httpc: httpc, endpoint: cfg.Endpoint, model: cfg.ModelID}, nil
}

// Detect posts the frame and labels to the endpoint.
func (c *Client) Detect(ctx context.Context, req Request) ([]Raw, error) {
	var out inferenceResponse
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetBody(inferenceRequest{Model: c.model, Request: req}).
		SetResult(&out).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetector, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrDetector, resp.StatusCode())
	}

	return out.Detections, nil
}
