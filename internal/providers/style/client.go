// Package style calls the remote image style-transfer service.
package style

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wojakbot/internal/domain"
)

type Options struct {
	BaseURL    string
	Model      string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client runs synchronous style-transfer requests against a fal.run-shaped
// endpoint. The service is treated as unreliable: any transport failure,
// error status or unexpected response shape surfaces as domain.ErrInference.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	key        string
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://fal.run"
	}
	model := strings.Trim(opts.Model, "/")
	if model == "" {
		model = "fal-ai/image-editing/wojak-style"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: client,
		baseURL:    base,
		model:      model,
		key:        strings.TrimSpace(opts.APIKey),
	}
}

type transformRequest struct {
	ImageURL string `json:"image_url"`
}

type transformResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
	Detail any `json:"detail,omitempty"`
}

// Transform submits the source image and returns the URL of the stylized
// result.
func (c *Client) Transform(ctx context.Context, imageURL string) (string, error) {
	if c == nil {
		return "", errors.New("style client not configured")
	}
	if c.key == "" {
		return "", errors.New("style: API key is missing")
	}
	trimmed := strings.TrimSpace(imageURL)
	if trimmed == "" {
		return "", errors.New("style: image url required")
	}
	body, err := json.Marshal(transformRequest{ImageURL: trimmed})
	if err != nil {
		return "", err
	}
	endpoint := c.baseURL + "/" + c.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInference, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: http %d", domain.ErrInference, resp.StatusCode)
	}
	var out transformResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrInference, err)
	}
	if len(out.Images) == 0 || strings.TrimSpace(out.Images[0].URL) == "" {
		return "", fmt.Errorf("%w: empty result", domain.ErrInference)
	}
	return out.Images[0].URL, nil
}

// Fetch downloads the generated image so it can be watermarked locally.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch result: %v", domain.ErrInference, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch result: http %d", domain.ErrInference, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
