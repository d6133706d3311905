// Package transform renders progressively beaten-up villain portraits by
// calling an external image service. Purely cosmetic: any failure leaves
// the original portrait in place.
package transform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Transformer produces a damaged variant of a villain portrait for a
// damage stage (1 to 3).
type Transformer interface {
	Transform(ctx context.Context, imageData string, stage int) (string, error)
}

// HTTPTransformer calls an image transformation HTTP service.
type HTTPTransformer struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPTransformer(baseURL string, timeout time.Duration) *HTTPTransformer {
	return &HTTPTransformer{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPTransformer) Transform(ctx context.Context, imageData string, stage int) (string, error) {
	url := fmt.Sprintf("%s/api/transform", c.baseURL)

	body, err := json.Marshal(map[string]any{
		"image": imageData,
		"stage": stage,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling transform request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("creating transform request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing transform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transform failed with status %d: %s", resp.StatusCode, string(raw))
	}

	var result struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding transform response: %w", err)
	}
	if result.Image == "" {
		return "", fmt.Errorf("transform returned no image")
	}
	return result.Image, nil
}

// NopTransformer returns the input unchanged.
type NopTransformer struct{}

func (NopTransformer) Transform(ctx context.Context, imageData string, stage int) (string, error) {
	return imageData, nil
}
