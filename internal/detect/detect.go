// Package detect locates facial landmarks on uploaded villain images by
// calling an external detection service. Detection is best effort: when no
// service is configured or the call fails, sessions fall back to the
// center face region.
package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"villainstrike/internal/hitzone"
)

// Detector finds facial landmarks in a base64-encoded image.
type Detector interface {
	Detect(ctx context.Context, imageData string) (*hitzone.Landmarks, error)
}

// HTTPDetector calls a landmark detection HTTP service.
type HTTPDetector struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPDetector(baseURL string, timeout time.Duration) *HTTPDetector {
	return &HTTPDetector{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPDetector) Detect(ctx context.Context, imageData string) (*hitzone.Landmarks, error) {
	url := fmt.Sprintf("%s/api/detect", c.baseURL)

	body, err := json.Marshal(map[string]any{"image": imageData})
	if err != nil {
		return nil, fmt.Errorf("marshaling detect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("creating detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing detect request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("detection failed with status %d: %s", resp.StatusCode, string(raw))
	}

	var result struct {
		Faces []struct {
			LeftEye  hitzone.Point `json:"leftEye"`
			RightEye hitzone.Point `json:"rightEye"`
			Nose     hitzone.Point `json:"nose"`
			Mouth    hitzone.Point `json:"mouth"`
			Box      hitzone.Box   `json:"box"`
		} `json:"faces"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding detect response: %w", err)
	}

	if len(result.Faces) == 0 {
		return nil, nil
	}

	face := result.Faces[0]
	return &hitzone.Landmarks{
		LeftEye:  face.LeftEye,
		RightEye: face.RightEye,
		Nose:     face.Nose,
		Mouth:    face.Mouth,
		FaceBox:  face.Box,
	}, nil
}

// NopDetector reports no landmarks, forcing the face-region fallback.
type NopDetector struct{}

func (NopDetector) Detect(ctx context.Context, imageData string) (*hitzone.Landmarks, error) {
	return nil, nil
}
