package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client extracts room data from a blueprint image. The prompt/response
// protocol is the provider's concern; callers only see the raw JSON-shaped
// payload, which must still be sanitized before persisting.
type Client interface {
	AnalyzeFloorPlan(ctx context.Context, file []byte, mimeType string) (map[string]interface{}, error)
}

type httpClient struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// Config holds configuration for the vision client
type Config struct {
	Endpoint string
	APIKey   string
	Model    string
}

// NewClient creates a vision client backed by an HTTP extraction endpoint.
func NewClient(cfg Config) (Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("VISION_ENDPOINT is required")
	}

	return &httpClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		client:   &http.Client{Timeout: 120 * time.Second},
	}, nil
}

type analyzeRequest struct {
	Model       string `json:"model,omitempty"`
	MimeType    string `json:"mime_type"`
	FileBase64  string `json:"file_base64"`
	Instruction string `json:"instruction"`
}

// AnalyzeFloorPlan sends the blueprint to the extraction endpoint and returns
// the raw structured payload. One call per attempt; retries belong to the
// caller.
func (c *httpClient) AnalyzeFloorPlan(ctx context.Context, file []byte, mimeType string) (map[string]interface{}, error) {
	body, err := json.Marshal(analyzeRequest{
		Model:       c.model,
		MimeType:    mimeType,
		FileBase64:  base64.StdEncoding.EncodeToString(file),
		Instruction: "floor_plan_rooms",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read vision response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision service returned %d: %s", resp.StatusCode, string(payload))
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("vision response is not a JSON object: %w", err)
	}

	return raw, nil
}
