package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// QdrantStore is a minimal REST client to the Qdrant collection holding the
// embedded document fragments. The ingestion pipeline writes the collection;
// this service only searches and scrolls it.
type QdrantStore struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewQdrantStore(cfg QdrantConfig) *QdrantStore {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &QdrantStore{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Ping checks connectivity against the Qdrant root endpoint. Newer Qdrant
// versions dropped /health, the root works everywhere.
func (s *QdrantStore) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("qdrant unhealthy status: %d", resp.StatusCode)
	}
	return nil
}

// Search returns the topK nearest fragments to vector, most similar first.
// A non-empty source restricts results to that document (must-match, not a
// soft boost).
func (s *QdrantStore) Search(ctx context.Context, vector []float32, source string, topK int) ([]Fragment, error) {
	if topK <= 0 {
		topK = 3
	}
	reqBody := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	if source != "" {
		reqBody["filter"] = map[string]any{
			"must": []map[string]any{
				{"key": "source", "match": map[string]any{"value": source}},
			},
		}
	}

	var resp struct {
		Result []struct {
			Score   float32        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s/points/search", s.collection)
	if err := s.postJSON(ctx, path, reqBody, &resp); err != nil {
		return nil, err
	}

	fragments := make([]Fragment, 0, len(resp.Result))
	for _, r := range resp.Result {
		frag := Fragment{Score: r.Score}
		if v, ok := r.Payload["text"].(string); ok {
			frag.Text = v
		}
		if v, ok := r.Payload["source"].(string); ok {
			frag.Source = v
		}
		fragments = append(fragments, frag)
	}
	return fragments, nil
}

// ListSources scrolls the collection payloads and returns every distinct
// source document identifier, in insertion order of first sighting.
func (s *QdrantStore) ListSources(ctx context.Context) ([]string, error) {
	reqBody := map[string]any{
		"limit":        1000,
		"with_payload": true,
	}
	var resp struct {
		Result struct {
			Points []struct {
				Payload map[string]any `json:"payload"`
			} `json:"points"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s/points/scroll", s.collection)
	if err := s.postJSON(ctx, path, reqBody, &resp); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var sources []string
	for _, p := range resp.Result.Points {
		v, ok := p.Payload["source"].(string)
		if !ok || v == "" || seen[v] {
			continue
		}
		seen[v] = true
		sources = append(sources, v)
	}
	return sources, nil
}

func (s *QdrantStore) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant POST %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("qdrant POST %s failed with status %d: %s", path, resp.StatusCode, string(msg))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
