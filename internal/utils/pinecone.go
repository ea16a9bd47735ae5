package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PineconeClient queries a serverless Pinecone index over its REST API.
type PineconeClient struct {
	APIKey     string
	IndexHost  string // e.g. "https://gita-xxxx.svc.region.pinecone.io"
	HTTPClient *http.Client
}

func NewPineconeClient(apiKey, indexHost string) *PineconeClient {
	return &PineconeClient{
		APIKey:     apiKey,
		IndexHost:  indexHost,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type pineconeQuery struct {
	Vector          []float64 `json:"vector"`
	TopK            int       `json:"topK"`
	Namespace       string    `json:"namespace,omitempty"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type pineconeResponse struct {
	Matches []struct {
		Metadata map[string]interface{} `json:"metadata"`
	} `json:"matches"`
}

// Query returns the stored passage texts of the top-k nearest vectors.
// The namespace scopes the search to one scripture corpus.
func (c *PineconeClient) Query(ctx context.Context, vector []float64, topK int, namespace string) ([]string, error) {
	payload, err := json.Marshal(pineconeQuery{
		Vector:          vector,
		TopK:            topK,
		Namespace:       namespace,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("pinecone marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.IndexHost+"/query", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("pinecone request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pinecone call: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pinecone query: status %d: %s", resp.StatusCode, string(raw))
	}

	var result pineconeResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("pinecone parse: %w", err)
	}

	var passages []string
	for _, m := range result.Matches {
		// ingestion stores the chunk text under the "text" metadata key
		if text, ok := m.Metadata["text"].(string); ok && text != "" {
			passages = append(passages, text)
		}
	}
	return passages, nil
}

// VectorSearcher implements the responder's similarity-search
// capability: embed the query with Mistral, then query Pinecone.
type VectorSearcher struct {
	Embedder *MistralClient
	Index    *PineconeClient
}

func NewVectorSearcher(embedder *MistralClient, index *PineconeClient) *VectorSearcher {
	return &VectorSearcher{Embedder: embedder, Index: index}
}

func (v *VectorSearcher) Search(ctx context.Context, query string, k int, scope string) ([]string, error) {
	vector, err := v.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return v.Index.Query(ctx, vector, k, scope)
}
