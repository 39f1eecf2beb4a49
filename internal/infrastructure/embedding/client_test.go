package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"NewsIntel/internal/config"
)

func TestEmbedBatchPositionalVectors(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotPayload struct {
		Model string   `json:"model"`
		Input []string `json:"input"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		_, _ = w.Write([]byte(`{"embeddings": [[1, 0], [0, 1]]}`))
	}))
	defer srv.Close()

	client := NewClient(config.EmbeddingsConfig{Endpoint: srv.URL, Model: "embed-v1"})
	vectors, err := client.EmbedBatch(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("EmbedBatch returned error: %v", err)
	}

	if gotPath != "/embed/batch" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotPayload.Model != "embed-v1" || len(gotPayload.Input) != 2 {
		t.Fatalf("unexpected payload: %+v", gotPayload)
	}
	if len(vectors) != 2 || vectors[0][0] != 1 || vectors[1][1] != 1 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}
}

func TestEmbedSingle(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embed" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"embedding": [0.5, 0.5]}`))
	}))
	defer srv.Close()

	client := NewClient(config.EmbeddingsConfig{Endpoint: srv.URL, Model: "embed-v1"})
	vector, err := client.Embed(context.Background(), "text span")
	if err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if len(vector) != 2 || vector[0] != 0.5 {
		t.Fatalf("unexpected vector: %v", vector)
	}
}

func TestEmbedErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(config.EmbeddingsConfig{Endpoint: srv.URL, Model: "embed-v1"})
	if _, err := client.Embed(context.Background(), "text"); err == nil {
		t.Fatalf("expected error on non-200 status")
	}
}
