package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"NewsIntel/internal/config"
	"NewsIntel/internal/ports"
)

func TestClassifySendsChatRequest(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "{\"pass\": true}"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(config.ClassifierConfig{
		Endpoint:          srv.URL,
		Model:             "gpt-4o-mini",
		APIKey:            "secret",
		RequestsPerMinute: 6000,
	})

	content, err := client.Classify(context.Background(), "classify this")
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if content != `{"pass": true}` {
		t.Fatalf("unexpected content: %q", content)
	}

	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotBody.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected model: %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Content != "classify this" {
		t.Fatalf("unexpected messages: %+v", gotBody.Messages)
	}
}

func TestClassifyErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(config.ClassifierConfig{
		Endpoint:          srv.URL,
		Model:             "m",
		APIKey:            "k",
		RequestsPerMinute: 6000,
	})

	_, err := client.Classify(context.Background(), "prompt")
	if !errors.Is(err, ports.ErrClassificationFailed) {
		t.Fatalf("expected ErrClassificationFailed, got %v", err)
	}
}

func TestClassifyEmptyChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	client := NewClient(config.ClassifierConfig{
		Endpoint:          srv.URL,
		Model:             "m",
		APIKey:            "k",
		RequestsPerMinute: 6000,
	})

	_, err := client.Classify(context.Background(), "prompt")
	if !errors.Is(err, ports.ErrClassificationFailed) {
		t.Fatalf("expected ErrClassificationFailed, got %v", err)
	}
}

func TestClassifyMisconfigured(t *testing.T) {
	t.Parallel()

	client := NewClient(config.ClassifierConfig{Endpoint: "https://api.example"})
	_, err := client.Classify(context.Background(), "prompt")
	if !errors.Is(err, ports.ErrClassificationFailed) {
		t.Fatalf("expected ErrClassificationFailed, got %v", err)
	}
}
