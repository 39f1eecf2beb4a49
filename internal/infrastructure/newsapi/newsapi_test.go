package newsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"NewsIntel/internal/config"
	"NewsIntel/internal/ports"
	"NewsIntel/internal/source"
)

func TestNewsAPISearchQueryAndParsing(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("X-Api-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{
					"source": {"name": "TechCrunch"},
					"title": "<b>New AI</b> model released",
					"url": "https://t.example/1",
					"description": "A lab released a new model. It beats prior benchmarks. Availability starts today. Extra sentence.",
					"publishedAt": "2026-03-09T08:30:00Z"
				},
				{
					"source": {"name": "NoURL"},
					"title": "broken entry",
					"url": "",
					"description": "skipped",
					"publishedAt": "2026-03-09T09:00:00Z"
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewNewsAPIClient(config.NewsAPIConfig{
		APIKey:   "key",
		Endpoint: srv.URL,
		Language: "en",
	}, 3, srv.Client())

	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	articles, err := client.Search(context.Background(), source.Request{
		Day:        day,
		Keyword:    "artificial intelligence",
		MaxResults: 50,
	})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if gotKey != "key" {
		t.Fatalf("api key header not sent, got %q", gotKey)
	}
	if gotQuery.Get("q") != "artificial intelligence" {
		t.Fatalf("unexpected q param: %q", gotQuery.Get("q"))
	}
	if gotQuery.Get("from") != "2026-03-09" || gotQuery.Get("to") != "2026-03-09" {
		t.Fatalf("day window not set: from=%q to=%q", gotQuery.Get("from"), gotQuery.Get("to"))
	}
	if gotQuery.Get("language") != "en" {
		t.Fatalf("unexpected language: %q", gotQuery.Get("language"))
	}
	if gotQuery.Get("pageSize") != "50" {
		t.Fatalf("unexpected pageSize: %q", gotQuery.Get("pageSize"))
	}

	if len(articles) != 1 {
		t.Fatalf("expected the url-less entry dropped, got %d articles", len(articles))
	}
	if articles[0].Title != "New AI model released" {
		t.Fatalf("markup not stripped from title: %q", articles[0].Title)
	}
	if articles[0].Outlet != "TechCrunch" {
		t.Fatalf("unexpected outlet: %q", articles[0].Outlet)
	}
	if articles[0].Source != "newsapi" {
		t.Fatalf("unexpected source: %q", articles[0].Source)
	}
	want := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)
	if !articles[0].PublishedAt.Equal(want) {
		t.Fatalf("unexpected publishedAt: %v", articles[0].PublishedAt)
	}
}

func TestNewsAPISearchBadDateFallsBackToDay(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{"source": {"name": "Wire"}, "title": "story", "url": "https://t.example/2", "description": "text", "publishedAt": "not a date"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewNewsAPIClient(config.NewsAPIConfig{APIKey: "key", Endpoint: srv.URL}, 3, srv.Client())

	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	articles, err := client.Search(context.Background(), source.Request{Day: day, Keyword: "AI"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if !articles[0].PublishedAt.Equal(day) {
		t.Fatalf("expected fallback to the collection day, got %v", articles[0].PublishedAt)
	}
}

func TestNewsAPISearchMissingKey(t *testing.T) {
	t.Parallel()

	client := NewNewsAPIClient(config.NewsAPIConfig{Endpoint: "https://newsapi.example"}, 3, nil)
	_, err := client.Search(context.Background(), source.Request{
		Day:     time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		Keyword: "AI",
	})
	if !errors.Is(err, ports.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
