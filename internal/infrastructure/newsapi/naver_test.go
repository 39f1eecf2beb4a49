package newsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"NewsIntel/internal/config"
	"NewsIntel/internal/ports"
	"NewsIntel/internal/source"
)

func TestNaverSearchFiltersToRequestedDay(t *testing.T) {
	t.Parallel()

	var calls int
	var gotID, gotSecret string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotID = r.Header.Get("X-Naver-Client-Id")
		gotSecret = r.Header.Get("X-Naver-Client-Secret")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{
					"title": "<b>AI rules</b> announced",
					"link": "https://n.example/1",
					"description": "The government announced new AI rules. They cover model training. Enforcement starts next year. Extra sentence.",
					"pubDate": "Mon, 09 Mar 2026 10:00:00 +0000"
				},
				{
					"title": "Older story",
					"link": "https://n.example/2",
					"description": "Yesterday's coverage.",
					"pubDate": "Sun, 08 Mar 2026 23:00:00 +0000"
				},
				{
					"title": "Much older story",
					"link": "https://n.example/3",
					"description": "Last week's coverage.",
					"pubDate": "Sat, 07 Mar 2026 09:00:00 +0000"
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewNaverClient(config.NaverConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint:     srv.URL,
	}, 3, srv.Client(), nil)

	articles, err := client.Search(context.Background(), source.Request{
		Day:        time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		Keyword:    "AI",
		MaxResults: 100,
		Location:   time.UTC,
	})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if gotID != "id" || gotSecret != "secret" {
		t.Fatalf("credential headers not sent: id=%q secret=%q", gotID, gotSecret)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article on the requested day, got %d", len(articles))
	}
	if articles[0].Title != "AI rules announced" {
		t.Fatalf("markup not stripped from title: %q", articles[0].Title)
	}
	if articles[0].Source != "naver" {
		t.Fatalf("unexpected source: %q", articles[0].Source)
	}
	if articles[0].Lead == "" {
		t.Fatalf("expected a lead extracted from the description")
	}

	// A page dominated by older articles ends the walk.
	if calls != 1 {
		t.Fatalf("expected pagination to stop after 1 page, got %d calls", calls)
	}
}

func TestNaverSearchMissingCredentials(t *testing.T) {
	t.Parallel()

	client := NewNaverClient(config.NaverConfig{Endpoint: "https://openapi.naver.example"}, 3, nil, nil)
	_, err := client.Search(context.Background(), source.Request{
		Day:     time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		Keyword: "AI",
	})
	if !errors.Is(err, ports.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestNaverSearchServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewNaverClient(config.NaverConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint:     srv.URL,
	}, 3, srv.Client(), nil)

	_, err := client.Search(context.Background(), source.Request{
		Day:     time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		Keyword: "AI",
	})
	if !errors.Is(err, ports.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
