package webex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NewsIntel/internal/config"
	"NewsIntel/internal/domain"
)

func testMessages() []domain.Notification {
	return []domain.Notification{
		{ArticleURL: "https://news.example/1", Summary: "First summary.", Action: "monitor developments"},
		{ArticleURL: "https://news.example/2", Summary: "Second summary."},
	}
}

func TestSendPostsOneMessagePerNotification(t *testing.T) {
	t.Parallel()

	var bodies []map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Errorf("unexpected auth header: %q", r.Header.Get("Authorization"))
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		bodies = append(bodies, body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	notifier := NewNotifier(config.WebexConfig{
		APIBase:  srv.URL,
		BotToken: "token",
		RoomID:   "room-1",
	}, nil)

	if err := notifier.Send(context.Background(), testMessages()); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if len(bodies) != 2 {
		t.Fatalf("expected 2 posted messages, got %d", len(bodies))
	}
	for i, body := range bodies {
		if body["roomId"] != "room-1" {
			t.Fatalf("message %d: unexpected roomId %q", i, body["roomId"])
		}
		if !strings.Contains(body["markdown"], "https://news.example/") {
			t.Fatalf("message %d: article link missing: %q", i, body["markdown"])
		}
	}
	if !strings.Contains(bodies[0]["markdown"], "monitor developments") {
		t.Fatalf("action missing from markdown: %q", bodies[0]["markdown"])
	}
}

func TestSendToleratesPartialFailure(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	notifier := NewNotifier(config.WebexConfig{
		APIBase:  srv.URL,
		BotToken: "token",
		RoomID:   "room-1",
	}, nil)

	if err := notifier.Send(context.Background(), testMessages()); err != nil {
		t.Fatalf("one delivered message should be a success: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected both messages attempted, got %d calls", calls)
	}
}

func TestSendFailsWhenNothingDelivered(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	notifier := NewNotifier(config.WebexConfig{
		APIBase:  srv.URL,
		BotToken: "token",
		RoomID:   "room-1",
	}, nil)

	if err := notifier.Send(context.Background(), testMessages()); err == nil {
		t.Fatalf("expected error when every message fails")
	}
}

func TestSendMisconfigured(t *testing.T) {
	t.Parallel()

	notifier := NewNotifier(config.WebexConfig{APIBase: "https://webexapis.example"}, nil)
	if err := notifier.Send(context.Background(), testMessages()); err == nil {
		t.Fatalf("expected error without bot token and room")
	}
}
