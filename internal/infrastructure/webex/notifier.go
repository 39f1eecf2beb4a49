package webex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"NewsIntel/internal/config"
	"NewsIntel/internal/domain"
	"NewsIntel/internal/ports"
)

// Notifier posts curated messages to a Webex space via bot API.
type Notifier struct {
	apiBase  string
	botToken string
	roomID   string
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and room identifier.
func NewNotifier(cfg config.WebexConfig, logger *slog.Logger) *Notifier {
	return &Notifier{
		apiBase:  cfg.APIBase,
		botToken: cfg.BotToken,
		roomID:   cfg.RoomID,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

// Send posts each notification as a separate Webex message. A single failed
// message is logged and skipped; Send errors only when nothing could be
// delivered.
func (n *Notifier) Send(ctx context.Context, messages []domain.Notification) error {
	if n.botToken == "" || n.roomID == "" || n.client == nil {
		return fmt.Errorf("webex notifier misconfigured")
	}
	if len(messages) == 0 {
		return nil
	}

	var delivered int
	for _, message := range messages {
		if err := n.sendOne(ctx, message); err != nil {
			if n.logger != nil {
				n.logger.Warn("webex message failed",
					"url", message.ArticleURL, "error", err)
			}
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return fmt.Errorf("webex: all %d messages failed", len(messages))
	}
	return nil
}

func (n *Notifier) sendOne(ctx context.Context, message domain.Notification) error {
	body, err := json.Marshal(map[string]string{
		"roomId":   n.roomID,
		"markdown": message.Format(),
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		n.apiBase+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.botToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webex error: %s", resp.Status)
	}
	return nil
}
