package domain

import "fmt"

// Notification is the structured message record produced for one surviving
// article. Fallback marks messages built without the formatter model.
type Notification struct {
	ArticleURL string
	Entities   string
	Summary    string
	Action     string
	Fallback   bool
}

// Format renders the notification body sent to the messaging channel.
func (n Notification) Format() string {
	body := "**AI News Intelligence**"
	if n.Entities != "" {
		body += fmt.Sprintf("\n\n**%s**", n.Entities)
	}
	body += fmt.Sprintf("\n\n%s", n.Summary)
	if n.Action != "" {
		body += fmt.Sprintf("\n\n➡️ %s", n.Action)
	}
	return body + fmt.Sprintf("\n\n🔗 %s", n.ArticleURL)
}

// ProcessedArticle is the snapshot persisted to the run archive after a run
// completes. History is audit-only; deduplication never consults it.
type ProcessedArticle struct {
	Article   Article
	Impact    ImpactType
	Areas     []ImpactArea
	Summary   string
	RunID     string
	Delivered bool
}
