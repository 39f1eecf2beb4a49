package newsapi

import (
	"regexp"
	"strings"
)

var tagExpr = regexp.MustCompile(`<[^>]*>`)

// StripTags removes HTML markup that news search APIs embed in titles and
// descriptions.
func StripTags(text string) string {
	text = tagExpr.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	return strings.TrimSpace(text)
}

// ExtractLead keeps the first n sentences of a description so the dedup
// fingerprint sees the informative part of the article.
func ExtractLead(content string, n int) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	if n <= 0 {
		n = 3
	}

	var sentences []string
	var current strings.Builder
	for _, r := range content {
		current.WriteRune(r)
		// Sentence boundary; very short fragments are treated as
		// abbreviations and kept in the current sentence.
		if (r == '.' || r == '!' || r == '?') && current.Len() > 10 {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
			if len(sentences) >= n {
				break
			}
		}
	}
	if current.Len() > 0 && len(sentences) < n {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	lead := strings.Join(sentences, " ")
	if lead == "" {
		if len([]rune(content)) > 500 {
			return string([]rune(content)[:500])
		}
		return content
	}
	return lead
}
