package extractor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsIntel/internal/ports"
)

const (
	defaultMinLength = 200
	userAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Known article body containers, tried in order before the all-paragraph
// fallback.
var bodySelectors = []string{
	"#articleBodyContents",
	"#newsct_article",
	".article_body",
	".article_view",
	"#harmonyContainer",
	"article",
	".article-body",
	".article-content",
	"#article-body",
	".news-content",
	`div[itemprop="articleBody"]`,
	".post-content",
	".entry-content",
}

// Extractor fetches article pages and pulls the body text through a
// selector cascade.
type Extractor struct {
	client    *http.Client
	minLength int
}

var _ ports.ContentExtractor = (*Extractor)(nil)

// New wires an HTTP client; minLength below 1 defaults to 200 characters.
func New(client *http.Client, minLength int) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if minLength < 1 {
		minLength = defaultMinLength
	}
	return &Extractor{client: client, minLength: minLength}
}

// Extract downloads the page and returns the article body. Anything that
// prevents a usable body surfaces as ErrExtractionFailed so the caller can
// fall back to the lead paragraph.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ports.ErrExtractionFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ports.ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: got %s", ports.ErrExtractionFailed, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: parse document: %v", ports.ErrExtractionFailed, err)
	}

	doc.Find("script, style, nav, header, footer, aside, iframe").Remove()

	for _, selector := range bodySelectors {
		if body := e.textFromSelection(doc.Find(selector).First()); body != "" {
			return body, nil
		}
	}

	// Last resort: all substantial paragraphs on the page.
	var parts []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if len([]rune(text)) > 20 {
			parts = append(parts, text)
		}
	})
	if body := strings.Join(parts, " "); len([]rune(body)) >= e.minLength {
		return body, nil
	}

	return "", fmt.Errorf("%w: no usable body at %s", ports.ErrExtractionFailed, pageURL)
}

func (e *Extractor) textFromSelection(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}

	var parts []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	body := strings.Join(parts, " ")
	if len([]rune(body)) < e.minLength {
		body = strings.Join(strings.Fields(sel.Text()), " ")
	}
	if len([]rune(body)) >= e.minLength {
		return body
	}
	return ""
}
