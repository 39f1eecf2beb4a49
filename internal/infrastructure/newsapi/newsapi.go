package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"NewsIntel/internal/config"
	"NewsIntel/internal/domain"
	"NewsIntel/internal/ports"
	"NewsIntel/internal/source"
)

// NewsAPIClient searches NewsAPI.org's everything endpoint, constrained to
// the requested day.
type NewsAPIClient struct {
	endpoint      string
	apiKey        string
	language      string
	leadSentences int
	client        *http.Client
}

var _ source.Strategy = (*NewsAPIClient)(nil)

// NewNewsAPIClient wires the API key and an HTTP client.
func NewNewsAPIClient(cfg config.NewsAPIConfig, leadSentences int, client *http.Client) *NewsAPIClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &NewsAPIClient{
		endpoint:      cfg.Endpoint,
		apiKey:        cfg.APIKey,
		language:      cfg.Language,
		leadSentences: leadSentences,
		client:        client,
	}
}

// Name identifies the strategy inside the registry.
func (c *NewsAPIClient) Name() string {
	return "newsapi"
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Content     string `json:"content"`
	PublishedAt string `json:"publishedAt"`
}

// Search runs one everything query for the keyword within the day window.
func (c *NewsAPIClient) Search(ctx context.Context, req source.Request) ([]domain.Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: newsapi key missing", ports.ErrSourceUnavailable)
	}

	day := req.Day.Format("2006-01-02")
	query := url.Values{}
	query.Set("q", req.Keyword)
	query.Set("from", day)
	query.Set("to", day)
	query.Set("sortBy", "publishedAt")
	if c.language != "" {
		query.Set("language", c.language)
	}
	if req.MaxResults > 0 && req.MaxResults < 100 {
		query.Set("pageSize", strconv.Itoa(req.MaxResults))
	} else {
		query.Set("pageSize", "100")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: newsapi returned %s", ports.ErrSourceUnavailable, resp.Status)
	}

	var parsed newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ports.ErrSourceUnavailable, err)
	}

	articles := make([]domain.Article, 0, len(parsed.Articles))
	for _, item := range parsed.Articles {
		if item.URL == "" {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, item.PublishedAt)
		if err != nil {
			publishedAt = req.Day
		}

		description := item.Description
		if description == "" {
			description = item.Content
		}

		articles = append(articles, domain.Article{
			URL:         item.URL,
			Title:       StripTags(item.Title),
			PublishedAt: publishedAt,
			Source:      c.Name(),
			Outlet:      item.Source.Name,
			Lead:        ExtractLead(StripTags(description), c.leadSentences),
		})
	}

	return articles, nil
}
