package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"NewsIntel/internal/config"
	"NewsIntel/internal/domain"
	"NewsIntel/internal/ports"
	"NewsIntel/internal/source"
)

const (
	naverPageSize = 100
	naverMaxPages = 10
)

// NaverClient searches the Naver News API. Results are paginated newest
// first, so collection walks pages until the requested day is exhausted.
type NaverClient struct {
	endpoint      string
	clientID      string
	clientSecret  string
	leadSentences int
	client        *http.Client
	logger        *slog.Logger
}

var _ source.Strategy = (*NaverClient)(nil)

// NewNaverClient wires credentials and an HTTP client.
func NewNaverClient(cfg config.NaverConfig, leadSentences int, client *http.Client, logger *slog.Logger) *NaverClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &NaverClient{
		endpoint:      cfg.Endpoint,
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		leadSentences: leadSentences,
		client:        client,
		logger:        logger,
	}
}

// Name identifies the strategy inside the registry.
func (n *NaverClient) Name() string {
	return "naver"
}

type naverResponse struct {
	Items []naverItem `json:"items"`
}

type naverItem struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	OriginalLink string `json:"originallink"`
	Description  string `json:"description"`
	PubDate      string `json:"pubDate"`
}

// Search pages through results for the keyword and keeps articles published
// on the requested day.
func (n *NaverClient) Search(ctx context.Context, req source.Request) ([]domain.Article, error) {
	if n.clientID == "" || n.clientSecret == "" {
		return nil, fmt.Errorf("%w: naver credentials missing", ports.ErrSourceUnavailable)
	}

	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}
	dayStart := time.Date(req.Day.Year(), req.Day.Month(), req.Day.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	var articles []domain.Article
	for page := 1; page <= naverMaxPages; page++ {
		if len(articles) >= req.MaxResults && req.MaxResults > 0 {
			break
		}

		items, err := n.fetchPage(ctx, req.Keyword, (page-1)*naverPageSize+1)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}

		var older int
		for _, item := range items {
			publishedAt, err := time.Parse(time.RFC1123Z, item.PubDate)
			if err != nil {
				n.debug("naver date parse failed", "pubDate", item.PubDate)
				continue
			}
			if publishedAt.Before(dayStart) {
				older++
				continue
			}
			if publishedAt.After(dayEnd) {
				continue
			}

			description := StripTags(item.Description)
			articles = append(articles, domain.Article{
				URL:         item.Link,
				Title:       StripTags(item.Title),
				PublishedAt: publishedAt,
				Source:      n.Name(),
				Lead:        ExtractLead(description, n.leadSentences),
			})
		}

		// Results are sorted by date; once a page is dominated by older
		// articles the target day is behind us.
		if older > len(items)/2 {
			break
		}
	}

	return articles, nil
}

func (n *NaverClient) fetchPage(ctx context.Context, keyword string, start int) ([]naverItem, error) {
	query := url.Values{}
	query.Set("query", keyword)
	query.Set("display", strconv.Itoa(naverPageSize))
	query.Set("start", strconv.Itoa(start))
	query.Set("sort", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", n.clientID)
	req.Header.Set("X-Naver-Client-Secret", n.clientSecret)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: naver returned %s", ports.ErrSourceUnavailable, resp.Status)
	}

	var parsed naverResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ports.ErrSourceUnavailable, err)
	}
	return parsed.Items, nil
}

func (n *NaverClient) debug(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Debug(msg, args...)
	}
}
