package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"NewsIntel/internal/domain"
)

// extractPartners builds the partnership database from the analyzed
// articles: every article is mined for organizations doing something
// concrete in AI, then the results are merged by company name. Extraction is
// best-effort enrichment; a failed article contributes nothing and never
// affects the run outcome.
func (p *Pipeline) extractPartners(ctx context.Context, analyzed []domain.AnalyzedArticle) []domain.PartnerCompany {
	if len(analyzed) == 0 {
		return nil
	}

	results := make([][]domain.PartnerCompany, len(analyzed))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxConcurrent)
	for i := range analyzed {
		g.Go(func() error {
			results[i] = p.extractCompanies(gctx, analyzed[i])
			return nil
		})
	}
	_ = g.Wait()

	var all []domain.PartnerCompany
	for _, companies := range results {
		all = append(all, companies...)
	}
	return domain.DedupePartners(all)
}

func (p *Pipeline) extractCompanies(ctx context.Context, analyzed domain.AnalyzedArticle) []domain.PartnerCompany {
	if ctx.Err() != nil {
		return nil
	}

	response, err := p.classifier.Classify(ctx, partnerPrompt(analyzed))
	if err != nil {
		p.logger.Warn("partner extraction failed, skipping article",
			"url", analyzed.Article.URL, "error", err)
		return nil
	}

	partners, err := parsePartners(response, partnerCategory(analyzed.Article), analyzed.Article.URL)
	if err != nil {
		p.logger.Warn("partner response unparseable, skipping article",
			"url", analyzed.Article.URL, "error", err)
		return nil
	}
	return partners
}

// partnerCategory buckets a partner under the article's leading category.
func partnerCategory(article domain.Article) domain.Category {
	if len(article.Categories) > 0 {
		return article.Categories[0]
	}
	return domain.CategoryTechnology
}

func partnerPrompt(analyzed domain.AnalyzedArticle) string {
	return fmt.Sprintf(`Extract partnership candidates from this AI news article for an advertising and customer-data business.

Title: %s
Content: %s
Impact type: %s
Reasoning: %s

List every company or organization in the article that is actively doing something in AI. Skip generic mentions ("local firms", "the industry"). For each one give:
- name: the company or organization name
- field: its specific AI field (for example "AI search", "ad platform", "customer analytics")
- recent_achievement: what it achieved or announced in this article, one sentence
- collaboration_point: one concrete way a loyalty-data and advertising business could work with it

Respond with only a JSON array:
[{"name": "...", "field": "...", "recent_achievement": "...", "collaboration_point": "..."}]`,
		analyzed.Article.Title,
		truncate(analyzed.Article.EffectiveText(), maxPromptContent),
		analyzed.Context.Impact, analyzed.Context.Reasoning)
}

// extractJSONArray pulls the outermost JSON array out of a model response.
func extractJSONArray(response string) (string, bool) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end <= start {
		return "", false
	}
	return response[start : end+1], true
}

func parsePartners(response string, category domain.Category, articleURL string) ([]domain.PartnerCompany, error) {
	raw, ok := extractJSONArray(response)
	if !ok {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var dtos []struct {
		Name               string `json:"name"`
		Field              string `json:"field"`
		RecentAchievement  string `json:"recent_achievement"`
		CollaborationPoint string `json:"collaboration_point"`
	}
	if err := json.Unmarshal([]byte(raw), &dtos); err != nil {
		return nil, fmt.Errorf("decode partners: %w", err)
	}

	partners := make([]domain.PartnerCompany, 0, len(dtos))
	for _, dto := range dtos {
		// Entries missing any required field are model noise.
		if strings.TrimSpace(dto.Name) == "" || dto.Field == "" ||
			dto.RecentAchievement == "" || dto.CollaborationPoint == "" {
			continue
		}
		partners = append(partners, domain.PartnerCompany{
			Name:               strings.TrimSpace(dto.Name),
			Category:           category,
			Field:              dto.Field,
			RecentAchievement:  dto.RecentAchievement,
			CollaborationPoint: dto.CollaborationPoint,
			ArticleURL:         articleURL,
		})
	}
	return partners, nil
}
