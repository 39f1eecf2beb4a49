package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"NewsIntel/internal/domain"
)

// maxPromptContent bounds how much article text a single prompt carries.
const maxPromptContent = 2000

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// extractJSON pulls the outermost JSON object out of a model response that
// may wrap it in prose or code fences.
func extractJSON(response string) (string, bool) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return response[start : end+1], true
}

// classifyCategories runs the category-filter decision for one article.
// Every failure path resolves to the fail-safe default: pass with the
// technology category, marked as fallback.
func (p *Pipeline) classifyCategories(ctx context.Context, article domain.Article) domain.Verdict {
	if ctx.Err() != nil {
		return domain.FallbackVerdict("run deadline reached before classification")
	}

	response, err := p.classifier.Classify(ctx, categoryPrompt(article))
	if err != nil {
		p.logger.Warn("category classification failed, fail-safe pass",
			"url", article.URL, "error", err)
		return domain.FallbackVerdict("classifier unavailable")
	}

	verdict, err := parseCategoryVerdict(response)
	if err != nil {
		p.logger.Warn("category verdict unparseable, fail-safe pass",
			"url", article.URL, "error", err)
		return domain.FallbackVerdict("unparseable classifier response")
	}
	return verdict
}

func categoryPrompt(article domain.Article) string {
	return fmt.Sprintf(`Classify this news article for an advertising and customer-data business.

Title: %s
Lead: %s
Source: %s

Decide PASS or FAIL. PASS only if the article's core subject is AI and it fits at least one category:
- solution: AI marketing or advertising tools and services
- case: a company concretely applying AI to marketing, advertising, or customer service
- technology: AI models, algorithms, or data-analysis techniques with plausible future application
- regulation: AI law, privacy, data regulation, or AI ethics guidance (never exclude these)

FAIL anything where AI is absent or incidental: local events, trade or tariff politics, executive appointments, generic corporate news, sports, entertainment, weather, incidents, or vague "digital transformation" talk without concrete AI substance.

Respond with only this JSON object:
{"pass": true|false, "categories": ["solution"|"case"|"technology"|"regulation", ...], "reason": "one sentence"}`,
		article.Title, truncate(article.Lead, maxPromptContent), article.Source)
}

func parseCategoryVerdict(response string) (domain.Verdict, error) {
	raw, ok := extractJSON(response)
	if !ok {
		return domain.Verdict{}, fmt.Errorf("no JSON object in response")
	}

	var dto struct {
		Pass       bool     `json:"pass"`
		Categories []string `json:"categories"`
		Reason     string   `json:"reason"`
	}
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return domain.Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}

	verdict := domain.Verdict{Pass: dto.Pass, Rationale: dto.Reason}
	for _, label := range dto.Categories {
		if category, ok := domain.ParseCategory(label); ok {
			verdict.Categories = append(verdict.Categories, category)
		}
	}

	// A regulation label always passes, whatever the raw decision said.
	for _, c := range verdict.Categories {
		if c == domain.CategoryRegulation {
			verdict.Pass = true
			break
		}
	}
	return verdict, nil
}

// validateValue runs the business-value decision for one article. Protected
// articles judged valueless are forced back in with the override recorded.
func (p *Pipeline) validateValue(ctx context.Context, article domain.Article) domain.ValueVerdict {
	if ctx.Err() != nil {
		return domain.FallbackValueVerdict("run deadline reached before validation")
	}

	response, err := p.classifier.Classify(ctx, valuePrompt(article))
	if err != nil {
		p.logger.Warn("value validation failed, fail-safe keep",
			"url", article.URL, "error", err)
		return fallbackValueFor(article, "classifier unavailable")
	}

	verdict, err := parseValueVerdict(response)
	if err != nil {
		p.logger.Warn("value verdict unparseable, fail-safe keep",
			"url", article.URL, "error", err)
		return fallbackValueFor(article, "unparseable classifier response")
	}

	if article.Protected() && !verdict.HasValue {
		p.logger.Warn("regulatory article judged valueless, overriding to keep",
			"url", article.URL)
		verdict.HasValue = true
		verdict.Overridden = true
		verdict.Rationale = "regulatory article retained; original verdict: " + verdict.Rationale
	}
	return verdict
}

func fallbackValueFor(article domain.Article, reason string) domain.ValueVerdict {
	verdict := domain.FallbackValueVerdict(reason)
	verdict.Overridden = article.Protected()
	return verdict
}

func valuePrompt(article domain.Article) string {
	categories := make([]string, 0, len(article.Categories))
	for _, c := range article.Categories {
		categories = append(categories, string(c))
	}

	return fmt.Sprintf(`Judge whether this article has real, practical value for advertising and marketing practitioners at a customer-data business.

Title: %s
Categories: %s
Content: %s

Keep only if an AI technology, product, service, or regulation is the core subject. Regulatory and legal AI articles always have value. Fail event coverage, personnel news, generic corporate announcements, and anything where AI is only name-dropped.

Respond with only this JSON object:
{"has_business_value": true|false, "reason": "one sentence"}`,
		article.Title, strings.Join(categories, ", "),
		truncate(article.EffectiveText(), maxPromptContent))
}

func parseValueVerdict(response string) (domain.ValueVerdict, error) {
	raw, ok := extractJSON(response)
	if !ok {
		return domain.ValueVerdict{}, fmt.Errorf("no JSON object in response")
	}

	var dto struct {
		HasBusinessValue bool   `json:"has_business_value"`
		Reason           string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return domain.ValueVerdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	return domain.ValueVerdict{HasValue: dto.HasBusinessValue, Rationale: dto.Reason}, nil
}

// analyzeContext assigns an impact type and impact areas. This stage only
// annotates; nothing is removed here.
func (p *Pipeline) analyzeContext(ctx context.Context, article domain.Article) domain.ContextAnalysis {
	if ctx.Err() != nil {
		return domain.FallbackContextAnalysis("run deadline reached before analysis")
	}

	response, err := p.classifier.Classify(ctx, contextPrompt(article))
	if err != nil {
		p.logger.Warn("context analysis failed, watchlisting",
			"url", article.URL, "error", err)
		return domain.FallbackContextAnalysis("classifier unavailable")
	}

	analysis, err := parseContextAnalysis(response)
	if err != nil {
		p.logger.Warn("context analysis unparseable, watchlisting",
			"url", article.URL, "error", err)
		return domain.FallbackContextAnalysis("unparseable classifier response")
	}
	return analysis
}

func contextPrompt(article domain.Article) string {
	return fmt.Sprintf(`Analyze this AI news article from the perspective of a membership-data and advertising business (loyalty data platform, advertising agency services, data sales, online-offline retail linkage).

Title: %s
Content: %s

1. impact_type, choose one: opportunity | threat | mixed | watchlist
2. impact_areas, choose any that apply: "membership data usage", "targeting / segmentation", "advertising agency / data sales business", "online-offline linkage", "legal / compliance", "none"
3. reasoning: one sentence on why this matters

Respond with only this JSON object:
{"impact_type": "...", "impact_areas": ["..."], "reasoning": "..."}`,
		article.Title, truncate(article.EffectiveText(), maxPromptContent))
}

func parseContextAnalysis(response string) (domain.ContextAnalysis, error) {
	raw, ok := extractJSON(response)
	if !ok {
		return domain.ContextAnalysis{}, fmt.Errorf("no JSON object in response")
	}

	var dto struct {
		ImpactType  string   `json:"impact_type"`
		ImpactAreas []string `json:"impact_areas"`
		Reasoning   string   `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return domain.ContextAnalysis{}, fmt.Errorf("decode analysis: %w", err)
	}

	return domain.ContextAnalysis{
		Impact:    domain.ParseImpactType(dto.ImpactType),
		Areas:     domain.ParseImpactAreas(dto.ImpactAreas),
		Reasoning: dto.Reasoning,
	}, nil
}

// formatMessage builds the notification for one analyzed article, emitting
// a minimal fallback message rather than omitting the article.
func (p *Pipeline) formatMessage(ctx context.Context, analyzed domain.AnalyzedArticle) domain.Notification {
	if ctx.Err() == nil {
		response, err := p.classifier.Classify(ctx, messagePrompt(analyzed))
		if err == nil {
			if message, perr := parseMessage(response, analyzed.Article.URL); perr == nil {
				return message
			} else {
				p.logger.Warn("message response unparseable, using fallback",
					"url", analyzed.Article.URL, "error", perr)
			}
		} else {
			p.logger.Warn("message formatting failed, using fallback",
				"url", analyzed.Article.URL, "error", err)
		}
	}
	return fallbackMessage(analyzed)
}

func messagePrompt(analyzed domain.AnalyzedArticle) string {
	areas := make([]string, 0, len(analyzed.Context.Areas))
	for _, a := range analyzed.Context.Areas {
		areas = append(areas, string(a))
	}

	return fmt.Sprintf(`Write a team notification for this AI news article.

Title: %s
Content: %s
Impact type: %s
Impact areas: %s
Reasoning: %s

Rules: facts first in two or three short lines, then one actionable takeaway only if the business connection is concrete. No forced connections.

Respond with only this JSON object:
{"entities": "main companies or bodies involved", "key_summary": "2-3 line factual summary", "action": "one concrete follow-up, or empty string"}`,
		analyzed.Article.Title,
		truncate(analyzed.Article.EffectiveText(), maxPromptContent+500),
		analyzed.Context.Impact, strings.Join(areas, ", "),
		analyzed.Context.Reasoning)
}

func parseMessage(response, articleURL string) (domain.Notification, error) {
	raw, ok := extractJSON(response)
	if !ok {
		return domain.Notification{}, fmt.Errorf("no JSON object in response")
	}

	var dto struct {
		Entities   string `json:"entities"`
		KeySummary string `json:"key_summary"`
		Action     string `json:"action"`
	}
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return domain.Notification{}, fmt.Errorf("decode message: %w", err)
	}
	if strings.TrimSpace(dto.KeySummary) == "" {
		return domain.Notification{}, fmt.Errorf("empty key_summary")
	}

	return domain.Notification{
		ArticleURL: articleURL,
		Entities:   dto.Entities,
		Summary:    truncate(dto.KeySummary, 600),
		Action:     dto.Action,
	}, nil
}

var fallbackActions = map[domain.ImpactType]string{
	domain.ImpactOpportunity: "review the new opportunity",
	domain.ImpactThreat:      "assess the competitive response",
	domain.ImpactMixed:       "analyze impact and plan a response",
	domain.ImpactWatchlist:   "monitor developments",
}

func fallbackMessage(analyzed domain.AnalyzedArticle) domain.Notification {
	summary := analyzed.Article.Title
	if analyzed.Context.Reasoning != "" {
		summary += " — " + analyzed.Context.Reasoning
	}
	return domain.Notification{
		ArticleURL: analyzed.Article.URL,
		Summary:    truncate(summary, 300),
		Action:     fallbackActions[analyzed.Context.Impact],
		Fallback:   true,
	}
}
