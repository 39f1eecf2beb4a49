package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"NewsIntel/internal/dedup"
	"NewsIntel/internal/domain"
	"NewsIntel/internal/ports"
	"NewsIntel/internal/similarity"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Extractor  ports.ContentExtractor
	Similarity *similarity.Engine
	Classifier ports.Classifier
	Notifier   ports.Notifier
	Repository ports.RunRepository
	Logger     *slog.Logger
}

// Options carries the run-level knobs.
type Options struct {
	FirstDedupThreshold  float64
	SecondDedupThreshold float64
	MaxConcurrent        int
	RunTimeout           time.Duration
}

// Pipeline runs the six-stage curation workflow:
// collect+dedup1 → category filter → extract+dedup2 → value validation →
// context analysis → message formatting. Data flows strictly forward;
// RunStatistics is owned here and mutated only at stage boundaries.
type Pipeline struct {
	source     ports.ArticleSource
	extractor  ports.ContentExtractor
	similarity *similarity.Engine
	classifier ports.Classifier
	notifier   ports.Notifier
	repository ports.RunRepository
	logger     *slog.Logger
	opts       Options
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps, opts Options) *Pipeline {
	if opts.FirstDedupThreshold <= 0 || opts.FirstDedupThreshold >= 1 {
		opts.FirstDedupThreshold = 0.85
	}
	if opts.SecondDedupThreshold <= 0 || opts.SecondDedupThreshold >= 1 {
		opts.SecondDedupThreshold = 0.90
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 8
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		source:     deps.Source,
		extractor:  deps.Extractor,
		similarity: deps.Similarity,
		classifier: deps.Classifier,
		notifier:   deps.Notifier,
		repository: deps.Repository,
		logger:     logger,
		opts:       opts,
	}
}

// Run executes one full pipeline run over the given collection day. Only a
// configuration-level failure (no sources at all) aborts; every per-article
// failure resolves toward inclusion. The run completes and emits whatever
// survived even when the regulatory invariant is violated; the violation
// is surfaced as a critical log line.
func (p *Pipeline) Run(ctx context.Context, day time.Time) (domain.RunStatistics, []domain.Notification, error) {
	stats := domain.NewRunStatistics(time.Now())
	p.logger.Info("pipeline run starting", "run_id", stats.RunID, "day", day.Format("2006-01-02"))

	if p.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.RunTimeout)
		defer cancel()
	}

	// Stage 1: collection and title+lead dedup.
	articles, err := p.source.CollectDaily(ctx, day)
	if err != nil {
		return stats, nil, err
	}
	stats.Collected = len(articles)

	articles = p.dedupTitleLead(ctx, articles)
	stats.AfterFirstDedup = len(articles)

	// Stage 2: category filter.
	articles = p.filterCategories(ctx, articles)
	stats.AfterCategoryFilter = len(articles)
	stats.RegulatoryFound = countProtected(articles)

	// Stage 3: extraction and full-content dedup, the last stage able to
	// remove a protected article from the set.
	articles = p.extractAndDedup(ctx, articles)
	stats.AfterSecondDedup = len(articles)
	stats.RegulatoryRetained = countProtected(articles)

	// Stage 4: value validation.
	analyzed := p.validateAll(ctx, articles)
	stats.AfterValueValidation = len(analyzed)

	// Stage 5: context analysis (annotation only).
	analyzed = p.analyzeAll(ctx, analyzed)

	// Stage 6: message formatting.
	messages := p.formatAll(ctx, analyzed)
	stats.FinalOutput = len(messages)

	// Post-run enrichment: the partnership database needs an archive to
	// land in; without one the extraction calls would be wasted.
	var partners []domain.PartnerCompany
	if p.repository != nil {
		partners = p.extractPartners(ctx, analyzed)
	}

	stats.FinishedAt = time.Now()
	p.finish(ctx, stats, analyzed, messages, partners)

	return stats, messages, nil
}

// dedupTitleLead fingerprints title+lead spans, clusters at the stage-1
// threshold, and keeps one survivor per cluster. Exact textual duplicates
// collapse by hash before any embedding call.
func (p *Pipeline) dedupTitleLead(ctx context.Context, articles []domain.Article) []domain.Article {
	if len(articles) == 0 {
		return articles
	}

	unique := make([]domain.Article, 0, len(articles))
	seenHash := map[string]struct{}{}
	for _, article := range articles {
		article.TitleLeadHash = domain.TextHash(article.TitleLead())
		if _, dup := seenHash[article.TitleLeadHash]; dup {
			continue
		}
		seenHash[article.TitleLeadHash] = struct{}{}
		unique = append(unique, article)
	}

	texts := make([]string, len(unique))
	for i, article := range unique {
		texts[i] = article.TitleLead()
	}

	vectors, err := p.similarity.FingerprintBatch(ctx, texts)
	if err != nil {
		// No fingerprints means singleton clusters: every article is kept.
		p.logger.Warn("title+lead fingerprints unavailable, skipping semantic dedup", "error", err)
	} else {
		for i := range unique {
			unique[i].Fingerprint = vectors[i]
		}
	}

	now := time.Now()
	var survivors []domain.Article
	for _, cluster := range dedup.Group(unique, p.opts.FirstDedupThreshold) {
		survivor := dedup.SelectStage1(cluster.Members, now)
		if len(cluster.Members) > 1 {
			p.logger.Debug("collapsed duplicate cluster",
				"cluster", cluster.ID, "size", len(cluster.Members),
				"survivor", survivor.URL)
		}
		survivors = append(survivors, survivor)
	}
	return survivors
}

// filterCategories classifies every article concurrently and keeps the ones
// that pass, carrying their assigned categories forward. Counts are
// aggregated only after the fan-out completes.
func (p *Pipeline) filterCategories(ctx context.Context, articles []domain.Article) []domain.Article {
	if len(articles) == 0 {
		return articles
	}

	verdicts := make([]domain.Verdict, len(articles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxConcurrent)
	for i := range articles {
		g.Go(func() error {
			verdicts[i] = p.classifyCategories(gctx, articles[i])
			return nil
		})
	}
	_ = g.Wait()

	var passed []domain.Article
	for i, verdict := range verdicts {
		if !verdict.Pass {
			p.logger.Debug("article filtered out",
				"url", articles[i].URL, "reason", verdict.Rationale)
			continue
		}
		articles[i].Categories = verdict.Categories
		passed = append(passed, articles[i])
	}
	return passed
}

// extractAndDedup fetches full text concurrently (lead fallback on
// extraction failure; an article is never dropped for a failed fetch),
// then clusters full-content fingerprints at the stage-2 threshold with the
// protected-aware survivor policy.
func (p *Pipeline) extractAndDedup(ctx context.Context, articles []domain.Article) []domain.Article {
	if len(articles) == 0 {
		return articles
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxConcurrent)
	for i := range articles {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			fullText, err := p.extractor.Extract(gctx, articles[i].URL)
			if err != nil {
				p.logger.Debug("extraction failed, falling back to lead",
					"url", articles[i].URL, "error", err)
				return nil
			}
			articles[i].FullText = fullText
			return nil
		})
	}
	_ = g.Wait()

	// All extraction results are in before any clustering happens.
	texts := make([]string, len(articles))
	for i, article := range articles {
		texts[i] = article.EffectiveText()
	}

	vectors, err := p.similarity.FingerprintBatch(ctx, texts)
	if err != nil {
		p.logger.Warn("content fingerprints unavailable, skipping semantic dedup", "error", err)
		for i := range articles {
			articles[i].Fingerprint = nil
		}
	} else {
		for i := range articles {
			articles[i].Fingerprint = vectors[i]
		}
	}

	var survivors []domain.Article
	for _, cluster := range dedup.Group(articles, p.opts.SecondDedupThreshold) {
		survivor := dedup.SelectStage2(cluster.Members)
		survivor = p.assertProtectedSurvivor(cluster, survivor)
		survivors = append(survivors, survivor)
	}
	return survivors
}

// assertProtectedSurvivor re-checks the hard retention invariant after the
// score-based policy ran. The selector already enforces it; if it ever
// fails, the violation is surfaced loudly and corrected.
func (p *Pipeline) assertProtectedSurvivor(cluster dedup.Cluster[domain.Article], survivor domain.Article) domain.Article {
	if survivor.Protected() {
		return survivor
	}
	for _, member := range cluster.Members {
		if member.Protected() {
			p.logger.Error("protected article lost by selection policy, restoring",
				"cluster", cluster.ID, "selected", survivor.URL, "restored", member.URL)
			return member
		}
	}
	return survivor
}

func (p *Pipeline) validateAll(ctx context.Context, articles []domain.Article) []domain.AnalyzedArticle {
	if len(articles) == 0 {
		return nil
	}

	verdicts := make([]domain.ValueVerdict, len(articles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxConcurrent)
	for i := range articles {
		g.Go(func() error {
			verdicts[i] = p.validateValue(gctx, articles[i])
			return nil
		})
	}
	_ = g.Wait()

	var analyzed []domain.AnalyzedArticle
	for i, verdict := range verdicts {
		if !verdict.HasValue {
			p.logger.Debug("article lacks business value",
				"url", articles[i].URL, "reason", verdict.Rationale)
			continue
		}
		analyzed = append(analyzed, domain.AnalyzedArticle{
			Article: articles[i],
			Value:   verdict,
		})
	}
	return analyzed
}

func (p *Pipeline) analyzeAll(ctx context.Context, analyzed []domain.AnalyzedArticle) []domain.AnalyzedArticle {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxConcurrent)
	for i := range analyzed {
		g.Go(func() error {
			analyzed[i].Context = p.analyzeContext(gctx, analyzed[i].Article)
			return nil
		})
	}
	_ = g.Wait()
	return analyzed
}

func (p *Pipeline) formatAll(ctx context.Context, analyzed []domain.AnalyzedArticle) []domain.Notification {
	messages := make([]domain.Notification, len(analyzed))
	for i, item := range analyzed {
		messages[i] = p.formatMessage(ctx, item)
	}
	return messages
}

// finish surfaces the run summary and the regulatory invariant, archives
// the run and the partnership rows, and hands messages to the notifier.
// None of these steps can fail the run.
func (p *Pipeline) finish(ctx context.Context, stats domain.RunStatistics, analyzed []domain.AnalyzedArticle, messages []domain.Notification, partners []domain.PartnerCompany) {
	// Reporting must still happen when the run deadline already fired.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
	defer cancel()

	if stats.RegulatoryMismatch() {
		p.logger.Error("CRITICAL: regulatory articles lost between category filter and second dedup",
			"run_id", stats.RunID,
			"regulatory_found", stats.RegulatoryFound,
			"regulatory_retained", stats.RegulatoryRetained)
	}

	p.logger.Info("pipeline run complete",
		"run_id", stats.RunID,
		"summary", stats.Summary(),
		"partners", len(partners),
		"duration", stats.Duration().Round(time.Millisecond))

	if p.repository != nil {
		for i, item := range analyzed {
			processed := domain.ProcessedArticle{
				Article:   item.Article,
				Impact:    item.Context.Impact,
				Areas:     item.Context.Areas,
				RunID:     stats.RunID,
				Delivered: p.notifier != nil,
			}
			if i < len(messages) {
				processed.Summary = messages[i].Summary
			}
			if err := p.repository.SaveProcessed(ctx, processed); err != nil {
				p.logger.Warn("archive article failed", "url", item.Article.URL, "error", err)
			}
		}
		for _, partner := range partners {
			partner.RunID = stats.RunID
			if err := p.repository.SavePartner(ctx, partner); err != nil {
				p.logger.Warn("archive partner failed", "name", partner.Name, "error", err)
			}
		}
		if err := p.repository.SaveRunSummary(ctx, stats); err != nil {
			p.logger.Warn("archive run summary failed", "run_id", stats.RunID, "error", err)
		}
	}

	if p.notifier != nil && len(messages) > 0 {
		if err := p.notifier.Send(ctx, messages); err != nil {
			p.logger.Warn("notification delivery failed", "error", err)
		}
	}
}

func countProtected(articles []domain.Article) int {
	var count int
	for _, article := range articles {
		if article.Protected() {
			count++
		}
	}
	return count
}
