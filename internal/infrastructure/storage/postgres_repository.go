package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"NewsIntel/internal/domain"
	"NewsIntel/internal/ports"
)

// PostgresRepository archives processed articles and run summaries. The
// archive is audit-only: deduplication never reads it back.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RunRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveProcessed upserts the processed article snapshot keyed by URL.
func (r *PostgresRepository) SaveProcessed(ctx context.Context, article domain.ProcessedArticle) error {
	if r.db == nil {
		return nil
	}

	categories := make([]string, 0, len(article.Article.Categories))
	for _, c := range article.Article.Categories {
		categories = append(categories, string(c))
	}
	areas := make([]string, 0, len(article.Areas))
	for _, a := range article.Areas {
		areas = append(areas, string(a))
	}

	query, args, err := r.builder.
		Insert("processed_articles").
		Columns("url", "title", "outlet", "source", "published_at",
			"categories", "impact_type", "impact_areas", "summary",
			"run_id", "delivered").
		Values(article.Article.URL, article.Article.Title,
			article.Article.Outlet, article.Article.Source,
			article.Article.PublishedAt, pq.Array(categories),
			string(article.Impact), pq.Array(areas), article.Summary,
			article.RunID, article.Delivered).
		Suffix(`ON CONFLICT (url) DO UPDATE
                SET summary = EXCLUDED.summary,
                    impact_type = EXCLUDED.impact_type,
                    impact_areas = EXCLUDED.impact_areas,
                    run_id = EXCLUDED.run_id,
                    delivered = EXCLUDED.delivered,
                    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert processed: %w", err)
	}
	return nil
}

// SavePartner upserts one partnership database row keyed by company name.
// A fresh mention refreshes the achievement and collaboration angle.
func (r *PostgresRepository) SavePartner(ctx context.Context, partner domain.PartnerCompany) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("partner_companies").
		Columns("name", "category", "field", "recent_achievement",
			"collaboration_point", "article_url", "run_id").
		Values(partner.Name, string(partner.Category), partner.Field,
			partner.RecentAchievement, partner.CollaborationPoint,
			partner.ArticleURL, partner.RunID).
		Suffix(`ON CONFLICT (name) DO UPDATE
                SET category = EXCLUDED.category,
                    field = EXCLUDED.field,
                    recent_achievement = EXCLUDED.recent_achievement,
                    collaboration_point = EXCLUDED.collaboration_point,
                    article_url = EXCLUDED.article_url,
                    run_id = EXCLUDED.run_id,
                    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build partner upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert partner: %w", err)
	}
	return nil
}

// SaveRunSummary records the stage funnel and the regulatory pair for one
// completed run.
func (r *PostgresRepository) SaveRunSummary(ctx context.Context, stats domain.RunStatistics) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("pipeline_runs").
		Columns("run_id", "started_at", "finished_at", "collected",
			"after_first_dedup", "after_category_filter",
			"after_second_dedup", "after_value_validation", "final_output",
			"regulatory_found", "regulatory_retained").
		Values(stats.RunID, stats.StartedAt, stats.FinishedAt,
			stats.Collected, stats.AfterFirstDedup, stats.AfterCategoryFilter,
			stats.AfterSecondDedup, stats.AfterValueValidation,
			stats.FinalOutput, stats.RegulatoryFound, stats.RegulatoryRetained).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run summary: %w", err)
	}
	return nil
}
