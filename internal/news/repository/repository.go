package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/db"
	"motormarket_backend/platform/filter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const articleNotFoundMessage = "article not found"

// ErrSlugTaken is returned when another article already uses the slug.
var ErrSlugTaken = apperr.Conflict("an article with this slug already exists")

type Article struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	Title       string
	Slug        string
	Summary     string
	Body        string
	Published   bool
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ListParams struct {
	PublishedOnly bool
	Search        string
	Offset        int
	Limit         int
}

type Repository interface {
	Create(ctx context.Context, article Article) (Article, error)
	Update(ctx context.Context, article Article) (Article, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Article, error)
	GetBySlug(ctx context.Context, slug string) (Article, error)
	List(ctx context.Context, params ListParams) ([]Article, int, error)
}

const articleColumns = `id, author_id, title, slug, summary, body, published, published_at, created_at, updated_at`

type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func scanArticle(row pgx.Row) (Article, error) {
	var a Article
	err := row.Scan(&a.ID, &a.AuthorID, &a.Title, &a.Slug, &a.Summary, &a.Body,
		&a.Published, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *Repo) Create(ctx context.Context, a Article) (Article, error) {
	created, err := scanArticle(r.pool.QueryRow(ctx, `
		INSERT INTO news_articles (author_id, title, slug, summary, body, published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+articleColumns,
		a.AuthorID, a.Title, a.Slug, a.Summary, a.Body, a.Published, a.PublishedAt))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Article{}, ErrSlugTaken
		}
		return Article{}, fmt.Errorf("create article: %w", err)
	}
	return created, nil
}

func (r *Repo) Update(ctx context.Context, a Article) (Article, error) {
	updated, err := scanArticle(r.pool.QueryRow(ctx, `
		UPDATE news_articles
		SET title = $2, slug = $3, summary = $4, body = $5, published = $6, published_at = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+articleColumns,
		a.ID, a.Title, a.Slug, a.Summary, a.Body, a.Published, a.PublishedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Article{}, apperr.NotFound(articleNotFoundMessage)
		}
		if db.IsUniqueViolation(err) {
			return Article{}, ErrSlugTaken
		}
		return Article{}, fmt.Errorf("update article: %w", err)
	}
	return updated, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM news_articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(articleNotFoundMessage)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Article, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (Article, error) {
	return r.getOne(ctx, "slug = $1", slug)
}

func (r *Repo) getOne(ctx context.Context, where string, arg any) (Article, error) {
	a, err := scanArticle(r.pool.QueryRow(ctx, `SELECT `+articleColumns+` FROM news_articles WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Article{}, apperr.NotFound(articleNotFoundMessage)
		}
		return Article{}, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// List orders published articles by publication date and drafts by creation.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Article, int, error) {
	whereClause := "TRUE"
	args := make([]interface{}, 0, 3)
	argIdx := 1

	if params.PublishedOnly {
		whereClause += " AND published"
	}
	if params.Search != "" {
		whereClause += fmt.Sprintf(" AND (title ILIKE $%d OR summary ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.EscapeLike(params.Search)+"%")
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM news_articles WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM news_articles
		WHERE %s
		ORDER BY COALESCE(published_at, created_at) DESC, id
		LIMIT $%d OFFSET $%d`, articleColumns, whereClause, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	items := make([]Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate articles: %w", err)
	}
	return items, total, nil
}
