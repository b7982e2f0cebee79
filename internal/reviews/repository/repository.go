package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reviewNotFoundMessage = "review not found"

type Review struct {
	ID        uuid.UUID
	ListingID uuid.UUID
	AuthorID  uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Summary aggregates the ratings of one listing.
type Summary struct {
	Count         int
	AverageRating float64
}

type Repository interface {
	Create(ctx context.Context, review Review) (Review, error)
	GetByID(ctx context.Context, id uuid.UUID) (Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByListing(ctx context.Context, listingID uuid.UUID, offset, limit int) ([]Review, Summary, error)
}

type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) Create(ctx context.Context, review Review) (Review, error) {
	query := `
		INSERT INTO reviews (listing_id, author_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, listing_id, author_id, rating, comment, created_at`

	var created Review
	err := r.pool.QueryRow(ctx, query, review.ListingID, review.AuthorID, review.Rating, review.Comment).
		Scan(&created.ID, &created.ListingID, &created.AuthorID, &created.Rating, &created.Comment, &created.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Review{}, apperr.Conflict("you have already reviewed this listing")
		}
		if db.IsForeignKeyViolation(err) {
			return Review{}, apperr.NotFound("listing not found")
		}
		return Review{}, fmt.Errorf("create review: %w", err)
	}
	return created, nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Review, error) {
	var rv Review
	err := r.pool.QueryRow(ctx, `
		SELECT id, listing_id, author_id, rating, comment, created_at
		FROM reviews WHERE id = $1`, id).
		Scan(&rv.ID, &rv.ListingID, &rv.AuthorID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, apperr.NotFound(reviewNotFoundMessage)
		}
		return Review{}, fmt.Errorf("get review: %w", err)
	}
	return rv, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(reviewNotFoundMessage)
	}
	return nil
}

// ListByListing returns a page of reviews, newest first, with the rating
// summary over all of the listing's reviews.
func (r *Repo) ListByListing(ctx context.Context, listingID uuid.UUID, offset, limit int) ([]Review, Summary, error) {
	var summary Summary
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8
		FROM reviews WHERE listing_id = $1`, listingID).Scan(&summary.Count, &summary.AverageRating)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("summarize reviews: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, listing_id, author_id, rating, comment, created_at
		FROM reviews
		WHERE listing_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, listingID, limit, offset)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	items := make([]Review, 0)
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ListingID, &rv.AuthorID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, Summary{}, fmt.Errorf("scan review: %w", err)
		}
		items = append(items, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, Summary{}, fmt.Errorf("iterate reviews: %w", err)
	}
	return items, summary, nil
}
