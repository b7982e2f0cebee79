package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"motormarket_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listingNotFoundMessage = "listing not found"

const listingColumns = `l.id, l.seller_id, l.title, l.description, l.make, l.model, l.year, l.price,
	l.mileage, l.fuel_type, l.transmission, l.body_type, l.condition, l.color, l.city, l.status,
	l.created_at, l.updated_at`

// Repo implements Repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func scanListing(row pgx.Row) (Listing, error) {
	var l Listing
	err := row.Scan(
		&l.ID, &l.SellerID, &l.Title, &l.Description, &l.Make, &l.Model, &l.Year, &l.Price,
		&l.Mileage, &l.FuelType, &l.Transmission, &l.BodyType, &l.Condition, &l.Color, &l.City, &l.Status,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func (r *Repo) Create(ctx context.Context, listing Listing) (Listing, error) {
	query := `
		INSERT INTO listings AS l (seller_id, title, description, make, model, year, price, mileage,
			fuel_type, transmission, body_type, condition, color, city, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + listingColumns

	created, err := scanListing(r.pool.QueryRow(ctx, query,
		listing.SellerID, listing.Title, listing.Description, listing.Make, listing.Model, listing.Year,
		listing.Price, listing.Mileage, listing.FuelType, listing.Transmission, listing.BodyType,
		listing.Condition, listing.Color, listing.City, listing.Status,
	))
	if err != nil {
		return Listing{}, fmt.Errorf("create listing: %w", err)
	}
	return created, nil
}

// Update writes every mutable column of listing. Merging happens in the service.
func (r *Repo) Update(ctx context.Context, listing Listing) (Listing, error) {
	query := `
		UPDATE listings AS l
		SET title = $2, description = $3, make = $4, model = $5, year = $6, price = $7, mileage = $8,
			fuel_type = $9, transmission = $10, body_type = $11, condition = $12, color = $13, city = $14,
			updated_at = now()
		WHERE l.id = $1
		RETURNING ` + listingColumns

	updated, err := scanListing(r.pool.QueryRow(ctx, query,
		listing.ID, listing.Title, listing.Description, listing.Make, listing.Model, listing.Year,
		listing.Price, listing.Mileage, listing.FuelType, listing.Transmission, listing.BodyType,
		listing.Condition, listing.Color, listing.City,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Listing{}, apperr.NotFound(listingNotFoundMessage)
		}
		return Listing{}, fmt.Errorf("update listing: %w", err)
	}
	return updated, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Listing, error) {
	query := `
		UPDATE listings AS l SET status = $2, updated_at = now()
		WHERE l.id = $1
		RETURNING ` + listingColumns

	updated, err := scanListing(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Listing{}, apperr.NotFound(listingNotFoundMessage)
		}
		return Listing{}, fmt.Errorf("update listing status: %w", err)
	}
	return updated, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(listingNotFoundMessage)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Listing, error) {
	listing, err := scanListing(r.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings l WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Listing{}, apperr.NotFound(listingNotFoundMessage)
		}
		return Listing{}, fmt.Errorf("get listing by id: %w", err)
	}
	return listing, nil
}

// List returns one page of listings matching params and the total match count.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Listing, int, error) {
	whereClauses := make([]string, 0, 3)
	args := make([]interface{}, 0, 8)
	argIdx := 1

	if len(params.Statuses) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("l.status = ANY($%d)", argIdx))
		args = append(args, params.Statuses)
		argIdx++
	}
	if params.SellerID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("l.seller_id = $%d", argIdx))
		args = append(args, *params.SellerID)
		argIdx++
	}
	if where, predicateArgs := params.Predicate.SQL(argIdx); where != "" {
		whereClauses = append(whereClauses, where)
		args = append(args, predicateArgs...)
		argIdx += len(predicateArgs)
	}

	whereClause := "TRUE"
	if len(whereClauses) > 0 {
		whereClause = strings.Join(whereClauses, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM listings l WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM listings l
		WHERE %s
		ORDER BY %s %s, l.id
		LIMIT $%d OFFSET $%d`,
		listingColumns, whereClause, sortColumn(params.SortBy), sortDirection(params.SortOrder), argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	items := make([]Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan listing: %w", err)
		}
		items = append(items, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate listings: %w", err)
	}

	return items, total, nil
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case "price":
		return "l.price"
	case "year":
		return "l.year"
	case "mileage":
		return "l.mileage"
	case "title":
		return "l.title"
	default:
		return "l.created_at"
	}
}

func sortDirection(sortOrder string) string {
	if strings.EqualFold(sortOrder, "asc") {
		return "ASC"
	}
	return "DESC"
}
