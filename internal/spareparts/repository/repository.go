package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/db"
	"motormarket_backend/platform/filter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const partNotFoundMessage = "spare part not found"

const partColumns = `p.id, p.seller_id, p.name, p.description, p.category, p.brand, p.part_number,
	p.compatible_make, p.condition, p.price, p.stock_quantity, p.created_at, p.updated_at`

type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func scanPart(row pgx.Row) (Part, error) {
	var p Part
	err := row.Scan(
		&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Category, &p.Brand, &p.PartNumber,
		&p.CompatibleMake, &p.Condition, &p.Price, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *Repo) Create(ctx context.Context, part Part) (Part, error) {
	query := `
		INSERT INTO spare_parts AS p (seller_id, name, description, category, brand, part_number,
			compatible_make, condition, price, stock_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + partColumns

	created, err := scanPart(r.pool.QueryRow(ctx, query,
		part.SellerID, part.Name, part.Description, part.Category, part.Brand, part.PartNumber,
		part.CompatibleMake, part.Condition, part.Price, part.StockQuantity,
	))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Part{}, apperr.Conflict("a part with this part number already exists for this seller")
		}
		return Part{}, fmt.Errorf("create spare part: %w", err)
	}
	return created, nil
}

func (r *Repo) Update(ctx context.Context, part Part) (Part, error) {
	query := `
		UPDATE spare_parts AS p
		SET name = $2, description = $3, category = $4, brand = $5, part_number = $6,
			compatible_make = $7, condition = $8, price = $9, stock_quantity = $10, updated_at = now()
		WHERE p.id = $1
		RETURNING ` + partColumns

	updated, err := scanPart(r.pool.QueryRow(ctx, query,
		part.ID, part.Name, part.Description, part.Category, part.Brand, part.PartNumber,
		part.CompatibleMake, part.Condition, part.Price, part.StockQuantity,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Part{}, apperr.NotFound(partNotFoundMessage)
		}
		if db.IsUniqueViolation(err) {
			return Part{}, apperr.Conflict("a part with this part number already exists for this seller")
		}
		return Part{}, fmt.Errorf("update spare part: %w", err)
	}
	return updated, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM spare_parts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete spare part: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(partNotFoundMessage)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Part, error) {
	part, err := scanPart(r.pool.QueryRow(ctx, `SELECT `+partColumns+` FROM spare_parts p WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Part{}, apperr.NotFound(partNotFoundMessage)
		}
		return Part{}, fmt.Errorf("get spare part by id: %w", err)
	}
	return part, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) ([]Part, int, error) {
	whereClauses := make([]string, 0, 2)
	args := make([]interface{}, 0, 8)
	argIdx := 1

	if params.SellerID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("p.seller_id = $%d", argIdx))
		args = append(args, *params.SellerID)
		argIdx++
	}

	where, filterArgs, err := filter.BuildPredicate(Schema, params.Criteria, argIdx)
	if err != nil {
		return nil, 0, err
	}
	if where != "" {
		whereClauses = append(whereClauses, where)
		args = append(args, filterArgs...)
		argIdx += len(filterArgs)
	}

	whereClause := "TRUE"
	if len(whereClauses) > 0 {
		whereClause = strings.Join(whereClauses, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM spare_parts p WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count spare parts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM spare_parts p
		WHERE %s
		ORDER BY %s %s, p.id
		LIMIT $%d OFFSET $%d`,
		partColumns, whereClause, sortColumn(params.SortBy), sortDirection(params.SortOrder), argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list spare parts: %w", err)
	}
	defer rows.Close()

	items := make([]Part, 0)
	for rows.Next() {
		part, err := scanPart(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan spare part: %w", err)
		}
		items = append(items, part)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate spare parts: %w", err)
	}
	return items, total, nil
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case "name":
		return "p.name"
	case "price":
		return "p.price"
	case "stock":
		return "p.stock_quantity"
	default:
		return "p.created_at"
	}
}

func sortDirection(sortOrder string) string {
	if strings.EqualFold(sortOrder, "asc") {
		return "ASC"
	}
	return "DESC"
}
