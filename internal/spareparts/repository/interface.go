package repository

import (
	"context"
	"time"

	"motormarket_backend/platform/filter"

	"github.com/google/uuid"
)

// Part is a spare part offered by a seller.
type Part struct {
	ID             uuid.UUID
	SellerID       uuid.UUID
	Name           string
	Description    string
	Category       string
	Brand          string
	PartNumber     *string
	CompatibleMake *string
	Condition      string
	Price          float64
	StockQuantity  int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InStock reports whether at least one unit is available.
func (p Part) InStock() bool {
	return p.StockQuantity > 0
}

// Attribute exposes part fields to the in-memory filter.
func (p Part) Attribute(name string) (any, bool) {
	switch name {
	case "name":
		return p.Name, true
	case "description":
		return p.Description, true
	case "category":
		return p.Category, true
	case "brand":
		return p.Brand, true
	case "partNumber":
		return p.PartNumber, p.PartNumber != nil
	case "compatibleMake":
		return p.CompatibleMake, p.CompatibleMake != nil
	case "condition":
		return p.Condition, true
	case "price":
		return p.Price, true
	case "inStock":
		return p.InStock(), true
	}
	return nil, false
}

// Schema declares the filterable spare part attributes.
var Schema = filter.NewSchema(
	&filter.Search{
		Attributes: []string{"name", "description", "brand", "partNumber"},
		Columns:    []string{"p.name", "p.description", "p.brand", "p.part_number"},
	},
	filter.Field{Name: "category", Kind: filter.KindString, Column: "p.category"},
	filter.Field{Name: "brand", Kind: filter.KindString, Column: "p.brand"},
	filter.Field{Name: "compatibleMake", Kind: filter.KindString, Column: "p.compatible_make"},
	filter.Field{Name: "condition", Kind: filter.KindString, Column: "p.condition"},
	filter.Field{Name: "price", Kind: filter.KindNumber, Column: "p.price"},
	filter.Field{Name: "inStock", Kind: filter.KindBool, Column: "(p.stock_quantity > 0)"},
)

type ListParams struct {
	Criteria  filter.Criteria
	SellerID  *uuid.UUID
	SortBy    string
	SortOrder string
	Offset    int
	Limit     int
}

// Repository is the spare parts store.
type Repository interface {
	Create(ctx context.Context, part Part) (Part, error)
	Update(ctx context.Context, part Part) (Part, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Part, error)
	// List returns a page of parts and the total match count. Invalid
	// criteria yield a *filter.Error.
	List(ctx context.Context, params ListParams) ([]Part, int, error)
}
