package repository

import (
	"context"
	"time"

	"motormarket_backend/platform/filter"

	"github.com/google/uuid"
)

// Listing statuses.
const (
	StatusActive   = "active"
	StatusSold     = "sold"
	StatusArchived = "archived"
)

// Listing is a vehicle offered for sale.
type Listing struct {
	ID           uuid.UUID
	SellerID     uuid.UUID
	Title        string
	Description  string
	Make         string
	Model        string
	Year         int
	Price        float64
	Mileage      int
	FuelType     string
	Transmission string
	BodyType     string
	Condition    string
	Color        *string
	City         *string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Attribute exposes listing fields to the in-memory filter.
func (l Listing) Attribute(name string) (any, bool) {
	switch name {
	case "title":
		return l.Title, true
	case "description":
		return l.Description, true
	case "make":
		return l.Make, true
	case "model":
		return l.Model, true
	case "year":
		return l.Year, true
	case "price":
		return l.Price, true
	case "mileage":
		return l.Mileage, true
	case "fuelType":
		return l.FuelType, true
	case "transmission":
		return l.Transmission, true
	case "bodyType":
		return l.BodyType, true
	case "condition":
		return l.Condition, true
	case "color":
		return l.Color, l.Color != nil
	case "city":
		return l.City, l.City != nil
	case "status":
		return l.Status, true
	}
	return nil, false
}

// ListParams narrows a listing query. Statuses and SellerID are fixed
// scoping clauses applied before the caller's filter predicate.
type ListParams struct {
	Predicate filter.Predicate
	Statuses  []string
	SellerID  *uuid.UUID
	SortBy    string
	SortOrder string
	Offset    int
	Limit     int
}

// Repository is the listing store.
type Repository interface {
	Create(ctx context.Context, listing Listing) (Listing, error)
	Update(ctx context.Context, listing Listing) (Listing, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Listing, error)
	List(ctx context.Context, params ListParams) ([]Listing, int, error)
}
