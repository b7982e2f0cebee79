package service

import (
	"motormarket_backend/internal/listings/repository"
	"motormarket_backend/platform/sanitize"
)

// ListingPatch lists the fields a seller may change. Identity, owner,
// status and timestamps are deliberately absent.
type ListingPatch struct {
	Title        *string
	Description  *string
	Make         *string
	Model        *string
	Year         *int
	Price        *float64
	Mileage      *int
	FuelType     *string
	Transmission *string
	BodyType     *string
	Condition    *string
	Color        *string
	City         *string
}

// MergeListing returns listing with patch applied. For Color and City an
// empty string clears the value.
func MergeListing(listing repository.Listing, patch ListingPatch) repository.Listing {
	if patch.Title != nil {
		listing.Title = sanitize.Text(*patch.Title)
	}
	if patch.Description != nil {
		listing.Description = sanitize.Text(*patch.Description)
	}
	if patch.Make != nil {
		listing.Make = *patch.Make
	}
	if patch.Model != nil {
		listing.Model = sanitize.Text(*patch.Model)
	}
	if patch.Year != nil {
		listing.Year = *patch.Year
	}
	if patch.Price != nil {
		listing.Price = *patch.Price
	}
	if patch.Mileage != nil {
		listing.Mileage = *patch.Mileage
	}
	if patch.FuelType != nil {
		listing.FuelType = *patch.FuelType
	}
	if patch.Transmission != nil {
		listing.Transmission = *patch.Transmission
	}
	if patch.BodyType != nil {
		listing.BodyType = *patch.BodyType
	}
	if patch.Condition != nil {
		listing.Condition = *patch.Condition
	}
	if patch.Color != nil {
		listing.Color = optional(*patch.Color)
	}
	if patch.City != nil {
		listing.City = optional(*patch.City)
	}
	return listing
}

func optional(value string) *string {
	cleaned := sanitize.Text(value)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
