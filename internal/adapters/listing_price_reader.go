package adapters

import (
	"context"

	listingsservice "motormarket_backend/internal/listings/service"
	loansservice "motormarket_backend/internal/loans/service"

	"github.com/google/uuid"
)

// ListingPriceReader lets the loan calculator quote against a listing's asking price.
type ListingPriceReader struct {
	listings *listingsservice.Service
}

func NewListingPriceReader(listings *listingsservice.Service) *ListingPriceReader {
	return &ListingPriceReader{listings: listings}
}

func (a *ListingPriceReader) GetPrice(ctx context.Context, listingID uuid.UUID) (float64, error) {
	return a.listings.GetPrice(ctx, listingID)
}

var _ loansservice.ListingPriceReader = (*ListingPriceReader)(nil)
