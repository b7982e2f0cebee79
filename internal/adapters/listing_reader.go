package adapters

import (
	"context"

	listingsservice "motormarket_backend/internal/listings/service"
	reviewsservice "motormarket_backend/internal/reviews/service"

	"github.com/google/uuid"
)

// ListingReader exposes active listings to the reviews module.
type ListingReader struct {
	listings *listingsservice.Service
}

func NewListingReader(listings *listingsservice.Service) *ListingReader {
	return &ListingReader{listings: listings}
}

func (a *ListingReader) GetListingSummary(ctx context.Context, listingID uuid.UUID) (reviewsservice.ListingSummary, error) {
	listing, err := a.listings.GetByID(ctx, listingID, nil)
	if err != nil {
		return reviewsservice.ListingSummary{}, err
	}
	sellerID, err := uuid.Parse(listing.SellerID)
	if err != nil {
		return reviewsservice.ListingSummary{}, err
	}
	return reviewsservice.ListingSummary{SellerID: sellerID, Title: listing.Title}, nil
}

var _ reviewsservice.ListingReader = (*ListingReader)(nil)
