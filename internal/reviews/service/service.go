package service

import (
	"context"

	"motormarket_backend/internal/auth/account"
	"motormarket_backend/internal/events"
	"motormarket_backend/internal/reviews/repository"
	"motormarket_backend/internal/reviews/transport"
	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/httpkit"
	"motormarket_backend/platform/logger"
	"motormarket_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	anonymousAuthor = "Anonymous"
)

// ListingSummary is what reviews need to know about a listing.
type ListingSummary struct {
	SellerID uuid.UUID
	Title    string
}

// ListingReader resolves active listings.
type ListingReader interface {
	GetListingSummary(ctx context.Context, listingID uuid.UUID) (ListingSummary, error)
}

type Service struct {
	repo     repository.Repository
	listings ListingReader
	users    account.UserProvider
	eventBus events.Bus
	log      *logger.Logger
}

func New(repo repository.Repository, listings ListingReader, users account.UserProvider, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, listings: listings, users: users, eventBus: eventBus, log: log}
}

// Create posts a review. Sellers cannot review their own listings and each
// user reviews a listing at most once.
func (s *Service) Create(ctx context.Context, listingID uuid.UUID, authorID uuid.UUID, req transport.CreateReviewRequest) (transport.ReviewResponse, error) {
	listing, err := s.listings.GetListingSummary(ctx, listingID)
	if err != nil {
		return transport.ReviewResponse{}, err
	}
	if listing.SellerID == authorID {
		return transport.ReviewResponse{}, apperr.Forbidden("you cannot review your own listing")
	}

	review, err := s.repo.Create(ctx, repository.Review{
		ListingID: listingID,
		AuthorID:  authorID,
		Rating:    req.Rating,
		Comment:   sanitize.Truncate(sanitize.Text(req.Comment), 2000),
	})
	if err != nil {
		return transport.ReviewResponse{}, err
	}

	s.eventBus.Publish(ctx, events.ReviewPosted{
		BaseEvent:    events.NewBaseEvent(),
		ReviewID:     review.ID,
		ListingID:    review.ListingID,
		ListingTitle: listing.Title,
		SellerID:     listing.SellerID,
		AuthorID:     review.AuthorID,
		Rating:       review.Rating,
	})
	s.log.Info("review posted", "id", review.ID, "listingId", listingID, "rating", review.Rating)

	return toResponse(review, s.authorNames(ctx, []repository.Review{review})), nil
}

// ListByListing returns a page of reviews with the listing's average rating
// rounded to two decimals.
func (s *Service) ListByListing(ctx context.Context, listingID uuid.UUID, page, pageSize int) (transport.ReviewListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items, summary, err := s.repo.ListByListing(ctx, listingID, (page-1)*pageSize, pageSize)
	if err != nil {
		return transport.ReviewListResponse{}, err
	}

	names := s.authorNames(ctx, items)
	out := make([]transport.ReviewResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item, names))
	}
	return transport.ReviewListResponse{
		Items:         out,
		Total:         summary.Count,
		AverageRating: decimal.NewFromFloat(summary.AverageRating).Round(2).InexactFloat64(),
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor httpkit.Identity) error {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(review.AuthorID) {
		return apperr.Forbidden("you can only delete your own reviews")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("review deleted", "id", id, "by", actor.UserID())
	return nil
}

// authorNames resolves public author names. Lookup failures degrade to
// anonymous authors.
func (s *Service) authorNames(ctx context.Context, reviews []repository.Review) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(reviews))
	if len(reviews) == 0 || s.users == nil {
		return names
	}

	ids := make([]uuid.UUID, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.AuthorID)
	}
	profiles, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		s.log.Warn("resolve review authors failed", "error", err)
		return names
	}
	for id, p := range profiles {
		if p.FirstName != nil && *p.FirstName != "" {
			names[id] = *p.FirstName
		}
	}
	return names
}

func toResponse(r repository.Review, names map[uuid.UUID]string) transport.ReviewResponse {
	name, ok := names[r.AuthorID]
	if !ok {
		name = anonymousAuthor
	}
	return transport.ReviewResponse{
		ID:         r.ID.String(),
		ListingID:  r.ListingID.String(),
		AuthorID:   r.AuthorID.String(),
		AuthorName: name,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}
