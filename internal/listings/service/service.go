package service

import (
	"context"

	"motormarket_backend/internal/events"
	"motormarket_backend/internal/listings/repository"
	"motormarket_backend/internal/listings/transport"
	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/filter"
	"motormarket_backend/platform/httpkit"
	"motormarket_backend/platform/logger"
	"motormarket_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

const msgNotOwner = "you can only manage your own listings"

// Service provides business logic for listings.
type Service struct {
	repo     repository.Repository
	eventBus events.Bus
	log      *logger.Logger
}

func New(repo repository.Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

// Page describes the requested slice and ordering of a search.
type Page struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

// Search returns active listings matching criteria.
func (s *Service) Search(ctx context.Context, criteria filter.Criteria, page Page) (transport.ListingListResponse, error) {
	return s.list(ctx, criteria, page, []string{repository.StatusActive}, nil)
}

// ListBySeller returns every listing of a seller regardless of status.
func (s *Service) ListBySeller(ctx context.Context, sellerID uuid.UUID, criteria filter.Criteria, page Page) (transport.ListingListResponse, error) {
	return s.list(ctx, criteria, page, nil, &sellerID)
}

func (s *Service) list(ctx context.Context, criteria filter.Criteria, page Page, statuses []string, sellerID *uuid.UUID) (transport.ListingListResponse, error) {
	predicate, err := filter.Parse(repository.Schema, criteria)
	if err != nil {
		return transport.ListingListResponse{}, filter.AsAppError(err)
	}

	page = page.normalize()
	items, total, err := s.repo.List(ctx, repository.ListParams{
		Predicate: predicate,
		Statuses:  statuses,
		SellerID:  sellerID,
		SortBy:    page.SortBy,
		SortOrder: page.SortOrder,
		Offset:    (page.Page - 1) * page.PageSize,
		Limit:     page.PageSize,
	})
	if err != nil {
		return transport.ListingListResponse{}, err
	}

	return toListResponse(items, total, page), nil
}

// GetByID returns a listing. Non-active listings are visible only to the
// seller and admins.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, viewer httpkit.Identity) (transport.ListingResponse, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ListingResponse{}, err
	}
	if listing.Status != repository.StatusActive && (viewer == nil || !viewer.CanManage(listing.SellerID)) {
		return transport.ListingResponse{}, apperr.NotFound("listing not found")
	}
	return toResponse(listing), nil
}

// GetPrice returns the asking price of an active listing.
func (s *Service) GetPrice(ctx context.Context, id uuid.UUID) (float64, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if listing.Status != repository.StatusActive {
		return 0, apperr.NotFound("listing not found")
	}
	return listing.Price, nil
}

func (s *Service) Create(ctx context.Context, sellerID uuid.UUID, req transport.CreateListingRequest) (transport.ListingResponse, error) {
	listing, err := s.repo.Create(ctx, repository.Listing{
		SellerID:     sellerID,
		Title:        sanitize.Text(req.Title),
		Description:  sanitize.Text(req.Description),
		Make:         req.Make,
		Model:        sanitize.Text(req.Model),
		Year:         req.Year,
		Price:        roundPrice(req.Price),
		Mileage:      req.Mileage,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		BodyType:     req.BodyType,
		Condition:    req.Condition,
		Color:        optionalPtr(req.Color),
		City:         optionalPtr(req.City),
		Status:       repository.StatusActive,
	})
	if err != nil {
		return transport.ListingResponse{}, err
	}

	s.eventBus.Publish(ctx, events.ListingCreated{
		BaseEvent: events.NewBaseEvent(),
		ListingID: listing.ID,
		SellerID:  listing.SellerID,
		Title:     listing.Title,
		Price:     listing.Price,
	})
	s.log.Info("listing created", "id", listing.ID, "sellerId", sellerID)
	return toResponse(listing), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, actor httpkit.Identity, patch ListingPatch) (transport.ListingResponse, error) {
	current, err := s.loadManaged(ctx, id, actor)
	if err != nil {
		return transport.ListingResponse{}, err
	}

	merged := MergeListing(current, patch)
	merged.Price = roundPrice(merged.Price)

	updated, err := s.repo.Update(ctx, merged)
	if err != nil {
		return transport.ListingResponse{}, err
	}
	s.log.Info("listing updated", "id", id)
	return toResponse(updated), nil
}

// UpdateStatus moves a listing between active, sold and archived. Marking a
// listing sold publishes ListingSold once.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, actor httpkit.Identity, status string) (transport.ListingResponse, error) {
	current, err := s.loadManaged(ctx, id, actor)
	if err != nil {
		return transport.ListingResponse{}, err
	}
	if current.Status == status {
		return toResponse(current), nil
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return transport.ListingResponse{}, err
	}

	if status == repository.StatusSold {
		s.eventBus.Publish(ctx, events.ListingSold{
			BaseEvent: events.NewBaseEvent(),
			ListingID: updated.ID,
			SellerID:  updated.SellerID,
			Title:     updated.Title,
		})
	}
	s.log.Info("listing status changed", "id", id, "from", current.Status, "to", status)
	return toResponse(updated), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor httpkit.Identity) error {
	if _, err := s.loadManaged(ctx, id, actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("listing deleted", "id", id)
	return nil
}

func (s *Service) loadManaged(ctx context.Context, id uuid.UUID, actor httpkit.Identity) (repository.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Listing{}, err
	}
	if !actor.CanManage(listing.SellerID) {
		return repository.Listing{}, apperr.Forbidden(msgNotOwner)
	}
	return listing, nil
}

func roundPrice(price float64) float64 {
	return decimal.NewFromFloat(price).Round(2).InexactFloat64()
}

func optionalPtr(value *string) *string {
	if value == nil {
		return nil
	}
	return optional(*value)
}

func toResponse(l repository.Listing) transport.ListingResponse {
	return transport.ListingResponse{
		ID:           l.ID.String(),
		SellerID:     l.SellerID.String(),
		Title:        l.Title,
		Description:  l.Description,
		Make:         l.Make,
		Model:        l.Model,
		Year:         l.Year,
		Price:        l.Price,
		Mileage:      l.Mileage,
		FuelType:     l.FuelType,
		Transmission: l.Transmission,
		BodyType:     l.BodyType,
		Condition:    l.Condition,
		Color:        l.Color,
		City:         l.City,
		Status:       l.Status,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toListResponse(items []repository.Listing, total int, page Page) transport.ListingListResponse {
	out := make([]transport.ListingResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + page.PageSize - 1) / page.PageSize
	}
	return transport.ListingListResponse{
		Items:      out,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: totalPages,
	}
}
