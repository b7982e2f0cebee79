package service

import (
	"context"

	"motormarket_backend/internal/auth/account"
	"motormarket_backend/internal/spareparts/repository"
	"motormarket_backend/internal/spareparts/transport"
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

type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

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

// PartPatch lists the fields a seller may change on a part.
type PartPatch struct {
	Name           *string
	Description    *string
	Category       *string
	Brand          *string
	PartNumber     *string
	CompatibleMake *string
	Condition      *string
	Price          *float64
	StockQuantity  *int
}

// Search returns parts matching criteria. A non-nil sellerID restricts the
// result to that seller's inventory.
func (s *Service) Search(ctx context.Context, criteria filter.Criteria, page Page, sellerID *uuid.UUID) (transport.PartListResponse, error) {
	page = page.normalize()
	items, total, err := s.repo.List(ctx, repository.ListParams{
		Criteria:  criteria,
		SellerID:  sellerID,
		SortBy:    page.SortBy,
		SortOrder: page.SortOrder,
		Offset:    (page.Page - 1) * page.PageSize,
		Limit:     page.PageSize,
	})
	if err != nil {
		return transport.PartListResponse{}, filter.AsAppError(err)
	}

	out := make([]transport.PartResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + page.PageSize - 1) / page.PageSize
	}
	return transport.PartListResponse{
		Items:      out,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.PartResponse, error) {
	part, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.PartResponse{}, err
	}
	return toResponse(part), nil
}

// Create lists a new part. Only sellers and admins may sell parts.
func (s *Service) Create(ctx context.Context, actor httpkit.Identity, req transport.CreatePartRequest) (transport.PartResponse, error) {
	if !canSell(actor) {
		return transport.PartResponse{}, apperr.Forbidden("only sellers can list spare parts")
	}

	part, err := s.repo.Create(ctx, repository.Part{
		SellerID:       actor.UserID(),
		Name:           sanitize.Text(req.Name),
		Description:    sanitize.Text(req.Description),
		Category:       req.Category,
		Brand:          sanitize.Text(req.Brand),
		PartNumber:     optionalPtr(req.PartNumber),
		CompatibleMake: optionalPtr(req.CompatibleMake),
		Condition:      req.Condition,
		Price:          roundPrice(req.Price),
		StockQuantity:  req.StockQuantity,
	})
	if err != nil {
		return transport.PartResponse{}, err
	}
	s.log.Info("spare part created", "id", part.ID, "sellerId", part.SellerID)
	return toResponse(part), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, actor httpkit.Identity, patch PartPatch) (transport.PartResponse, error) {
	current, err := s.loadManaged(ctx, id, actor)
	if err != nil {
		return transport.PartResponse{}, err
	}

	updated, err := s.repo.Update(ctx, MergePart(current, patch))
	if err != nil {
		return transport.PartResponse{}, err
	}
	s.log.Info("spare part updated", "id", id)
	return toResponse(updated), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor httpkit.Identity) error {
	if _, err := s.loadManaged(ctx, id, actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("spare part deleted", "id", id)
	return nil
}

// MergePart applies patch to part. An empty PartNumber or CompatibleMake
// clears the value.
func MergePart(part repository.Part, patch PartPatch) repository.Part {
	if patch.Name != nil {
		part.Name = sanitize.Text(*patch.Name)
	}
	if patch.Description != nil {
		part.Description = sanitize.Text(*patch.Description)
	}
	if patch.Category != nil {
		part.Category = *patch.Category
	}
	if patch.Brand != nil {
		part.Brand = sanitize.Text(*patch.Brand)
	}
	if patch.PartNumber != nil {
		part.PartNumber = optionalPtr(patch.PartNumber)
	}
	if patch.CompatibleMake != nil {
		part.CompatibleMake = optionalPtr(patch.CompatibleMake)
	}
	if patch.Condition != nil {
		part.Condition = *patch.Condition
	}
	if patch.Price != nil {
		part.Price = roundPrice(*patch.Price)
	}
	if patch.StockQuantity != nil {
		part.StockQuantity = *patch.StockQuantity
	}
	return part
}

func (s *Service) loadManaged(ctx context.Context, id uuid.UUID, actor httpkit.Identity) (repository.Part, error) {
	part, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Part{}, err
	}
	if !actor.CanManage(part.SellerID) {
		return repository.Part{}, apperr.Forbidden("you can only manage your own spare parts")
	}
	return part, nil
}

func canSell(actor httpkit.Identity) bool {
	return actor.HasRole(account.RoleSeller) || actor.HasRole(account.RoleAdmin)
}

func roundPrice(price float64) float64 {
	return decimal.NewFromFloat(price).Round(2).InexactFloat64()
}

func optionalPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := sanitize.Text(*value)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

func toResponse(p repository.Part) transport.PartResponse {
	return transport.PartResponse{
		ID:             p.ID.String(),
		SellerID:       p.SellerID.String(),
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		Brand:          p.Brand,
		PartNumber:     p.PartNumber,
		CompatibleMake: p.CompatibleMake,
		Condition:      p.Condition,
		Price:          p.Price,
		StockQuantity:  p.StockQuantity,
		InStock:        p.InStock(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
