package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"motormarket_backend/internal/auth/account"
	"motormarket_backend/internal/spareparts/repository"
	"motormarket_backend/internal/spareparts/transport"
	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/filter"
	"motormarket_backend/platform/httpkit"
	"motormarket_backend/platform/logger"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type memRepo struct {
	mu    sync.Mutex
	parts []repository.Part
}

func (m *memRepo) Create(_ context.Context, p repository.Part) (repository.Part, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.parts = append(m.parts, p)
	return p, nil
}

func (m *memRepo) Update(_ context.Context, p repository.Part) (repository.Part, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.parts {
		if m.parts[i].ID == p.ID {
			m.parts[i] = p
			return p, nil
		}
	}
	return repository.Part{}, apperr.NotFound("spare part not found")
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.parts {
		if m.parts[i].ID == id {
			m.parts = append(m.parts[:i], m.parts[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("spare part not found")
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Part, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.parts {
		if p.ID == id {
			return p, nil
		}
	}
	return repository.Part{}, apperr.NotFound("spare part not found")
}

func (m *memRepo) List(_ context.Context, params repository.ListParams) ([]repository.Part, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	scoped := make([]repository.Part, 0, len(m.parts))
	for _, p := range m.parts {
		if params.SellerID == nil || p.SellerID == *params.SellerID {
			scoped = append(scoped, p)
		}
	}
	matched, err := filter.FilterRecords(scoped, repository.Schema, params.Criteria)
	if err != nil {
		return nil, 0, err
	}

	total := len(matched)
	start := min(params.Offset, total)
	end := min(start+params.Limit, total)
	return matched[start:end], total, nil
}

func strPtr(s string) *string { return &s }

func seed(t *testing.T, svc *Service, seller httpkit.Identity) {
	t.Helper()
	reqs := []transport.CreatePartRequest{
		{Name: "Front brake pads", Category: "brakes", Brand: "Brembo", CompatibleMake: strPtr("Toyota"), Condition: "new", Price: 89.9, StockQuantity: 4},
		{Name: "Rear brake disc", Category: "brakes", Brand: "ATE", CompatibleMake: strPtr("Honda"), Condition: "used", Price: 45, StockQuantity: 0},
		{Name: "Oil filter", Category: "filters", Brand: "Bosch", Condition: "new", Price: 12.5, StockQuantity: 30},
	}
	for _, req := range reqs {
		if _, err := svc.Create(context.Background(), seller, req); err != nil {
			t.Fatalf("seed Create() error = %v", err)
		}
	}
}

func names(items []transport.PartResponse) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func TestSearchCriteria(t *testing.T) {
	svc := New(&memRepo{}, logger.Nop())
	seed(t, svc, httpkit.NewIdentity(uuid.New(), account.RoleSeller))

	tests := []struct {
		name     string
		criteria filter.Criteria
		want     []string
	}{
		{"no criteria", nil, []string{"Front brake pads", "Rear brake disc", "Oil filter"}},
		{"category", filter.Criteria{"category": "brakes"}, []string{"Front brake pads", "Rear brake disc"}},
		{"in stock", filter.Criteria{"category": "brakes", "inStock": "true"}, []string{"Front brake pads"}},
		{"price ceiling", filter.Criteria{"price": map[string]any{"max": 50}}, []string{"Rear brake disc", "Oil filter"}},
		{"compatible make list", filter.Criteria{"compatibleMake": []any{"Honda", "Audi"}}, []string{"Rear brake disc"}},
		{"text search", filter.Criteria{"search": "bosch"}, []string{"Oil filter"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(context.Background(), tt.criteria, Page{}, nil)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, names(got.Items)); diff != "" {
				t.Errorf("Search() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchRejectsUnknownField(t *testing.T) {
	svc := New(&memRepo{}, logger.Nop())

	_, err := svc.Search(context.Background(), filter.Criteria{"colour": "red"}, Page{}, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("Search() error = %v, want validation error", err)
	}
	if !errors.Is(err, filter.ErrInvalidFilter) {
		t.Errorf("expected the filter error to stay in the chain, got %v", err)
	}
}

func TestCreateRequiresSellerRole(t *testing.T) {
	svc := New(&memRepo{}, logger.Nop())

	_, err := svc.Create(context.Background(), httpkit.NewIdentity(uuid.New(), account.RoleUser), transport.CreatePartRequest{
		Name: "Spark plug", Category: "engine", Brand: "NGK", Condition: "new", Price: 9,
	})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("Create() error = %v, want forbidden", err)
	}
}

func TestUpdateOwnership(t *testing.T) {
	repo := &memRepo{}
	svc := New(repo, logger.Nop())
	seller := httpkit.NewIdentity(uuid.New(), account.RoleSeller)
	seed(t, svc, seller)
	id := repo.parts[0].ID

	other := httpkit.NewIdentity(uuid.New(), account.RoleSeller)
	if _, err := svc.Update(context.Background(), id, other, PartPatch{Name: strPtr("Hijacked")}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("Update() by stranger error = %v, want forbidden", err)
	}

	stock := 0
	got, err := svc.Update(context.Background(), id, seller, PartPatch{CompatibleMake: strPtr(""), StockQuantity: &stock})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.CompatibleMake != nil || got.InStock {
		t.Errorf("Update() = %+v, want cleared make and out of stock", got)
	}
	if got.Name != "Front brake pads" {
		t.Errorf("Name = %q, want unchanged", got.Name)
	}

	admin := httpkit.NewIdentity(uuid.New(), account.RoleAdmin)
	if err := svc.Delete(context.Background(), id, admin); err != nil {
		t.Fatalf("Delete() by admin error = %v", err)
	}
}
