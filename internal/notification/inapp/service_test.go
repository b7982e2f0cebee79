package inapp

import (
	"context"
	"testing"

	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/logger"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type fakeStore struct {
	created []CreateParams

	listLimit  int
	listOffset int
}

func (f *fakeStore) Create(_ context.Context, p CreateParams) (Notification, error) {
	f.created = append(f.created, p)
	return Notification{ID: uuid.New(), UserID: p.UserID, Title: p.Title, Content: p.Content, Category: p.Category}, nil
}

func (f *fakeStore) List(_ context.Context, _ uuid.UUID, limit, offset int) ([]Notification, int, error) {
	f.listLimit = limit
	f.listOffset = offset
	return nil, 0, nil
}

func (f *fakeStore) CountUnread(context.Context, uuid.UUID) (int, error)  { return 0, nil }
func (f *fakeStore) MarkRead(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (f *fakeStore) MarkAllRead(context.Context, uuid.UUID) error         { return nil }
func (f *fakeStore) Delete(context.Context, uuid.UUID, uuid.UUID) error   { return nil }

func TestSendValidatesAndDefaults(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		params  SendParams
		wantErr bool
		want    *CreateParams
	}{
		{
			name:    "missing user",
			params:  SendParams{Title: "Hi", Content: "there"},
			wantErr: true,
		},
		{
			name:    "blank title",
			params:  SendParams{UserID: userID, Title: "   ", Content: "there"},
			wantErr: true,
		},
		{
			name:   "defaults category and trims",
			params: SendParams{UserID: userID, Title: " Listing sold ", Content: "Golf sold. "},
			want:   &CreateParams{UserID: userID, Title: "Listing sold", Content: "Golf sold.", Category: CategoryInfo},
		},
		{
			name:   "keeps resource type",
			params: SendParams{UserID: userID, Title: "New review", Content: "5 stars", ResourceType: "listing", Category: CategorySuccess},
			want:   &CreateParams{UserID: userID, Title: "New review", Content: "5 stars", ResourceType: strPtr("listing"), Category: CategorySuccess},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			svc := NewService(store, logger.Nop())

			err := svc.Send(context.Background(), tt.params)
			if tt.wantErr {
				if !apperr.Is(err, apperr.KindValidation) {
					t.Fatalf("Send() error = %v, want validation error", err)
				}
				if len(store.created) != 0 {
					t.Fatalf("store received %d rows, want 0", len(store.created))
				}
				return
			}
			if err != nil {
				t.Fatalf("Send() error = %v", err)
			}
			if diff := cmp.Diff([]CreateParams{*tt.want}, store.created); diff != "" {
				t.Errorf("created mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListClampsPaging(t *testing.T) {
	tests := []struct {
		page, size            int
		wantLimit, wantOffset int
	}{
		{page: 0, size: 0, wantLimit: defaultPageSize, wantOffset: 0},
		{page: 3, size: 10, wantLimit: 10, wantOffset: 20},
		{page: 2, size: 500, wantLimit: maxPageSize, wantOffset: maxPageSize},
	}

	for _, tt := range tests {
		store := &fakeStore{}
		svc := NewService(store, logger.Nop())
		if _, _, err := svc.List(context.Background(), uuid.New(), tt.page, tt.size); err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if store.listLimit != tt.wantLimit || store.listOffset != tt.wantOffset {
			t.Errorf("List(%d, %d) used limit=%d offset=%d, want %d/%d",
				tt.page, tt.size, store.listLimit, store.listOffset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestSendWithoutStore(t *testing.T) {
	var svc *Service
	if err := svc.Send(context.Background(), SendParams{UserID: uuid.New(), Title: "a", Content: "b"}); !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("Send() on nil service error = %v, want internal", err)
	}
}

func strPtr(s string) *string { return &s }
