package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"motormarket_backend/internal/auth/password"
	"motormarket_backend/internal/auth/repository"
	"motormarket_backend/internal/auth/token"
	"motormarket_backend/internal/events"
	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/logger"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string          { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (testConfig) GetRefreshTokenTTL() time.Duration { return 24 * time.Hour }
func (testConfig) GetVerifyTokenTTL() time.Duration  { return time.Hour }
func (testConfig) GetResetTokenTTL() time.Duration   { return time.Hour }

type storedToken struct {
	userID    uuid.UUID
	tokenType string
	expiresAt time.Time
	used      bool
}

type storedRefresh struct {
	userID    uuid.UUID
	expiresAt time.Time
	revoked   bool
}

type fakeRepo struct {
	mu      sync.Mutex
	users   map[uuid.UUID]repository.User
	roles   map[uuid.UUID][]string
	tokens  map[string]*storedToken
	refresh map[string]*storedRefresh
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:   map[uuid.UUID]repository.User{},
		roles:   map[uuid.UUID][]string{},
		tokens:  map[string]*storedToken{},
		refresh: map[string]*storedRefresh{},
	}
}

func (f *fakeRepo) CreateUser(_ context.Context, email, hash string, roles []string) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return repository.User{}, apperr.Conflict("email already registered")
		}
	}
	u := repository.User{ID: uuid.New(), Email: email, PasswordHash: hash}
	f.users[u.ID] = u
	f.roles[u.ID] = roles
	return u, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, apperr.NotFound("user not found")
}

func (f *fakeRepo) GetUserByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeRepo) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]repository.User, error) {
	var out []repository.User
	for _, id := range ids {
		if u, err := f.GetUserByID(ctx, id); err == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkEmailVerified(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[id]
	u.EmailVerified = true
	f.users[id] = u
	return nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[id]
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

func (f *fakeRepo) UpdateProfile(_ context.Context, user repository.User) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeRepo) ListUsers(context.Context) ([]repository.UserWithRoles, error) {
	return nil, nil
}

func (f *fakeRepo) CreateUserToken(_ context.Context, id uuid.UUID, hash, tokenType string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[hash] = &storedToken{userID: id, tokenType: tokenType, expiresAt: expiresAt}
	return nil
}

func (f *fakeRepo) GetUserToken(_ context.Context, hash, tokenType string) (uuid.UUID, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[hash]
	if !ok || t.used || t.tokenType != tokenType {
		return uuid.Nil, time.Time{}, apperr.NotFound("token not found")
	}
	return t.userID, t.expiresAt, nil
}

func (f *fakeRepo) UseUserToken(_ context.Context, hash, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[hash]; ok {
		t.used = true
	}
	return nil
}

func (f *fakeRepo) CreateRefreshToken(_ context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refresh[hash] = &storedRefresh{userID: id, expiresAt: expiresAt}
	return nil
}

func (f *fakeRepo) ConsumeRefreshToken(_ context.Context, hash string) (uuid.UUID, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.refresh[hash]
	if !ok || t.revoked {
		return uuid.Nil, time.Time{}, apperr.NotFound("token not found")
	}
	t.revoked = true
	return t.userID, t.expiresAt, nil
}

func (f *fakeRepo) RevokeRefreshToken(_ context.Context, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.refresh[hash]; ok {
		t.revoked = true
	}
	return nil
}

func (f *fakeRepo) RevokeAllRefreshTokens(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.refresh {
		if t.userID == id {
			t.revoked = true
		}
	}
	return nil
}

func (f *fakeRepo) GetUserRoles(_ context.Context, id uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roles[id], nil
}

func (f *fakeRepo) SetUserRoles(_ context.Context, id uuid.UUID, roles []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[id] = roles
	return nil
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) PublishSync(ctx context.Context, e events.Event) error {
	r.Publish(ctx, e)
	return nil
}

func (r *recorder) Subscribe(string, events.Handler) {}

func (r *recorder) last() events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

func newTestService() (*Service, *fakeRepo, *recorder) {
	repo := newFakeRepo()
	bus := &recorder{}
	return New(repo, testConfig{}, bus, logger.Nop()), repo, bus
}

const strongPassword = "Str0ng#Pass"

func signUpVerified(t *testing.T, svc *Service, bus *recorder, email string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	id, err := svc.SignUp(ctx, email, strongPassword)
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	ev, ok := bus.last().(events.UserSignedUp)
	if !ok {
		t.Fatalf("expected UserSignedUp event, got %T", bus.last())
	}
	if err := svc.VerifyEmail(ctx, ev.VerifyToken); err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}
	return id
}

func TestSignUpPublishesVerificationAndAssignsUserRole(t *testing.T) {
	svc, repo, bus := newTestService()

	id, err := svc.SignUp(context.Background(), "  Driver@Example.com ", strongPassword)
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	ev, ok := bus.last().(events.UserSignedUp)
	if !ok {
		t.Fatalf("event = %T, want UserSignedUp", bus.last())
	}
	if ev.Email != "driver@example.com" || ev.UserID != id || ev.VerifyToken == "" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if diff := cmp.Diff([]string{"user"}, repo.roles[id]); diff != "" {
		t.Errorf("roles (-want +got):\n%s", diff)
	}
	if _, ok := repo.tokens[token.HashSHA256(ev.VerifyToken)]; !ok {
		t.Error("verification token must be stored hashed")
	}
}

func TestSignUpDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.SignUp(ctx, "a@example.com", strongPassword); err != nil {
		t.Fatal(err)
	}
	_, err := svc.SignUp(ctx, "A@example.com", strongPassword)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestSignInRequiresVerifiedEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.SignUp(ctx, "new@example.com", strongPassword); err != nil {
		t.Fatal(err)
	}
	_, err := svc.SignIn(ctx, "new@example.com", strongPassword)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	svc, _, bus := newTestService()
	signUpVerified(t, svc, bus, "a@example.com")

	ctx := context.Background()
	if _, err := svc.SignIn(ctx, "a@example.com", "Wrong#Pass1"); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("wrong password: err = %v", err)
	}
	if _, err := svc.SignIn(ctx, "nobody@example.com", strongPassword); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("unknown email: err = %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, bus := newTestService()
	signUpVerified(t, svc, bus, "a@example.com")
	ctx := context.Background()

	first, err := svc.SignIn(ctx, "a@example.com", strongPassword)
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if first.AccessToken == "" || first.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}

	second, err := svc.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("refresh token must rotate")
	}

	if _, err := svc.Refresh(ctx, first.RefreshToken); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("reusing rotated token: err = %v, want unauthorized", err)
	}
}

func TestRefreshConcurrentReuseIssuesOnePair(t *testing.T) {
	svc, _, bus := newTestService()
	signUpVerified(t, svc, bus, "a@example.com")
	ctx := context.Background()

	tokens, err := svc.SignIn(ctx, "a@example.com", strongPassword)
	if err != nil {
		t.Fatal(err)
	}

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Refresh(ctx, tokens.RefreshToken)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperr.Is(err, apperr.KindUnauthorized):
				rejected++
			default:
				t.Errorf("Refresh() unexpected error = %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || rejected != attempts-1 {
		t.Fatalf("succeeded=%d rejected=%d, want exactly one successful rotation", succeeded, rejected)
	}
}

func TestRefreshExpired(t *testing.T) {
	svc, _, bus := newTestService()
	signUpVerified(t, svc, bus, "a@example.com")
	ctx := context.Background()

	tokens, err := svc.SignIn(ctx, "a@example.com", strongPassword)
	if err != nil {
		t.Fatal(err)
	}
	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	if _, err := svc.Refresh(ctx, tokens.RefreshToken); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	svc, repo, bus := newTestService()
	id := signUpVerified(t, svc, bus, "a@example.com")
	ctx := context.Background()

	session, err := svc.SignIn(ctx, "a@example.com", strongPassword)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.ForgotPassword(ctx, "a@example.com"); err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}
	ev, ok := bus.last().(events.PasswordResetRequested)
	if !ok {
		t.Fatalf("event = %T, want PasswordResetRequested", bus.last())
	}

	if err := svc.ResetPassword(ctx, ev.ResetToken, "N3w#Password"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if err := password.Compare(repo.users[id].PasswordHash, "N3w#Password"); err != nil {
		t.Fatal("password was not updated")
	}
	if _, err := svc.Refresh(ctx, session.RefreshToken); err == nil {
		t.Fatal("existing sessions must be revoked after reset")
	}
	if err := svc.ResetPassword(ctx, ev.ResetToken, "An0ther#Pass"); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("token reuse: err = %v, want bad request", err)
	}
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	svc, _, bus := newTestService()
	if err := svc.ForgotPassword(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("err = %v", err)
	}
	if bus.last() != nil {
		t.Fatal("no event expected for unknown email")
	}
}

func TestUpdateMeMergesPatch(t *testing.T) {
	svc, _, bus := newTestService()
	id := signUpVerified(t, svc, bus, "a@example.com")
	ctx := context.Background()

	first := "Ada"
	phoneNumber := "(650) 253-0000"
	profile, err := svc.UpdateMe(ctx, id, ProfilePatch{FirstName: &first, Phone: &phoneNumber})
	if err != nil {
		t.Fatalf("UpdateMe() error = %v", err)
	}
	if profile.FirstName == nil || *profile.FirstName != "Ada" {
		t.Fatalf("first name = %v", profile.FirstName)
	}
	if profile.Phone == nil || *profile.Phone != "+16502530000" {
		t.Fatalf("phone = %v", profile.Phone)
	}
	if !profile.EmailVerified {
		t.Fatal("verification must survive a name change")
	}

	newEmail := "b@example.com"
	profile, err = svc.UpdateMe(ctx, id, ProfilePatch{Email: &newEmail})
	if err != nil {
		t.Fatalf("UpdateMe(email) error = %v", err)
	}
	if profile.EmailVerified {
		t.Fatal("changing email must reset verification")
	}
	if profile.FirstName == nil || *profile.FirstName != "Ada" {
		t.Fatal("untouched fields must be preserved")
	}
	if _, ok := bus.last().(events.EmailVerificationRequested); !ok {
		t.Fatalf("event = %T, want EmailVerificationRequested", bus.last())
	}
}

func TestMergeProfile(t *testing.T) {
	first := "Ada"
	base := repository.User{ID: uuid.New(), Email: "a@example.com", EmailVerified: true, FirstName: &first}

	empty := ""
	bad := "12"
	blank := "   "

	tests := []struct {
		name    string
		patch   ProfilePatch
		check   func(t *testing.T, u repository.User, changed bool)
		wantErr bool
	}{
		{
			name:  "empty patch is a no-op",
			patch: ProfilePatch{},
			check: func(t *testing.T, u repository.User, changed bool) {
				if diff := cmp.Diff(base, u); diff != "" || changed {
					t.Errorf("unexpected change (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:  "empty string clears optional field",
			patch: ProfilePatch{FirstName: &empty},
			check: func(t *testing.T, u repository.User, _ bool) {
				if u.FirstName != nil {
					t.Errorf("first name = %q, want nil", *u.FirstName)
				}
			},
		},
		{name: "invalid phone", patch: ProfilePatch{Phone: &bad}, wantErr: true},
		{name: "blank email", patch: ProfilePatch{Email: &blank}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := MergeProfile(base, tt.patch)
			if tt.wantErr {
				if !apperr.Is(err, apperr.KindValidation) {
					t.Fatalf("err = %v, want validation", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, got, changed)
		})
	}
}
