package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zedcars/zedcars/internal/platform/httpx"
	"github.com/zedcars/zedcars/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	admins   map[int64]Admin
	refresh  map[int64]RefreshToken
	nextID   int64
	nextTkID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		admins:   make(map[int64]Admin),
		refresh:  make(map[int64]RefreshToken),
		nextID:   1,
		nextTkID: 1,
	}
}

func (m *mockRepository) CreateAdmin(ctx context.Context, admin Admin) (Admin, error) {
	for _, existing := range m.admins {
		if existing.Username == admin.Username {
			return Admin{}, httpx.ErrDuplicate
		}
	}
	admin.ID = m.nextID
	m.nextID++
	admin.IsActive = true
	admin.CreatedAt = time.Now().UTC()
	admin.UpdatedAt = admin.CreatedAt
	m.admins[admin.ID] = admin
	return admin, nil
}

func (m *mockRepository) FindByUsername(ctx context.Context, username string) (Admin, error) {
	for _, a := range m.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return Admin{}, httpx.ErrNotFound
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (Admin, error) {
	a, ok := m.admins[id]
	if !ok {
		return Admin{}, httpx.ErrNotFound
	}
	return a, nil
}

func (m *mockRepository) ListAdmins(ctx context.Context, page, perPage int) ([]Admin, int, error) {
	var all []Admin
	for _, a := range m.admins {
		all = append(all, a)
	}
	return all, len(all), nil
}

func (m *mockRepository) DeactivateAdmin(ctx context.Context, id int64) error {
	a, ok := m.admins[id]
	if !ok {
		return httpx.ErrNotFound
	}
	a.IsActive = false
	m.admins[id] = a
	return nil
}

func (m *mockRepository) UpsertRefreshToken(ctx context.Context, adminID int64, hash string, expiresAt time.Time) error {
	m.refresh[adminID] = RefreshToken{
		ID:        m.nextTkID,
		AdminID:   adminID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
	}
	m.nextTkID++
	return nil
}

func (m *mockRepository) FindRefreshByHash(ctx context.Context, hash string) (RefreshToken, error) {
	for _, t := range m.refresh {
		if t.TokenHash == hash {
			return t, nil
		}
	}
	return RefreshToken{}, httpx.ErrNotFound
}

func (m *mockRepository) RevokeRefresh(ctx context.Context, adminID int64) error {
	if t, ok := m.refresh[adminID]; ok {
		t.IsRevoked = true
		m.refresh[adminID] = t
	}
	return nil
}

var _ Repository = (*mockRepository)(nil)

func newTestService(repo *mockRepository) *Service {
	tokens := NewTokenProvider("test-secret", 15*time.Minute, 24*time.Hour)
	return NewService(repo, tokens)
}

func seedAdmin(t *testing.T, repo *mockRepository, username, password, role string) Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	admin, err := repo.CreateAdmin(context.Background(), Admin{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	})
	require.NoError(t, err)
	return admin
}

// ============================================================================
// TESTS
// ============================================================================

func TestRegisterDefaultsToCustomer(t *testing.T) {
	svc := newTestService(newMockRepository())

	admin, err := svc.Register(context.Background(), RegisterRequest{
		Username: "jamie",
		Email:    "jamie@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, shared.RoleCustomer, admin.Role)
	assert.True(t, admin.IsActive)
	assert.NotEqual(t, "hunter2hunter2", admin.PasswordHash, "password must never be stored raw")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	seedAdmin(t, repo, "jamie", "hunter2hunter2", shared.RoleCustomer)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "jamie",
		Email:    "other@example.com",
		Password: "hunter2hunter2",
	})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	seedAdmin(t, repo, "sam", "correct-horse-battery", shared.RoleManager)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "sam", Password: "correct-horse-battery"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)

	claims, err := svc.tokens.ParseAccess(resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, shared.RoleManager, claims.Role)

	stored := repo.refresh[resp.Admin.ID]
	assert.Equal(t, HashRefresh(resp.Tokens.RefreshToken), stored.TokenHash)
	assert.NotEqual(t, resp.Tokens.RefreshToken, stored.TokenHash)
}

func TestLoginBadCredentials(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	seedAdmin(t, repo, "sam", "correct-horse-battery", shared.RoleManager)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "sam", Password: "wrong"})
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	admin := seedAdmin(t, repo, "sam", "correct-horse-battery", shared.RoleManager)
	require.NoError(t, repo.DeactivateAdmin(context.Background(), admin.ID))

	_, err := svc.Login(context.Background(), LoginRequest{Username: "sam", Password: "correct-horse-battery"})
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestRefreshRotationInvalidatesPreviousToken(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	seedAdmin(t, repo, "sam", "correct-horse-battery", shared.RoleManager)

	login, err := svc.Login(context.Background(), LoginRequest{Username: "sam", Password: "correct-horse-battery"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), login.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.Tokens.RefreshToken, rotated.Tokens.RefreshToken)

	// The pre-rotation token is gone.
	_, err = svc.Refresh(context.Background(), login.Tokens.RefreshToken)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	// The rotated token still works.
	_, err = svc.Refresh(context.Background(), rotated.Tokens.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsRevokedAndExpired(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	admin := seedAdmin(t, repo, "sam", "correct-horse-battery", shared.RoleManager)

	login, err := svc.Login(context.Background(), LoginRequest{Username: "sam", Password: "correct-horse-battery"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), admin.ID))
	_, err = svc.Refresh(context.Background(), login.Tokens.RefreshToken)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	// Expired token: log in again, then move the clock past expiry.
	login, err = svc.Login(context.Background(), LoginRequest{Username: "sam", Password: "correct-horse-battery"})
	require.NoError(t, err)
	svc.WithNow(func() time.Time { return time.Now().Add(48 * time.Hour) })
	_, err = svc.Refresh(context.Background(), login.Tokens.RefreshToken)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestDeactivateAdminRevokesRefresh(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	admin := seedAdmin(t, repo, "sam", "correct-horse-battery", shared.RoleManager)

	login, err := svc.Login(context.Background(), LoginRequest{Username: "sam", Password: "correct-horse-battery"})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateAdmin(context.Background(), admin.ID))
	_, err = svc.Refresh(context.Background(), login.Tokens.RefreshToken)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

// ============================================================================
// MIDDLEWARE
// ============================================================================

func TestRequireRole(t *testing.T) {
	tokens := NewTokenProvider("test-secret", 15*time.Minute, 24*time.Hour)
	mw := NewMiddleware(tokens)

	handler := mw.Authenticate(mw.RequireRole(shared.RoleSuperAdmin, shared.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	signFor := func(role string) string {
		token, _, err := tokens.SignAccess(Admin{ID: 1, Username: "sam", Role: role})
		require.NoError(t, err)
		return token
	}

	// Anonymous request.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Authenticated but with a lesser role.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signFor(shared.RoleCustomer))
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Allowed role via bearer header.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signFor(shared.RoleAdmin))
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Allowed role via cookie.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: signFor(shared.RoleSuperAdmin)})
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Garbage token stays anonymous.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
