package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/zedcars/zedcars/internal/platform/httpx"
	"github.com/zedcars/zedcars/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	tokens   *TokenProvider
	validate *validator.Validate
	now      func() time.Time
}

// NewService constructs an auth service.
func NewService(repo Repository, tokens *TokenProvider) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Register creates an account. Without an explicit role the account is a
// Customer; staff roles are assigned by the handler layer after its own guard.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (Admin, error) {
	if err := s.validate.Struct(req); err != nil {
		return Admin{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	role := req.Role
	if role == "" {
		role = shared.RoleCustomer
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Admin{}, fmt.Errorf("hash password: %w", err)
	}

	admin, err := s.repo.CreateAdmin(ctx, Admin{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return Admin{}, fmt.Errorf("create account: %w", err)
	}
	return admin, nil
}

// Login validates credentials and issues a fresh token pair. Bad credentials
// and deactivated accounts are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return LoginResponse{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}

	admin, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized)
	}
	if !admin.IsActive {
		return LoginResponse{}, fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResponse{}, fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized)
	}

	pair, err := s.issuePair(ctx, admin)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{Admin: admin, Tokens: pair}, nil
}

// Refresh rotates an opaque refresh token: the presented token must match the
// stored hash, be unexpired and unrevoked. A successful rotation replaces the
// stored hash so the presented token cannot be replayed.
func (s *Service) Refresh(ctx context.Context, opaque string) (LoginResponse, error) {
	if opaque == "" {
		return LoginResponse{}, fmt.Errorf("%w: missing refresh token", httpx.ErrUnauthorized)
	}

	stored, err := s.repo.FindRefreshByHash(ctx, HashRefresh(opaque))
	if err != nil {
		return LoginResponse{}, fmt.Errorf("%w: unknown refresh token", httpx.ErrUnauthorized)
	}
	if stored.IsRevoked || s.now().After(stored.ExpiresAt) {
		return LoginResponse{}, fmt.Errorf("%w: refresh token no longer valid", httpx.ErrUnauthorized)
	}

	admin, err := s.repo.FindByID(ctx, stored.AdminID)
	if err != nil || !admin.IsActive {
		return LoginResponse{}, fmt.Errorf("%w: account unavailable", httpx.ErrUnauthorized)
	}

	pair, err := s.issuePair(ctx, admin)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{Admin: admin, Tokens: pair}, nil
}

// Logout revokes the admin's refresh token. Outstanding access tokens simply
// age out.
func (s *Service) Logout(ctx context.Context, adminID int64) error {
	return s.repo.RevokeRefresh(ctx, adminID)
}

// GetAdmin returns one account by id.
func (s *Service) GetAdmin(ctx context.Context, id int64) (Admin, error) {
	return s.repo.FindByID(ctx, id)
}

// ListAdmins returns a page of accounts ordered by username.
func (s *Service) ListAdmins(ctx context.Context, page, perPage int) ([]Admin, shared.Pagination, error) {
	if perPage <= 0 {
		perPage = 10
	}
	if page <= 0 {
		page = 1
	}
	admins, total, err := s.repo.ListAdmins(ctx, page, perPage)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list admins: %w", err)
	}
	return admins, shared.NewPagination(page, perPage, total), nil
}

// DeactivateAdmin disables an account and revokes its refresh token.
func (s *Service) DeactivateAdmin(ctx context.Context, id int64) error {
	if err := s.repo.DeactivateAdmin(ctx, id); err != nil {
		return fmt.Errorf("deactivate admin %d: %w", id, err)
	}
	return s.repo.RevokeRefresh(ctx, id)
}

func (s *Service) issuePair(ctx context.Context, admin Admin) (TokenPair, error) {
	access, accessExp, err := s.tokens.SignAccess(admin)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	opaque, hash, refreshExp, err := s.tokens.NewRefresh()
	if err != nil {
		return TokenPair{}, fmt.Errorf("mint refresh token: %w", err)
	}
	if err := s.repo.UpsertRefreshToken(ctx, admin.ID, hash, refreshExp); err != nil {
		return TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     opaque,
		RefreshExpiresAt: refreshExp,
	}, nil
}
