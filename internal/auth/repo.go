package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zedcars/zedcars/internal/platform/httpx"
)

// Repository defines persistence operations for accounts and refresh tokens.
type Repository interface {
	CreateAdmin(ctx context.Context, admin Admin) (Admin, error)
	FindByUsername(ctx context.Context, username string) (Admin, error)
	FindByID(ctx context.Context, id int64) (Admin, error)
	ListAdmins(ctx context.Context, page, perPage int) ([]Admin, int, error)
	DeactivateAdmin(ctx context.Context, id int64) error

	UpsertRefreshToken(ctx context.Context, adminID int64, hash string, expiresAt time.Time) error
	FindRefreshByHash(ctx context.Context, hash string) (RefreshToken, error)
	RevokeRefresh(ctx context.Context, adminID int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL account repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const adminColumns = `id, username, email, password_hash, role, is_active, created_at, updated_at`

func (r *repository) CreateAdmin(ctx context.Context, admin Admin) (Admin, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admins (username, email, password_hash, role, is_active)
		 VALUES ($1, $2, $3, $4, TRUE)
		 RETURNING id, is_active, created_at, updated_at`,
		admin.Username, admin.Email, admin.PasswordHash, admin.Role).
		Scan(&admin.ID, &admin.IsActive, &admin.CreatedAt, &admin.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return Admin{}, httpx.ErrDuplicate
	}
	return admin, err
}

func (r *repository) FindByUsername(ctx context.Context, username string) (Admin, error) {
	var a Admin
	err := r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE LOWER(username) = LOWER($1)`, username).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Admin{}, httpx.ErrNotFound
	}
	return a, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (Admin, error) {
	var a Admin
	err := r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Admin{}, httpx.ErrNotFound
	}
	return a, err
}

func (r *repository) ListAdmins(ctx context.Context, page, perPage int) ([]Admin, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+adminColumns+` FROM admins ORDER BY username LIMIT $1 OFFSET $2`,
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var admins []Admin
	for rows.Next() {
		var a Admin
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role,
			&a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		admins = append(admins, a)
	}
	return admins, total, rows.Err()
}

func (r *repository) DeactivateAdmin(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE admins SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// UpsertRefreshToken replaces the admin's refresh credential. The unique
// admin_id constraint makes rotation drop the previous token atomically.
func (r *repository) UpsertRefreshToken(ctx context.Context, adminID int64, hash string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO refresh_tokens (admin_id, token_hash, expires_at, is_revoked)
		 VALUES ($1, $2, $3, FALSE)
		 ON CONFLICT (admin_id) DO UPDATE
		 SET token_hash = EXCLUDED.token_hash, expires_at = EXCLUDED.expires_at,
		     is_revoked = FALSE, created_at = NOW()`,
		adminID, hash, expiresAt)
	return err
}

func (r *repository) FindRefreshByHash(ctx context.Context, hash string) (RefreshToken, error) {
	var t RefreshToken
	err := r.pool.QueryRow(ctx,
		`SELECT id, admin_id, token_hash, expires_at, is_revoked, created_at
		 FROM refresh_tokens WHERE token_hash = $1`, hash).
		Scan(&t.ID, &t.AdminID, &t.TokenHash, &t.ExpiresAt, &t.IsRevoked, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return RefreshToken{}, httpx.ErrNotFound
	}
	return t, err
}

func (r *repository) RevokeRefresh(ctx context.Context, adminID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET is_revoked = TRUE WHERE admin_id = $1`, adminID)
	return err
}
