// Package activity persists the append-only user activity log.
package activity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zedcars/zedcars/internal/shared"
)

// Entry represents a record stored in user_activities.
type Entry struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Type        string    `json:"activity_type"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Activity types recorded across the application.
const (
	TypeLogin            = "Login"
	TypeLogout           = "Logout"
	TypeRegistration     = "Registration"
	TypePurchase         = "Purchase"
	TypeTestDriveBooking = "TestDriveBooking"
	TypeCatalogChange    = "CatalogChange"
	TypeReportExport     = "ReportExport"
)

// Entry statuses.
const (
	StatusSuccess = "Success"
	StatusFailed  = "Failed"
)

// Logger writes records into user_activities.
type Logger struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewLogger returns a new activity Logger.
func NewLogger(pool *pgxpool.Pool, log *slog.Logger) *Logger {
	return &Logger{pool: pool, log: log}
}

// Record persists the log entry. Failures are reported to the application log
// and never propagate, the activity trail is best effort.
func (l *Logger) Record(ctx context.Context, entry Entry) {
	if l == nil || l.pool == nil {
		return
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	_, err := l.pool.Exec(ctx,
		`INSERT INTO user_activities (username, activity_type, description, status, occurred_at) VALUES ($1, $2, $3, $4, $5)`,
		entry.Username, entry.Type, entry.Description, entry.Status, entry.OccurredAt)
	if err != nil && l.log != nil {
		l.log.Warn("record user activity", slog.String("type", entry.Type), slog.Any("error", err))
	}
}

// List returns the newest activity entries, paginated.
func (l *Logger) List(ctx context.Context, page, perPage int) ([]Entry, shared.Pagination, error) {
	if l == nil || l.pool == nil {
		return nil, shared.Pagination{}, errors.New("activity: logger not initialised")
	}
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}

	var total int
	if err := l.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_activities`).Scan(&total); err != nil {
		return nil, shared.Pagination{}, err
	}

	rows, err := l.pool.Query(ctx,
		`SELECT id, username, activity_type, description, status, occurred_at
		 FROM user_activities ORDER BY occurred_at DESC, id DESC LIMIT $1 OFFSET $2`,
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Username, &e.Type, &e.Description, &e.Status, &e.OccurredAt); err != nil {
			return nil, shared.Pagination{}, err
		}
		entries = append(entries, e)
	}
	return entries, shared.NewPagination(page, perPage, total), rows.Err()
}
