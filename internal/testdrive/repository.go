package testdrive

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zedcars/zedcars/internal/platform/httpx"
)

// Repository defines persistence operations for test-drive bookings.
type Repository interface {
	Insert(ctx context.Context, booking Booking) (Booking, error)
	Get(ctx context.Context, id int64) (Booking, error)
	List(ctx context.Context, page, perPage int) ([]Booking, int, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	CountActiveAtSlot(ctx context.Context, date time.Time, slot string) (int, error)
	CountActiveAtSlotForCar(ctx context.Context, carID int64, date time.Time, slot string) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL booking repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const bookingColumns = `id, car_id, customer_name, customer_email, customer_phone, booking_date, time_slot, status, created_at, updated_at`

func (r *repository) Insert(ctx context.Context, booking Booking) (Booking, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO test_drives (car_id, customer_name, customer_email, customer_phone, booking_date, time_slot, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		booking.CarID, booking.CustomerName, booking.CustomerEmail, booking.CustomerPhone,
		booking.BookingDate, booking.TimeSlot, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	return booking, err
}

func (r *repository) Get(ctx context.Context, id int64) (Booking, error) {
	var b Booking
	err := r.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM test_drives WHERE id = $1`, id).
		Scan(&b.ID, &b.CarID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
			&b.BookingDate, &b.TimeSlot, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, httpx.ErrNotFound
	}
	return b, err
}

func (r *repository) List(ctx context.Context, page, perPage int) ([]Booking, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM test_drives`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+bookingColumns+` FROM test_drives
		 ORDER BY booking_date DESC, id DESC LIMIT $1 OFFSET $2`,
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.CarID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
			&b.BookingDate, &b.TimeSlot, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, total, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE test_drives SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// CountActiveAtSlot counts non-cancelled bookings holding (date, slot)
// anywhere in the dealership.
func (r *repository) CountActiveAtSlot(ctx context.Context, date time.Time, slot string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM test_drives
		 WHERE booking_date = $1 AND time_slot = $2 AND status <> $3`,
		date, slot, StatusCancelled).Scan(&count)
	return count, err
}

// CountActiveAtSlotForCar counts non-cancelled bookings holding (date, slot)
// for one car.
func (r *repository) CountActiveAtSlotForCar(ctx context.Context, carID int64, date time.Time, slot string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM test_drives
		 WHERE car_id = $1 AND booking_date = $2 AND time_slot = $3 AND status <> $4`,
		carID, date, slot, StatusCancelled).Scan(&count)
	return count, err
}
