package testdrive

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zedcars/zedcars/internal/catalog"
	"github.com/zedcars/zedcars/internal/platform/httpx"
	"github.com/zedcars/zedcars/internal/shared"
)

const dateLayout = "2006-01-02"

// CatalogReader is the slice of the catalog the booking flow needs.
type CatalogReader interface {
	GetCar(ctx context.Context, id int64) (catalog.Car, error)
}

// Service provides business logic for test-drive bookings.
type Service struct {
	repo     Repository
	catalog  CatalogReader
	validate *validator.Validate
}

// NewService constructs a booking service.
func NewService(repo Repository, catalogReader CatalogReader) *Service {
	return &Service{repo: repo, catalog: catalogReader, validate: validator.New()}
}

// IsSlotAvailable reports whether (date, slot) is free across the whole
// dealership: no non-cancelled booking holds it for any car.
func (s *Service) IsSlotAvailable(ctx context.Context, date time.Time, slot string) (bool, error) {
	count, err := s.repo.CountActiveAtSlot(ctx, date, slot)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// IsSlotAvailableForCar reports whether (date, slot) is free for one car.
func (s *Service) IsSlotAvailableForCar(ctx context.Context, carID int64, date time.Time, slot string) (bool, error) {
	count, err := s.repo.CountActiveAtSlotForCar(ctx, carID, date, slot)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Book creates a Pending booking after checking slot availability. The scope
// field selects the availability check: dealership-wide by default, per-car
// when the caller opts in.
func (s *Service) Book(ctx context.Context, req BookingRequest) (Booking, error) {
	if err := s.validate.Struct(req); err != nil {
		return Booking{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	date, err := time.ParseInLocation(dateLayout, req.BookingDate, time.UTC)
	if err != nil {
		return Booking{}, fmt.Errorf("%w: booking_date must be YYYY-MM-DD", httpx.ErrValidation)
	}

	car, err := s.catalog.GetCar(ctx, req.CarID)
	if err != nil {
		return Booking{}, fmt.Errorf("lookup car: %w", err)
	}
	if !car.IsActive {
		return Booking{}, fmt.Errorf("%w: car %d is not available for test drives", httpx.ErrValidation, car.ID)
	}

	var available bool
	if req.Scope == ScopeCar {
		available, err = s.IsSlotAvailableForCar(ctx, car.ID, date, req.TimeSlot)
	} else {
		available, err = s.IsSlotAvailable(ctx, date, req.TimeSlot)
	}
	if err != nil {
		return Booking{}, fmt.Errorf("check slot: %w", err)
	}
	if !available {
		return Booking{}, fmt.Errorf("%w: slot %s on %s is already booked", httpx.ErrConflict, req.TimeSlot, req.BookingDate)
	}

	booking := Booking{
		CarID:         car.ID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		BookingDate:   date,
		TimeSlot:      req.TimeSlot,
		Status:        StatusPending,
	}
	created, err := s.repo.Insert(ctx, booking)
	if err != nil {
		return Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	return created, nil
}

// UpdateStatus moves a booking to a new lifecycle status. Cancelling releases
// the slot for future bookings.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (Booking, error) {
	if !ValidStatus(status) {
		return Booking{}, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return Booking{}, fmt.Errorf("update booking %d: %w", id, err)
	}
	return s.repo.Get(ctx, id)
}

// GetBooking returns one booking by id.
func (s *Service) GetBooking(ctx context.Context, id int64) (Booking, error) {
	return s.repo.Get(ctx, id)
}

// ListBookings returns a page of bookings, newest booking date first.
func (s *Service) ListBookings(ctx context.Context, page, perPage int) ([]Booking, shared.Pagination, error) {
	if perPage <= 0 {
		perPage = 10
	}
	if page <= 0 {
		page = 1
	}
	bookings, total, err := s.repo.List(ctx, page, perPage)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, shared.NewPagination(page, perPage, total), nil
}
