package testdrive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zedcars/zedcars/internal/catalog"
	"github.com/zedcars/zedcars/internal/platform/httpx"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	bookings map[int64]Booking
	nextID   int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{bookings: make(map[int64]Booking), nextID: 1}
}

func (m *mockRepository) Insert(ctx context.Context, booking Booking) (Booking, error) {
	booking.ID = m.nextID
	m.nextID++
	booking.CreatedAt = time.Now().UTC()
	booking.UpdatedAt = booking.CreatedAt
	m.bookings[booking.ID] = booking
	return booking, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return Booking{}, httpx.ErrNotFound
	}
	return b, nil
}

func (m *mockRepository) List(ctx context.Context, page, perPage int) ([]Booking, int, error) {
	var all []Booking
	for _, b := range m.bookings {
		all = append(all, b)
	}
	return all, len(all), nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	b, ok := m.bookings[id]
	if !ok {
		return httpx.ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	m.bookings[id] = b
	return nil
}

func (m *mockRepository) CountActiveAtSlot(ctx context.Context, date time.Time, slot string) (int, error) {
	count := 0
	for _, b := range m.bookings {
		if b.Status != StatusCancelled && b.BookingDate.Equal(date) && b.TimeSlot == slot {
			count++
		}
	}
	return count, nil
}

func (m *mockRepository) CountActiveAtSlotForCar(ctx context.Context, carID int64, date time.Time, slot string) (int, error) {
	count := 0
	for _, b := range m.bookings {
		if b.CarID == carID && b.Status != StatusCancelled && b.BookingDate.Equal(date) && b.TimeSlot == slot {
			count++
		}
	}
	return count, nil
}

var _ Repository = (*mockRepository)(nil)

type mockCatalog struct {
	cars map[int64]catalog.Car
}

func (m *mockCatalog) GetCar(ctx context.Context, id int64) (catalog.Car, error) {
	c, ok := m.cars[id]
	if !ok {
		return catalog.Car{}, httpx.ErrNotFound
	}
	return c, nil
}

func newTestService(repo *mockRepository) *Service {
	cat := &mockCatalog{cars: map[int64]catalog.Car{
		1: {ID: 1, Brand: "Toyota", Model: "Corolla", IsActive: true},
		2: {ID: 2, Brand: "Honda", Model: "Civic", IsActive: true},
		3: {ID: 3, Brand: "Ford", Model: "Focus", IsActive: false},
	}}
	return NewService(repo, cat)
}

func validRequest() BookingRequest {
	return BookingRequest{
		CarID:         1,
		CustomerName:  "Jamie Doe",
		CustomerEmail: "jamie@example.com",
		BookingDate:   "2025-01-10",
		TimeSlot:      "10:00 AM",
	}
}

// ============================================================================
// TESTS
// ============================================================================

func TestBookCreatesPendingBooking(t *testing.T) {
	svc := newTestService(newMockRepository())

	booking, err := svc.Book(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusPending, booking.Status)
	assert.Equal(t, int64(1), booking.CarID)
	assert.Equal(t, "10:00 AM", booking.TimeSlot)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), booking.BookingDate)
}

func TestBookRejectsHeldSlotDealershipWide(t *testing.T) {
	svc := newTestService(newMockRepository())

	_, err := svc.Book(context.Background(), validRequest())
	require.NoError(t, err)

	// A different car, same date and slot: still conflicts by default.
	second := validRequest()
	second.CarID = 2
	_, err = svc.Book(context.Background(), second)
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestBookPerCarScopeAllowsOtherCars(t *testing.T) {
	svc := newTestService(newMockRepository())

	first := validRequest()
	first.Scope = ScopeCar
	_, err := svc.Book(context.Background(), first)
	require.NoError(t, err)

	second := validRequest()
	second.CarID = 2
	second.Scope = ScopeCar
	_, err = svc.Book(context.Background(), second)
	require.NoError(t, err)

	// Same car at the same slot still conflicts.
	third := validRequest()
	third.Scope = ScopeCar
	_, err = svc.Book(context.Background(), third)
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestCancellationReleasesSlot(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	booking, err := svc.Book(context.Background(), validRequest())
	require.NoError(t, err)

	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	available, err := svc.IsSlotAvailable(context.Background(), date, "10:00 AM")
	require.NoError(t, err)
	assert.False(t, available)

	_, err = svc.UpdateStatus(context.Background(), booking.ID, StatusCancelled)
	require.NoError(t, err)

	available, err = svc.IsSlotAvailable(context.Background(), date, "10:00 AM")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestBookUnknownCar(t *testing.T) {
	svc := newTestService(newMockRepository())

	req := validRequest()
	req.CarID = 99
	_, err := svc.Book(context.Background(), req)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestBookInactiveCar(t *testing.T) {
	svc := newTestService(newMockRepository())

	req := validRequest()
	req.CarID = 3
	_, err := svc.Book(context.Background(), req)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestBookValidation(t *testing.T) {
	svc := newTestService(newMockRepository())

	req := validRequest()
	req.CustomerEmail = "not-an-email"
	_, err := svc.Book(context.Background(), req)
	require.ErrorIs(t, err, httpx.ErrValidation)

	req = validRequest()
	req.BookingDate = "10/01/2025"
	_, err = svc.Book(context.Background(), req)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	booking, err := svc.Book(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), booking.ID, "Parked")
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.UpdateStatus(context.Background(), 99, StatusConfirmed)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDifferentSlotSameDayIsFree(t *testing.T) {
	svc := newTestService(newMockRepository())

	_, err := svc.Book(context.Background(), validRequest())
	require.NoError(t, err)

	second := validRequest()
	second.TimeSlot = "2:00 PM"
	_, err = svc.Book(context.Background(), second)
	require.NoError(t, err)
}
