// Package testdrive guards test-drive slot bookings and their lifecycle.
package testdrive

import "time"

// Booking statuses. Cancelled bookings release their slot.
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// Slot scopes accepted on a booking request. The default dealership scope
// blocks a slot for every car once any booking holds it.
const (
	ScopeDealership = "dealership"
	ScopeCar        = "car"
)

// Booking is one test-drive appointment.
type Booking struct {
	ID            int64     `json:"id"`
	CarID         int64     `json:"car_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	BookingDate   time.Time `json:"booking_date"`
	TimeSlot      string    `json:"time_slot"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// BookingRequest is the payload for creating a booking.
type BookingRequest struct {
	CarID         int64  `json:"car_id" validate:"required,gt=0"`
	CustomerName  string `json:"customer_name" validate:"required,min=2,max=120"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	CustomerPhone string `json:"customer_phone" validate:"omitempty,max=32"`
	BookingDate   string `json:"booking_date" validate:"required"`
	TimeSlot      string `json:"time_slot" validate:"required,max=32"`
	Scope         string `json:"scope" validate:"omitempty,oneof=dealership car"`
}

// StatusUpdateRequest is the payload for PUT /{id}/status.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// BookingPage is the paginated booking listing payload.
type BookingPage struct {
	Bookings   []Booking `json:"bookings"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
}
