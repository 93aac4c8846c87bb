package reservation

import (
	"time"

	reservationRepo "carental/database/repository/reservation"
	"carental/models"
)

// CreateRequest carries the fields accepted when booking a car.
type CreateRequest struct {
	ClientID       string                   `json:"client_id"`
	CarID          string                   `json:"car_id"`
	StartDate      time.Time                `json:"start_date"`
	EndDate        time.Time                `json:"end_date"`
	Status         models.ReservationStatus `json:"status"`
	PaymentStatus  models.PaymentStatus     `json:"payment_status"`
	PickupLocation string                   `json:"pickup_location"`
	ReturnLocation string                   `json:"return_location"`
	DepositAmount  float64                  `json:"deposit_amount"`
	Notes          string                   `json:"notes"`
	CreatedBy      string                   `json:"-"`
}

// UpdateRequest carries the editable fields of an existing reservation.
// Nil pointers leave the stored value untouched. Status is not here; status
// moves go through UpdateStatus so the side effects always run.
type UpdateRequest struct {
	StartDate      *time.Time            `json:"start_date"`
	EndDate        *time.Time            `json:"end_date"`
	PaymentStatus  *models.PaymentStatus `json:"payment_status"`
	PickupLocation *string               `json:"pickup_location"`
	ReturnLocation *string               `json:"return_location"`
	DepositAmount  *float64              `json:"deposit_amount"`
	Notes          *string               `json:"notes"`
}

// ReservationService owns the booking lifecycle: availability checks,
// creation, edits, status transitions with their fleet side effects, and
// deletion.
type ReservationService interface {
	// CheckAvailability reports whether the car is free over [start, end)
	// without writing anything. excludeID ignores one reservation, for edit
	// previews.
	CheckAvailability(carID string, start, end time.Time, excludeID string) (*models.AvailabilityResult, error)

	Create(req CreateRequest) (*models.Reservation, error)
	Get(id string) (*models.Reservation, error)
	List(f reservationRepo.ListFilter) ([]models.Reservation, int64, error)
	Update(id string, req UpdateRequest) (*models.Reservation, error)
	UpdateStatus(id string, next models.ReservationStatus) (*models.Reservation, error)
	Delete(id string) error

	Calendar(carID string, start, end time.Time) ([]models.CalendarEvent, error)
	Stats() (*models.ReservationStats, error)
}
