package models

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusActive    ReservationStatus = "active"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

// PaymentStatus is an informational label; it drives no state machine.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// transitions lists the reachable statuses from each state. pending → active
// is allowed for walk-in pickups; skipping active entirely is not, because the
// car-release bookkeeping would never run.
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusActive, StatusCancelled},
	StatusConfirmed: {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// IsValid reports whether s is a known reservation status.
func (s ReservationStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether s is a final state. Terminal reservations never
// count toward availability conflicts.
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the lifecycle graph permits moving from s to next.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// NonTerminalStatuses returns the statuses that occupy a car's calendar.
func NonTerminalStatuses() []ReservationStatus {
	return []ReservationStatus{StatusPending, StatusConfirmed, StatusActive}
}

// IsValid reports whether p is a known payment status.
func (p PaymentStatus) IsValid() bool {
	return p == PaymentUnpaid || p == PaymentPartial || p == PaymentPaid
}

// Reservation books a car for a client over a half-open [start, end) interval.
type Reservation struct {
	ID             string            `bson:"id" json:"id"`
	ClientID       string            `bson:"client_id" json:"client_id"`
	CarID          string            `bson:"car_id" json:"car_id"`
	StartDate      time.Time         `bson:"start_date" json:"start_date"`
	EndDate        time.Time         `bson:"end_date" json:"end_date"`
	TotalDays      int               `bson:"total_days" json:"total_days"`
	DailyRate      float64           `bson:"daily_rate" json:"daily_rate"`
	TotalAmount    float64           `bson:"total_amount" json:"total_amount"`
	Status         ReservationStatus `bson:"status" json:"status"`
	PaymentStatus  PaymentStatus     `bson:"payment_status" json:"payment_status"`
	PickupLocation string            `bson:"pickup_location,omitempty" json:"pickup_location,omitempty"`
	ReturnLocation string            `bson:"return_location,omitempty" json:"return_location,omitempty"`
	DepositAmount  float64           `bson:"deposit_amount" json:"deposit_amount"`
	Notes          string            `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy      string            `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt      time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `bson:"updated_at" json:"updated_at"`

	// Populated on read paths for list/detail responses; never persisted.
	Client *Client `bson:"-" json:"client,omitempty"`
	Car    *Car    `bson:"-" json:"car,omitempty"`
}

// Overlaps reports whether the reservation's interval shares at least one
// instant with [start, end) under half-open semantics. Abutting intervals do
// not overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartDate.Before(end) && r.EndDate.After(start)
}

// ConflictSummary is the caller-facing digest of a conflicting reservation.
type ConflictSummary struct {
	ReservationID string            `json:"reservation_id"`
	StartDate     time.Time         `json:"start_date"`
	EndDate       time.Time         `json:"end_date"`
	Status        ReservationStatus `json:"status"`
}

// Summary trims a reservation down to the fields shown on conflict lists.
func (r *Reservation) Summary() ConflictSummary {
	return ConflictSummary{
		ReservationID: r.ID,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		Status:        r.Status,
	}
}

// CalendarEvent is one reservation rendered for the booking calendar.
type CalendarEvent struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	Status     ReservationStatus `json:"status"`
	ClientID   string            `json:"client_id"`
	CarID      string            `json:"car_id"`
	ClientName string            `json:"client_name"`
	CarInfo    string            `json:"car_info"`
}
