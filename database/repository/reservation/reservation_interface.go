package reservationRepo

import (
	"context"
	"time"

	"carental/models"
)

// ListFilter narrows and pages a reservation listing.
type ListFilter struct {
	Status    models.ReservationStatus
	ClientID  string
	CarID     string
	StartFrom *time.Time
	EndUntil  *time.Time
	Page      int
	PerPage   int
}

// CarStateChange describes the car-side effects applied together with a
// reservation status write. A nil change means the transition touches only
// the reservation document.
type CarStateChange struct {
	CarID         string
	ReservationID string
	Availability  models.CarAvailability
	RenterID      string // empty clears current_renter_id

	// Exactly one of the following, or neither.
	HistoryAppend *models.RentalRecord     // push a new rental-history entry
	HistoryStatus models.ReservationStatus // set the matching entry's status
}

// CarAggregate groups reservation counts per car.
type CarAggregate struct {
	CarID string `bson:"_id"`
	Count int64  `bson:"reservation_count"`
}

// ClientAggregate groups reservation counts and spend per client.
type ClientAggregate struct {
	ClientID   string  `bson:"_id"`
	Count      int64   `bson:"reservation_count"`
	TotalSpent float64 `bson:"total_spent"`
}

// DepositAggregate groups held deposits per reservation status.
type DepositAggregate struct {
	Status        models.ReservationStatus `bson:"_id"`
	TotalDeposits float64                  `bson:"total_deposits"`
	Count         int64                    `bson:"count"`
}

// ReservationRepository persists reservations and answers the interval
// queries the lifecycle engine and reports are built on.
type ReservationRepository interface {
	Create(res *models.Reservation) error
	GetByID(id string) (*models.Reservation, error)
	List(f ListFilter) ([]models.Reservation, int64, error)
	Delete(id string) error

	// FindOverlapping returns non-terminal reservations for the car whose
	// [start,end) interval overlaps the candidate one under half-open
	// semantics. excludeID, when non-empty, skips that reservation.
	FindOverlapping(carID string, start, end time.Time, excludeID string) ([]models.Reservation, error)

	// FindInWindow returns non-terminal reservations touching the window,
	// optionally restricted to one car. Used by the calendar view.
	FindInWindow(carID string, start, end time.Time) ([]models.Reservation, error)

	// CreateTransactionally inserts the reservation together with its car-side
	// effects, if any, in a single transaction.
	CreateTransactionally(ctx context.Context, res *models.Reservation, change *CarStateChange) error

	// ApplyTransition persists the reservation field updates and the car-side
	// effects as a single transaction so no half-applied state is observable.
	ApplyTransition(ctx context.Context, reservationID string, fields map[string]interface{}, change *CarStateChange) error

	// Reporting queries.
	CountByStatus(status models.ReservationStatus) (int64, error)
	CountCreatedBetween(start, end time.Time) (int64, error)
	SumCompletedRevenue(start, end time.Time) (float64, error)
	FindRecent(since time.Time, limit int64) ([]models.Reservation, error)
	FindCompletedBetween(start, end time.Time) ([]models.Reservation, error)
	FindOutstandingPayments() ([]models.Reservation, error)
	DepositSummary() ([]DepositAggregate, error)
	PopularCars(limit int64) ([]CarAggregate, error)
	TopClients(limit int64) ([]ClientAggregate, error)
	FindByCarTouchingRange(carID string, start, end time.Time, statuses []models.ReservationStatus) ([]models.Reservation, error)
	FindByClientCreatedBetween(clientID string, start, end time.Time) ([]models.Reservation, error)
	FindStartingBetween(start, end time.Time, statuses []models.ReservationStatus) ([]models.Reservation, error)
	FindEndingBetween(start, end time.Time, statuses []models.ReservationStatus) ([]models.Reservation, error)
	FindOverdue(asOf time.Time) ([]models.Reservation, error)
}
