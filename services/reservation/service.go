package reservation

import (
	"context"
	"fmt"
	"time"

	carRepo "carental/database/repository/car"
	clientRepo "carental/database/repository/client"
	reservationRepo "carental/database/repository/reservation"
	"carental/models"
	"carental/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultReservationService is the production implementation of
// ReservationService.
type DefaultReservationService struct {
	ReservationRepo reservationRepo.ReservationRepository
	CarRepo         carRepo.CarRepository
	ClientRepo      clientRepo.ClientRepository

	locks *carLocks
}

// NewDefaultReservationService wires the service with its repositories.
func NewDefaultReservationService(rr reservationRepo.ReservationRepository, cr carRepo.CarRepository, cl clientRepo.ClientRepository) *DefaultReservationService {
	return &DefaultReservationService{
		ReservationRepo: rr,
		CarRepo:         cr,
		ClientRepo:      cl,
		locks:           newCarLocks(),
	}
}

// validatePeriod rejects zero or inverted rental intervals.
func validatePeriod(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return NewValidationError("start_date and end_date are required")
	}
	if !end.After(start) {
		return NewValidationError("end_date must be after start_date")
	}
	return nil
}

// carUnavailableMessage explains why a car cannot take a new booking.
func carUnavailableMessage(car *models.Car) string {
	if car.AvailabilityStatus == models.CarMaintenance {
		return "car is under maintenance"
	}
	return "car is currently rented"
}

// conflictsFor runs the overlap query and converts matches into summaries.
func (s *DefaultReservationService) conflictsFor(carID string, start, end time.Time, excludeID string) ([]models.ConflictSummary, error) {
	overlapping, err := s.ReservationRepo.FindOverlapping(carID, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("conflict query failed: %w", err)
	}
	conflicts := make([]models.ConflictSummary, 0, len(overlapping))
	for i := range overlapping {
		conflicts = append(conflicts, overlapping[i].Summary())
	}
	return conflicts, nil
}

// CheckAvailability reports whether the car is free over [start, end) and, if
// so, what the rental would cost. Nothing is written.
func (s *DefaultReservationService) CheckAvailability(carID string, start, end time.Time, excludeID string) (*models.AvailabilityResult, error) {
	if carID == "" {
		return nil, NewValidationError("car_id is required")
	}
	if err := validatePeriod(start, end); err != nil {
		return nil, err
	}

	car, err := s.CarRepo.GetByID(carID)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, &NotFoundError{Resource: "car", ID: carID}
	}
	if car.AvailabilityStatus != models.CarAvailable {
		return &models.AvailabilityResult{
			Available: false,
			Message:   carUnavailableMessage(car),
		}, nil
	}

	conflicts, err := s.conflictsFor(carID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return &models.AvailabilityResult{
			Available: false,
			Message:   "car is already reserved for the selected period",
			Conflicts: conflicts,
		}, nil
	}

	pricing := Quote(car.PricePerDay, start, end)
	return &models.AvailabilityResult{
		Available: true,
		Pricing:   &pricing,
	}, nil
}

// Create books a car. The availability gate, the conflict check and the
// insert all run under the per-car lock, so two simultaneous requests cannot
// both claim the car or the same period.
func (s *DefaultReservationService) Create(req CreateRequest) (*models.Reservation, error) {
	if req.ClientID == "" || req.CarID == "" {
		return nil, NewValidationError("client_id and car_id are required")
	}
	if err := validatePeriod(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !status.IsValid() {
		return nil, NewValidationError("unknown status %q", status)
	}
	if status.IsTerminal() {
		return nil, NewValidationError("a reservation cannot be created in status %q", status)
	}

	payment := req.PaymentStatus
	if payment == "" {
		payment = models.PaymentUnpaid
	}
	if !payment.IsValid() {
		return nil, NewValidationError("unknown payment status %q", payment)
	}
	if req.DepositAmount < 0 {
		return nil, NewValidationError("deposit_amount cannot be negative")
	}

	client, err := s.ClientRepo.GetByID(req.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, &NotFoundError{Resource: "client", ID: req.ClientID}
	}

	lock := s.locks.lock(req.CarID)
	defer lock.Unlock()

	// The car is read under the lock so its availability cannot change
	// between the gate and the insert.
	car, err := s.CarRepo.GetByID(req.CarID)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, &NotFoundError{Resource: "car", ID: req.CarID}
	}
	if car.AvailabilityStatus != models.CarAvailable {
		return nil, NewInvalidStateError("car %s is not available: %s", req.CarID, carUnavailableMessage(car))
	}

	conflicts, err := s.conflictsFor(req.CarID, req.StartDate, req.EndDate, "")
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{
			Message:   "car is already reserved for the selected period",
			Conflicts: conflicts,
		}
	}

	pricing := Quote(car.PricePerDay, req.StartDate, req.EndDate)
	res := &models.Reservation{
		ID:             uuid.New().String(),
		ClientID:       req.ClientID,
		CarID:          req.CarID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		TotalDays:      pricing.TotalDays,
		DailyRate:      pricing.DailyRate,
		TotalAmount:    pricing.TotalAmount,
		Status:         status,
		PaymentStatus:  payment,
		PickupLocation: req.PickupLocation,
		ReturnLocation: req.ReturnLocation,
		DepositAmount:  req.DepositAmount,
		Notes:          req.Notes,
		CreatedBy:      req.CreatedBy,
	}

	// A reservation born active claims the car immediately.
	var change *reservationRepo.CarStateChange
	if status == models.StatusActive {
		change = s.carClaim(res)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.ReservationRepo.CreateTransactionally(ctx, res, change); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Reservation created",
		zap.String("reservationID", res.ID),
		zap.String("carID", res.CarID),
		zap.String("status", string(res.Status)))

	res.Client = client
	res.Car = car
	return res, nil
}

// carClaim describes the fleet-side effects of a rental going active.
func (s *DefaultReservationService) carClaim(res *models.Reservation) *reservationRepo.CarStateChange {
	return &reservationRepo.CarStateChange{
		CarID:         res.CarID,
		ReservationID: res.ID,
		Availability:  models.CarRented,
		RenterID:      res.ClientID,
		HistoryAppend: &models.RentalRecord{
			RecordID:      uuid.New().String(),
			ReservationID: res.ID,
			RenterID:      res.ClientID,
			StartDate:     res.StartDate,
			EndDate:       res.EndDate,
			TotalCost:     res.TotalAmount,
			Status:        models.StatusActive,
			CreatedAt:     time.Now().UTC(),
		},
	}
}

// carRelease describes the fleet-side effects of a rental leaving the road.
func (s *DefaultReservationService) carRelease(res *models.Reservation, final models.ReservationStatus) *reservationRepo.CarStateChange {
	return &reservationRepo.CarStateChange{
		CarID:         res.CarID,
		ReservationID: res.ID,
		Availability:  models.CarAvailable,
		RenterID:      "",
		HistoryStatus: final,
	}
}
