package reservation

import (
	"context"
	"time"

	reservationRepo "carental/database/repository/reservation"
	"carental/models"
	"carental/utils"

	"go.uber.org/zap"
)

// Update edits a reservation's period, payment label or free-form fields.
// Date changes re-run the conflict check (excluding the reservation itself)
// and re-derive the billing figures from the stored daily rate.
func (s *DefaultReservationService) Update(id string, req UpdateRequest) (*models.Reservation, error) {
	res, err := s.ReservationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, &NotFoundError{Resource: "reservation", ID: id}
	}
	if res.Status.IsTerminal() {
		return nil, NewInvalidStateError("reservation %s is %s and can no longer be edited", id, res.Status)
	}

	fields := map[string]interface{}{}

	start, end := res.StartDate, res.EndDate
	datesChanged := false
	if req.StartDate != nil {
		start = *req.StartDate
		datesChanged = true
	}
	if req.EndDate != nil {
		end = *req.EndDate
		datesChanged = true
	}

	if datesChanged {
		if err := validatePeriod(start, end); err != nil {
			return nil, err
		}

		lock := s.locks.lock(res.CarID)
		defer lock.Unlock()

		conflicts, err := s.conflictsFor(res.CarID, start, end, res.ID)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, &ConflictError{
				Message:   "car is already reserved for the new period",
				Conflicts: conflicts,
			}
		}

		pricing := Quote(res.DailyRate, start, end)
		fields["start_date"] = start
		fields["end_date"] = end
		fields["total_days"] = pricing.TotalDays
		fields["total_amount"] = pricing.TotalAmount
		res.StartDate, res.EndDate = start, end
		res.TotalDays = pricing.TotalDays
		res.TotalAmount = pricing.TotalAmount
	}

	if req.PaymentStatus != nil {
		if !req.PaymentStatus.IsValid() {
			return nil, NewValidationError("unknown payment status %q", *req.PaymentStatus)
		}
		fields["payment_status"] = *req.PaymentStatus
		res.PaymentStatus = *req.PaymentStatus
	}
	if req.DepositAmount != nil {
		if *req.DepositAmount < 0 {
			return nil, NewValidationError("deposit_amount cannot be negative")
		}
		fields["deposit_amount"] = *req.DepositAmount
		res.DepositAmount = *req.DepositAmount
	}
	if req.PickupLocation != nil {
		fields["pickup_location"] = *req.PickupLocation
		res.PickupLocation = *req.PickupLocation
	}
	if req.ReturnLocation != nil {
		fields["return_location"] = *req.ReturnLocation
		res.ReturnLocation = *req.ReturnLocation
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
		res.Notes = *req.Notes
	}

	if len(fields) == 0 {
		return nil, NewValidationError("no editable fields supplied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.ReservationRepo.ApplyTransition(ctx, res.ID, fields, nil); err != nil {
		return nil, err
	}
	return s.hydrate(res)
}

// UpdateStatus moves a reservation along the lifecycle graph and applies the
// fleet side effects of the move in the same transaction:
//
//	→ active:    car becomes rented, the client becomes its current renter,
//	             and a rental-history entry is written on the car
//	→ completed: car becomes available again and its history entry closes
//	→ cancelled: same release, but only when the rental was already active
func (s *DefaultReservationService) UpdateStatus(id string, next models.ReservationStatus) (*models.Reservation, error) {
	if !next.IsValid() {
		return nil, NewValidationError("unknown status %q", next)
	}

	res, err := s.ReservationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, &NotFoundError{Resource: "reservation", ID: id}
	}
	if !res.Status.CanTransitionTo(next) {
		return nil, NewInvalidStateError("cannot move reservation %s from %s to %s", id, res.Status, next)
	}

	var change *reservationRepo.CarStateChange
	switch next {
	case models.StatusActive:
		change = s.carClaim(res)
	case models.StatusCompleted:
		change = s.carRelease(res, models.StatusCompleted)
	case models.StatusCancelled:
		if res.Status == models.StatusActive {
			change = s.carRelease(res, models.StatusCancelled)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fields := map[string]interface{}{"status": next}
	if err := s.ReservationRepo.ApplyTransition(ctx, res.ID, fields, change); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Reservation status changed",
		zap.String("reservationID", res.ID),
		zap.String("from", string(res.Status)),
		zap.String("to", string(next)))

	res.Status = next
	return s.hydrate(res)
}

// Delete removes a reservation that never went anywhere. Anything past
// pending must be cancelled first so the audit trail survives; cancelled
// bookings may then be purged.
func (s *DefaultReservationService) Delete(id string) error {
	res, err := s.ReservationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if res == nil {
		return &NotFoundError{Resource: "reservation", ID: id}
	}
	if res.Status != models.StatusPending && res.Status != models.StatusCancelled {
		return NewInvalidStateError("only pending or cancelled reservations can be deleted; reservation %s is %s", id, res.Status)
	}
	return s.ReservationRepo.Delete(id)
}
