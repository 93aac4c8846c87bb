package fleet

import (
	"fmt"
	"time"

	carRepo "carental/database/repository/car"
	reservationRepo "carental/database/repository/reservation"
	"carental/models"
	"carental/services/reservation"
	"carental/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FleetService manages the vehicle inventory.
type FleetService interface {
	Create(car *models.Car) (*models.Car, error)
	Get(id string) (*models.Car, error)
	List(f carRepo.ListFilter) ([]models.Car, int64, error)
	Update(id string, updates map[string]interface{}) (*models.Car, error)
	Delete(id string) error
	History(id string) ([]models.RentalRecord, error)
	AddImage(id, url string) (*models.Car, error)
}

// DefaultFleetService is the production implementation of FleetService.
type DefaultFleetService struct {
	CarRepo         carRepo.CarRepository
	ReservationRepo reservationRepo.ReservationRepository
}

// editableFields lists the car fields a partial update may touch.
var editableFields = map[string]bool{
	"brand":               true,
	"model":               true,
	"year":                true,
	"price_per_day":       true,
	"availability_status": true,
	"features":            true,
	"images":              true,
	"description":         true,
	"fuel_type":           true,
	"transmission":        true,
	"seats":               true,
	"color":               true,
	"license_plate":       true,
	"mileage":             true,
	"insurance_info":      true,
	"maintenance_status":  true,
}

// Create validates and registers a new car. License plates are unique across
// the fleet.
func (s *DefaultFleetService) Create(car *models.Car) (*models.Car, error) {
	if car.Brand == "" || car.Model == "" {
		return nil, reservation.NewValidationError("brand and model are required")
	}
	if car.PricePerDay <= 0 {
		return nil, reservation.NewValidationError("price_per_day must be positive")
	}
	if car.AvailabilityStatus == "" {
		car.AvailabilityStatus = models.CarAvailable
	}
	if !car.AvailabilityStatus.IsValid() {
		return nil, reservation.NewValidationError("unknown availability status %q", car.AvailabilityStatus)
	}
	if car.LicensePlate != "" {
		existing, err := s.CarRepo.GetByLicensePlate(car.LicensePlate)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, reservation.NewValidationError("a car with license plate %s already exists", car.LicensePlate)
		}
	}

	car.ID = uuid.New().String()
	car.CurrentRenterID = ""
	car.RentalHistory = []models.RentalRecord{}
	if err := s.CarRepo.Create(car); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Car registered",
		zap.String("carID", car.ID),
		zap.String("label", car.Label()))
	return car, nil
}

// Get fetches one car.
func (s *DefaultFleetService) Get(id string) (*models.Car, error) {
	car, err := s.CarRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, &reservation.NotFoundError{Resource: "car", ID: id}
	}
	return car, nil
}

// List returns a filtered page of the fleet.
func (s *DefaultFleetService) List(f carRepo.ListFilter) ([]models.Car, int64, error) {
	if f.Availability != "" && !f.Availability.IsValid() {
		return nil, 0, reservation.NewValidationError("unknown availability status %q", f.Availability)
	}
	return s.CarRepo.List(f)
}

// Update applies a partial edit to a car. Rental bookkeeping fields
// (current renter, history) are not editable through this path.
func (s *DefaultFleetService) Update(id string, updates map[string]interface{}) (*models.Car, error) {
	car, err := s.CarRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, &reservation.NotFoundError{Resource: "car", ID: id}
	}

	filtered := map[string]interface{}{}
	for k, v := range updates {
		if !editableFields[k] {
			return nil, reservation.NewValidationError("field %q is not editable", k)
		}
		filtered[k] = v
	}
	if len(filtered) == 0 {
		return nil, reservation.NewValidationError("no editable fields supplied")
	}

	if status, ok := filtered["availability_status"]; ok {
		str, _ := status.(string)
		if !models.CarAvailability(str).IsValid() {
			return nil, reservation.NewValidationError("unknown availability status %q", status)
		}
	}
	if plate, ok := filtered["license_plate"]; ok {
		str, _ := plate.(string)
		if str != "" {
			existing, err := s.CarRepo.GetByLicensePlate(str)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != id {
				return nil, reservation.NewValidationError("a car with license plate %s already exists", str)
			}
		}
	}
	if rate, ok := filtered["price_per_day"]; ok {
		if f, ok := rate.(float64); ok && f <= 0 {
			return nil, reservation.NewValidationError("price_per_day must be positive")
		}
	}

	if err := s.CarRepo.Update(id, filtered); err != nil {
		return nil, err
	}
	return s.CarRepo.GetByID(id)
}

// Delete removes a car that has no live bookings.
func (s *DefaultFleetService) Delete(id string) error {
	car, err := s.CarRepo.GetByID(id)
	if err != nil {
		return err
	}
	if car == nil {
		return &reservation.NotFoundError{Resource: "car", ID: id}
	}

	// Any pending, confirmed or active booking blocks removal.
	distantPast := time.Time{}
	distantFuture := time.Now().UTC().AddDate(100, 0, 0)
	live, err := s.ReservationRepo.FindByCarTouchingRange(id, distantPast, distantFuture, models.NonTerminalStatuses())
	if err != nil {
		return err
	}
	if len(live) > 0 {
		return reservation.NewInvalidStateError("car %s has %d live reservation(s) and cannot be deleted", id, len(live))
	}

	return s.CarRepo.Delete(id)
}

// History returns the car's embedded rental records, newest first.
func (s *DefaultFleetService) History(id string) ([]models.RentalRecord, error) {
	car, err := s.CarRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, &reservation.NotFoundError{Resource: "car", ID: id}
	}

	records := make([]models.RentalRecord, len(car.RentalHistory))
	copy(records, car.RentalHistory)
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// AddImage appends an uploaded image URL to the car's gallery.
func (s *DefaultFleetService) AddImage(id, url string) (*models.Car, error) {
	car, err := s.CarRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, &reservation.NotFoundError{Resource: "car", ID: id}
	}
	if url == "" {
		return nil, reservation.NewValidationError("image url is required")
	}

	images := append(car.Images, url)
	if err := s.CarRepo.Update(id, map[string]interface{}{"images": images}); err != nil {
		return nil, fmt.Errorf("failed to attach image to car %s: %w", id, err)
	}
	car.Images = images
	return car, nil
}
