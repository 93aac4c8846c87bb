package carRepo

import (
	"carental/models"
)

// ListFilter narrows and pages a fleet listing.
type ListFilter struct {
	Search       string // matched against brand, model and license plate
	Availability models.CarAvailability
	Category     string
	MinRate      float64
	MaxRate      float64
	Page         int
	PerPage      int
}

// CarRepository persists the fleet.
type CarRepository interface {
	Create(car *models.Car) error
	GetByID(id string) (*models.Car, error)
	GetByLicensePlate(plate string) (*models.Car, error)
	List(f ListFilter) ([]models.Car, int64, error)
	GetAll() ([]models.Car, error)
	Update(id string, updates map[string]interface{}) error
	Delete(id string) error

	CountByAvailability(availability models.CarAvailability) (int64, error)
	// FindByHistoryRenter returns cars whose rental history mentions the
	// client, for the cross-fleet rental history view.
	FindByHistoryRenter(clientID string) ([]models.Car, error)
}
