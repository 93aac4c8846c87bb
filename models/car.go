package models

import (
	"fmt"
	"time"
)

// CarAvailability is the fleet-level status of a car.
type CarAvailability string

const (
	CarAvailable   CarAvailability = "available"
	CarRented      CarAvailability = "rented"
	CarMaintenance CarAvailability = "maintenance"
)

// IsValid reports whether a is a known availability status.
func (a CarAvailability) IsValid() bool {
	return a == CarAvailable || a == CarRented || a == CarMaintenance
}

// RentalRecord is a denormalized summary of one reservation's occupancy,
// embedded on the car document for fast history display. The reservations
// collection remains the source of truth.
type RentalRecord struct {
	RecordID      string            `bson:"record_id" json:"record_id"`
	ReservationID string            `bson:"reservation_id,omitempty" json:"reservation_id,omitempty"`
	RenterID      string            `bson:"renter_id" json:"renter_id"`
	StartDate     time.Time         `bson:"start_date" json:"start_date"`
	EndDate       time.Time         `bson:"end_date" json:"end_date"`
	TotalCost     float64           `bson:"total_cost" json:"total_cost"`
	Status        ReservationStatus `bson:"status" json:"status"`
	CreatedAt     time.Time         `bson:"created_at" json:"created_at"`
}

// Car is one vehicle in the fleet.
type Car struct {
	ID                 string            `bson:"id" json:"id"`
	Brand              string            `bson:"brand" json:"brand"`
	Model              string            `bson:"model" json:"model"`
	Year               int               `bson:"year" json:"year"`
	PricePerDay        float64           `bson:"price_per_day" json:"price_per_day"`
	AvailabilityStatus CarAvailability   `bson:"availability_status" json:"availability_status"`
	Features           []string          `bson:"features" json:"features"`
	Images             []string          `bson:"images" json:"images"`
	Description        string            `bson:"description,omitempty" json:"description,omitempty"`
	FuelType           string            `bson:"fuel_type,omitempty" json:"fuel_type,omitempty"`
	Transmission       string            `bson:"transmission,omitempty" json:"transmission,omitempty"`
	Seats              int               `bson:"seats,omitempty" json:"seats,omitempty"`
	Color              string            `bson:"color,omitempty" json:"color,omitempty"`
	LicensePlate       string            `bson:"license_plate,omitempty" json:"license_plate,omitempty"`
	Mileage            int               `bson:"mileage" json:"mileage"`
	InsuranceInfo      map[string]string `bson:"insurance_info,omitempty" json:"insurance_info,omitempty"`
	MaintenanceStatus  string            `bson:"maintenance_status,omitempty" json:"maintenance_status,omitempty"`
	CurrentRenterID    string            `bson:"current_renter_id,omitempty" json:"current_renter_id,omitempty"`
	RentalHistory      []RentalRecord    `bson:"rental_history" json:"rental_history"`
	CreatedAt          time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time         `bson:"updated_at" json:"updated_at"`
}

// Label renders the car for human-facing lists ("Toyota Corolla (2022)").
func (c *Car) Label() string {
	if c.Year > 0 {
		return fmt.Sprintf("%s %s (%d)", c.Brand, c.Model, c.Year)
	}
	return c.Brand + " " + c.Model
}
