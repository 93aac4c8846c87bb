package models

import "time"

// Client is one renter on the roster.
type Client struct {
	ID               string     `bson:"id" json:"id"`
	FullName         string     `bson:"full_name" json:"full_name"`
	Email            string     `bson:"email" json:"email"`
	Phone            string     `bson:"phone" json:"phone"`
	Address          string     `bson:"address,omitempty" json:"address,omitempty"`
	DriverLicense    string     `bson:"driver_license,omitempty" json:"driver_license,omitempty"`
	DateOfBirth      *time.Time `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	EmergencyContact string     `bson:"emergency_contact,omitempty" json:"emergency_contact,omitempty"`
	Notes            string     `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
}

// ClientRentalEntry is one row of a client's cross-fleet rental history,
// assembled from the rental records embedded on car documents.
type ClientRentalEntry struct {
	CarID     string            `json:"car_id"`
	CarName   string            `json:"car_name"`
	StartDate time.Time         `json:"start_date"`
	EndDate   time.Time         `json:"end_date"`
	TotalCost float64           `json:"total_cost"`
	Status    ReservationStatus `json:"status"`
	RecordID  string            `json:"record_id"`
}
