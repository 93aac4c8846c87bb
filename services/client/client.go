package client

import (
	"sort"
	"strings"

	carRepo "carental/database/repository/car"
	clientRepo "carental/database/repository/client"
	reservationRepo "carental/database/repository/reservation"
	"carental/models"
	"carental/services/reservation"

	"github.com/google/uuid"
)

// ClientService manages the customer roster.
type ClientService interface {
	Create(client *models.Client) (*models.Client, error)
	Get(id string) (*models.Client, error)
	List(search string, page, perPage int) ([]models.Client, int64, error)
	Update(id string, updates map[string]interface{}) (*models.Client, error)
	Delete(id string) error

	// RentalHistory assembles the client's cross-fleet history from the
	// rental records embedded on car documents.
	RentalHistory(id string) ([]models.ClientRentalEntry, error)
}

// DefaultClientService is the production implementation of ClientService.
type DefaultClientService struct {
	ClientRepo      clientRepo.ClientRepository
	CarRepo         carRepo.CarRepository
	ReservationRepo reservationRepo.ReservationRepository
}

// editableFields lists the client fields a partial update may touch.
var editableFields = map[string]bool{
	"full_name":         true,
	"email":             true,
	"phone":             true,
	"address":           true,
	"driver_license":    true,
	"date_of_birth":     true,
	"emergency_contact": true,
	"notes":             true,
}

// Create validates and registers a new client. Emails are unique.
func (s *DefaultClientService) Create(c *models.Client) (*models.Client, error) {
	if c.FullName == "" {
		return nil, reservation.NewValidationError("full_name is required")
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Email == "" || !strings.Contains(c.Email, "@") {
		return nil, reservation.NewValidationError("a valid email is required")
	}

	existing, err := s.ClientRepo.GetByEmail(c.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, reservation.NewValidationError("a client with email %s already exists", c.Email)
	}

	c.ID = uuid.New().String()
	if err := s.ClientRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get fetches one client.
func (s *DefaultClientService) Get(id string) (*models.Client, error) {
	c, err := s.ClientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &reservation.NotFoundError{Resource: "client", ID: id}
	}
	return c, nil
}

// List returns a page of clients matching the search term.
func (s *DefaultClientService) List(search string, page, perPage int) ([]models.Client, int64, error) {
	return s.ClientRepo.List(search, page, perPage)
}

// Update applies a partial edit to a client.
func (s *DefaultClientService) Update(id string, updates map[string]interface{}) (*models.Client, error) {
	c, err := s.ClientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &reservation.NotFoundError{Resource: "client", ID: id}
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

	if email, ok := filtered["email"]; ok {
		str, _ := email.(string)
		str = strings.ToLower(strings.TrimSpace(str))
		if str == "" || !strings.Contains(str, "@") {
			return nil, reservation.NewValidationError("a valid email is required")
		}
		existing, err := s.ClientRepo.GetByEmail(str)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, reservation.NewValidationError("a client with email %s already exists", str)
		}
		filtered["email"] = str
	}

	if err := s.ClientRepo.Update(id, filtered); err != nil {
		return nil, err
	}
	return s.ClientRepo.GetByID(id)
}

// Delete removes a client that has no live bookings.
func (s *DefaultClientService) Delete(id string) error {
	c, err := s.ClientRepo.GetByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return &reservation.NotFoundError{Resource: "client", ID: id}
	}

	live, _, err := s.ReservationRepo.List(reservationRepo.ListFilter{ClientID: id, PerPage: 1000})
	if err != nil {
		return err
	}
	for i := range live {
		if !live[i].Status.IsTerminal() {
			return reservation.NewInvalidStateError("client %s has live reservations and cannot be deleted", id)
		}
	}

	return s.ClientRepo.Delete(id)
}

// RentalHistory walks every car whose history mentions the client and
// flattens the matching records, newest first.
func (s *DefaultClientService) RentalHistory(id string) ([]models.ClientRentalEntry, error) {
	c, err := s.ClientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &reservation.NotFoundError{Resource: "client", ID: id}
	}

	cars, err := s.CarRepo.FindByHistoryRenter(id)
	if err != nil {
		return nil, err
	}

	var entries []models.ClientRentalEntry
	for i := range cars {
		car := &cars[i]
		for _, rec := range car.RentalHistory {
			if rec.RenterID != id {
				continue
			}
			entries = append(entries, models.ClientRentalEntry{
				CarID:     car.ID,
				CarName:   car.Label(),
				StartDate: rec.StartDate,
				EndDate:   rec.EndDate,
				TotalCost: rec.TotalCost,
				Status:    rec.Status,
				RecordID:  rec.RecordID,
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartDate.After(entries[j].StartDate)
	})
	if entries == nil {
		entries = []models.ClientRentalEntry{}
	}
	return entries, nil
}
