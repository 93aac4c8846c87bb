package client

import (
	"context"
	"sync"
	"testing"
	"time"

	carRepo "carental/database/repository/car"
	reservationRepo "carental/database/repository/reservation"
	"carental/models"
	"carental/services/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memClientRepo is an in-memory ClientRepository.
type memClientRepo struct {
	mu      sync.Mutex
	clients map[string]*models.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: map[string]*models.Client{}}
}

func (f *memClientRepo) Create(c *models.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.clients[c.ID] = &cp
	return nil
}

func (f *memClientRepo) GetByID(id string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *memClientRepo) GetByEmail(email string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *memClientRepo) List(search string, page, perPage int) ([]models.Client, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Client, 0, len(f.clients))
	for _, c := range f.clients {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (f *memClientRepo) Update(id string, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return nil
	}
	if v, ok := updates["full_name"]; ok {
		c.FullName = v.(string)
	}
	if v, ok := updates["email"]; ok {
		c.Email = v.(string)
	}
	return nil
}

func (f *memClientRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.clients, id)
	return nil
}

func (f *memClientRepo) Count() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.clients)), nil
}

// memCarRepo only supports the history-renter lookup the client service uses.
type memCarRepo struct {
	cars []models.Car
}

func (f *memCarRepo) Create(*models.Car) error                      { return nil }
func (f *memCarRepo) GetByID(string) (*models.Car, error)           { return nil, nil }
func (f *memCarRepo) GetByLicensePlate(string) (*models.Car, error) { return nil, nil }
func (f *memCarRepo) List(carRepo.ListFilter) ([]models.Car, int64, error) {
	return nil, 0, nil
}
func (f *memCarRepo) GetAll() ([]models.Car, error)                   { return f.cars, nil }
func (f *memCarRepo) Update(string, map[string]interface{}) error     { return nil }
func (f *memCarRepo) Delete(string) error                             { return nil }
func (f *memCarRepo) CountByAvailability(models.CarAvailability) (int64, error) {
	return 0, nil
}

func (f *memCarRepo) FindByHistoryRenter(clientID string) ([]models.Car, error) {
	var out []models.Car
	for _, car := range f.cars {
		for _, rec := range car.RentalHistory {
			if rec.RenterID == clientID {
				out = append(out, car)
				break
			}
		}
	}
	return out, nil
}

// memReservationRepo returns a canned reservation list; client deletion is
// the only path exercised here.
type memReservationRepo struct {
	reservations []models.Reservation
}

func (f *memReservationRepo) Create(*models.Reservation) error            { return nil }
func (f *memReservationRepo) GetByID(string) (*models.Reservation, error) { return nil, nil }
func (f *memReservationRepo) List(reservationRepo.ListFilter) ([]models.Reservation, int64, error) {
	return f.reservations, int64(len(f.reservations)), nil
}
func (f *memReservationRepo) Delete(string) error { return nil }
func (f *memReservationRepo) FindOverlapping(string, time.Time, time.Time, string) ([]models.Reservation, error) {
	return nil, nil
}
func (f *memReservationRepo) FindInWindow(string, time.Time, time.Time) ([]models.Reservation, error) {
	return nil, nil
}
func (f *memReservationRepo) CreateTransactionally(context.Context, *models.Reservation, *reservationRepo.CarStateChange) error {
	return nil
}
func (f *memReservationRepo) ApplyTransition(context.Context, string, map[string]interface{}, *reservationRepo.CarStateChange) error {
	return nil
}
func (f *memReservationRepo) CountByStatus(models.ReservationStatus) (int64, error) { return 0, nil }
func (f *memReservationRepo) CountCreatedBetween(time.Time, time.Time) (int64, error) {
	return 0, nil
}
func (f *memReservationRepo) SumCompletedRevenue(time.Time, time.Time) (float64, error) {
	return 0, nil
}
func (f *memReservationRepo) FindRecent(time.Time, int64) ([]models.Reservation, error) {
	return nil, nil
}
func (f *memReservationRepo) FindCompletedBetween(time.Time, time.Time) ([]models.Reservation, error) {
	return nil, nil
}
func (f *memReservationRepo) FindOutstandingPayments() ([]models.Reservation, error) {
	return nil, nil
}
func (f *memReservationRepo) DepositSummary() ([]reservationRepo.DepositAggregate, error) {
	return nil, nil
}
func (f *memReservationRepo) PopularCars(int64) ([]reservationRepo.CarAggregate, error) {
	return nil, nil
}
func (f *memReservationRepo) TopClients(int64) ([]reservationRepo.ClientAggregate, error) {
	return nil, nil
}
func (f *memReservationRepo) FindByCarTouchingRange(string, time.Time, time.Time, []models.ReservationStatus) ([]models.Reservation, error) {
	return nil, nil
}
func (f *memReservationRepo) FindByClientCreatedBetween(string, time.Time, time.Time) ([]models.Reservation, error) {
	return nil, nil
}
func (f *memReservationRepo) FindStartingBetween(time.Time, time.Time, []models.ReservationStatus) ([]models.Reservation, error) {
	return nil, nil
}
func (f *memReservationRepo) FindEndingBetween(time.Time, time.Time, []models.ReservationStatus) ([]models.Reservation, error) {
	return nil, nil
}
func (f *memReservationRepo) FindOverdue(time.Time) ([]models.Reservation, error) {
	return nil, nil
}

func newClientService() (*DefaultClientService, *memClientRepo, *memCarRepo, *memReservationRepo) {
	clients := newMemClientRepo()
	cars := &memCarRepo{}
	reservations := &memReservationRepo{}
	return &DefaultClientService{ClientRepo: clients, CarRepo: cars, ReservationRepo: reservations},
		clients, cars, reservations
}

func TestCreateClient(t *testing.T) {
	svc, _, _, _ := newClientService()

	c, err := svc.Create(&models.Client{FullName: "Ada Lovelace", Email: " Ada@Example.COM "})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "ada@example.com", c.Email)

	// Duplicate email, case-insensitively.
	_, err = svc.Create(&models.Client{FullName: "Other", Email: "ADA@example.com"})
	assert.IsType(t, &reservation.ValidationError{}, err)

	_, err = svc.Create(&models.Client{Email: "x@example.com"})
	assert.IsType(t, &reservation.ValidationError{}, err)

	_, err = svc.Create(&models.Client{FullName: "No Email", Email: "not-an-email"})
	assert.IsType(t, &reservation.ValidationError{}, err)
}

func TestUpdateClient(t *testing.T) {
	svc, _, _, _ := newClientService()

	c, err := svc.Create(&models.Client{FullName: "Ada Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)

	updated, err := svc.Update(c.ID, map[string]interface{}{"full_name": "Ada King"})
	require.NoError(t, err)
	assert.Equal(t, "Ada King", updated.FullName)

	_, err = svc.Update(c.ID, map[string]interface{}{"loyalty_tier": "gold"})
	assert.IsType(t, &reservation.ValidationError{}, err)

	_, err = svc.Update("missing", map[string]interface{}{"full_name": "X"})
	assert.IsType(t, &reservation.NotFoundError{}, err)
}

func TestDeleteClientBlockedByLiveBookings(t *testing.T) {
	svc, clients, _, reservations := newClientService()

	c, err := svc.Create(&models.Client{FullName: "Ada Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)

	reservations.reservations = []models.Reservation{{ID: "r1", Status: models.StatusActive}}
	err = svc.Delete(c.ID)
	assert.IsType(t, &reservation.InvalidStateError{}, err)

	// Terminal history does not block removal.
	reservations.reservations = []models.Reservation{{ID: "r1", Status: models.StatusCompleted}}
	require.NoError(t, svc.Delete(c.ID))
	stored, _ := clients.GetByID(c.ID)
	assert.Nil(t, stored)
}

func TestClientRentalHistory(t *testing.T) {
	svc, _, cars, _ := newClientService()

	c, err := svc.Create(&models.Client{FullName: "Ada Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)

	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	cars.cars = []models.Car{
		{
			ID: "car-1", Brand: "Toyota", Model: "Corolla", Year: 2022,
			RentalHistory: []models.RentalRecord{
				{RecordID: "rec-1", RenterID: c.ID, StartDate: jan, TotalCost: 150, Status: models.StatusCompleted},
				{RecordID: "rec-x", RenterID: "someone-else", StartDate: jan, TotalCost: 99},
			},
		},
		{
			ID: "car-2", Brand: "Honda", Model: "Civic", Year: 2023,
			RentalHistory: []models.RentalRecord{
				{RecordID: "rec-2", RenterID: c.ID, StartDate: mar, TotalCost: 200, Status: models.StatusActive},
			},
		},
	}

	entries, err := svc.RentalHistory(c.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first, other renters' records filtered out.
	assert.Equal(t, "rec-2", entries[0].RecordID)
	assert.Equal(t, "car-2", entries[0].CarID)
	assert.Equal(t, "rec-1", entries[1].RecordID)
	assert.Equal(t, 150.0, entries[1].TotalCost)

	// A client with no rentals gets an empty slice, not an error.
	fresh, err := svc.Create(&models.Client{FullName: "Grace Hopper", Email: "grace@example.com"})
	require.NoError(t, err)
	entries, err = svc.RentalHistory(fresh.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
