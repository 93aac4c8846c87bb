package fleet

import (
	"context"
	"fmt"
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

// memCarRepo is an in-memory CarRepository.
type memCarRepo struct {
	mu   sync.Mutex
	cars map[string]*models.Car
}

func newMemCarRepo() *memCarRepo {
	return &memCarRepo{cars: map[string]*models.Car{}}
}

func (f *memCarRepo) Create(car *models.Car) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *car
	f.cars[car.ID] = &cp
	return nil
}

func (f *memCarRepo) GetByID(id string) (*models.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	car, ok := f.cars[id]
	if !ok {
		return nil, nil
	}
	cp := *car
	return &cp, nil
}

func (f *memCarRepo) GetByLicensePlate(plate string) (*models.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, car := range f.cars {
		if car.LicensePlate == plate {
			cp := *car
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *memCarRepo) List(filter carRepo.ListFilter) ([]models.Car, int64, error) {
	all, _ := f.GetAll()
	return all, int64(len(all)), nil
}

func (f *memCarRepo) GetAll() ([]models.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Car, 0, len(f.cars))
	for _, car := range f.cars {
		out = append(out, *car)
	}
	return out, nil
}

func (f *memCarRepo) Update(id string, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	car, ok := f.cars[id]
	if !ok {
		return fmt.Errorf("car with id %s not found", id)
	}
	if v, ok := updates["price_per_day"]; ok {
		car.PricePerDay = v.(float64)
	}
	if v, ok := updates["availability_status"]; ok {
		car.AvailabilityStatus = models.CarAvailability(v.(string))
	}
	if v, ok := updates["images"]; ok {
		car.Images = v.([]string)
	}
	return nil
}

func (f *memCarRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.cars[id]; !ok {
		return fmt.Errorf("car with id %s not found", id)
	}
	delete(f.cars, id)
	return nil
}

func (f *memCarRepo) CountByAvailability(a models.CarAvailability) (int64, error) { return 0, nil }

func (f *memCarRepo) FindByHistoryRenter(clientID string) ([]models.Car, error) { return nil, nil }

// memReservationRepo stubs ReservationRepository; only the live-booking
// lookup matters to fleet deletion.
type memReservationRepo struct {
	live []models.Reservation
}

func (f *memReservationRepo) Create(*models.Reservation) error          { return nil }
func (f *memReservationRepo) GetByID(string) (*models.Reservation, error) { return nil, nil }
func (f *memReservationRepo) List(reservationRepo.ListFilter) ([]models.Reservation, int64, error) {
	return nil, 0, nil
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
	return f.live, nil
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

func newFleetService() (*DefaultFleetService, *memCarRepo, *memReservationRepo) {
	cars := newMemCarRepo()
	reservations := &memReservationRepo{}
	return &DefaultFleetService{CarRepo: cars, ReservationRepo: reservations}, cars, reservations
}

func TestCreateCar(t *testing.T) {
	svc, _, _ := newFleetService()

	car, err := svc.Create(&models.Car{
		Brand:        "Toyota",
		Model:        "Corolla",
		Year:         2022,
		PricePerDay:  50,
		LicensePlate: "KAA 123X",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, car.ID)
	assert.Equal(t, models.CarAvailable, car.AvailabilityStatus)
	assert.Empty(t, car.RentalHistory)

	// Duplicate plates are rejected.
	_, err = svc.Create(&models.Car{
		Brand: "Honda", Model: "Civic", PricePerDay: 45,
		LicensePlate: "KAA 123X",
	})
	assert.IsType(t, &reservation.ValidationError{}, err)

	// Rate and identity validation.
	_, err = svc.Create(&models.Car{Brand: "Honda", PricePerDay: 45})
	assert.IsType(t, &reservation.ValidationError{}, err)
	_, err = svc.Create(&models.Car{Brand: "Honda", Model: "Civic"})
	assert.IsType(t, &reservation.ValidationError{}, err)
}

func TestUpdateCar(t *testing.T) {
	svc, _, _ := newFleetService()

	car, err := svc.Create(&models.Car{Brand: "Toyota", Model: "Corolla", PricePerDay: 50})
	require.NoError(t, err)

	updated, err := svc.Update(car.ID, map[string]interface{}{"price_per_day": 60.0})
	require.NoError(t, err)
	assert.Equal(t, 60.0, updated.PricePerDay)

	_, err = svc.Update(car.ID, map[string]interface{}{"current_renter_id": "x"})
	assert.IsType(t, &reservation.ValidationError{}, err)

	_, err = svc.Update(car.ID, map[string]interface{}{"availability_status": "scrapped"})
	assert.IsType(t, &reservation.ValidationError{}, err)

	_, err = svc.Update("missing", map[string]interface{}{"price_per_day": 60.0})
	assert.IsType(t, &reservation.NotFoundError{}, err)
}

func TestDeleteCarBlockedByLiveBookings(t *testing.T) {
	svc, cars, reservations := newFleetService()

	car, err := svc.Create(&models.Car{Brand: "Toyota", Model: "Corolla", PricePerDay: 50})
	require.NoError(t, err)

	reservations.live = []models.Reservation{{ID: "r1", Status: models.StatusConfirmed}}
	err = svc.Delete(car.ID)
	assert.IsType(t, &reservation.InvalidStateError{}, err)

	reservations.live = nil
	require.NoError(t, svc.Delete(car.ID))
	stored, _ := cars.GetByID(car.ID)
	assert.Nil(t, stored)
}

func TestCarHistoryNewestFirst(t *testing.T) {
	svc, cars, _ := newFleetService()

	car, err := svc.Create(&models.Car{Brand: "Toyota", Model: "Corolla", PricePerDay: 50})
	require.NoError(t, err)

	old := models.RentalRecord{RecordID: "rec-1", StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	recent := models.RentalRecord{RecordID: "rec-2", StartDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}
	cars.mu.Lock()
	cars.cars[car.ID].RentalHistory = []models.RentalRecord{old, recent}
	cars.mu.Unlock()

	records, err := svc.History(car.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rec-2", records[0].RecordID)
	assert.Equal(t, "rec-1", records[1].RecordID)
}
