package reservation

import (
	"context"
	"fmt"
	"sync"
	"time"

	carRepo "carental/database/repository/car"
	reservationRepo "carental/database/repository/reservation"
	"carental/models"
)

// fakeCarRepo is an in-memory CarRepository.
type fakeCarRepo struct {
	mu   sync.Mutex
	cars map[string]*models.Car
}

func newFakeCarRepo(cars ...*models.Car) *fakeCarRepo {
	repo := &fakeCarRepo{cars: map[string]*models.Car{}}
	for _, c := range cars {
		cp := *c
		repo.cars[c.ID] = &cp
	}
	return repo
}

func (f *fakeCarRepo) Create(car *models.Car) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *car
	f.cars[car.ID] = &cp
	return nil
}

func (f *fakeCarRepo) GetByID(id string) (*models.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	car, ok := f.cars[id]
	if !ok {
		return nil, nil
	}
	cp := *car
	cp.RentalHistory = append([]models.RentalRecord(nil), car.RentalHistory...)
	return &cp, nil
}

func (f *fakeCarRepo) GetByLicensePlate(plate string) (*models.Car, error) {
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

func (f *fakeCarRepo) List(filter carRepo.ListFilter) ([]models.Car, int64, error) {
	all, _ := f.GetAll()
	return all, int64(len(all)), nil
}

func (f *fakeCarRepo) GetAll() ([]models.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Car, 0, len(f.cars))
	for _, car := range f.cars {
		out = append(out, *car)
	}
	return out, nil
}

func (f *fakeCarRepo) Update(id string, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	car, ok := f.cars[id]
	if !ok {
		return fmt.Errorf("car with id %s not found", id)
	}
	if v, ok := updates["availability_status"]; ok {
		car.AvailabilityStatus = models.CarAvailability(v.(string))
	}
	if v, ok := updates["images"]; ok {
		car.Images = v.([]string)
	}
	return nil
}

func (f *fakeCarRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cars, id)
	return nil
}

func (f *fakeCarRepo) CountByAvailability(a models.CarAvailability) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, car := range f.cars {
		if car.AvailabilityStatus == a {
			n++
		}
	}
	return n, nil
}

func (f *fakeCarRepo) FindByHistoryRenter(clientID string) ([]models.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Car
	for _, car := range f.cars {
		for _, rec := range car.RentalHistory {
			if rec.RenterID == clientID {
				out = append(out, *car)
				break
			}
		}
	}
	return out, nil
}

// fakeClientRepo is an in-memory ClientRepository.
type fakeClientRepo struct {
	mu      sync.Mutex
	clients map[string]*models.Client
}

func newFakeClientRepo(clients ...*models.Client) *fakeClientRepo {
	repo := &fakeClientRepo{clients: map[string]*models.Client{}}
	for _, c := range clients {
		cp := *c
		repo.clients[c.ID] = &cp
	}
	return repo
}

func (f *fakeClientRepo) Create(c *models.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.clients[c.ID] = &cp
	return nil
}

func (f *fakeClientRepo) GetByID(id string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClientRepo) GetByEmail(email string) (*models.Client, error) {
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

func (f *fakeClientRepo) List(search string, page, perPage int) ([]models.Client, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Client, 0, len(f.clients))
	for _, c := range f.clients {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeClientRepo) Update(id string, updates map[string]interface{}) error { return nil }

func (f *fakeClientRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.clients, id)
	return nil
}

func (f *fakeClientRepo) Count() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.clients)), nil
}

// fakeReservationRepo is an in-memory ReservationRepository sharing a
// fakeCarRepo so transactional car side effects are observable.
type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]*models.Reservation
	cars         *fakeCarRepo
}

func newFakeReservationRepo(cars *fakeCarRepo) *fakeReservationRepo {
	return &fakeReservationRepo{
		reservations: map[string]*models.Reservation{},
		cars:         cars,
	}
}

func (f *fakeReservationRepo) Create(res *models.Reservation) error {
	return f.CreateTransactionally(context.Background(), res, nil)
}

func (f *fakeReservationRepo) GetByID(id string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[id]
	if !ok {
		return nil, nil
	}
	cp := *res
	return &cp, nil
}

func (f *fakeReservationRepo) List(filter reservationRepo.ListFilter) ([]models.Reservation, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, res := range f.reservations {
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		if filter.ClientID != "" && res.ClientID != filter.ClientID {
			continue
		}
		if filter.CarID != "" && res.CarID != filter.CarID {
			continue
		}
		out = append(out, *res)
	}
	return out, int64(len(out)), nil
}

func (f *fakeReservationRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reservations[id]; !ok {
		return fmt.Errorf("reservation with id %s not found", id)
	}
	delete(f.reservations, id)
	return nil
}

func (f *fakeReservationRepo) FindOverlapping(carID string, start, end time.Time, excludeID string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, res := range f.reservations {
		if res.CarID != carID || res.ID == excludeID || res.Status.IsTerminal() {
			continue
		}
		if res.Overlaps(start, end) {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindInWindow(carID string, start, end time.Time) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, res := range f.reservations {
		if carID != "" && res.CarID != carID {
			continue
		}
		if res.Status.IsTerminal() {
			continue
		}
		if res.Overlaps(start, end) {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) CreateTransactionally(ctx context.Context, res *models.Reservation, change *reservationRepo.CarStateChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	res.CreatedAt = now
	res.UpdatedAt = now
	cp := *res
	f.reservations[res.ID] = &cp
	if change != nil {
		f.applyCarChange(change)
	}
	return nil
}

func (f *fakeReservationRepo) ApplyTransition(ctx context.Context, id string, fields map[string]interface{}, change *reservationRepo.CarStateChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[id]
	if !ok {
		return fmt.Errorf("reservation with id %s not found", id)
	}
	for k, v := range fields {
		switch k {
		case "status":
			res.Status = v.(models.ReservationStatus)
		case "start_date":
			res.StartDate = v.(time.Time)
		case "end_date":
			res.EndDate = v.(time.Time)
		case "total_days":
			res.TotalDays = v.(int)
		case "total_amount":
			res.TotalAmount = v.(float64)
		case "payment_status":
			res.PaymentStatus = v.(models.PaymentStatus)
		case "deposit_amount":
			res.DepositAmount = v.(float64)
		case "pickup_location":
			res.PickupLocation = v.(string)
		case "return_location":
			res.ReturnLocation = v.(string)
		case "notes":
			res.Notes = v.(string)
		}
	}
	res.UpdatedAt = time.Now().UTC()
	if change != nil {
		f.applyCarChange(change)
	}
	return nil
}

// applyCarChange mirrors the production transaction's car write. Callers
// hold f.mu.
func (f *fakeReservationRepo) applyCarChange(change *reservationRepo.CarStateChange) {
	f.cars.mu.Lock()
	defer f.cars.mu.Unlock()
	car, ok := f.cars.cars[change.CarID]
	if !ok {
		return
	}
	car.AvailabilityStatus = change.Availability
	car.CurrentRenterID = change.RenterID
	switch {
	case change.HistoryAppend != nil:
		car.RentalHistory = append(car.RentalHistory, *change.HistoryAppend)
	case change.HistoryStatus != "":
		for i := range car.RentalHistory {
			if car.RentalHistory[i].ReservationID == change.ReservationID {
				car.RentalHistory[i].Status = change.HistoryStatus
			}
		}
	}
}

func (f *fakeReservationRepo) CountByStatus(status models.ReservationStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, res := range f.reservations {
		if res.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeReservationRepo) CountCreatedBetween(start, end time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeReservationRepo) SumCompletedRevenue(start, end time.Time) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total float64
	for _, res := range f.reservations {
		if res.Status == models.StatusCompleted && !res.EndDate.Before(start) && res.EndDate.Before(end) {
			total += res.TotalAmount
		}
	}
	return total, nil
}

func (f *fakeReservationRepo) FindRecent(since time.Time, limit int64) ([]models.Reservation, error) {
	return nil, nil
}

func (f *fakeReservationRepo) FindCompletedBetween(start, end time.Time) ([]models.Reservation, error) {
	return nil, nil
}

func (f *fakeReservationRepo) FindOutstandingPayments() ([]models.Reservation, error) {
	return nil, nil
}

func (f *fakeReservationRepo) DepositSummary() ([]reservationRepo.DepositAggregate, error) {
	return nil, nil
}

func (f *fakeReservationRepo) PopularCars(limit int64) ([]reservationRepo.CarAggregate, error) {
	return nil, nil
}

func (f *fakeReservationRepo) TopClients(limit int64) ([]reservationRepo.ClientAggregate, error) {
	return nil, nil
}

func (f *fakeReservationRepo) FindByCarTouchingRange(carID string, start, end time.Time, statuses []models.ReservationStatus) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	allowed := map[models.ReservationStatus]bool{}
	for _, s := range statuses {
		allowed[s] = true
	}
	var out []models.Reservation
	for _, res := range f.reservations {
		if res.CarID == carID && allowed[res.Status] && res.Overlaps(start, end) {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindByClientCreatedBetween(clientID string, start, end time.Time) ([]models.Reservation, error) {
	return nil, nil
}

func (f *fakeReservationRepo) FindStartingBetween(start, end time.Time, statuses []models.ReservationStatus) ([]models.Reservation, error) {
	return nil, nil
}

func (f *fakeReservationRepo) FindEndingBetween(start, end time.Time, statuses []models.ReservationStatus) ([]models.Reservation, error) {
	return nil, nil
}

func (f *fakeReservationRepo) FindOverdue(asOf time.Time) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, res := range f.reservations {
		if res.Status == models.StatusActive && res.EndDate.Before(asOf) {
			out = append(out, *res)
		}
	}
	return out, nil
}
