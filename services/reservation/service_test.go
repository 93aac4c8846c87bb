package reservation

import (
	"sync"
	"testing"
	"time"

	"carental/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func newTestService() (*DefaultReservationService, *fakeReservationRepo, *fakeCarRepo, *fakeClientRepo) {
	cars := newFakeCarRepo(&models.Car{
		ID:                 "car-1",
		Brand:              "Toyota",
		Model:              "Corolla",
		Year:               2022,
		PricePerDay:        50,
		AvailabilityStatus: models.CarAvailable,
	})
	clients := newFakeClientRepo(&models.Client{
		ID:       "client-1",
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
	})
	reservations := newFakeReservationRepo(cars)
	svc := NewDefaultReservationService(reservations, cars, clients)
	return svc, reservations, cars, clients
}

func TestQuote(t *testing.T) {
	q := Quote(50, day(1), day(4))
	assert.Equal(t, 3, q.TotalDays)
	assert.Equal(t, 150.0, q.TotalAmount)
	assert.Equal(t, 50.0, q.DailyRate)

	// Anything shorter than a day still bills one day.
	short := Quote(80, day(1), day(1).Add(6*time.Hour))
	assert.Equal(t, 1, short.TotalDays)
	assert.Equal(t, 80.0, short.TotalAmount)

	// Partial trailing day is not billed.
	partial := Quote(40, day(1), day(3).Add(12*time.Hour))
	assert.Equal(t, 2, partial.TotalDays)
	assert.Equal(t, 80.0, partial.TotalAmount)
}

func TestCreateReservation(t *testing.T) {
	svc, _, _, _ := newTestService()

	res, err := svc.Create(CreateRequest{
		ClientID:  "client-1",
		CarID:     "car-1",
		StartDate: day(1),
		EndDate:   day(4),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, models.StatusPending, res.Status)
	assert.Equal(t, models.PaymentUnpaid, res.PaymentStatus)
	assert.Equal(t, 3, res.TotalDays)
	assert.Equal(t, 150.0, res.TotalAmount)
	assert.Equal(t, "Ada Lovelace", res.Client.FullName)
}

func TestCreateReservationValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Create(CreateRequest{CarID: "car-1", StartDate: day(1), EndDate: day(2)})
	assert.IsType(t, &ValidationError{}, err)

	_, err = svc.Create(CreateRequest{ClientID: "client-1", CarID: "car-1", StartDate: day(2), EndDate: day(2)})
	assert.IsType(t, &ValidationError{}, err)

	_, err = svc.Create(CreateRequest{ClientID: "client-1", CarID: "car-1", StartDate: day(3), EndDate: day(1)})
	assert.IsType(t, &ValidationError{}, err)

	_, err = svc.Create(CreateRequest{
		ClientID: "client-1", CarID: "car-1",
		StartDate: day(1), EndDate: day(2),
		Status: models.StatusCompleted,
	})
	assert.IsType(t, &ValidationError{}, err)

	_, err = svc.Create(CreateRequest{ClientID: "client-1", CarID: "missing", StartDate: day(1), EndDate: day(2)})
	assert.IsType(t, &NotFoundError{}, err)

	_, err = svc.Create(CreateRequest{ClientID: "missing", CarID: "car-1", StartDate: day(1), EndDate: day(2)})
	assert.IsType(t, &NotFoundError{}, err)
}

func TestCreateReservationConflicts(t *testing.T) {
	svc, _, _, _ := newTestService()

	first, err := svc.Create(CreateRequest{
		ClientID: "client-1", CarID: "car-1",
		StartDate: day(1), EndDate: day(5),
	})
	require.NoError(t, err)

	// Overlapping period is rejected and names the blocker.
	_, err = svc.Create(CreateRequest{
		ClientID: "client-1", CarID: "car-1",
		StartDate: day(4), EndDate: day(6),
	})
	conflictErr, ok := err.(*ConflictError)
	require.True(t, ok, "expected ConflictError, got %v", err)
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, first.ID, conflictErr.Conflicts[0].ReservationID)

	// A booking that starts exactly when the first ends is fine.
	_, err = svc.Create(CreateRequest{
		ClientID: "client-1", CarID: "car-1",
		StartDate: day(5), EndDate: day(8),
	})
	assert.NoError(t, err)
}

func TestCancelledReservationDoesNotBlock(t *testing.T) {
	svc, _, _, _ := newTestService()

	first, err := svc.Create(CreateRequest{
		ClientID: "client-1", CarID: "car-1",
		StartDate: day(1), EndDate: day(5),
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(first.ID, models.StatusCancelled)
	require.NoError(t, err)

	_, err = svc.Create(CreateRequest{
		ClientID: "client-1", CarID: "car-1",
		StartDate: day(2), EndDate: day(4),
	})
	assert.NoError(t, err)
}

func TestCheckAvailability(t *testing.T) {
	svc, _, cars, _ := newTestService()

	result, err := svc.CheckAvailability("car-1", day(1), day(4), "")
	require.NoError(t, err)
	assert.True(t, result.Available)
	require.NotNil(t, result.Pricing)
	assert.Equal(t, 150.0, result.Pricing.TotalAmount)

	booked, err := svc.Create(CreateRequest{
		ClientID: "client-1", CarID: "car-1",
		StartDate: day(1), EndDate: day(4),
	})
	require.NoError(t, err)

	result, err = svc.CheckAvailability("car-1", day(3), day(6), "")
	require.NoError(t, err)
	assert.False(t, result.Available)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, booked.ID, result.Conflicts[0].ReservationID)

	// Excluding the blocker itself frees the slot, as in edit previews.
	result, err = svc.CheckAvailability("car-1", day(3), day(6), booked.ID)
	require.NoError(t, err)
	assert.True(t, result.Available)

	// A car that is out with a renter or in the workshop is never available.
	require.NoError(t, cars.Update("car-1", map[string]interface{}{"availability_status": string(models.CarRented)}))
	result, err = svc.CheckAvailability("car-1", day(10), day(12), "")
	require.NoError(t, err)
	assert.False(t, result.Available)

	_, err = svc.Create(CreateRequest{
		ClientID: "client-1", CarID: "car-1",
		StartDate: day(10), EndDate: day(12),
	})
	assert.IsType(t, &InvalidStateError{}, err)

	require.NoError(t, cars.Update("car-1", map[string]interface{}{"availability_status": string(models.CarMaintenance)}))
	result, err = svc.CheckAvailability("car-1", day(10), day(12), "")
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, "car is under maintenance", result.Message)
}

func TestConcurrentActiveCreatesClaimCarOnce(t *testing.T) {
	svc, _, cars, _ := newTestService()

	// Disjoint windows never conflict, so only the availability gate can
	// keep a second walk-in rental off a car that just went out.
	const attempts = 50
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(CreateRequest{
				ClientID: "client-1", CarID: "car-1",
				StartDate: day(30 + 2*i), EndDate: day(31 + 2*i),
				Status: models.StatusActive,
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.IsType(t, &InvalidStateError{}, err)
	}
	assert.Equal(t, 1, successes)

	car, err := cars.GetByID("car-1")
	require.NoError(t, err)
	assert.Equal(t, models.CarRented, car.AvailabilityStatus)
	assert.Equal(t, "client-1", car.CurrentRenterID)
}

func TestConcurrentCreateAdmitsExactlyOne(t *testing.T) {
	svc, _, _, _ := newTestService()

	const attempts = 100
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(CreateRequest{
				ClientID: "client-1", CarID: "car-1",
				StartDate: day(10), EndDate: day(14),
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		_, ok := err.(*ConflictError)
		assert.True(t, ok, "unexpected error type: %v", err)
	}
	assert.Equal(t, 1, successes)
}
