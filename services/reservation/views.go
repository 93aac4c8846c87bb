package reservation

import (
	"time"

	reservationRepo "carental/database/repository/reservation"
	"carental/models"
)

// hydrate attaches the client and car documents to a reservation for
// response payloads. Missing references degrade to nil rather than failing
// the read.
func (s *DefaultReservationService) hydrate(res *models.Reservation) (*models.Reservation, error) {
	if res.Client == nil {
		if client, err := s.ClientRepo.GetByID(res.ClientID); err == nil {
			res.Client = client
		}
	}
	if res.Car == nil {
		if car, err := s.CarRepo.GetByID(res.CarID); err == nil {
			res.Car = car
		}
	}
	return res, nil
}

// Get returns one reservation with its client and car attached.
func (s *DefaultReservationService) Get(id string) (*models.Reservation, error) {
	res, err := s.ReservationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, &NotFoundError{Resource: "reservation", ID: id}
	}
	return s.hydrate(res)
}

// List returns a filtered page of reservations, each with its client and car
// attached. Lookups are memoised across the page.
func (s *DefaultReservationService) List(f reservationRepo.ListFilter) ([]models.Reservation, int64, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, 0, NewValidationError("unknown status %q", f.Status)
	}

	results, total, err := s.ReservationRepo.List(f)
	if err != nil {
		return nil, 0, err
	}

	clients := map[string]*models.Client{}
	cars := map[string]*models.Car{}
	for i := range results {
		res := &results[i]
		if _, seen := clients[res.ClientID]; !seen {
			client, _ := s.ClientRepo.GetByID(res.ClientID)
			clients[res.ClientID] = client
		}
		if _, seen := cars[res.CarID]; !seen {
			car, _ := s.CarRepo.GetByID(res.CarID)
			cars[res.CarID] = car
		}
		res.Client = clients[res.ClientID]
		res.Car = cars[res.CarID]
	}
	return results, total, nil
}

// Calendar renders every non-terminal reservation touching the window as an
// event, optionally restricted to one car.
func (s *DefaultReservationService) Calendar(carID string, start, end time.Time) ([]models.CalendarEvent, error) {
	if err := validatePeriod(start, end); err != nil {
		return nil, err
	}

	results, err := s.ReservationRepo.FindInWindow(carID, start, end)
	if err != nil {
		return nil, err
	}

	clients := map[string]*models.Client{}
	cars := map[string]*models.Car{}
	events := make([]models.CalendarEvent, 0, len(results))
	for i := range results {
		res := &results[i]
		if _, seen := clients[res.ClientID]; !seen {
			client, _ := s.ClientRepo.GetByID(res.ClientID)
			clients[res.ClientID] = client
		}
		if _, seen := cars[res.CarID]; !seen {
			car, _ := s.CarRepo.GetByID(res.CarID)
			cars[res.CarID] = car
		}

		clientName := "Unknown client"
		if c := clients[res.ClientID]; c != nil {
			clientName = c.FullName
		}
		carInfo := "Unknown car"
		if c := cars[res.CarID]; c != nil {
			carInfo = c.Label()
		}

		events = append(events, models.CalendarEvent{
			ID:         res.ID,
			Title:      clientName + " - " + carInfo,
			Start:      res.StartDate,
			End:        res.EndDate,
			Status:     res.Status,
			ClientID:   res.ClientID,
			CarID:      res.CarID,
			ClientName: clientName,
			CarInfo:    carInfo,
		})
	}
	return events, nil
}

// digest builds the display row used by stats and report payloads.
func (s *DefaultReservationService) digest(res *models.Reservation, now time.Time) models.ReservationDigest {
	d := models.ReservationDigest{
		ReservationID: res.ID,
		ClientID:      res.ClientID,
		CarID:         res.CarID,
		StartDate:     &res.StartDate,
		EndDate:       &res.EndDate,
		Status:        res.Status,
		PaymentStatus: res.PaymentStatus,
		TotalAmount:   res.TotalAmount,
		ClientName:    "Unknown client",
		CarInfo:       "Unknown car",
	}
	if client, err := s.ClientRepo.GetByID(res.ClientID); err == nil && client != nil {
		d.ClientName = client.FullName
	}
	if car, err := s.CarRepo.GetByID(res.CarID); err == nil && car != nil {
		d.CarInfo = car.Label()
	}
	if res.Status == models.StatusActive && res.EndDate.Before(now) {
		d.DaysOverdue = int(now.Sub(res.EndDate).Hours() / 24)
	}
	if res.StartDate.After(now) {
		d.DaysUntil = int(res.StartDate.Sub(now).Hours() / 24)
	}
	return d
}

// Stats assembles the reservation dashboard card: lifetime revenue, the
// status spread, overdue rentals, and the next week's pickups.
func (s *DefaultReservationService) Stats() (*models.ReservationStats, error) {
	now := time.Now().UTC()

	statusCounts := map[models.ReservationStatus]int64{}
	for _, status := range []models.ReservationStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusActive,
		models.StatusCompleted, models.StatusCancelled,
	} {
		count, err := s.ReservationRepo.CountByStatus(status)
		if err != nil {
			return nil, err
		}
		statusCounts[status] = count
	}

	revenue, err := s.ReservationRepo.SumCompletedRevenue(time.Time{}, now.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	overdue, err := s.ReservationRepo.FindOverdue(now)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.ReservationRepo.FindStartingBetween(now, now.AddDate(0, 0, 7),
		[]models.ReservationStatus{models.StatusPending, models.StatusConfirmed})
	if err != nil {
		return nil, err
	}

	stats := &models.ReservationStats{
		TotalRevenue:   revenue,
		CompletedCount: int(statusCounts[models.StatusCompleted]),
		StatusCounts:   statusCounts,
		OverdueRentals: make([]models.ReservationDigest, 0, len(overdue)),
		Upcoming:       make([]models.ReservationDigest, 0, len(upcoming)),
	}
	for i := range overdue {
		stats.OverdueRentals = append(stats.OverdueRentals, s.digest(&overdue[i], now))
	}
	for i := range upcoming {
		stats.Upcoming = append(stats.Upcoming, s.digest(&upcoming[i], now))
	}
	return stats, nil
}
