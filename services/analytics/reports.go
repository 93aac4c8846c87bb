package analytics

import (
	"sort"
	"time"

	"carental/models"
	"carental/services/reservation"
)

// periodKey buckets an instant for the revenue series.
func periodKey(t time.Time, periodType string) string {
	switch periodType {
	case "daily":
		return t.Format("2006-01-02")
	case "weekly":
		year, week := t.ISOWeek()
		return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, (week-1)*7).Format("2006-01-02")
	default: // monthly
		return t.Format("2006-01")
	}
}

// Financial reports revenue over time, outstanding balances, and deposits
// held, bucketed daily, weekly or monthly.
func (s *DefaultAnalyticsService) Financial(periodType string, period models.DateRange) (*models.FinancialReport, error) {
	switch periodType {
	case "", "monthly":
		periodType = "monthly"
	case "daily", "weekly":
	default:
		return nil, reservation.NewValidationError("period_type must be daily, weekly or monthly")
	}

	completed, err := s.ReservationRepo.FindCompletedBetween(period.StartDate, period.EndDate)
	if err != nil {
		return nil, err
	}

	buckets := map[string]float64{}
	for i := range completed {
		key := periodKey(completed[i].EndDate, periodType)
		buckets[key] += completed[i].TotalAmount
	}
	series := make([]models.RevenuePoint, 0, len(buckets))
	for key, revenue := range buckets {
		series = append(series, models.RevenuePoint{Period: key, Revenue: revenue})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Period < series[j].Period })

	outstanding, err := s.ReservationRepo.FindOutstandingPayments()
	if err != nil {
		return nil, err
	}

	depositAggs, err := s.ReservationRepo.DepositSummary()
	if err != nil {
		return nil, err
	}
	deposits := map[models.ReservationStatus]models.DepositBucket{}
	for _, agg := range depositAggs {
		deposits[agg.Status] = models.DepositBucket{
			TotalDeposits: agg.TotalDeposits,
			Count:         agg.Count,
		}
	}

	return &models.FinancialReport{
		RevenueByPeriod:     series,
		OutstandingPayments: s.digests(outstanding),
		DepositSummary:      deposits,
		PeriodType:          periodType,
		DateRange:           period,
	}, nil
}

// Utilization reports how heavily each car was rented across the range, and
// the fleet-wide rollup.
func (s *DefaultAnalyticsService) Utilization(period models.DateRange) (*models.UtilizationReport, error) {
	periodDays := int(period.EndDate.Sub(period.StartDate).Hours() / 24)
	if periodDays < 1 {
		return nil, reservation.NewValidationError("date range must span at least one day")
	}

	fleet, err := s.CarRepo.GetAll()
	if err != nil {
		return nil, err
	}

	rows := make([]models.CarUtilization, 0, len(fleet))
	var totalUtil, totalRevenue float64
	statuses := []models.ReservationStatus{models.StatusActive, models.StatusCompleted}

	for i := range fleet {
		car := &fleet[i]
		rentals, err := s.ReservationRepo.FindByCarTouchingRange(car.ID, period.StartDate, period.EndDate, statuses)
		if err != nil {
			return nil, err
		}

		days := 0
		revenue := 0.0
		for j := range rentals {
			res := &rentals[j]
			// Clip the rental to the reporting window before counting days.
			from, to := res.StartDate, res.EndDate
			if from.Before(period.StartDate) {
				from = period.StartDate
			}
			if to.After(period.EndDate) {
				to = period.EndDate
			}
			if d := int(to.Sub(from).Hours() / 24); d > 0 {
				days += d
			}
			if res.Status == models.StatusCompleted {
				revenue += res.TotalAmount
			}
		}

		util := float64(days) / float64(periodDays) * 100
		if util > 100 {
			util = 100
		}
		totalUtil += util
		totalRevenue += revenue

		rows = append(rows, models.CarUtilization{
			CarID:                 car.ID,
			Brand:                 car.Brand,
			Model:                 car.Model,
			Year:                  car.Year,
			LicensePlate:          car.LicensePlate,
			DaysRented:            days,
			UtilizationPercentage: util,
			Revenue:               revenue,
			CurrentStatus:         car.AvailabilityStatus,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].UtilizationPercentage > rows[j].UtilizationPercentage
	})

	stats := models.FleetStatistics{
		TotalCars:    len(fleet),
		TotalRevenue: totalRevenue,
	}
	if len(fleet) > 0 {
		stats.FleetUtilizationPercentage = totalUtil / float64(len(fleet))
	}

	return &models.UtilizationReport{
		CarUtilization:  rows,
		FleetStatistics: stats,
		DateRange:       period,
	}, nil
}

// ClientActivity reports per-client booking behaviour across the range.
func (s *DefaultAnalyticsService) ClientActivity(period models.DateRange) (*models.ClientActivityReport, error) {
	roster, _, err := s.ClientRepo.List("", 1, 1000)
	if err != nil {
		return nil, err
	}

	rows := make([]models.ClientActivity, 0)
	var newClients int64
	var totalRevenue float64

	for i := range roster {
		client := &roster[i]
		if !client.CreatedAt.Before(period.StartDate) && client.CreatedAt.Before(period.EndDate) {
			newClients++
		}

		rentals, err := s.ReservationRepo.FindByClientCreatedBetween(client.ID, period.StartDate, period.EndDate)
		if err != nil {
			return nil, err
		}
		if len(rentals) == 0 {
			continue
		}

		row := models.ClientActivity{
			ClientID: client.ID,
			Name:     client.FullName,
			Email:    client.Email,
			Phone:    client.Phone,
		}
		carCounts := map[string]int{}
		for j := range rentals {
			res := &rentals[j]
			row.TotalReservations++
			switch res.Status {
			case models.StatusCompleted:
				row.CompletedReservations++
				row.TotalSpent += res.TotalAmount
			case models.StatusCancelled:
				row.CancelledReservations++
			}
			if res.CreatedAt.After(row.LastActivity) {
				row.LastActivity = res.CreatedAt
			}
			carCounts[res.CarID]++
		}
		totalRevenue += row.TotalSpent
		row.PreferredCars = s.preferredCars(carCounts, 3)
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].TotalReservations > rows[j].TotalReservations
	})

	return &models.ClientActivityReport{
		ClientActivity: rows,
		Summary: models.ActivitySummary{
			TotalActiveClients: len(rows),
			NewClients:         newClients,
			TotalRevenue:       totalRevenue,
		},
		DateRange: period,
	}, nil
}

// preferredCars ranks a client's car choices and resolves their labels.
func (s *DefaultAnalyticsService) preferredCars(counts map[string]int, limit int) []models.PreferredCar {
	ranked := make([]models.PreferredCar, 0, len(counts))
	for carID, count := range counts {
		entry := models.PreferredCar{CarID: carID, Count: count}
		if car, err := s.CarRepo.GetByID(carID); err == nil && car != nil {
			entry.Brand = car.Brand
			entry.Model = car.Model
		}
		ranked = append(ranked, entry)
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Upcoming lists the pickups and returns due within the horizon, plus any
// rentals already overdue.
func (s *DefaultAnalyticsService) Upcoming(days int) (*models.UpcomingEvents, error) {
	if days < 1 {
		days = 7
	}
	now := time.Now().UTC()
	horizon := now.AddDate(0, 0, days)

	pickups, err := s.ReservationRepo.FindStartingBetween(now, horizon,
		[]models.ReservationStatus{models.StatusPending, models.StatusConfirmed})
	if err != nil {
		return nil, err
	}
	returns, err := s.ReservationRepo.FindEndingBetween(now, horizon,
		[]models.ReservationStatus{models.StatusActive})
	if err != nil {
		return nil, err
	}
	overdue, err := s.ReservationRepo.FindOverdue(now)
	if err != nil {
		return nil, err
	}

	return &models.UpcomingEvents{
		UpcomingPickups: s.digests(pickups),
		UpcomingReturns: s.digests(returns),
		OverdueReturns:  s.digests(overdue),
		DateRange:       models.DateRange{StartDate: now, EndDate: horizon},
	}, nil
}
