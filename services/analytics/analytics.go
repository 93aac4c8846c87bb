package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	carRepo "carental/database/repository/car"
	clientRepo "carental/database/repository/client"
	reservationRepo "carental/database/repository/reservation"
	"carental/models"
	"carental/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// dashboardCacheTTL bounds how stale the landing-page numbers may be.
const dashboardCacheTTL = 5 * time.Minute

// AnalyticsService produces the reporting payloads.
type AnalyticsService interface {
	Dashboard(period models.DateRange) (*models.DashboardMetrics, error)
	Reservations(year int) (*models.ReservationAnalytics, error)
	Financial(periodType string, period models.DateRange) (*models.FinancialReport, error)
	Utilization(period models.DateRange) (*models.UtilizationReport, error)
	ClientActivity(period models.DateRange) (*models.ClientActivityReport, error)
	Upcoming(days int) (*models.UpcomingEvents, error)
}

// DefaultAnalyticsService is the production implementation of
// AnalyticsService.
type DefaultAnalyticsService struct {
	ReservationRepo reservationRepo.ReservationRepository
	CarRepo         carRepo.CarRepository
	ClientRepo      clientRepo.ClientRepository
	CacheClient     *redis.Client
}

// Dashboard assembles the landing-page aggregate. Results are cached
// briefly; the dashboard is polled far more often than it changes.
func (s *DefaultAnalyticsService) Dashboard(period models.DateRange) (*models.DashboardMetrics, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("analytics:dashboard:%d:%d", period.StartDate.Unix(), period.EndDate.Unix())

	if s.CacheClient != nil {
		if cached, err := s.CacheClient.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var metrics models.DashboardMetrics
			if err := json.Unmarshal([]byte(cached), &metrics); err == nil {
				return &metrics, nil
			}
		}
	}

	fleet, err := s.CarRepo.GetAll()
	if err != nil {
		return nil, err
	}
	availableCars, err := s.CarRepo.CountByAvailability(models.CarAvailable)
	if err != nil {
		return nil, err
	}
	totalClients, err := s.ClientRepo.Count()
	if err != nil {
		return nil, err
	}
	active, err := s.ReservationRepo.CountByStatus(models.StatusActive)
	if err != nil {
		return nil, err
	}
	pending, err := s.ReservationRepo.CountByStatus(models.StatusPending)
	if err != nil {
		return nil, err
	}
	revenue, err := s.ReservationRepo.SumCompletedRevenue(period.StartDate, period.EndDate)
	if err != nil {
		return nil, err
	}
	recent, err := s.ReservationRepo.FindRecent(period.StartDate, 10)
	if err != nil {
		return nil, err
	}

	metrics := &models.DashboardMetrics{
		TotalCars:           int64(len(fleet)),
		AvailableCars:       availableCars,
		TotalClients:        totalClients,
		ActiveReservations:  active,
		PendingReservations: pending,
		TotalRevenue:        revenue,
		RecentReservations:  s.digests(recent),
		Period:              period,
	}

	if s.CacheClient != nil {
		if payload, err := json.Marshal(metrics); err == nil {
			if err := s.CacheClient.Set(ctx, cacheKey, payload, dashboardCacheTTL).Err(); err != nil {
				utils.GetLogger().Warn("Failed to cache dashboard metrics", zap.Error(err))
			}
		}
	}
	return metrics, nil
}

// Reservations reports booking volume, fleet favourites and client ranking
// for one calendar year.
func (s *DefaultAnalyticsService) Reservations(year int) (*models.ReservationAnalytics, error) {
	if year <= 0 {
		year = time.Now().UTC().Year()
	}

	byMonth := make([]models.MonthlyBookings, 0, 12)
	for m := time.January; m <= time.December; m++ {
		start := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)
		count, err := s.ReservationRepo.CountCreatedBetween(start, end)
		if err != nil {
			return nil, err
		}
		byMonth = append(byMonth, models.MonthlyBookings{
			Month: start.Format("2006-01"),
			Count: count,
		})
	}

	carAggs, err := s.ReservationRepo.PopularCars(5)
	if err != nil {
		return nil, err
	}
	popular := make([]models.PopularCar, 0, len(carAggs))
	for _, agg := range carAggs {
		entry := models.PopularCar{CarID: agg.CarID, ReservationCount: agg.Count}
		if car, err := s.CarRepo.GetByID(agg.CarID); err == nil && car != nil {
			entry.Brand = car.Brand
			entry.Model = car.Model
			entry.Year = car.Year
		}
		popular = append(popular, entry)
	}

	clientAggs, err := s.ReservationRepo.TopClients(5)
	if err != nil {
		return nil, err
	}
	top := make([]models.TopClient, 0, len(clientAggs))
	for _, agg := range clientAggs {
		entry := models.TopClient{
			ClientID:         agg.ClientID,
			ReservationCount: agg.Count,
			TotalSpent:       agg.TotalSpent,
		}
		if client, err := s.ClientRepo.GetByID(agg.ClientID); err == nil && client != nil {
			entry.Name = client.FullName
			entry.Email = client.Email
		}
		top = append(top, entry)
	}

	distribution := map[models.ReservationStatus]int64{}
	for _, status := range []models.ReservationStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusActive,
		models.StatusCompleted, models.StatusCancelled,
	} {
		count, err := s.ReservationRepo.CountByStatus(status)
		if err != nil {
			return nil, err
		}
		distribution[status] = count
	}

	return &models.ReservationAnalytics{
		BookingsByMonth:    byMonth,
		PopularCars:        popular,
		TopClients:         top,
		StatusDistribution: distribution,
		Year:               year,
	}, nil
}

// digests converts reservations into display rows with names resolved.
func (s *DefaultAnalyticsService) digests(results []models.Reservation) []models.ReservationDigest {
	clients := map[string]*models.Client{}
	cars := map[string]*models.Car{}
	now := time.Now().UTC()

	rows := make([]models.ReservationDigest, 0, len(results))
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

		row := models.ReservationDigest{
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
		if c := clients[res.ClientID]; c != nil {
			row.ClientName = c.FullName
		}
		if c := cars[res.CarID]; c != nil {
			row.CarInfo = c.Label()
		}
		if res.Status == models.StatusActive && res.EndDate.Before(now) {
			row.DaysOverdue = int(now.Sub(res.EndDate).Hours() / 24)
		}
		if res.StartDate.After(now) {
			row.DaysUntil = int(res.StartDate.Sub(now).Hours() / 24)
		}
		rows = append(rows, row)
	}
	return rows
}
