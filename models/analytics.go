package models

import "time"

// DateRange bounds an analytics query, inclusive on both ends.
type DateRange struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// ReservationDigest is a reservation joined with client/car display fields,
// used across dashboard and report payloads.
type ReservationDigest struct {
	ReservationID  string            `json:"reservation_id"`
	ClientID       string            `json:"client_id,omitempty"`
	ClientName     string            `json:"client_name"`
	CarID          string            `json:"car_id,omitempty"`
	CarInfo        string            `json:"car_info"`
	StartDate      *time.Time        `json:"start_date,omitempty"`
	EndDate        *time.Time        `json:"end_date,omitempty"`
	Status         ReservationStatus `json:"status,omitempty"`
	PaymentStatus  PaymentStatus     `json:"payment_status,omitempty"`
	TotalAmount    float64           `json:"total_amount,omitempty"`
	PickupLocation string            `json:"pickup_location,omitempty"`
	ReturnLocation string            `json:"return_location,omitempty"`
	DaysOverdue    int               `json:"days_overdue,omitempty"`
	DaysUntil      int               `json:"days_until,omitempty"`
}

// DashboardMetrics is the landing-page aggregate.
type DashboardMetrics struct {
	TotalCars           int64               `json:"total_cars"`
	AvailableCars       int64               `json:"available_cars"`
	TotalClients        int64               `json:"total_clients"`
	ActiveReservations  int64               `json:"active_reservations"`
	PendingReservations int64               `json:"pending_reservations"`
	TotalRevenue        float64             `json:"total_revenue"`
	RecentReservations  []ReservationDigest `json:"recent_reservations"`
	Period              DateRange           `json:"period"`
}

// MonthlyBookings counts reservations created in one calendar month.
type MonthlyBookings struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// PopularCar ranks a car by reservation count.
type PopularCar struct {
	CarID            string `json:"car_id"`
	Brand            string `json:"brand"`
	Model            string `json:"model"`
	Year             int    `json:"year"`
	ReservationCount int64  `json:"reservation_count"`
}

// TopClient ranks a client by reservation count and spend.
type TopClient struct {
	ClientID         string  `json:"client_id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	ReservationCount int64   `json:"reservation_count"`
	TotalSpent       float64 `json:"total_spent"`
}

// ReservationAnalytics is the reservation report payload.
type ReservationAnalytics struct {
	BookingsByMonth    []MonthlyBookings           `json:"bookings_by_month"`
	PopularCars        []PopularCar                `json:"popular_cars"`
	TopClients         []TopClient                 `json:"top_clients"`
	StatusDistribution map[ReservationStatus]int64 `json:"status_distribution"`
	Year               int                         `json:"year"`
}

// RevenuePoint is completed-reservation revenue for one period bucket.
type RevenuePoint struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
}

// DepositBucket aggregates deposits held per reservation status.
type DepositBucket struct {
	TotalDeposits float64 `json:"total_deposits"`
	Count         int64   `json:"count"`
}

// FinancialReport is the financial report payload.
type FinancialReport struct {
	RevenueByPeriod     []RevenuePoint                      `json:"revenue_by_period"`
	OutstandingPayments []ReservationDigest                 `json:"outstanding_payments"`
	DepositSummary      map[ReservationStatus]DepositBucket `json:"deposit_summary"`
	PeriodType          string                              `json:"period_type"`
	DateRange           DateRange                           `json:"date_range"`
}

// CarUtilization reports how heavily one car was rented over a range.
type CarUtilization struct {
	CarID                 string          `json:"car_id"`
	Brand                 string          `json:"brand"`
	Model                 string          `json:"model"`
	Year                  int             `json:"year"`
	LicensePlate          string          `json:"license_plate"`
	DaysRented            int             `json:"days_rented"`
	UtilizationPercentage float64         `json:"utilization_percentage"`
	Revenue               float64         `json:"revenue"`
	CurrentStatus         CarAvailability `json:"current_status"`
}

// FleetStatistics is the fleet-wide utilization rollup.
type FleetStatistics struct {
	TotalCars                  int     `json:"total_cars"`
	FleetUtilizationPercentage float64 `json:"fleet_utilization_percentage"`
	TotalRevenue               float64 `json:"total_revenue"`
}

// UtilizationReport is the car-utilization payload.
type UtilizationReport struct {
	CarUtilization  []CarUtilization `json:"car_utilization"`
	FleetStatistics FleetStatistics  `json:"fleet_statistics"`
	DateRange       DateRange        `json:"date_range"`
}

// PreferredCar counts how often a client chose a car.
type PreferredCar struct {
	CarID string `json:"car_id"`
	Brand string `json:"brand"`
	Model string `json:"model"`
	Count int    `json:"count"`
}

// ClientActivity is the per-client activity row.
type ClientActivity struct {
	ClientID              string         `json:"client_id"`
	Name                  string         `json:"name"`
	Email                 string         `json:"email"`
	Phone                 string         `json:"phone"`
	TotalReservations     int            `json:"total_reservations"`
	CompletedReservations int            `json:"completed_reservations"`
	CancelledReservations int            `json:"cancelled_reservations"`
	TotalSpent            float64        `json:"total_spent"`
	LastActivity          time.Time      `json:"last_activity"`
	PreferredCars         []PreferredCar `json:"preferred_cars"`
}

// ActivitySummary rolls up the client-activity report.
type ActivitySummary struct {
	TotalActiveClients int     `json:"total_active_clients"`
	NewClients         int64   `json:"new_clients"`
	TotalRevenue       float64 `json:"total_revenue"`
}

// ClientActivityReport is the client-activity payload.
type ClientActivityReport struct {
	ClientActivity []ClientActivity `json:"client_activity"`
	Summary        ActivitySummary  `json:"summary"`
	DateRange      DateRange        `json:"date_range"`
}

// UpcomingEvents lists imminent pickups and returns plus overdue rentals.
type UpcomingEvents struct {
	UpcomingPickups []ReservationDigest `json:"upcoming_pickups"`
	UpcomingReturns []ReservationDigest `json:"upcoming_returns"`
	OverdueReturns  []ReservationDigest `json:"overdue_returns"`
	DateRange       DateRange           `json:"date_range"`
}

// ReservationStats is the reservation dashboard card payload.
type ReservationStats struct {
	TotalRevenue   float64                     `json:"total_revenue"`
	CompletedCount int                         `json:"completed_count"`
	StatusCounts   map[ReservationStatus]int64 `json:"status_counts"`
	OverdueRentals []ReservationDigest         `json:"overdue_rentals"`
	Upcoming       []ReservationDigest         `json:"upcoming_reservations"`
}
