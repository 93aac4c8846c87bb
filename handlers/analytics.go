package handlers

import (
	"net/http"
	"strconv"
	"time"

	"carental/models"

	"github.com/gin-gonic/gin"
)

// rangeFromQuery reads start_date/end_date, defaulting to the last 30 days.
func rangeFromQuery(c *gin.Context) (models.DateRange, error) {
	now := time.Now().UTC()
	period := models.DateRange{
		StartDate: now.AddDate(0, 0, -30),
		EndDate:   now,
	}
	if v := c.Query("start_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return period, err
		}
		period.StartDate = t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return period, err
		}
		period.EndDate = t
	}
	return period, nil
}

// Dashboard returns the landing-page metrics.
func Dashboard(c *gin.Context) {
	period, err := rangeFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range", "details": err.Error()})
		return
	}

	metrics, err := AnalyticsService.Dashboard(period)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// ReservationAnalytics reports booking volume and rankings for one year.
func ReservationAnalytics(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))

	report, err := AnalyticsService.Reservations(year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// FinancialReport reports revenue, outstanding balances and deposits.
func FinancialReport(c *gin.Context) {
	period, err := rangeFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range", "details": err.Error()})
		return
	}

	report, err := AnalyticsService.Financial(c.Query("period_type"), period)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// UtilizationReport reports fleet usage over a range.
func UtilizationReport(c *gin.Context) {
	period, err := rangeFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range", "details": err.Error()})
		return
	}

	report, err := AnalyticsService.Utilization(period)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ClientActivityReport reports per-client booking behaviour over a range.
func ClientActivityReport(c *gin.Context) {
	period, err := rangeFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range", "details": err.Error()})
		return
	}

	report, err := AnalyticsService.ClientActivity(period)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// UpcomingEvents lists imminent pickups, returns and overdue rentals.
func UpcomingEvents(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	events, err := AnalyticsService.Upcoming(days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
