package handlers

import (
	"net/http"
	"strconv"
	"time"

	reservationRepo "carental/database/repository/reservation"
	"carental/models"
	"carental/services/reservation"

	"github.com/gin-gonic/gin"
)

// parseDate accepts both date-only and RFC 3339 timestamps.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// CheckAvailability reports whether a car is free for a candidate period.
// GET /api/reservations/availability?car_id=...&start_date=...&end_date=...
func CheckAvailability(c *gin.Context) {
	carID := c.Query("car_id")
	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date", "details": err.Error()})
		return
	}
	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date", "details": err.Error()})
		return
	}

	result, err := ReservationService.CheckAvailability(carID, start, end, c.Query("exclude_reservation_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateReservation books a car.
func CreateReservation(c *gin.Context) {
	var input struct {
		ClientID       string  `json:"client_id"`
		CarID          string  `json:"car_id"`
		StartDate      string  `json:"start_date"`
		EndDate        string  `json:"end_date"`
		Status         string  `json:"status"`
		PaymentStatus  string  `json:"payment_status"`
		PickupLocation string  `json:"pickup_location"`
		ReturnLocation string  `json:"return_location"`
		DepositAmount  float64 `json:"deposit_amount"`
		Notes          string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	start, err := parseDate(input.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date", "details": err.Error()})
		return
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date", "details": err.Error()})
		return
	}

	managerID, _ := c.Get("managerID")
	createdBy, _ := managerID.(string)

	res, err := ReservationService.Create(reservation.CreateRequest{
		ClientID:       input.ClientID,
		CarID:          input.CarID,
		StartDate:      start,
		EndDate:        end,
		Status:         models.ReservationStatus(input.Status),
		PaymentStatus:  models.PaymentStatus(input.PaymentStatus),
		PickupLocation: input.PickupLocation,
		ReturnLocation: input.ReturnLocation,
		DepositAmount:  input.DepositAmount,
		Notes:          input.Notes,
		CreatedBy:      createdBy,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GetReservation returns one reservation with its client and car attached.
func GetReservation(c *gin.Context) {
	res, err := ReservationService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListReservations returns a filtered page of reservations.
func ListReservations(c *gin.Context) {
	filter := reservationRepo.ListFilter{
		Status:   models.ReservationStatus(c.Query("status")),
		ClientID: c.Query("client_id"),
		CarID:    c.Query("car_id"),
	}
	if v := c.Query("start_from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_from", "details": err.Error()})
			return
		}
		filter.StartFrom = &t
	}
	if v := c.Query("end_until"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_until", "details": err.Error()})
			return
		}
		filter.EndUntil = &t
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	results, total, err := ReservationService.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reservations": results,
		"total":        total,
		"page":         filter.Page,
		"per_page":     filter.PerPage,
	})
}

// UpdateReservation edits a reservation's period or informational fields.
func UpdateReservation(c *gin.Context) {
	var input struct {
		StartDate      *string  `json:"start_date"`
		EndDate        *string  `json:"end_date"`
		PaymentStatus  *string  `json:"payment_status"`
		PickupLocation *string  `json:"pickup_location"`
		ReturnLocation *string  `json:"return_location"`
		DepositAmount  *float64 `json:"deposit_amount"`
		Notes          *string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	req := reservation.UpdateRequest{
		PickupLocation: input.PickupLocation,
		ReturnLocation: input.ReturnLocation,
		DepositAmount:  input.DepositAmount,
		Notes:          input.Notes,
	}
	if input.StartDate != nil {
		t, err := parseDate(*input.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date", "details": err.Error()})
			return
		}
		req.StartDate = &t
	}
	if input.EndDate != nil {
		t, err := parseDate(*input.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date", "details": err.Error()})
			return
		}
		req.EndDate = &t
	}
	if input.PaymentStatus != nil {
		status := models.PaymentStatus(*input.PaymentStatus)
		req.PaymentStatus = &status
	}

	res, err := ReservationService.Update(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// UpdateReservationStatus moves a reservation along its lifecycle.
func UpdateReservationStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	res, err := ReservationService.UpdateStatus(c.Param("id"), models.ReservationStatus(input.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteReservation removes a pending or cancelled reservation.
func DeleteReservation(c *gin.Context) {
	if err := ReservationService.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reservation deleted"})
}

// ReservationCalendar renders reservations as calendar events.
// GET /api/reservations/calendar?start_date=...&end_date=...&car_id=...
func ReservationCalendar(c *gin.Context) {
	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date", "details": err.Error()})
		return
	}
	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date", "details": err.Error()})
		return
	}

	events, err := ReservationService.Calendar(c.Query("car_id"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// ReservationStats returns the reservation dashboard card.
func ReservationStats(c *gin.Context) {
	stats, err := ReservationService.Stats()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
