package handlers

import (
	"errors"
	"net/http"

	"carental/services/analytics"
	"carental/services/auth"
	"carental/services/client"
	"carental/services/fleet"
	"carental/services/reservation"
	"carental/services/storage"

	"github.com/gin-gonic/gin"
)

// Package-level service handles, wired once at startup.
var (
	ReservationService reservation.ReservationService
	FleetService       fleet.FleetService
	ClientService      client.ClientService
	AuthService        auth.AuthService
	AnalyticsService   analytics.AnalyticsService
	StorageService     storage.StorageService
)

// Init wires the handler layer to its services.
func Init(
	rs reservation.ReservationService,
	fs fleet.FleetService,
	cs client.ClientService,
	as auth.AuthService,
	an analytics.AnalyticsService,
	ss storage.StorageService,
) {
	ReservationService = rs
	FleetService = fs
	ClientService = cs
	AuthService = as
	AnalyticsService = an
	StorageService = ss
}

// respondError translates service errors into HTTP responses. Conflict
// responses carry the colliding reservations so the caller can show them.
func respondError(c *gin.Context, err error) {
	var validationErr *reservation.ValidationError
	var notFoundErr *reservation.NotFoundError
	var stateErr *reservation.InvalidStateError
	var conflictErr *reservation.ConflictError
	var authErr *auth.AuthError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": stateErr.Message})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     conflictErr.Message,
			"conflicts": conflictErr.Conflicts,
		})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "details": err.Error()})
	}
}
