package routes

import (
	"net/http"
	"time"

	managerRepo "carental/database/repository/manager"
	"carental/handlers"
	"carental/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers staff authentication endpoints.
func RegisterAuthRoutes(r *gin.Engine, managers managerRepo.ManagerRepository) {
	api := r.Group("/api/auth")
	{
		api.POST("/login", handlers.Login)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthManagerMiddleware(managers))
		protected.POST("/logout", handlers.Logout)
		protected.GET("/profile", handlers.Profile)
		protected.PUT("/password", handlers.ChangePassword)
	}
}

// RegisterAdminRoutes registers staff-account management, admins only.
func RegisterAdminRoutes(r *gin.Engine, managers managerRepo.ManagerRepository) {
	api := r.Group("/api/admin/managers")
	{
		api.Use(middleware.JWTAuthManagerMiddleware(managers))
		api.Use(middleware.AdminOnlyMiddleware())
		api.POST("", handlers.CreateManager)
		api.GET("", handlers.ListManagers)
		api.PUT("/:id", handlers.UpdateManager)
		api.DELETE("/:id", handlers.DeleteManager)
	}
}

// RegisterCarRoutes registers fleet management endpoints.
func RegisterCarRoutes(r *gin.Engine, managers managerRepo.ManagerRepository) {
	api := r.Group("/api/cars")
	{
		api.Use(middleware.JWTAuthManagerMiddleware(managers))
		api.POST("", handlers.CreateCar)
		api.GET("", handlers.ListCars)
		api.GET("/:id", handlers.GetCar)
		api.PUT("/:id", handlers.UpdateCar)
		api.DELETE("/:id", handlers.DeleteCar)
		api.GET("/:id/history", handlers.CarHistory)
		api.POST("/:id/images", handlers.UploadCarImage)
	}
}

// RegisterClientRoutes registers customer roster endpoints.
func RegisterClientRoutes(r *gin.Engine, managers managerRepo.ManagerRepository) {
	api := r.Group("/api/clients")
	{
		api.Use(middleware.JWTAuthManagerMiddleware(managers))
		api.POST("", handlers.CreateClient)
		api.GET("", handlers.ListClients)
		api.GET("/:id", handlers.GetClient)
		api.PUT("/:id", handlers.UpdateClient)
		api.DELETE("/:id", handlers.DeleteClient)
		api.GET("/:id/history", handlers.ClientRentalHistory)
	}
}

// RegisterReservationRoutes registers the booking lifecycle endpoints.
func RegisterReservationRoutes(r *gin.Engine, managers managerRepo.ManagerRepository) {
	api := r.Group("/api/reservations")
	{
		api.Use(middleware.JWTAuthManagerMiddleware(managers))
		api.GET("/availability", handlers.CheckAvailability)
		api.GET("/calendar", handlers.ReservationCalendar)
		api.GET("/stats", handlers.ReservationStats)
		api.POST("", handlers.CreateReservation)
		api.GET("", handlers.ListReservations)
		api.GET("/:id", handlers.GetReservation)
		api.PUT("/:id", handlers.UpdateReservation)
		api.PUT("/:id/status", handlers.UpdateReservationStatus)
		api.DELETE("/:id", handlers.DeleteReservation)
	}
}

// RegisterAnalyticsRoutes registers the reporting endpoints.
func RegisterAnalyticsRoutes(r *gin.Engine, managers managerRepo.ManagerRepository) {
	api := r.Group("/api/analytics")
	{
		api.Use(middleware.JWTAuthManagerMiddleware(managers))
		api.GET("/dashboard", handlers.Dashboard)
		api.GET("/reservations", handlers.ReservationAnalytics)
		api.GET("/financial", handlers.FinancialReport)
		api.GET("/utilization", handlers.UtilizationReport)
		api.GET("/client-activity", handlers.ClientActivityReport)
		api.GET("/upcoming", handlers.UpcomingEvents)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, managers managerRepo.ManagerRepository) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, managers)
	RegisterAdminRoutes(r, managers)
	RegisterCarRoutes(r, managers)
	RegisterClientRoutes(r, managers)
	RegisterReservationRoutes(r, managers)
	RegisterAnalyticsRoutes(r, managers)
}
