package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carental/config"
	"carental/database"
	carRepoPkg "carental/database/repository/car"
	clientRepoPkg "carental/database/repository/client"
	managerRepoPkg "carental/database/repository/manager"
	reservationRepoPkg "carental/database/repository/reservation"
	"carental/handlers"
	"carental/middleware"
	"carental/routes"
	"carental/services/analytics"
	"carental/services/auth"
	clientSvc "carental/services/client"
	"carental/services/fleet"
	"carental/services/reservation"
	"carental/services/storage"
	"carental/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()

	var storageService storage.StorageService
	storageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Warnf("main: cloudinary storage unavailable, image uploads disabled: %v", err)
		storageService = nil
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	db := database.DB()
	carRepo := carRepoPkg.NewMongoCarRepo(db)
	clientRepo := clientRepoPkg.NewMongoClientRepo(db)
	managerRepo := managerRepoPkg.NewMongoManagerRepo(db)
	reservationRepo := reservationRepoPkg.NewMongoReservationRepo(database.MongoClient, db)

	// Services.
	reservationService := reservation.NewDefaultReservationService(reservationRepo, carRepo, clientRepo)
	fleetService := &fleet.DefaultFleetService{
		CarRepo:         carRepo,
		ReservationRepo: reservationRepo,
	}
	clientService := &clientSvc.DefaultClientService{
		ClientRepo:      clientRepo,
		CarRepo:         carRepo,
		ReservationRepo: reservationRepo,
	}
	authService := &auth.DefaultAuthService{
		ManagerRepo: managerRepo,
	}
	analyticsService := &analytics.DefaultAnalyticsService{
		ReservationRepo: reservationRepo,
		CarRepo:         carRepo,
		ClientRepo:      clientRepo,
		CacheClient:     utils.GetCacheClient(),
	}

	if err := authService.SeedDefaultAdmin(); err != nil {
		logger.Sugar().Fatalf("main: failed to seed default administrator: %v", err)
	}

	handlers.Init(reservationService, fleetService, clientService, authService, analyticsService, storageService)
	routes.RegisterRoutes(router, managerRepo)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
