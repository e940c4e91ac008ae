package router

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/config"
	"github.com/yeremiapane/restaurant-reservation/controllers"
	"github.com/yeremiapane/restaurant-reservation/middlewares"
	"github.com/yeremiapane/restaurant-reservation/repository"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

// SetupRouter wires the reservation engine over db and mounts the API.
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	svc := services.NewReservationService(repository.NewGormStore(db))
	return NewEngine(svc, cfg)
}

// NewEngine mounts the API around an existing service.
func NewEngine(svc *services.ReservationService, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))

	limiter := middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	reservationCtrl := controllers.NewReservationController(svc)
	tableCtrl := controllers.NewTableController(svc)
	reportCtrl := controllers.NewReportController(svc)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	// Receptionist and waiter screens
	reservations := api.Group("/reservations")
	{
		reservations.GET("/tables", tableCtrl.GetAllTables)
		reservations.GET("/waiters", tableCtrl.GetAllWaiters)
		reservations.GET("", reservationCtrl.GetAllReservations)
		reservations.GET("/:id", reservationCtrl.GetReservationByID)

		writes := reservations.Group("")
		writes.Use(limiter.RateLimit())
		writes.POST("", reservationCtrl.CreateReservation)
		writes.DELETE("/:id", reservationCtrl.CancelReservation)
		writes.PUT("/:id/fulfill", reservationCtrl.FulfillReservation)
	}

	// Manager reports
	reports := api.Group("/reports")
	{
		reports.GET("/reservations", reportCtrl.GetReservationsReport)
		reports.GET("/reservations/export", reportCtrl.ExportReservationsReport)
		reports.GET("/tables/:tableNumber", reportCtrl.GetTableReport)
		reports.GET("/waiters/:waiterId", reportCtrl.GetWaiterReport)
	}

	if cfg.StaticDir != "" {
		if _, err := os.Stat(cfg.StaticDir); err != nil {
			utils.ErrorLogger.Warnf("static dir %s not usable: %v", cfg.StaticDir, err)
		} else {
			r.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.StaticDir))))
			utils.InfoLogger.Printf("Serving static files from %s", cfg.StaticDir)
		}
	}

	return r
}
