package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/ansidorov/bilet/config"
	"github.com/ansidorov/bilet/internal/handlers"
	"github.com/ansidorov/bilet/internal/middleware"
	"github.com/ansidorov/bilet/internal/repository"
	"github.com/ansidorov/bilet/internal/services"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	r := gin.Default()

	setupRoutes(r, db, cfg)

	return r.Run(":" + cfg.Port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	eventRepo := repository.NewEventRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	inventory := repository.NewInventoryStore(db)

	eventService := services.NewEventService(eventRepo, bookingRepo)
	bookingService := services.NewBookingService(bookingRepo)
	reservationService := services.NewReservationService(inventory)

	eventHandler := handlers.NewEventHandler(eventService)
	bookingHandler := handlers.NewBookingHandler(reservationService, bookingService, cfg.QRSecret)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/v1")
	{
		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", eventHandler.List)
			eventPublic.GET("/:id", eventHandler.Get)
			eventPublic.GET("/:id/tickets", eventHandler.ListTickets)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.Auth(cfg.JWTSecret))
	{
		bookings := protected.Group("/bookings")
		{
			bookings.GET("", bookingHandler.List)
			bookings.POST("", bookingHandler.Create)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.PUT("/:id", bookingHandler.UpdateStatus)
			bookings.DELETE("/:id", bookingHandler.Cancel)
			bookings.GET("/:id/qr", bookingHandler.QR)
		}

		admin := protected.Group("", middleware.RequireAdmin())
		{
			admin.GET("/admin/bookings", bookingHandler.ListAdmin)

			adminEvents := admin.Group("/events")
			{
				adminEvents.POST("", eventHandler.Create)
				adminEvents.PUT("/:id", eventHandler.Update)
				adminEvents.DELETE("/:id", eventHandler.Delete)
				adminEvents.POST("/:id/tickets", eventHandler.AddTicket)
			}
		}
	}
}
