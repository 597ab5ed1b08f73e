package rental_api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/carfleet-billing/internal/rental_api/handler"
	"github.com/carfleet-billing/internal/rental_api/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	rentalHandler *handler.RentalHandler,
	carHandler *handler.CarHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.RequestID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Rental lifecycle and settlement
		rentals := v1.Group("/rentals")
		{
			rentals.POST("", rentalHandler.Create)
			rentals.GET("/:id", rentalHandler.GetByID)
			rentals.POST("/:id/return", rentalHandler.SettleReturn)
			rentals.POST("/:id/cancel", rentalHandler.Cancel)
			rentals.GET("/:id/payments", rentalHandler.ListPayments)
			rentals.GET("/:id/audit", rentalHandler.GetAuditTrail)
		}

		// Fleet reads
		cars := v1.Group("/cars")
		{
			cars.GET("", carHandler.List)
			cars.GET("/:id", carHandler.GetByID)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
