package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/trait-inventory/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Reservation endpoints
		v1.POST("/reservations", handler.CreateReservations)
		v1.GET("/reservations", handler.ListActiveReservations)
		v1.POST("/reservations/bulk-cancel", handler.BulkCancelReservations)
		v1.GET("/reservations/:id", handler.GetReservation)
		v1.DELETE("/reservations/:id", handler.CancelReservation)
		v1.POST("/reservations/:id/consume", handler.ConsumeReservation)

		// Trait endpoints (public read access)
		v1.GET("/traits/:id/availability", handler.GetTraitAvailability)

		// Purchase endpoints; settlement updates come from the payment backend (requires authentication)
		v1.GET("/purchases/:id", handler.GetPurchase)
		v1.PATCH("/purchases/:id/status", middleware.Auth(authCfg), handler.UpdatePurchaseStatus)

		// Operational endpoints (requires authentication)
		v1.POST("/cleanup", middleware.Auth(authCfg), handler.CleanupExpiredReservations)
	}
}
