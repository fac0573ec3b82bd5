package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/trait-inventory/internal/api/shared/constants"
	"github.com/feral-file/trait-inventory/internal/api/shared/dto"
	"github.com/feral-file/trait-inventory/internal/api/shared/executor"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// CreateReservations reserves one or more traits for a wallet/asset pair
	CreateReservations(c *gin.Context)

	// GetReservation retrieves a reservation by ID
	GetReservation(c *gin.Context)

	// ListActiveReservations lists the active reservations of a wallet
	ListActiveReservations(c *gin.Context)

	// CancelReservation cancels an active reservation
	CancelReservation(c *gin.Context)

	// BulkCancelReservations cancels many reservations
	BulkCancelReservations(c *gin.Context)

	// ConsumeReservation converts a reservation into a purchase
	ConsumeReservation(c *gin.Context)

	// GetTraitAvailability retrieves the available supply of a trait
	GetTraitAvailability(c *gin.Context)

	// GetPurchase retrieves a purchase by ID
	GetPurchase(c *gin.Context)

	// UpdatePurchaseStatus applies a settlement status change
	UpdatePurchaseStatus(c *gin.Context)

	// CleanupExpiredReservations triggers one sweep of stale reservations
	CleanupExpiredReservations(c *gin.Context)

	// HealthCheck returns the health status of the API
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{
		executor: exec,
	}
}

// CreateReservations reserves the requested traits, all or nothing
func (h *handler) CreateReservations(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	resp, err := h.executor.CreateReservations(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create reservation")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetReservation retrieves a reservation by ID
func (h *handler) GetReservation(c *gin.Context) {
	resp, err := h.executor.GetReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get reservation")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListActiveReservations lists the active reservations of the wallet given by the wallet_address query parameter
func (h *handler) ListActiveReservations(c *gin.Context) {
	resp, err := h.executor.ListActiveReservations(c.Request.Context(), c.Query("wallet_address"))
	if err != nil {
		respondError(c, err, "Failed to list reservations")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CancelReservation cancels an active reservation
func (h *handler) CancelReservation(c *gin.Context) {
	resp, err := h.executor.CancelReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to cancel reservation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservation": resp})
}

// BulkCancelReservations cancels many reservations
func (h *handler) BulkCancelReservations(c *gin.Context) {
	var req dto.BulkCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	resp, err := h.executor.BulkCancelReservations(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to cancel reservations")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConsumeReservation converts a reservation into a purchase. The body is optional.
func (h *handler) ConsumeReservation(c *gin.Context) {
	var req dto.ConsumeReservationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "Invalid request body", err.Error())
			return
		}
	}

	resp, err := h.executor.ConsumeReservation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to consume reservation")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"purchase": resp})
}

// GetTraitAvailability retrieves the available supply of a trait
func (h *handler) GetTraitAvailability(c *gin.Context) {
	resp, err := h.executor.GetTraitAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to check availability")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetPurchase retrieves a purchase by ID
func (h *handler) GetPurchase(c *gin.Context) {
	resp, err := h.executor.GetPurchase(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get purchase")
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchase": resp})
}

// UpdatePurchaseStatus applies a settlement status change
func (h *handler) UpdatePurchaseStatus(c *gin.Context) {
	var req dto.UpdatePurchaseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	resp, err := h.executor.UpdatePurchaseStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update purchase status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchase": resp})
}

// CleanupExpiredReservations triggers one sweep of stale reservations
func (h *handler) CleanupExpiredReservations(c *gin.Context) {
	resp, err := h.executor.CleanupExpiredReservations(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to clean up reservations")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": constants.SERVICE_NAME,
	})
}
