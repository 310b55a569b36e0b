package api

import (
	"github.com/gin-gonic/gin"

	"github.com/oeo/credit-facility/pkg/response"
)

// GinHandlers contains HTTP handlers for facility endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for facility endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

// CreateFacilityHandler handles POST requests to originate facilities
// Request body should contain the facility configuration
func (h *GinHandlers) CreateFacilityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateFacilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		view, err := h.service.CreateFacility(req)
		response.Handle(c, view, err)
	}
}

// ApproveFacilityHandler handles POST requests to approve a facility
// URL parameter: facility_id
func (h *GinHandlers) ApproveFacilityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := h.service.Approve(c.Param("facility_id"))
		response.Handle(c, view, err)
	}
}

// DenyFacilityHandler handles POST requests to deny a facility
// URL parameter: facility_id
func (h *GinHandlers) DenyFacilityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := h.service.Deny(c.Param("facility_id"))
		response.Handle(c, view, err)
	}
}

// DisburseHandler handles POST requests to draw funds
// URL parameter: facility_id; body carries the amount
func (h *GinHandlers) DisburseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AmountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		view, err := h.service.Disburse(c.Param("facility_id"), req.Amount)
		response.Handle(c, view, err)
	}
}

// PaymentHandler handles POST requests to apply a payment
// URL parameter: facility_id; body carries the amount
func (h *GinHandlers) PaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AmountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		app, err := h.service.MakePayment(c.Param("facility_id"), req.Amount)
		response.Handle(c, app, err)
	}
}

// ScheduledPaymentHandler handles POST requests to debit the current
// scheduled installment
// URL parameter: facility_id
func (h *GinHandlers) ScheduledPaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		app, err := h.service.ProcessScheduledPayment(c.Param("facility_id"))
		response.Handle(c, app, err)
	}
}

// CollateralHandler handles POST requests to push a collateral valuation
// URL parameter: facility_id; body carries the valuation
func (h *GinHandlers) CollateralHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ValuationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		status, err := h.service.UpdateCollateral(c.Param("facility_id"), req)
		response.Handle(c, status, err)
	}
}

// LiquidationProceedsHandler handles POST requests reporting collateral sale
// proceeds back into a liquidating facility
// URL parameter: facility_id; body carries the amount
func (h *GinHandlers) LiquidationProceedsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AmountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		app, err := h.service.ApplyLiquidationProceeds(c.Param("facility_id"), req.Amount)
		response.Handle(c, app, err)
	}
}

// GetFacilityHandler handles GET requests for the facility readout
// URL parameter: facility_id
func (h *GinHandlers) GetFacilityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := h.service.GetFacility(c.Param("facility_id"))
		response.Handle(c, view, err)
	}
}

// EventsHandler handles GET requests for the journaled audit events
// URL parameter: facility_id
func (h *GinHandlers) EventsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := h.service.Events(c.Param("facility_id"))
		response.Handle(c, records, err)
	}
}

// SweepHandler handles POST requests triggering an immediate daily sweep
// across all live facilities
func (h *GinHandlers) SweepHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		swept, err := h.service.Sweep()
		response.Handle(c, gin.H{"swept": swept}, err)
	}
}
