package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"quickbite/internal/domain"
	checkoutsvc "quickbite/internal/service/checkout"
)

type submitOrderRequest struct {
	SessionID           string          `json:"sessionId" binding:"required"`
	CustomerID          string          `json:"customerId" binding:"required"`
	CustomerName        string          `json:"name"`
	RestaurantID        string          `json:"restaurantId"`
	DeliveryAddress     string          `json:"address"`
	PhoneNumber         string          `json:"phone"`
	SpecialInstructions string          `json:"specialInstructions"`
	PaymentMethod       string          `json:"paymentMethod"`
	PaymentReference    string          `json:"paymentReference"`
	Discount            decimal.Decimal `json:"discount"`
}

func (h *handlers) submitOrder(c *gin.Context) {
	var req submitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart := h.deps.Carts.Session(req.SessionID)
	ord, err := h.deps.Checkout.Submit(c.Request.Context(), cart, checkoutsvc.SubmitInput{
		CustomerID:          req.CustomerID,
		CustomerName:        req.CustomerName,
		RestaurantID:        req.RestaurantID,
		DeliveryAddress:     req.DeliveryAddress,
		PhoneNumber:         req.PhoneNumber,
		SpecialInstructions: req.SpecialInstructions,
		PaymentMethod:       domain.PaymentMethod(req.PaymentMethod),
		PaymentReference:    req.PaymentReference,
		Discount:            req.Discount,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ord)
}

func (h *handlers) getOrder(c *gin.Context) {
	ord, err := h.deps.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

func (h *handlers) getEstimate(c *gin.Context) {
	est, err := h.deps.Orders.Estimate(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *handlers) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ord, err := h.deps.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

type cancelRequest struct {
	Reason     string `json:"reason"`
	ReasonType string `json:"reasonType"`
}

func (h *handlers) cancelOrder(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ord, err := h.deps.Orders.Cancel(c.Request.Context(), c.Param("id"), req.Reason, req.ReasonType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}
