package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"quickbite/internal/domain"
	cartsvc "quickbite/internal/service/cart"
)

type addItemRequest struct {
	ProductID      string                 `json:"productId" binding:"required"`
	Name           string                 `json:"name" binding:"required"`
	UnitPrice      decimal.Decimal        `json:"unitPrice"`
	Quantity       int                    `json:"quantity"`
	Customizations []customizationPayload `json:"customizations"`
}

type lineRef struct {
	ProductID      string                 `json:"productId" binding:"required"`
	Customizations []customizationPayload `json:"customizations"`
}

type cartResponse struct {
	Lines     []domain.CartLine `json:"lines"`
	ItemCount int               `json:"itemCount"`
	Totals    domain.CartTotals `json:"totals"`
}

func (h *handlers) cartResponse(cart *cartsvc.Cart, discount decimal.Decimal) cartResponse {
	lines := cart.Lines()
	return cartResponse{
		Lines:     lines,
		ItemCount: cart.TotalItemCount(),
		Totals:    cartsvc.ComputeTotals(lines, h.deps.TaxRate, h.deps.DeliveryFee, discount),
	}
}

func (h *handlers) getCart(c *gin.Context) {
	cart := h.sessionCart(c)

	discount := decimal.Zero
	if raw := c.Query("discount"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discount"})
			return
		}
		discount = parsed
	}

	c.JSON(http.StatusOK, h.cartResponse(cart, discount))
}

func (h *handlers) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart := h.sessionCart(c)
	err := cart.AddItem(domain.CartLine{
		ProductID:      req.ProductID,
		Name:           req.Name,
		UnitPrice:      req.UnitPrice,
		Quantity:       req.Quantity,
		Customizations: toCustomizations(req.Customizations),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.cartResponse(cart, decimal.Zero))
}

func (h *handlers) increaseQuantity(c *gin.Context) {
	var req lineRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart := h.sessionCart(c)
	cart.IncreaseQuantity(req.ProductID, toCustomizations(req.Customizations))
	c.JSON(http.StatusOK, h.cartResponse(cart, decimal.Zero))
}

func (h *handlers) decreaseQuantity(c *gin.Context) {
	var req lineRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart := h.sessionCart(c)
	cart.DecreaseQuantity(req.ProductID, toCustomizations(req.Customizations))
	c.JSON(http.StatusOK, h.cartResponse(cart, decimal.Zero))
}

func (h *handlers) removeItem(c *gin.Context) {
	var req lineRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart := h.sessionCart(c)
	cart.RemoveItem(req.ProductID, toCustomizations(req.Customizations))
	c.JSON(http.StatusOK, h.cartResponse(cart, decimal.Zero))
}

func (h *handlers) clearCart(c *gin.Context) {
	cart := h.sessionCart(c)
	cart.Clear()
	c.Status(http.StatusNoContent)
}
