package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickbite/internal/domain"
)

// writeError maps the domain error taxonomy onto HTTP responses in one
// place so every handler reports failures the same way.
func writeError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	var payErr *domain.PaymentError
	var tErr *domain.InvalidTransitionError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "field": vErr.Field})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.Is(err, domain.ErrPaymentTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "payment did not complete in time", "retryable": true})
	case errors.As(err, &payErr):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": payErr.Error(), "retryable": true})
	case errors.As(err, &tErr):
		// Integration defect from a stale caller; the user just refreshes.
		c.JSON(http.StatusConflict, gin.H{"error": "order status is out of date, please refresh"})
	case errors.Is(err, domain.ErrCancellationNotAllowed):
		c.JSON(http.StatusConflict, gin.H{"error": "this order can no longer be cancelled"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
