package httpserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"quickbite/internal/domain"
	cartsvc "quickbite/internal/service/cart"
	checkoutsvc "quickbite/internal/service/checkout"
	ordersvc "quickbite/internal/service/order"
	trackingsvc "quickbite/internal/service/tracking"
)

// Deps carries the wired services the handlers need.
type Deps struct {
	Carts    *cartsvc.Store
	Checkout *checkoutsvc.Service
	Orders   *ordersvc.Service
	Feed     *trackingsvc.Feed

	TaxRate     decimal.Decimal
	DeliveryFee decimal.Decimal
}

// buildRouter wires routes for the API.
func buildRouter(logger zerolog.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery(), cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	carts := router.Group("/carts/:sessionId")
	{
		carts.GET("", h.getCart)
		carts.DELETE("", h.clearCart)
		carts.POST("/items", h.addItem)
		carts.POST("/items/increase", h.increaseQuantity)
		carts.POST("/items/decrease", h.decreaseQuantity)
		carts.POST("/items/remove", h.removeItem)
	}

	orders := router.Group("/orders")
	{
		orders.POST("", h.submitOrder)
		orders.GET("/:id", h.getOrder)
		orders.GET("/:id/eta", h.getEstimate)
		orders.POST("/:id/status", h.updateStatus)
		orders.POST("/:id/cancel", h.cancelOrder)
		orders.GET("/:id/track", h.trackOrder)
	}

	return router
}

type handlers struct {
	deps   Deps
	logger zerolog.Logger
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

// sessionCart resolves the session-scoped cart for the request.
func (h *handlers) sessionCart(c *gin.Context) *cartsvc.Cart {
	return h.deps.Carts.Session(c.Param("sessionId"))
}

type customizationPayload struct {
	ID         string          `json:"id" binding:"required"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"priceDelta"`
}

func toCustomizations(in []customizationPayload) []domain.Customization {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Customization, 0, len(in))
	for _, p := range in {
		out = append(out, domain.Customization{ID: p.ID, Name: p.Name, PriceDelta: p.PriceDelta})
	}
	return out
}
