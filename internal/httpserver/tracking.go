package httpserver

import (
	"io"

	"github.com/gin-gonic/gin"

	"quickbite/internal/realtime"
)

// trackOrder streams status changes for one order as server-sent events.
// The subscription is torn down with the connection: once the client goes
// away the feed observer is unsubscribed and nothing is delivered further.
func (h *handlers) trackOrder(c *gin.Context) {
	orderID := c.Param("id")

	updates := make(chan realtime.StatusEvent, 8)
	sub, err := h.deps.Feed.Subscribe(c.Request.Context(), orderID, func(ev realtime.StatusEvent) {
		select {
		case updates <- ev:
		case <-c.Request.Context().Done():
		}
	})
	if err != nil {
		writeError(c, err)
		return
	}
	defer sub.Unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-sub.Done():
			// Drain anything delivered before the feed stopped.
			select {
			case ev := <-updates:
				c.SSEvent("status", ev)
				return true
			default:
				return false
			}
		case ev := <-updates:
			c.SSEvent("status", ev)
			return true
		}
	})
}
