package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger is a dependency the health check pings.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports liveness plus the state of the database.  It stays
// outside the authentication chain so load balancers can call it.
type Health struct {
	db Pinger
}

// NewHealth returns a health check over db.  A nil db skips the ping.
func NewHealth(db Pinger) *Health { return &Health{db: db} }

// Check handles GET /healthz.  A failed ping answers 503 with the
// degraded status in data.
func (h *Health) Check(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	status := map[string]string{"status": "ok", "database": "ok"}
	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, Envelope{Success: false, Data: status,
				Error: &ErrorBody{Message: "database unavailable"}})
		}
	}
	return respond(c, http.StatusOK, status)
}
