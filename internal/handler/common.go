package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
)

// requestTimeout bounds every service call made by a handler.
const requestTimeout = 5 * time.Second

// requestContext derives the service call context from the request.
func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// deleted is the body returned by delete endpoints.
type deleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
