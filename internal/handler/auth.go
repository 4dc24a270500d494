package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/middleware"
	"github.com/iliyamo/repair-shop/internal/service"
)

// AuthService is what the auth endpoints need.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (service.Session, error)
	Login(ctx context.Context, in service.LoginInput) (service.Session, error)
	Refresh(ctx context.Context, in service.RefreshInput) (service.Session, error)
}

// Auth serves /api/auth.
type Auth struct {
	svc AuthService
}

// NewAuth wires the auth endpoints to svc.
func NewAuth(svc AuthService) *Auth { return &Auth{svc: svc} }

// Register creates a company together with its first admin.
func (h *Auth) Register(c echo.Context) error {
	var in service.RegisterInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	sess, err := h.svc.Register(ctx, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, sess)
}

// Login handles POST /api/auth/login.  Unknown email and wrong password
// get the same 401.
func (h *Auth) Login(c echo.Context) error {
	var in service.LoginInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	sess, err := h.svc.Login(ctx, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, sess)
}

// Refresh handles POST /api/auth/refresh and returns a new token pair.
func (h *Auth) Refresh(c echo.Context) error {
	var in service.RefreshInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	sess, err := h.svc.Refresh(ctx, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, sess)
}

// Me returns the user attached by the authentication gate.
func (h *Auth) Me(c echo.Context) error {
	u := middleware.User(c)
	if u == nil {
		return apperr.Unauthenticated("Invalid token")
	}
	return respond(c, http.StatusOK, u)
}
