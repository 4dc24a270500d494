package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/repair-shop/internal/middleware"
	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/service"
)

// UserService manages the accounts of a company.
type UserService interface {
	List(ctx context.Context, companyID, role string) ([]model.User, error)
	Technicians(ctx context.Context, companyID string) ([]model.User, error)
	Get(ctx context.Context, companyID, id string) (model.User, error)
	Create(ctx context.Context, companyID string, in service.CreateUserInput) (model.User, error)
	UpdateRole(ctx context.Context, companyID, actorID, id string, in service.UpdateRoleInput) (model.User, error)
	Deactivate(ctx context.Context, companyID, actorID, id string) (model.User, error)
}

// User serves /api/users.
type User struct {
	svc UserService
}

// NewUser wires the user endpoints to svc.
func NewUser(svc UserService) *User { return &User{svc: svc} }

// List handles GET /api/users, optionally filtered by role.
func (h *User) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.svc.List(ctx, middleware.CompanyID(c), c.QueryParam("role"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

// Technicians handles GET /api/users/technicians: the active technicians
// a ticket can be assigned to.
func (h *User) Technicians(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.svc.Technicians(ctx, middleware.CompanyID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

// Get handles GET /api/users/:id.
func (h *User) Get(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	u, err := h.svc.Get(ctx, middleware.CompanyID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, u)
}

// Create handles POST /api/users and adds an account to the caller's
// company.
func (h *User) Create(c echo.Context) error {
	var in service.CreateUserInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	u, err := h.svc.Create(ctx, middleware.CompanyID(c), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, u)
}

// UpdateRole handles PUT /api/users/:id/role.  The caller's own role cannot
// be changed.
func (h *User) UpdateRole(c echo.Context) error {
	var in service.UpdateRoleInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	u, err := h.svc.UpdateRole(ctx, middleware.CompanyID(c), middleware.UserID(c), c.Param("id"), in) // the actor is the authenticated user
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, u)
}

// Deactivate handles POST /api/users/:id/deactivate.  The caller cannot
// deactivate themselves.
func (h *User) Deactivate(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	u, err := h.svc.Deactivate(ctx, middleware.CompanyID(c), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, u)
}
