package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/auth"
	"github.com/iliyamo/repair-shop/internal/model"
)

// UserStore persists staff accounts.
type UserStore interface {
	UserLookup
	List(ctx context.Context, companyID string, role *model.Role, activeOnly bool) ([]model.User, error)
	Create(ctx context.Context, u model.User) error
	UpdateRole(ctx context.Context, companyID, id string, role model.Role) error
	Deactivate(ctx context.Context, companyID, id string) error
}

// UserService manages the staff of a company.
type UserService struct {
	base
	users      UserStore
	bcryptCost int
}

// NewUserService hashes new passwords at bcryptCost.
func NewUserService(users UserStore, bcryptCost int, log *zap.Logger) *UserService {
	return &UserService{base: newBase(log, nil), users: users, bcryptCost: bcryptCost}
}

func parseRole(s string) (model.Role, error) {
	r := model.Role(s)
	if !r.Valid() {
		return "", apperr.Validation("Invalid role", map[string]string{"role": "must be admin, manager or technician"})
	}
	return r, nil
}

// List returns every user of the company, optionally only those with role.
func (s *UserService) List(ctx context.Context, companyID, role string) ([]model.User, error) {
	if role == "" {
		return s.users.List(ctx, companyID, nil, false)
	}
	r, err := parseRole(role)
	if err != nil {
		return nil, err
	}
	return s.users.List(ctx, companyID, &r, false)
}

// Technicians lists the active technicians tickets can be assigned to.
func (s *UserService) Technicians(ctx context.Context, companyID string) ([]model.User, error) {
	r := model.RoleTechnician
	return s.users.List(ctx, companyID, &r, true)
}

// Get loads one user of the company.
func (s *UserService) Get(ctx context.Context, companyID, id string) (model.User, error) {
	return s.users.Get(ctx, companyID, id)
}

// Create adds a staff account to the company.
func (s *UserService) Create(ctx context.Context, companyID string, in CreateUserInput) (model.User, error) {
	role, err := parseRole(in.Role)
	if err != nil {
		return model.User{}, err
	}
	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:           s.newID(),
		CompanyID:    companyID,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return model.User{}, err
	}
	s.log.Info("user created", zap.String("user_id", u.ID), zap.String("role", string(role)))
	return s.users.Get(ctx, companyID, u.ID)
}

// UpdateRole changes another user's role.  Like Deactivate it refuses the
// actor's own account, so an admin cannot demote the last admin by accident.
func (s *UserService) UpdateRole(ctx context.Context, companyID, actorID, id string, in UpdateRoleInput) (model.User, error) {
	if actorID == id {
		return model.User{}, apperr.Validation("You cannot change your own role", nil)
	}
	role, err := parseRole(in.Role)
	if err != nil {
		return model.User{}, err
	}
	if err := s.users.UpdateRole(ctx, companyID, id, role); err != nil {
		return model.User{}, err
	}
	s.log.Info("user role changed", zap.String("user_id", id), zap.String("role", string(role)), zap.String("by", actorID))
	return s.users.Get(ctx, companyID, id)
}

// Deactivate disables a user's access.  Users cannot deactivate
// themselves, which keeps at least the acting admin active.
func (s *UserService) Deactivate(ctx context.Context, companyID, actorID, id string) (model.User, error) {
	if actorID == id {
		return model.User{}, apperr.Validation("You cannot deactivate your own account", nil)
	}
	if err := s.users.Deactivate(ctx, companyID, id); err != nil {
		return model.User{}, err
	}
	s.log.Info("user deactivated", zap.String("user_id", id), zap.String("by", actorID))
	return s.users.Get(ctx, companyID, id)
}
