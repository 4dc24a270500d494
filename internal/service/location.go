package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/repair-shop/internal/model"
)

// LocationStore persists locations.
type LocationStore interface {
	LocationLookup
	List(ctx context.Context, companyID string) ([]model.Location, error)
	Create(ctx context.Context, l model.Location) (model.Location, error)
}

// LocationService manages the company's shop locations.
type LocationService struct {
	base
	locations LocationStore
}

// NewLocationService returns a LocationService over locations.
func NewLocationService(locations LocationStore, log *zap.Logger) *LocationService {
	return &LocationService{base: newBase(log, nil), locations: locations}
}

// List returns every location of the company.
func (s *LocationService) List(ctx context.Context, companyID string) ([]model.Location, error) {
	return s.locations.List(ctx, companyID)
}

// Get loads one location of the company.
func (s *LocationService) Get(ctx context.Context, companyID, id string) (model.Location, error) {
	return s.locations.Get(ctx, companyID, id)
}

// Create adds a location.
func (s *LocationService) Create(ctx context.Context, companyID string, in CreateLocationInput) (model.Location, error) {
	return s.locations.Create(ctx, model.Location{
		ID:        s.newID(),
		CompanyID: companyID,
		Name:      strings.TrimSpace(in.Name),
		Address:   optional(in.Address),
	})
}
