package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/repository"
)

// InventoryStore persists inventory items.
type InventoryStore interface {
	ItemLookup
	List(ctx context.Context, companyID string, f repository.ItemFilter) ([]model.InventoryItem, error)
	Create(ctx context.Context, it model.InventoryItem) (model.InventoryItem, error)
	Update(ctx context.Context, it model.InventoryItem) (model.InventoryItem, error)
}

// InventoryService manages stock records.  Quantities move between
// locations only through TransferService.
type InventoryService struct {
	base
	items     InventoryStore
	locations LocationLookup
}

// NewInventoryService returns an InventoryService over items.
func NewInventoryService(items InventoryStore, locations LocationLookup, log *zap.Logger) *InventoryService {
	return &InventoryService{base: newBase(log, nil), items: items, locations: locations}
}

// List returns the company's items narrowed by f.
func (s *InventoryService) List(ctx context.Context, companyID string, f repository.ItemFilter) ([]model.InventoryItem, error) {
	return s.items.List(ctx, companyID, f)
}

// Get loads one item of the company.
func (s *InventoryService) Get(ctx context.Context, companyID, id string) (model.InventoryItem, error) {
	return s.items.Get(ctx, companyID, id)
}

// Create stocks a new SKU.  The location defaults to the request's location
// context.
func (s *InventoryService) Create(ctx context.Context, companyID, locationID string, in CreateItemInput) (model.InventoryItem, error) {
	loc := optional(in.LocationID)
	if loc == nil && locationID != "" {
		loc = &locationID
	}
	if loc != nil {
		if _, err := s.locations.Get(ctx, companyID, *loc); err != nil {
			return model.InventoryItem{}, err
		}
	}
	if in.Quantity < 0 || in.ReorderLevel < 0 {
		return model.InventoryItem{}, apperr.Validation("Quantities cannot be negative", nil)
	}
	return s.items.Create(ctx, model.InventoryItem{
		ID:           s.newID(),
		CompanyID:    companyID,
		LocationID:   loc,
		SKU:          strings.TrimSpace(in.SKU),
		Name:         strings.TrimSpace(in.Name),
		Category:     optional(in.Category),
		Quantity:     in.Quantity,
		ReorderLevel: in.ReorderLevel,
		UnitCost:     in.UnitCost,
		SellingPrice: in.SellingPrice,
	})
}

// Update applies the non-nil fields of in.
func (s *InventoryService) Update(ctx context.Context, companyID, id string, in UpdateItemInput) (model.InventoryItem, error) {
	it, err := s.items.Get(ctx, companyID, id)
	if err != nil {
		return model.InventoryItem{}, err
	}
	if in.Name != nil {
		it.Name = strings.TrimSpace(*in.Name)
	}
	setOptional(&it.Category, in.Category)
	if in.Quantity != nil {
		it.Quantity = *in.Quantity
	}
	if in.ReorderLevel != nil {
		it.ReorderLevel = *in.ReorderLevel
	}
	if in.UnitCost != nil {
		it.UnitCost = *in.UnitCost
	}
	if in.SellingPrice != nil {
		it.SellingPrice = *in.SellingPrice
	}
	if it.Quantity < 0 || it.ReorderLevel < 0 {
		return model.InventoryItem{}, apperr.Validation("Quantities cannot be negative", nil)
	}
	return s.items.Update(ctx, it)
}
