package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/repair-shop/internal/model"
)

const itemColumns = `id, company_id, location_id, sku, name, category, quantity, reorder_level, unit_cost, selling_price, created_at, updated_at, deleted_at`

// ItemFilter narrows an inventory listing.
type ItemFilter struct {
	LocationID string
	LowStock   bool
}

// InventoryRepo reads and writes inventory items.
type InventoryRepo struct{ db *sqlx.DB }

// NewInventoryRepo returns an InventoryRepo over db.
func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// List returns the company's live items ordered by name.
func (r *InventoryRepo) List(ctx context.Context, companyID string, f ItemFilter) ([]model.InventoryItem, error) {
	q := `SELECT ` + itemColumns + ` FROM inventory_items WHERE company_id = ? AND deleted_at IS NULL`
	args := []interface{}{companyID}
	if f.LocationID != "" {
		q += ` AND location_id = ?`
		args = append(args, f.LocationID)
	}
	if f.LowStock {
		q += ` AND quantity < reorder_level`
	}
	q += ` ORDER BY name, sku`
	out := []model.InventoryItem{}
	err := r.db.SelectContext(ctx, &out, q, args...)
	return out, err
}

// Get loads a live item of the company.
func (r *InventoryRepo) Get(ctx context.Context, companyID, id string) (model.InventoryItem, error) {
	var it model.InventoryItem
	err := r.db.GetContext(ctx, &it,
		`SELECT `+itemColumns+` FROM inventory_items WHERE company_id = ? AND id = ? AND deleted_at IS NULL LIMIT 1`,
		companyID, id)
	return it, notFound(err, "Inventory item not found")
}

// Create inserts it and reads it back.  A SKU already stocked at the
// location is a conflict.
func (r *InventoryRepo) Create(ctx context.Context, it model.InventoryItem) (model.InventoryItem, error) {
	if err := insertItem(ctx, r.db, it); err != nil {
		return model.InventoryItem{}, err
	}
	return r.Get(ctx, it.CompanyID, it.ID)
}

// Update writes the descriptive and stock columns of it.  SKU and location
// are fixed once created.
func (r *InventoryRepo) Update(ctx context.Context, it model.InventoryItem) (model.InventoryItem, error) {
	res, err := r.db.NamedExecContext(ctx,
		`UPDATE inventory_items SET name = :name, category = :category, quantity = :quantity,
		        reorder_level = :reorder_level, unit_cost = :unit_cost, selling_price = :selling_price
		 WHERE company_id = :company_id AND id = :id AND deleted_at IS NULL`, it)
	if err != nil {
		return model.InventoryItem{}, err
	}
	if err := affected(res, "Inventory item not found"); err != nil {
		return model.InventoryItem{}, err
	}
	return r.Get(ctx, it.CompanyID, it.ID)
}

// insertItem runs on the pool or inside a transfer transaction.
func insertItem(ctx context.Context, ex sqlx.ExtContext, it model.InventoryItem) error {
	_, err := sqlx.NamedExecContext(ctx, ex,
		`INSERT INTO inventory_items (id, company_id, location_id, sku, name, category, quantity, reorder_level, unit_cost, selling_price)
		 VALUES (:id, :company_id, :location_id, :sku, :name, :category, :quantity, :reorder_level, :unit_cost, :selling_price)`, it)
	return duplicate(err, "SKU already exists at this location")
}
