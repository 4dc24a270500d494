package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/repair-shop/internal/model"
)

// LocationRepo reads and writes company locations.
type LocationRepo struct{ db *sqlx.DB }

// NewLocationRepo returns a LocationRepo over db.
func NewLocationRepo(db *sqlx.DB) *LocationRepo { return &LocationRepo{db: db} }

// Get returns a live location of the company.
func (r *LocationRepo) Get(ctx context.Context, companyID, id string) (model.Location, error) {
	var l model.Location
	err := r.db.GetContext(ctx, &l,
		`SELECT id, company_id, name, address, created_at, deleted_at FROM locations
		 WHERE company_id = ? AND id = ? AND deleted_at IS NULL LIMIT 1`, companyID, id)
	return l, notFound(err, "Location not found")
}

// List returns the company's live locations by name.
func (r *LocationRepo) List(ctx context.Context, companyID string) ([]model.Location, error) {
	locs := []model.Location{}
	err := r.db.SelectContext(ctx, &locs,
		`SELECT id, company_id, name, address, created_at, deleted_at FROM locations
		 WHERE company_id = ? AND deleted_at IS NULL ORDER BY name`, companyID)
	return locs, err
}

// Create inserts a location and reads it back.
func (r *LocationRepo) Create(ctx context.Context, l model.Location) (model.Location, error) {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO locations (id, company_id, name, address) VALUES (?, ?, ?, ?)`,
		l.ID, l.CompanyID, l.Name, l.Address); err != nil {
		return model.Location{}, err
	}
	return r.Get(ctx, l.CompanyID, l.ID)
}
