package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/repair-shop/internal/model"
)

const customerColumns = `id, company_id, first_name, last_name, email, phone, address, city, state, zip_code, notes, created_at, updated_at, deleted_at`

// CustomerRepo reads and writes customers.  Deleted customers are hidden
// from every read.
type CustomerRepo struct{ db *sqlx.DB }

// NewCustomerRepo returns a CustomerRepo over db.
func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// Get loads a live customer of the company.
func (r *CustomerRepo) Get(ctx context.Context, companyID, id string) (model.Customer, error) {
	var c model.Customer
	err := r.db.GetContext(ctx, &c,
		`SELECT `+customerColumns+` FROM customers WHERE company_id = ? AND id = ? AND deleted_at IS NULL LIMIT 1`,
		companyID, id)
	return c, notFound(err, "Customer not found")
}

// List returns live customers, optionally matching search against name or
// email.
func (r *CustomerRepo) List(ctx context.Context, companyID, search string) ([]model.Customer, error) {
	q := `SELECT ` + customerColumns + ` FROM customers WHERE company_id = ? AND deleted_at IS NULL`
	args := []interface{}{companyID}
	if search != "" { // substring match on either name or the email
		like := "%" + search + "%"
		q += ` AND (first_name LIKE ? OR last_name LIKE ? OR email LIKE ?)`
		args = append(args, like, like, like)
	}
	q += ` ORDER BY last_name, first_name`
	out := []model.Customer{}
	err := r.db.SelectContext(ctx, &out, q, args...)
	return out, err
}

// FindMany loads live customers by id in one query.
func (r *CustomerRepo) FindMany(ctx context.Context, companyID string, ids []string) ([]model.Customer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	// sqlx.In expands the IN (?) placeholder to one per id.
	q, args, err := sqlx.In(
		`SELECT `+customerColumns+` FROM customers WHERE company_id = ? AND deleted_at IS NULL AND id IN (?)`,
		companyID, ids)
	if err != nil {
		return nil, err
	}
	var out []model.Customer
	err = r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...)
	return out, err
}

// Create inserts a customer and reads it back.
func (r *CustomerRepo) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO customers (id, company_id, first_name, last_name, email, phone, address, city, state, zip_code, notes)
		 VALUES (:id, :company_id, :first_name, :last_name, :email, :phone, :address, :city, :state, :zip_code, :notes)`, c)
	if err != nil {
		return model.Customer{}, duplicate(err, "Customer email already exists")
	}
	return r.Get(ctx, c.CompanyID, c.ID)
}

// Update writes every mutable column of c.
func (r *CustomerRepo) Update(ctx context.Context, c model.Customer) (model.Customer, error) {
	res, err := r.db.NamedExecContext(ctx,
		`UPDATE customers SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone,
		        address = :address, city = :city, state = :state, zip_code = :zip_code, notes = :notes
		 WHERE company_id = :company_id AND id = :id AND deleted_at IS NULL`, c)
	if err != nil {
		return model.Customer{}, duplicate(err, "Customer email already exists")
	}
	if err := affected(res, "Customer not found"); err != nil {
		return model.Customer{}, err
	}
	return r.Get(ctx, c.CompanyID, c.ID)
}

// SoftDelete marks the customer deleted.  A second call reports not found.
func (r *CustomerRepo) SoftDelete(ctx context.Context, companyID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET deleted_at = UTC_TIMESTAMP() WHERE company_id = ? AND id = ? AND deleted_at IS NULL`,
		companyID, id)
	if err != nil {
		return err
	}
	return affected(res, "Customer not found")
}
