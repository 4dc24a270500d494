package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/repair-shop/internal/database"
	"github.com/iliyamo/repair-shop/internal/model"
)

const userColumns = `id, company_id, first_name, last_name, email, password_hash, role, active, created_at, updated_at`

// UserRepo reads and writes the users and companies tables.
type UserRepo struct{ db *sqlx.DB }

// NewUserRepo returns a UserRepo over db.
func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// FindByID loads a user regardless of company.  Token verification uses it
// to re-check the user's current company.
func (r *UserRepo) FindByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id)
	return u, notFound(err, "User not found")
}

// FindByEmail fetches a user by normalized email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`,
		strings.ToLower(strings.TrimSpace(email)))
	return u, notFound(err, "User not found")
}

// Get loads a user of the company.
func (r *UserRepo) Get(ctx context.Context, companyID, id string) (model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE company_id = ? AND id = ? LIMIT 1`, companyID, id)
	return u, notFound(err, "User not found")
}

// List returns the company's users, optionally filtered by role and
// activity.
func (r *UserRepo) List(ctx context.Context, companyID string, role *model.Role, activeOnly bool) ([]model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE company_id = ?`
	args := []interface{}{companyID}
	if role != nil {
		q += ` AND role = ?`
		args = append(args, *role)
	}
	if activeOnly {
		q += ` AND active = 1`
	}
	q += ` ORDER BY last_name, first_name`
	users := []model.User{}
	err := r.db.SelectContext(ctx, &users, q, args...)
	return users, err
}

// FindMany loads the users of the company whose ids are in ids.  Unknown
// ids are simply absent from the result.
func (r *UserRepo) FindMany(ctx context.Context, companyID string, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	// sqlx.In expands the IN (?) placeholder to one per id.
	q, args, err := sqlx.In(`SELECT `+userColumns+` FROM users WHERE company_id = ? AND id IN (?)`, companyID, ids)
	if err != nil {
		return nil, err
	}
	var users []model.User
	err = r.db.SelectContext(ctx, &users, r.db.Rebind(q), args...)
	return users, err
}

// Register creates a company together with its first user in one
// transaction.
func (r *UserRepo) Register(ctx context.Context, company model.Company, u model.User) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO companies (id, name) VALUES (?, ?)`, company.ID, company.Name); err != nil {
			return err
		}
		return insertUser(ctx, tx, u)
	})
}

// Create inserts a user into an existing company.
func (r *UserRepo) Create(ctx context.Context, u model.User) error {
	return insertUser(ctx, r.db, u)
}

func insertUser(ctx context.Context, ex sqlx.ExecerContext, u model.User) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO users (id, company_id, first_name, last_name, email, password_hash, role, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.CompanyID, u.FirstName, u.LastName, strings.ToLower(strings.TrimSpace(u.Email)),
		u.PasswordHash, u.Role, u.Active)
	return duplicate(err, "Email already registered")
}

// UpdateRole changes the role of a company user.
func (r *UserRepo) UpdateRole(ctx context.Context, companyID, id string, role model.Role) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = ? WHERE company_id = ? AND id = ?`, role, companyID, id)
	if err != nil {
		return err
	}
	return affected(res, "User not found")
}

// Deactivate clears the active flag.  Users are never hard-deleted.
func (r *UserRepo) Deactivate(ctx context.Context, companyID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET active = 0 WHERE company_id = ? AND id = ?`, companyID, id)
	if err != nil {
		return err
	}
	return affected(res, "User not found")
}
