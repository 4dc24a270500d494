package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/database"
	"github.com/iliyamo/repair-shop/internal/model"
)

const invoiceColumns = `id, company_id, location_id, invoice_number, customer_id, ticket_id, status, total_amount,
	issue_date, due_date, paid_date, created_at, updated_at, deleted_at`

// InvoiceFilter narrows an invoice listing.
type InvoiceFilter struct {
	Status     model.InvoiceStatus
	CustomerID string
	LocationID string
}

// InvoiceRepo reads and writes invoices.
type InvoiceRepo struct{ db *sqlx.DB }

// NewInvoiceRepo returns an InvoiceRepo over db.
func NewInvoiceRepo(db *sqlx.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

// List returns the company's live invoices, newest issue date first.
func (r *InvoiceRepo) List(ctx context.Context, companyID string, f InvoiceFilter) ([]model.Invoice, error) {
	q := `SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id = ? AND deleted_at IS NULL`
	args := []interface{}{companyID}
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.CustomerID != "" {
		q += ` AND customer_id = ?`
		args = append(args, f.CustomerID)
	}
	if f.LocationID != "" {
		q += ` AND location_id = ?`
		args = append(args, f.LocationID)
	}
	q += ` ORDER BY issue_date DESC, invoice_number DESC`
	out := []model.Invoice{}
	err := r.db.SelectContext(ctx, &out, q, args...)
	return out, err
}

// Get loads a live invoice of the company.
func (r *InvoiceRepo) Get(ctx context.Context, companyID, id string) (model.Invoice, error) {
	var inv model.Invoice
	err := r.db.GetContext(ctx, &inv,
		`SELECT `+invoiceColumns+` FROM invoices WHERE company_id = ? AND id = ? AND deleted_at IS NULL LIMIT 1`,
		companyID, id)
	return inv, notFound(err, "Invoice not found")
}

// InvoiceNumber formats the n-th invoice number of day.
func InvoiceNumber(day time.Time, n int) string {
	return fmt.Sprintf("INV-%s-%03d", day.UTC().Format("20060102"), n)
}

// Create numbers and inserts inv the same way tickets are numbered: company
// lock first, then the day's count, then the insert.
func (r *InvoiceRepo) Create(ctx context.Context, inv model.Invoice) (model.Invoice, error) {
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockCompany(ctx, tx, inv.CompanyID); err != nil {
			return err
		}

		// Numbers are per issue day, soft-deleted invoices included.
		var n int
		if err := tx.GetContext(ctx, &n,
			`SELECT COUNT(*) FROM invoices WHERE company_id = ? AND invoice_number LIKE ?`,
			inv.CompanyID, "INV-"+inv.IssueDate.UTC().Format("20060102")+"-%"); err != nil {
			return err
		}
		inv.InvoiceNumber = InvoiceNumber(inv.IssueDate, n+1)
		_, err := tx.NamedExecContext(ctx,
			`INSERT INTO invoices (id, company_id, location_id, invoice_number, customer_id, ticket_id, status,
			   total_amount, issue_date, due_date, paid_date)
			 VALUES (:id, :company_id, :location_id, :invoice_number, :customer_id, :ticket_id, :status,
			   :total_amount, :issue_date, :due_date, :paid_date)`, inv)
		return duplicate(err, "Invoice number already taken, retry")
	})
	if err != nil {
		return model.Invoice{}, err
	}
	return r.Get(ctx, inv.CompanyID, inv.ID)
}

// MarkPaid moves a draft or issued invoice to paid at the given time.
func (r *InvoiceRepo) MarkPaid(ctx context.Context, companyID, id string, at time.Time) (model.Invoice, error) {
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var status model.InvoiceStatus
		err := tx.GetContext(ctx, &status,
			`SELECT status FROM invoices WHERE company_id = ? AND id = ? AND deleted_at IS NULL FOR UPDATE`,
			companyID, id)
		if err != nil {
			return notFound(err, "Invoice not found")
		}
		if status != model.InvoiceDraft && status != model.InvoiceIssued {
			return apperr.Conflict(fmt.Sprintf("Invoice is %s and cannot be paid", status))
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE invoices SET status = ?, paid_date = ? WHERE company_id = ? AND id = ?`,
			model.InvoicePaid, at, companyID, id)
		return err
	})
	if err != nil {
		return model.Invoice{}, err
	}
	return r.Get(ctx, companyID, id)
}
