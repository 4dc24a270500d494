package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/repair-shop/internal/database"
	"github.com/iliyamo/repair-shop/internal/model"
)

const ticketColumns = `id, company_id, location_id, ticket_number, customer_id, technician_id, status, priority,
	device_type, device_brand, device_model, serial_number, issue_description, diagnostic_notes, repair_notes,
	estimated_completion_date, completed_date, created_at, updated_at, deleted_at`

// TicketFilter narrows a ticket listing.  Empty fields do not filter.
type TicketFilter struct {
	CustomerID string
	Status     model.TicketStatus
	LocationID string
}

// TicketRepo reads and writes repair tickets.
type TicketRepo struct{ db *sqlx.DB }

// NewTicketRepo returns a TicketRepo over db.
func NewTicketRepo(db *sqlx.DB) *TicketRepo { return &TicketRepo{db: db} }

// List returns the company's live tickets, newest first.
func (r *TicketRepo) List(ctx context.Context, companyID string, f TicketFilter) ([]model.Ticket, error) {
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE company_id = ? AND deleted_at IS NULL`
	args := []interface{}{companyID}
	if f.CustomerID != "" {
		q += ` AND customer_id = ?`
		args = append(args, f.CustomerID)
	}
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.LocationID != "" {
		q += ` AND location_id = ?`
		args = append(args, f.LocationID)
	}
	q += ` ORDER BY created_at DESC, ticket_number DESC`
	out := []model.Ticket{}
	err := r.db.SelectContext(ctx, &out, q, args...)
	return out, err
}

// Get loads a live ticket of the company.
func (r *TicketRepo) Get(ctx context.Context, companyID, id string) (model.Ticket, error) {
	var t model.Ticket
	err := r.db.GetContext(ctx, &t,
		`SELECT `+ticketColumns+` FROM tickets WHERE company_id = ? AND id = ? AND deleted_at IS NULL LIMIT 1`,
		companyID, id)
	return t, notFound(err, "Ticket not found")
}

// ticketPrefix is the LIKE prefix shared by all tickets of day.
func ticketPrefix(day time.Time) string { return "TKT-" + day.UTC().Format("20060102") + "-" }

// TicketNumber formats the n-th ticket number of day, e.g. TKT-20240115-007.
func TicketNumber(day time.Time, n int) string {
	return fmt.Sprintf("%s%03d", ticketPrefix(day), n)
}

// Create assigns the next ticket number of the day and inserts t.  The
// company lock, the counter read and the insert share a transaction, so
// concurrent intakes of one company queue behind each other.
func (r *TicketRepo) Create(ctx context.Context, t model.Ticket) (model.Ticket, error) {
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockCompany(ctx, tx, t.CompanyID); err != nil {
			return err
		}

		// Soft-deleted tickets keep their numbers, so they are counted too.
		var n int
		if err := tx.GetContext(ctx, &n,
			`SELECT COUNT(*) FROM tickets WHERE company_id = ? AND ticket_number LIKE ?`,
			t.CompanyID, ticketPrefix(t.CreatedAt)+"%"); err != nil {
			return err
		}
		t.TicketNumber = TicketNumber(t.CreatedAt, n+1)
		_, err := tx.NamedExecContext(ctx,
			`INSERT INTO tickets (id, company_id, location_id, ticket_number, customer_id, technician_id, status, priority,
			   device_type, device_brand, device_model, serial_number, issue_description, diagnostic_notes, repair_notes,
			   estimated_completion_date, completed_date, created_at, updated_at)
			 VALUES (:id, :company_id, :location_id, :ticket_number, :customer_id, :technician_id, :status, :priority,
			   :device_type, :device_brand, :device_model, :serial_number, :issue_description, :diagnostic_notes, :repair_notes,
			   :estimated_completion_date, :completed_date, :created_at, :updated_at)`, t)
		return duplicate(err, "Ticket number already taken, retry")
	})
	if err != nil {
		return model.Ticket{}, err
	}
	return r.Get(ctx, t.CompanyID, t.ID)
}

// Update writes every mutable column of t.
func (r *TicketRepo) Update(ctx context.Context, t model.Ticket) (model.Ticket, error) {
	res, err := r.db.NamedExecContext(ctx,
		`UPDATE tickets SET location_id = :location_id, technician_id = :technician_id, status = :status,
		        priority = :priority, device_type = :device_type, device_brand = :device_brand,
		        device_model = :device_model, serial_number = :serial_number, issue_description = :issue_description,
		        diagnostic_notes = :diagnostic_notes, repair_notes = :repair_notes,
		        estimated_completion_date = :estimated_completion_date, completed_date = :completed_date
		 WHERE company_id = :company_id AND id = :id AND deleted_at IS NULL`, t)
	if err != nil {
		return model.Ticket{}, err
	}
	if err := affected(res, "Ticket not found"); err != nil {
		return model.Ticket{}, err
	}
	return r.Get(ctx, t.CompanyID, t.ID)
}

// SoftDelete marks the ticket deleted.  A second call reports not found.
func (r *TicketRepo) SoftDelete(ctx context.Context, companyID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET deleted_at = UTC_TIMESTAMP() WHERE company_id = ? AND id = ? AND deleted_at IS NULL`,
		companyID, id)
	if err != nil {
		return err
	}
	return affected(res, "Ticket not found")
}
