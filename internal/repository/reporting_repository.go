package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/repair-shop/internal/model"
)

// Bucket is the granularity of the revenue series.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
)

// Valid reports whether b is a known bucket.
func (b Bucket) Valid() bool { return b == BucketDay || b == BucketWeek || b == BucketMonth }

// bucketExpr renders paid_date as the first day of its bucket.  Weeks start
// on Monday.
var bucketExpr = map[Bucket]string{
	BucketDay:   `DATE_FORMAT(paid_date, '%Y-%m-%d')`,
	BucketWeek:  `DATE_FORMAT(DATE_SUB(DATE(paid_date), INTERVAL WEEKDAY(paid_date) DAY), '%Y-%m-%d')`,
	BucketMonth: `DATE_FORMAT(paid_date, '%Y-%m-01')`,
}

// ReportingRepo runs the read-side aggregates.  Ranges are half open:
// from is inclusive, to exclusive.
type ReportingRepo struct{ db *sqlx.DB }

// NewReportingRepo returns a ReportingRepo over db.
func NewReportingRepo(db *sqlx.DB) *ReportingRepo { return &ReportingRepo{db: db} }

const paidInvoices = `FROM invoices WHERE company_id = ? AND status = 'paid' AND paid_date IS NOT NULL
	AND deleted_at IS NULL AND paid_date >= ? AND paid_date < ?`

// Revenue sums paid invoices in [from, to).
func (r *ReportingRepo) Revenue(ctx context.Context, companyID, locationID string, from, to time.Time) (float64, error) {
	q := `SELECT COALESCE(SUM(total_amount), 0) ` + paidInvoices
	args := []interface{}{companyID, from, to}
	if locationID != "" {
		q += ` AND location_id = ?`
		args = append(args, locationID)
	}
	var sum float64
	err := r.db.GetContext(ctx, &sum, q, args...)
	return sum, err
}

// LowStockCount counts live items below their reorder level.
func (r *ReportingRepo) LowStockCount(ctx context.Context, companyID, locationID string) (int, error) {
	q := `SELECT COUNT(*) FROM inventory_items WHERE company_id = ? AND deleted_at IS NULL AND quantity < reorder_level`
	args := []interface{}{companyID}
	if locationID != "" {
		q += ` AND location_id = ?`
		args = append(args, locationID)
	}
	var n int
	err := r.db.GetContext(ctx, &n, q, args...)
	return n, err
}

// ActiveTicketCount counts live tickets that are neither completed nor
// cancelled.
func (r *ReportingRepo) ActiveTicketCount(ctx context.Context, companyID, locationID string) (int, error) {
	q := `SELECT COUNT(*) FROM tickets WHERE company_id = ? AND deleted_at IS NULL AND status NOT IN ('completed', 'cancelled')`
	args := []interface{}{companyID}
	if locationID != "" {
		q += ` AND location_id = ?`
		args = append(args, locationID)
	}
	var n int
	err := r.db.GetContext(ctx, &n, q, args...)
	return n, err
}

// CustomerCount counts the company's live customers.  Customers belong to
// the whole company so there is no location filter.
func (r *ReportingRepo) CustomerCount(ctx context.Context, companyID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM customers WHERE company_id = ? AND deleted_at IS NULL`, companyID)
	return n, err
}

// RevenueSeries returns paid revenue in [from, to) grouped by bucket in
// ascending order.  Buckets without revenue are absent.
func (r *ReportingRepo) RevenueSeries(ctx context.Context, companyID, locationID string, from, to time.Time, b Bucket) ([]model.RevenuePoint, error) {
	expr, ok := bucketExpr[b]
	if !ok { // unknown buckets group by day
		expr = bucketExpr[BucketDay]
	}
	q := `SELECT ` + expr + ` AS period, COALESCE(SUM(total_amount), 0) AS revenue ` + paidInvoices
	args := []interface{}{companyID, from, to}
	if locationID != "" {
		q += ` AND location_id = ?`
		args = append(args, locationID)
	}
	q += ` GROUP BY period ORDER BY period` // YYYY-MM-DD labels sort chronologically
	out := []model.RevenuePoint{}
	err := r.db.SelectContext(ctx, &out, q, args...)
	return out, err
}
