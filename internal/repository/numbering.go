package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// lockCompany takes the row lock of the company inside tx.  Ticket and
// invoice numbering count the day's rows after this lock, so concurrent
// creates of one company run one after another.  Counting with FOR UPDATE
// alone only takes gap locks on an empty day, and two such transactions
// deadlock on their inserts.
func lockCompany(ctx context.Context, tx *sqlx.Tx, companyID string) error {
	var id string
	err := tx.GetContext(ctx, &id, `SELECT id FROM companies WHERE id = ? FOR UPDATE`, companyID)
	return notFound(err, "Company not found")
}
