package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/repair-shop/internal/database"
	"github.com/iliyamo/repair-shop/internal/model"
)

const transferColumns = `id, company_id, from_location_id, to_location_id, inventory_item_id, quantity, status, notes,
	requested_by, completed_at, cancelled_at, created_at, updated_at`

// TransferFilter narrows a transfer listing.
type TransferFilter struct {
	Status         model.TransferStatus
	FromLocationID string
	ToLocationID   string
}

// TransferTx is the set of locking reads and writes a transfer state change
// runs inside one transaction.
type TransferTx interface {
	// LockTransfer reads the transfer and holds its row lock until commit.
	LockTransfer(ctx context.Context, companyID, id string) (model.InventoryTransfer, error)
	LockItem(ctx context.Context, companyID, id string) (model.InventoryItem, error)
	// LockItemBySKU returns a not-found error when the location does not
	// stock sku.
	LockItemBySKU(ctx context.Context, companyID, locationID, sku string) (model.InventoryItem, error)
	InsertItem(ctx context.Context, it model.InventoryItem) error
	SetItemQuantity(ctx context.Context, companyID, id string, qty int) error
	SetStatus(ctx context.Context, companyID, id string, status model.TransferStatus, at time.Time) error
}

// TransferRepo reads and writes inventory transfers.
type TransferRepo struct{ db *sqlx.DB }

// NewTransferRepo returns a TransferRepo over db.
func NewTransferRepo(db *sqlx.DB) *TransferRepo { return &TransferRepo{db: db} }

// List returns the company's transfers, newest first.
func (r *TransferRepo) List(ctx context.Context, companyID string, f TransferFilter) ([]model.InventoryTransfer, error) {
	q := `SELECT ` + transferColumns + ` FROM inventory_transfers WHERE company_id = ?`
	args := []interface{}{companyID}
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.FromLocationID != "" {
		q += ` AND from_location_id = ?`
		args = append(args, f.FromLocationID)
	}
	if f.ToLocationID != "" {
		q += ` AND to_location_id = ?`
		args = append(args, f.ToLocationID)
	}
	q += ` ORDER BY created_at DESC`
	out := []model.InventoryTransfer{}
	err := r.db.SelectContext(ctx, &out, q, args...)
	return out, err
}

// Get loads one transfer of the company.
func (r *TransferRepo) Get(ctx context.Context, companyID, id string) (model.InventoryTransfer, error) {
	var t model.InventoryTransfer
	err := r.db.GetContext(ctx, &t,
		`SELECT `+transferColumns+` FROM inventory_transfers WHERE company_id = ? AND id = ? LIMIT 1`, companyID, id)
	return t, notFound(err, "Transfer not found")
}

// Create inserts a pending transfer and reads it back.
func (r *TransferRepo) Create(ctx context.Context, t model.InventoryTransfer) (model.InventoryTransfer, error) {
	if _, err := r.db.NamedExecContext(ctx,
		`INSERT INTO inventory_transfers (id, company_id, from_location_id, to_location_id, inventory_item_id, quantity, status, notes, requested_by)
		 VALUES (:id, :company_id, :from_location_id, :to_location_id, :inventory_item_id, :quantity, :status, :notes, :requested_by)`,
		t); err != nil {
		return model.InventoryTransfer{}, err
	}
	return r.Get(ctx, t.CompanyID, t.ID)
}

// WithTx runs fn in a transaction.  fn's error rolls everything back.
func (r *TransferRepo) WithTx(ctx context.Context, fn func(TransferTx) error) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&transferTx{tx: tx}) // every lock taken through tx is held until commit
	})
}

// transferTx implements TransferTx over one sqlx transaction.
type transferTx struct{ tx *sqlx.Tx }

// LockTransfer reads the transfer under FOR UPDATE.
func (t *transferTx) LockTransfer(ctx context.Context, companyID, id string) (model.InventoryTransfer, error) {
	var tr model.InventoryTransfer
	err := t.tx.GetContext(ctx, &tr,
		`SELECT `+transferColumns+` FROM inventory_transfers WHERE company_id = ? AND id = ? FOR UPDATE`, companyID, id)
	return tr, notFound(err, "Transfer not found")
}

// LockItem reads a live item under FOR UPDATE.
func (t *transferTx) LockItem(ctx context.Context, companyID, id string) (model.InventoryItem, error) {
	var it model.InventoryItem
	err := t.tx.GetContext(ctx, &it,
		`SELECT `+itemColumns+` FROM inventory_items WHERE company_id = ? AND id = ? AND deleted_at IS NULL FOR UPDATE`,
		companyID, id)
	return it, notFound(err, "Inventory item not found")
}

// LockItemBySKU locks the item stocking sku at locationID, if any.
func (t *transferTx) LockItemBySKU(ctx context.Context, companyID, locationID, sku string) (model.InventoryItem, error) {
	var it model.InventoryItem
	err := t.tx.GetContext(ctx, &it,
		`SELECT `+itemColumns+` FROM inventory_items
		 WHERE company_id = ? AND location_id = ? AND sku = ? AND deleted_at IS NULL FOR UPDATE`,
		companyID, locationID, sku)
	return it, notFound(err, "Inventory item not found")
}

// InsertItem creates the destination item when the SKU is new there.
func (t *transferTx) InsertItem(ctx context.Context, it model.InventoryItem) error {
	return insertItem(ctx, t.tx, it)
}

// SetItemQuantity writes an absolute quantity.  The caller holds the row
// lock, so read-modify-write is safe.
func (t *transferTx) SetItemQuantity(ctx context.Context, companyID, id string, qty int) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE inventory_items SET quantity = ? WHERE company_id = ? AND id = ?`, qty, companyID, id)
	if err != nil {
		return err
	}
	return affected(res, "Inventory item not found")
}

// SetStatus closes the transfer and stamps completed_at or cancelled_at to
// match the new status.
func (t *transferTx) SetStatus(ctx context.Context, companyID, id string, status model.TransferStatus, at time.Time) error {
	q := `UPDATE inventory_transfers SET status = ?, completed_at = ? WHERE company_id = ? AND id = ?`
	if status == model.TransferCancelled {
		q = `UPDATE inventory_transfers SET status = ?, cancelled_at = ? WHERE company_id = ? AND id = ?`
	}
	res, err := t.tx.ExecContext(ctx, q, status, at, companyID, id)
	if err != nil {
		return err
	}
	return affected(res, "Transfer not found")
}
