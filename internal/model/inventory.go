package model

import "time"

// InventoryItem is a stock record for one SKU at one location of a company.
type InventoryItem struct {
	ID           string     `db:"id" json:"id"`
	CompanyID    string     `db:"company_id" json:"companyId"`
	LocationID   *string    `db:"location_id" json:"locationId"`
	SKU          string     `db:"sku" json:"sku"`
	Name         string     `db:"name" json:"name"`
	Category     *string    `db:"category" json:"category"`
	Quantity     int        `db:"quantity" json:"quantity"`
	ReorderLevel int        `db:"reorder_level" json:"reorderLevel"`
	UnitCost     float64    `db:"unit_cost" json:"unitCost"`
	SellingPrice float64    `db:"selling_price" json:"sellingPrice"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`
}

// LowStock reports whether the item has fallen below its reorder level.
func (i InventoryItem) LowStock() bool { return i.Quantity < i.ReorderLevel }

// TransferStatus is the state of an inventory transfer.  pending is the
// only non-terminal state.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
)

// Valid reports whether s is a known transfer status.
func (s TransferStatus) Valid() bool {
	return s == TransferPending || s == TransferCompleted || s == TransferCancelled
}

// InventoryTransfer moves Quantity units of an item from one location to
// another.  Stock changes only when the transfer completes.
type InventoryTransfer struct {
	ID              string         `db:"id" json:"id"`
	CompanyID       string         `db:"company_id" json:"companyId"`
	FromLocationID  string         `db:"from_location_id" json:"fromLocationId"`
	ToLocationID    string         `db:"to_location_id" json:"toLocationId"`
	InventoryItemID string         `db:"inventory_item_id" json:"inventoryItemId"`
	Quantity        int            `db:"quantity" json:"quantity"`
	Status          TransferStatus `db:"status" json:"status"`
	Notes           *string        `db:"notes" json:"notes"`
	RequestedBy     string         `db:"requested_by" json:"requestedBy"`
	CompletedAt     *time.Time     `db:"completed_at" json:"completedAt"`
	CancelledAt     *time.Time     `db:"cancelled_at" json:"cancelledAt"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updatedAt"`
}
