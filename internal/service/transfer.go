package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/queue"
	"github.com/iliyamo/repair-shop/internal/repository"
)

// TransferStore persists transfers and runs state changes transactionally.
type TransferStore interface {
	List(ctx context.Context, companyID string, f repository.TransferFilter) ([]model.InventoryTransfer, error)
	Get(ctx context.Context, companyID, id string) (model.InventoryTransfer, error)
	Create(ctx context.Context, t model.InventoryTransfer) (model.InventoryTransfer, error)
	WithTx(ctx context.Context, fn func(repository.TransferTx) error) error
}

// ItemLookup resolves an inventory item of a company.
type ItemLookup interface {
	Get(ctx context.Context, companyID, id string) (model.InventoryItem, error)
}

// ErrInsufficientStock is returned when completing a transfer whose source
// no longer holds enough units.
var ErrInsufficientStock = apperr.Conflict("Insufficient stock")

// TransferService runs the pending -> completed | cancelled workflow.
// Stock only moves on completion.
type TransferService struct {
	base
	transfers TransferStore
	items     ItemLookup
	locations LocationLookup
}

// NewTransferService returns a TransferService.  The lookups validate new
// transfers; completion only needs transfers.
func NewTransferService(transfers TransferStore, items ItemLookup, locations LocationLookup, events Publisher, log *zap.Logger) *TransferService {
	return &TransferService{
		base:      newBase(log, events),
		transfers: transfers,
		items:     items,
		locations: locations,
	}
}

// List returns the company's transfers.  An unknown status is rejected.
func (s *TransferService) List(ctx context.Context, companyID string, f repository.TransferFilter) ([]model.InventoryTransfer, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("Invalid status", map[string]string{"status": "must be pending, completed or cancelled"})
	}
	return s.transfers.List(ctx, companyID, f)
}

// Get loads one transfer of the company.
func (s *TransferService) Get(ctx context.Context, companyID, id string) (model.InventoryTransfer, error) {
	return s.transfers.Get(ctx, companyID, id)
}

// Create records a pending transfer requested by userID.  locationID is the
// request's location context, used as the source when the payload has none.
func (s *TransferService) Create(ctx context.Context, companyID, userID, locationID string, in CreateTransferInput) (model.InventoryTransfer, error) {
	from := in.FromLocationID
	if from == "" {
		from = locationID
	}
	if from == "" {
		return model.InventoryTransfer{}, apperr.Validation("Source location is required",
			map[string]string{"fromLocationId": "required when no location context is set"})
	}
	if in.Quantity <= 0 {
		return model.InventoryTransfer{}, apperr.Validation("Quantity must be positive",
			map[string]string{"quantity": "must be greater than 0"})
	}
	if from == in.ToLocationID {
		return model.InventoryTransfer{}, apperr.Validation("Source and destination locations must differ",
			map[string]string{"toLocationId": "must differ from fromLocationId"})
	}
	// Both ends must be company locations and the item must sit at the source.
	for _, id := range []string{from, in.ToLocationID} {
		if _, err := s.locations.Get(ctx, companyID, id); err != nil {
			return model.InventoryTransfer{}, err
		}
	}
	item, err := s.items.Get(ctx, companyID, in.InventoryItemID)
	if err != nil {
		return model.InventoryTransfer{}, err
	}
	if item.LocationID == nil || *item.LocationID != from {
		return model.InventoryTransfer{}, apperr.NotFound("Inventory item not found at source location")
	}

	t, err := s.transfers.Create(ctx, model.InventoryTransfer{
		ID:              s.newID(),
		CompanyID:       companyID,
		FromLocationID:  from,
		ToLocationID:    in.ToLocationID,
		InventoryItemID: item.ID,
		Quantity:        in.Quantity,
		Status:          model.TransferPending,
		Notes:           optional(in.Notes),
		RequestedBy:     userID,
	})
	if err != nil {
		return model.InventoryTransfer{}, err
	}
	s.log.Info("transfer requested", zap.String("transfer_id", t.ID), zap.String("sku", item.SKU), zap.Int("qty", t.Quantity))
	return t, nil
}

func notPending(t model.InventoryTransfer, action string) error {
	return apperr.Conflict(fmt.Sprintf("Cannot %s a %s transfer", action, t.Status))
}

// Complete moves the stock and closes the transfer in one transaction.  The
// state is re-read under a row lock, so of two concurrent calls only one
// sees pending.
func (s *TransferService) Complete(ctx context.Context, companyID, id string) (model.InventoryTransfer, error) {
	var (
		done model.InventoryTransfer
		sku  string
	)
	err := s.transfers.WithTx(ctx, func(tx repository.TransferTx) error {
		t, err := tx.LockTransfer(ctx, companyID, id)
		if err != nil {
			return err
		}
		if t.Status != model.TransferPending {
			return notPending(t, "complete")
		}
		// Lock order is transfer, source item, destination item.
		src, err := tx.LockItem(ctx, companyID, t.InventoryItemID)
		if err != nil {
			return err
		}
		if src.Quantity < t.Quantity {
			return ErrInsufficientStock
		}
		dst, err := tx.LockItemBySKU(ctx, companyID, t.ToLocationID, src.SKU)
		switch {
		case errors.Is(err, apperr.ErrNotFound): // first stock of this SKU at the destination
			dst = src
			dst.ID = s.newID()
			dst.LocationID = &t.ToLocationID
			dst.Quantity = 0
			if err := tx.InsertItem(ctx, dst); err != nil {
				return err
			}
		case err != nil:
			return err
		}

		// Move the stock, then close the transfer.
		if err := tx.SetItemQuantity(ctx, companyID, src.ID, src.Quantity-t.Quantity); err != nil {
			return err
		}
		if err := tx.SetItemQuantity(ctx, companyID, dst.ID, dst.Quantity+t.Quantity); err != nil {
			return err
		}
		now := s.now()
		if err := tx.SetStatus(ctx, companyID, t.ID, model.TransferCompleted, now); err != nil {
			return err
		}
		t.Status, t.CompletedAt = model.TransferCompleted, &now
		done, sku = t, src.SKU
		return nil
	})
	if err != nil {
		return model.InventoryTransfer{}, err
	}

	// Committed: log and publish, then return the stored row.
	s.log.Info("transfer completed", zap.String("transfer_id", done.ID), zap.String("sku", sku), zap.Int("qty", done.Quantity))
	s.publish(ctx, queue.TransferCompletedEvent{
		TransferID:      done.ID,
		CompanyID:       companyID,
		FromLocationID:  done.FromLocationID,
		ToLocationID:    done.ToLocationID,
		InventoryItemID: done.InventoryItemID,
		SKU:             sku,
		Quantity:        done.Quantity,
		CompletedAt:     done.CompletedAt.Format(time.RFC3339),
	})
	return s.transfers.Get(ctx, companyID, id)
}

// Cancel closes a pending transfer without touching stock.
func (s *TransferService) Cancel(ctx context.Context, companyID, id string) (model.InventoryTransfer, error) {
	err := s.transfers.WithTx(ctx, func(tx repository.TransferTx) error {
		t, err := tx.LockTransfer(ctx, companyID, id)
		if err != nil {
			return err
		}
		if t.Status != model.TransferPending {
			return notPending(t, "cancel")
		}
		return tx.SetStatus(ctx, companyID, t.ID, model.TransferCancelled, s.now())
	})
	if err != nil {
		return model.InventoryTransfer{}, err
	}
	s.log.Info("transfer cancelled", zap.String("transfer_id", id))
	return s.transfers.Get(ctx, companyID, id)
}
