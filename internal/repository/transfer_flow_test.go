package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/repository"
	"github.com/iliyamo/repair-shop/internal/service"
)

var (
	transferCols = []string{"id", "company_id", "from_location_id", "to_location_id", "inventory_item_id", "quantity", "status", "requested_by"}
	itemCols     = []string{"id", "company_id", "location_id", "sku", "name", "quantity", "reorder_level"}
)

func transferService(t *testing.T) (*service.TransferService, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = raw.Close()
	})
	repo := repository.NewTransferRepo(sqlx.NewDb(raw, "mysql"))
	return service.NewTransferService(repo, nil, nil, nil, nil), mock
}

func expectLockedTransfer(mock sqlmock.Sqlmock, status string) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM inventory_transfers WHERE company_id = ? AND id = ? FOR UPDATE")).
		WithArgs("co-1", "tr-1").
		WillReturnRows(sqlmock.NewRows(transferCols).
			AddRow("tr-1", "co-1", "loc-a", "loc-b", "item-a", 5, status, "u-1"))
}

func TestCompleteRollsBackOnInsufficientStock(t *testing.T) {
	svc, mock := transferService(t)

	mock.ExpectBegin()
	expectLockedTransfer(mock, "pending")
	mock.ExpectQuery(regexp.QuoteMeta("FROM inventory_items WHERE company_id = ? AND id = ? AND deleted_at IS NULL FOR UPDATE")).
		WithArgs("co-1", "item-a").
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow("item-a", "co-1", "loc-a", "SKU-1", "Screen", 3, 1))
	mock.ExpectRollback()

	_, err := svc.Complete(context.Background(), "co-1", "tr-1")
	require.ErrorIs(t, err, service.ErrInsufficientStock)
	require.Equal(t, 409, apperr.Status(err))
}

func TestCompleteMovesStockInOneTransaction(t *testing.T) {
	svc, mock := transferService(t)

	mock.ExpectBegin()
	expectLockedTransfer(mock, "pending")
	mock.ExpectQuery(regexp.QuoteMeta("FROM inventory_items WHERE company_id = ? AND id = ?")).
		WithArgs("co-1", "item-a").
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow("item-a", "co-1", "loc-a", "SKU-1", "Screen", 8, 1))
	// The destination does not stock the SKU yet: it is created empty.
	mock.ExpectQuery(regexp.QuoteMeta("WHERE company_id = ? AND location_id = ? AND sku = ? AND deleted_at IS NULL FOR UPDATE")).
		WithArgs("co-1", "loc-b", "SKU-1").
		WillReturnRows(sqlmock.NewRows(itemCols))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO inventory_items")).
		WithArgs(sqlmock.AnyArg(), "co-1", "loc-b", "SKU-1", "Screen", nil, 0, 1, 0.0, 0.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE inventory_items SET quantity = ? WHERE company_id = ? AND id = ?")).
		WithArgs(3, "co-1", "item-a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE inventory_items SET quantity = ?")).
		WithArgs(5, "co-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE inventory_transfers SET status = ?, completed_at = ?")).
		WithArgs("completed", sqlmock.AnyArg(), "co-1", "tr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("FROM inventory_transfers WHERE company_id = ? AND id = ? LIMIT 1")).
		WithArgs("co-1", "tr-1").
		WillReturnRows(sqlmock.NewRows(transferCols).
			AddRow("tr-1", "co-1", "loc-a", "loc-b", "item-a", 5, "completed", "u-1"))

	got, err := svc.Complete(context.Background(), "co-1", "tr-1")
	require.NoError(t, err)
	require.Equal(t, model.TransferCompleted, got.Status)
}

func TestCompleteOfClosedTransferTouchesNoStock(t *testing.T) {
	svc, mock := transferService(t)

	mock.ExpectBegin()
	expectLockedTransfer(mock, "completed")
	mock.ExpectRollback()

	_, err := svc.Complete(context.Background(), "co-1", "tr-1")
	require.ErrorIs(t, err, apperr.ErrConflict)
}
