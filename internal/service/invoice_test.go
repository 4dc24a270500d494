package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/repository"
)

type memInvoices struct{ m map[string]model.Invoice }

func (s *memInvoices) List(ctx context.Context, companyID string, f repository.InvoiceFilter) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range s.m {
		if inv.CompanyID == companyID && (f.Status == "" || inv.Status == f.Status) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (s *memInvoices) Get(ctx context.Context, companyID, id string) (model.Invoice, error) {
	inv, ok := s.m[id]
	if !ok || inv.CompanyID != companyID {
		return model.Invoice{}, apperr.NotFound("Invoice not found")
	}
	return inv, nil
}

func (s *memInvoices) Create(ctx context.Context, inv model.Invoice) (model.Invoice, error) {
	inv.InvoiceNumber = repository.InvoiceNumber(inv.IssueDate, len(s.m)+1)
	s.m[inv.ID] = inv
	return inv, nil
}

func (s *memInvoices) MarkPaid(ctx context.Context, companyID, id string, at time.Time) (model.Invoice, error) {
	inv, err := s.Get(ctx, companyID, id)
	if err != nil {
		return model.Invoice{}, err
	}
	if inv.Status != model.InvoiceDraft && inv.Status != model.InvoiceIssued {
		return model.Invoice{}, apperr.Conflict(fmt.Sprintf("Invoice is %s and cannot be paid", inv.Status))
	}
	inv.Status, inv.PaidDate = model.InvoicePaid, &at
	s.m[id] = inv
	return inv, nil
}

func newInvoiceFixture(t *testing.T) (*InvoiceService, string) {
	t.Helper()
	customers := newMemCustomers(
		model.Customer{ID: "cust-1", CompanyID: companyA, Email: "a@example.com"},
		model.Customer{ID: "cust-2", CompanyID: companyA, Email: "b@example.com"},
	)
	tickets := newMemTickets()
	tk, err := tickets.Create(context.Background(), model.Ticket{ID: "ticket-1", CompanyID: companyA, CustomerID: "cust-1", CreatedAt: time.Now()})
	require.NoError(t, err)
	svc := NewInvoiceService(&memInvoices{m: map[string]model.Invoice{}}, customers, tickets, newMemLocations(), nil)
	return svc, tk.ID
}

func TestCreateInvoiceDefaultsToDraft(t *testing.T) {
	svc, ticketID := newInvoiceFixture(t)
	inv, err := svc.Create(context.Background(), companyA, "", CreateInvoiceInput{
		CustomerID: "cust-1", TicketID: &ticketID, TotalAmount: 149.99,
	})
	require.NoError(t, err)
	require.Equal(t, model.InvoiceDraft, inv.Status)
	require.Regexp(t, `^INV-\d{8}-001$`, inv.InvoiceNumber)
	require.Nil(t, inv.PaidDate)
}

func TestCreateInvoiceValidation(t *testing.T) {
	svc, ticketID := newInvoiceFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, companyA, "", CreateInvoiceInput{CustomerID: "cust-1", Status: "paid"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Create(ctx, companyA, "", CreateInvoiceInput{CustomerID: "cust-2", TicketID: &ticketID})
	require.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Create(ctx, companyA, "", CreateInvoiceInput{CustomerID: "ghost"})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.Create(ctx, companyB, "", CreateInvoiceInput{CustomerID: "cust-1"})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMarkPaidOnlyOnce(t *testing.T) {
	svc, _ := newInvoiceFixture(t)
	ctx := context.Background()
	inv, err := svc.Create(ctx, companyA, "", CreateInvoiceInput{CustomerID: "cust-1", Status: "issued", TotalAmount: 80})
	require.NoError(t, err)

	paid, err := svc.MarkPaid(ctx, companyA, inv.ID)
	require.NoError(t, err)
	require.Equal(t, model.InvoicePaid, paid.Status)
	require.NotNil(t, paid.PaidDate)

	_, err = svc.MarkPaid(ctx, companyA, inv.ID)
	require.ErrorIs(t, err, apperr.ErrConflict)
}
