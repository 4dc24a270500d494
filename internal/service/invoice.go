package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/repository"
)

// InvoiceStore persists invoices.
type InvoiceStore interface {
	List(ctx context.Context, companyID string, f repository.InvoiceFilter) ([]model.Invoice, error)
	Get(ctx context.Context, companyID, id string) (model.Invoice, error)
	Create(ctx context.Context, inv model.Invoice) (model.Invoice, error)
	MarkPaid(ctx context.Context, companyID, id string, at time.Time) (model.Invoice, error)
}

// TicketLookup resolves a live ticket of a company.
type TicketLookup interface {
	Get(ctx context.Context, companyID, id string) (model.Ticket, error)
}

// InvoiceService bills customers.  Only paid invoices feed the revenue
// reports.
type InvoiceService struct {
	base
	invoices  InvoiceStore
	customers CustomerLookup
	tickets   TicketLookup
	locations LocationLookup
}

// NewInvoiceService returns an InvoiceService over invoices.
func NewInvoiceService(invoices InvoiceStore, customers CustomerLookup, tickets TicketLookup, locations LocationLookup, log *zap.Logger) *InvoiceService {
	return &InvoiceService{
		base:      newBase(log, nil),
		invoices:  invoices,
		customers: customers,
		tickets:   tickets,
		locations: locations,
	}
}

// List returns the company's invoices.  An unknown status is rejected.
func (s *InvoiceService) List(ctx context.Context, companyID string, f repository.InvoiceFilter) ([]model.Invoice, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("Invalid status", map[string]string{"status": "must be draft, issued, paid or cancelled"})
	}
	return s.invoices.List(ctx, companyID, f)
}

// Get loads one invoice of the company.
func (s *InvoiceService) Get(ctx context.Context, companyID, id string) (model.Invoice, error) {
	return s.invoices.Get(ctx, companyID, id)
}

// Create issues an invoice in draft (default) or issued state.  A linked
// ticket must belong to the same customer.
func (s *InvoiceService) Create(ctx context.Context, companyID, locationID string, in CreateInvoiceInput) (model.Invoice, error) {
	status := model.InvoiceDraft
	if in.Status != "" {
		status = model.InvoiceStatus(in.Status)
	}
	if status != model.InvoiceDraft && status != model.InvoiceIssued {
		return model.Invoice{}, apperr.Validation("Invalid status", map[string]string{"status": "must be draft or issued"})
	}
	if in.TotalAmount < 0 {
		return model.Invoice{}, apperr.Validation("Total amount cannot be negative", map[string]string{"totalAmount": "must be >= 0"})
	}
	if _, err := s.customers.Get(ctx, companyID, in.CustomerID); err != nil {
		return model.Invoice{}, err
	}
	ticketID := optional(in.TicketID)
	if ticketID != nil {
		t, err := s.tickets.Get(ctx, companyID, *ticketID)
		if err != nil {
			return model.Invoice{}, err
		}
		if t.CustomerID != in.CustomerID {
			return model.Invoice{}, apperr.Validation("Ticket belongs to another customer",
				map[string]string{"ticketId": "must belong to customerId"})
		}
	}
	loc := optional(in.LocationID)
	if loc == nil && locationID != "" {
		loc = &locationID
	}
	if loc != nil {
		if _, err := s.locations.Get(ctx, companyID, *loc); err != nil {
			return model.Invoice{}, err
		}
	}

	inv, err := s.invoices.Create(ctx, model.Invoice{
		ID:          s.newID(),
		CompanyID:   companyID,
		LocationID:  loc,
		CustomerID:  in.CustomerID,
		TicketID:    ticketID,
		Status:      status,
		TotalAmount: in.TotalAmount,
		IssueDate:   s.now(),
		DueDate:     in.DueDate,
	})
	if err != nil {
		return model.Invoice{}, err
	}
	s.log.Info("invoice created", zap.String("invoice_id", inv.ID), zap.String("invoice_number", inv.InvoiceNumber))
	return inv, nil
}

// MarkPaid settles a draft or issued invoice now.
func (s *InvoiceService) MarkPaid(ctx context.Context, companyID, id string) (model.Invoice, error) {
	return s.invoices.MarkPaid(ctx, companyID, id, s.now())
}
