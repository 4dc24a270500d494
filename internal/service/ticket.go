package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/queue"
	"github.com/iliyamo/repair-shop/internal/repository"
)

// TicketStore persists tickets.
type TicketStore interface {
	List(ctx context.Context, companyID string, f repository.TicketFilter) ([]model.Ticket, error)
	Get(ctx context.Context, companyID, id string) (model.Ticket, error)
	Create(ctx context.Context, t model.Ticket) (model.Ticket, error)
	Update(ctx context.Context, t model.Ticket) (model.Ticket, error)
	SoftDelete(ctx context.Context, companyID, id string) error
}

// TicketService manages repair tickets and renders them with their
// customer and technician.
type TicketService struct {
	base
	tickets   TicketStore
	customers CustomerLookup
	users     UserLookup
	locations LocationLookup
}

// NewTicketService wires the ticket store with the lookups used to check
// references.
func NewTicketService(tickets TicketStore, customers CustomerLookup, users UserLookup, locations LocationLookup, events Publisher, log *zap.Logger) *TicketService {
	return &TicketService{
		base:      newBase(log, events),
		tickets:   tickets,
		customers: customers,
		users:     users,
		locations: locations,
	}
}

// List returns the company's tickets, newest first.
func (s *TicketService) List(ctx context.Context, companyID string, f repository.TicketFilter) ([]model.TicketView, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("Invalid status", map[string]string{"status": "unknown status"})
	}
	tickets, err := s.tickets.List(ctx, companyID, f)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, companyID, tickets)
}

// Get loads one ticket with its customer and technician summaries.
func (s *TicketService) Get(ctx context.Context, companyID, id string) (model.TicketView, error) {
	t, err := s.tickets.Get(ctx, companyID, id)
	if err != nil {
		return model.TicketView{}, err
	}
	views, err := s.enrich(ctx, companyID, []model.Ticket{t})
	if err != nil {
		return model.TicketView{}, err
	}
	return views[0], nil
}

// enrich attaches customers and technicians with one lookup per kind over
// the distinct ids referenced by tickets.  Dangling references stay empty.
func (s *TicketService) enrich(ctx context.Context, companyID string, tickets []model.Ticket) ([]model.TicketView, error) {
	// Collect the distinct ids.
	var customerIDs, techIDs []string
	seenC, seenT := map[string]bool{}, map[string]bool{}
	for _, t := range tickets {
		if !seenC[t.CustomerID] {
			seenC[t.CustomerID] = true
			customerIDs = append(customerIDs, t.CustomerID)
		}
		if t.TechnicianID != nil && !seenT[*t.TechnicianID] {
			seenT[*t.TechnicianID] = true
			techIDs = append(techIDs, *t.TechnicianID)
		}
	}

	// One batched query per kind.
	customers, err := s.customers.FindMany(ctx, companyID, customerIDs)
	if err != nil {
		return nil, err
	}
	techs, err := s.users.FindMany(ctx, companyID, techIDs)
	if err != nil {
		return nil, err
	}
	byCustomer := make(map[string]model.CustomerSummary, len(customers))
	for _, c := range customers {
		byCustomer[c.ID] = c.Summary()
	}
	byTech := make(map[string]model.UserSummary, len(techs))
	for _, u := range techs {
		byTech[u.ID] = u.Summary()
	}

	// Attach in the tickets' order.
	views := make([]model.TicketView, len(tickets))
	for i, t := range tickets {
		views[i].Ticket = t
		if c, ok := byCustomer[t.CustomerID]; ok {
			views[i].Customer = &c
		}
		if t.TechnicianID != nil {
			if u, ok := byTech[*t.TechnicianID]; ok {
				views[i].Technician = &u
			}
		}
	}
	return views, nil
}

// checkTechnician requires id to be an active user of the company.
func (s *TicketService) checkTechnician(ctx context.Context, companyID, id string) error {
	u, err := s.users.Get(ctx, companyID, id)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	if err != nil || !u.Active {
		return apperr.Validation("Invalid technician", map[string]string{"technicianId": "must be an active user of the company"})
	}
	return nil
}

// Create opens a ticket in status new.  locationID is the request's
// location context and is used when the payload names none.
func (s *TicketService) Create(ctx context.Context, companyID, locationID string, in CreateTicketInput) (model.TicketView, error) {
	// References must belong to the company.
	if _, err := s.customers.Get(ctx, companyID, in.CustomerID); err != nil {
		return model.TicketView{}, err
	}
	techID := optional(in.TechnicianID)
	if techID != nil {
		if err := s.checkTechnician(ctx, companyID, *techID); err != nil {
			return model.TicketView{}, err
		}
	}
	loc := optional(in.LocationID)
	if loc == nil && locationID != "" {
		loc = &locationID
	}
	if loc != nil {
		if _, err := s.locations.Get(ctx, companyID, *loc); err != nil {
			return model.TicketView{}, err
		}
	}
	priority := model.PriorityMedium
	if in.Priority != "" {
		priority = model.TicketPriority(in.Priority)
		if !priority.Valid() {
			return model.TicketView{}, apperr.Validation("Invalid priority", map[string]string{"priority": "must be low, medium or high"})
		}
	}

	// The repository assigns the ticket number.
	now := s.now()
	t, err := s.tickets.Create(ctx, model.Ticket{
		ID:                      s.newID(),
		CompanyID:               companyID,
		LocationID:              loc,
		CustomerID:              in.CustomerID,
		TechnicianID:            techID,
		Status:                  model.TicketNew,
		Priority:                priority,
		DeviceType:              in.DeviceType,
		DeviceBrand:             optional(in.DeviceBrand),
		DeviceModel:             optional(in.DeviceModel),
		SerialNumber:            optional(in.SerialNumber),
		IssueDescription:        in.IssueDescription,
		DiagnosticNotes:         optional(in.DiagnosticNotes),
		EstimatedCompletionDate: in.EstimatedCompletionDate,
		CreatedAt:               now,
		UpdatedAt:               now,
	})
	if err != nil {
		return model.TicketView{}, err
	}
	s.log.Info("ticket created", zap.String("ticket_id", t.ID), zap.String("ticket_number", t.TicketNumber))
	return s.Get(ctx, companyID, t.ID)
}

// Update applies the non-nil fields of in.  Entering completed stamps
// CompletedDate unless one is supplied; leaving completed clears it.
func (s *TicketService) Update(ctx context.Context, companyID, id string, in UpdateTicketInput) (model.TicketView, error) {
	t, err := s.tickets.Get(ctx, companyID, id)
	if err != nil {
		return model.TicketView{}, err
	}
	prev := t.Status

	if in.TechnicianID != nil {
		t.TechnicianID = optional(in.TechnicianID)
		if t.TechnicianID != nil {
			if err := s.checkTechnician(ctx, companyID, *t.TechnicianID); err != nil {
				return model.TicketView{}, err
			}
		}
	}
	if in.Status != nil {
		st := model.TicketStatus(*in.Status)
		if !st.Valid() {
			return model.TicketView{}, apperr.Validation("Invalid status", map[string]string{"status": "unknown status"})
		}
		t.Status = st
	}
	if in.Priority != nil {
		p := model.TicketPriority(*in.Priority)
		if !p.Valid() {
			return model.TicketView{}, apperr.Validation("Invalid priority", map[string]string{"priority": "must be low, medium or high"})
		}
		t.Priority = p
	}
	if in.DeviceType != nil {
		t.DeviceType = *in.DeviceType
	}
	setOptional(&t.DeviceBrand, in.DeviceBrand)
	setOptional(&t.DeviceModel, in.DeviceModel)
	setOptional(&t.SerialNumber, in.SerialNumber)
	if in.IssueDescription != nil {
		t.IssueDescription = *in.IssueDescription
	}
	setOptional(&t.DiagnosticNotes, in.DiagnosticNotes)
	setOptional(&t.RepairNotes, in.RepairNotes)
	if in.EstimatedCompletionDate != nil {
		t.EstimatedCompletionDate = in.EstimatedCompletionDate
	}
	applyCompletion(&t, in.CompletedDate, s.now()) // after the status is final

	if _, err := s.tickets.Update(ctx, t); err != nil {
		return model.TicketView{}, err
	}
	// Only a status change is announced.
	if t.Status != prev {
		s.publish(ctx, queue.TicketStatusChangedEvent{
			TicketID:     t.ID,
			TicketNumber: t.TicketNumber,
			CompanyID:    companyID,
			From:         string(prev),
			To:           string(t.Status),
			ChangedAt:    s.now().Format(time.RFC3339),
		})
	}
	return s.Get(ctx, companyID, id)
}

// applyCompletion keeps CompletedDate set exactly while the ticket is
// completed.
func applyCompletion(t *model.Ticket, supplied *time.Time, now time.Time) {
	if t.Status != model.TicketCompleted {
		t.CompletedDate = nil
		return
	}
	switch {
	case supplied != nil:
		t.CompletedDate = supplied
	case t.CompletedDate == nil:
		t.CompletedDate = &now
	}
}

// Delete soft-deletes the ticket.  Deleting it again reports not found.
func (s *TicketService) Delete(ctx context.Context, companyID, id string) error {
	return s.tickets.SoftDelete(ctx, companyID, id)
}
