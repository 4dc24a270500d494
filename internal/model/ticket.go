package model

import "time"

// TicketStatus enumerates the lifecycle of a repair ticket.
type TicketStatus string

const (
	TicketNew             TicketStatus = "new"
	TicketInProgress      TicketStatus = "in_progress"
	TicketWaitingForParts TicketStatus = "waiting_for_parts"
	TicketCompleted       TicketStatus = "completed"
	TicketCancelled       TicketStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketNew, TicketInProgress, TicketWaitingForParts, TicketCompleted, TicketCancelled:
		return true
	}
	return false
}

// Active reports whether the ticket still counts as open work.
func (s TicketStatus) Active() bool {
	return s != TicketCompleted && s != TicketCancelled
}

// TicketPriority is low, medium or high.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
)

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Ticket is a repair work order.  CompletedDate is only ever set while
// Status is completed.
type Ticket struct {
	ID                      string         `db:"id" json:"id"`
	CompanyID               string         `db:"company_id" json:"companyId"`
	LocationID              *string        `db:"location_id" json:"locationId"`
	TicketNumber            string         `db:"ticket_number" json:"ticketNumber"`
	CustomerID              string         `db:"customer_id" json:"customerId"`
	TechnicianID            *string        `db:"technician_id" json:"technicianId"`
	Status                  TicketStatus   `db:"status" json:"status"`
	Priority                TicketPriority `db:"priority" json:"priority"`
	DeviceType              string         `db:"device_type" json:"deviceType"`
	DeviceBrand             *string        `db:"device_brand" json:"deviceBrand"`
	DeviceModel             *string        `db:"device_model" json:"deviceModel"`
	SerialNumber            *string        `db:"serial_number" json:"serialNumber"`
	IssueDescription        string         `db:"issue_description" json:"issueDescription"`
	DiagnosticNotes         *string        `db:"diagnostic_notes" json:"diagnosticNotes"`
	RepairNotes             *string        `db:"repair_notes" json:"repairNotes"`
	EstimatedCompletionDate *time.Time     `db:"estimated_completion_date" json:"estimatedCompletionDate"`
	CompletedDate           *time.Time     `db:"completed_date" json:"completedDate"`
	CreatedAt               time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt               time.Time      `db:"updated_at" json:"updatedAt"`
	DeletedAt               *time.Time     `db:"deleted_at" json:"-"`
}

// TicketView is a ticket enriched with its referenced customer and
// technician.  A missing customer renders as null; a missing technician is
// omitted.
type TicketView struct {
	Ticket
	Customer   *CustomerSummary `json:"customer"`
	Technician *UserSummary     `json:"technician,omitempty"`
}
