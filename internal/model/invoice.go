package model

import "time"

// InvoiceStatus enumerates invoice states.  Only paid invoices count as
// revenue.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceIssued    InvoiceStatus = "issued"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceIssued, InvoicePaid, InvoiceCancelled:
		return true
	}
	return false
}

// Invoice is a billing record for a customer, optionally tied to a ticket.
type Invoice struct {
	ID            string        `db:"id" json:"id"`
	CompanyID     string        `db:"company_id" json:"companyId"`
	LocationID    *string       `db:"location_id" json:"locationId"`
	InvoiceNumber string        `db:"invoice_number" json:"invoiceNumber"`
	CustomerID    string        `db:"customer_id" json:"customerId"`
	TicketID      *string       `db:"ticket_id" json:"ticketId"`
	Status        InvoiceStatus `db:"status" json:"status"`
	TotalAmount   float64       `db:"total_amount" json:"totalAmount"`
	IssueDate     time.Time     `db:"issue_date" json:"issueDate"`
	DueDate       *time.Time    `db:"due_date" json:"dueDate"`
	PaidDate      *time.Time    `db:"paid_date" json:"paidDate"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updatedAt"`
	DeletedAt     *time.Time    `db:"deleted_at" json:"-"`
}

// DashboardStats is the summary shown on the dashboard.
type DashboardStats struct {
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	LowStockCount  int     `json:"lowStockCount"`
	ActiveTickets  int     `json:"activeTickets"`
	TotalCustomers int     `json:"totalCustomers"`
}

// RevenuePoint is one bucket of the revenue series.  Date is YYYY-MM-DD.
type RevenuePoint struct {
	Date    string  `db:"period" json:"date"`
	Revenue float64 `db:"revenue" json:"revenue"`
}
