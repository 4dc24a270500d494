package client

import (
	"context"
	"net/http"
	"net/url"
)

// Login exchanges email and password for a session.
func (c *Client) Login(ctx context.Context, in LoginInput) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, in, &s)
	return s, err
}

// Register signs up a new company and returns its admin session.
func (c *Client) Register(ctx context.Context, in RegisterInput) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, in, &s)
	return s, err
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, refreshInput{RefreshToken: refreshToken}, &s)
	return s, err
}

// Me returns the user behind the request credentials.
func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &u)
	return u, err
}

// TicketQuery filters ListTickets.  Empty fields are not sent.
type TicketQuery struct {
	CustomerID string
	Status     string
}

// ListTickets lists the tickets of the caller's company, narrowed to the
// credentials' location when one is set.
func (c *Client) ListTickets(ctx context.Context, q TicketQuery) ([]Ticket, error) {
	v := url.Values{}
	set(v, "customerId", q.CustomerID)
	set(v, "status", q.Status)
	var out []Ticket
	err := c.do(ctx, http.MethodGet, "/tickets", v, nil, &out)
	return out, err
}

// GetTicket loads one ticket with its customer and technician.
func (c *Client) GetTicket(ctx context.Context, id string) (Ticket, error) {
	var t Ticket
	err := c.do(ctx, http.MethodGet, "/tickets/"+url.PathEscape(id), nil, nil, &t)
	return t, err
}

// CreateTicket opens a ticket; the server assigns its number.
func (c *Client) CreateTicket(ctx context.Context, in CreateTicketInput) (Ticket, error) {
	var t Ticket
	err := c.do(ctx, http.MethodPost, "/tickets", nil, in, &t)
	return t, err
}

// UpdateTicket applies a partial update.
func (c *Client) UpdateTicket(ctx context.Context, id string, in UpdateTicketInput) (Ticket, error) {
	var t Ticket
	err := c.do(ctx, http.MethodPut, "/tickets/"+url.PathEscape(id), nil, in, &t)
	return t, err
}

// DeleteTicket soft-deletes a ticket.
func (c *Client) DeleteTicket(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tickets/"+url.PathEscape(id), nil, nil, nil)
}

// ListCustomers lists customers, filtered by name, email or phone when
// search is non-empty.
func (c *Client) ListCustomers(ctx context.Context, search string) ([]Customer, error) {
	v := url.Values{}
	set(v, "q", search)
	var out []Customer
	err := c.do(ctx, http.MethodGet, "/customers", v, nil, &out)
	return out, err
}

// CreateCustomer adds a customer to the company.
func (c *Client) CreateCustomer(ctx context.Context, in CreateCustomerInput) (Customer, error) {
	var cu Customer
	err := c.do(ctx, http.MethodPost, "/customers", nil, in, &cu)
	return cu, err
}

// Technicians lists the active technicians available for assignment.
func (c *Client) Technicians(ctx context.Context) ([]User, error) {
	var out []User
	err := c.do(ctx, http.MethodGet, "/users/technicians", nil, nil, &out)
	return out, err
}

// ListLocations lists the company's locations.
func (c *Client) ListLocations(ctx context.Context) ([]Location, error) {
	var out []Location
	err := c.do(ctx, http.MethodGet, "/locations", nil, nil, &out)
	return out, err
}

// ListInventory lists stock, only items below their reorder level when
// lowStock is set.
func (c *Client) ListInventory(ctx context.Context, lowStock bool) ([]InventoryItem, error) {
	v := url.Values{}
	if lowStock {
		v.Set("lowStock", "true")
	}
	var out []InventoryItem
	err := c.do(ctx, http.MethodGet, "/inventory", v, nil, &out)
	return out, err
}

// CreateTransfer requests a pending transfer.  The credentials must carry
// a location.
func (c *Client) CreateTransfer(ctx context.Context, in CreateTransferInput) (InventoryTransfer, error) {
	var t InventoryTransfer
	err := c.do(ctx, http.MethodPost, "/inventory-transfers", nil, in, &t)
	return t, err
}

// CompleteTransfer moves the stock of a pending transfer.
func (c *Client) CompleteTransfer(ctx context.Context, id string) (InventoryTransfer, error) {
	var t InventoryTransfer
	err := c.do(ctx, http.MethodPost, "/inventory-transfers/"+url.PathEscape(id)+"/complete", nil, nil, &t)
	return t, err
}

// CancelTransfer closes a pending transfer without moving stock.
func (c *Client) CancelTransfer(ctx context.Context, id string) (InventoryTransfer, error) {
	var t InventoryTransfer
	err := c.do(ctx, http.MethodPost, "/inventory-transfers/"+url.PathEscape(id)+"/cancel", nil, nil, &t)
	return t, err
}

// CreateInvoice issues an invoice; the server assigns its number.
func (c *Client) CreateInvoice(ctx context.Context, in CreateInvoiceInput) (Invoice, error) {
	var inv Invoice
	err := c.do(ctx, http.MethodPost, "/invoices", nil, in, &inv)
	return inv, err
}

// PayInvoice marks an invoice paid today.
func (c *Client) PayInvoice(ctx context.Context, id string) (Invoice, error) {
	var inv Invoice
	err := c.do(ctx, http.MethodPost, "/invoices/"+url.PathEscape(id)+"/pay", nil, nil, &inv)
	return inv, err
}

// DashboardStats reads the dashboard figures for the credentials'
// location.  An empty date falls back to the current month.
func (c *Client) DashboardStats(ctx context.Context, startDate, endDate string) (DashboardStats, error) {
	v := url.Values{}
	set(v, "startDate", startDate)
	set(v, "endDate", endDate)
	var st DashboardStats
	err := c.do(ctx, http.MethodGet, "/reporting/dashboard-stats", v, nil, &st)
	return st, err
}

// RevenueOverTime reads the paid revenue series between the inclusive
// dates, grouped by day, week or month.
func (c *Client) RevenueOverTime(ctx context.Context, startDate, endDate, groupBy string) ([]RevenuePoint, error) {
	v := url.Values{}
	set(v, "startDate", startDate)
	set(v, "endDate", endDate)
	set(v, "groupBy", groupBy)
	var out []RevenuePoint
	err := c.do(ctx, http.MethodGet, "/reporting/revenue-over-time", v, nil, &out)
	return out, err
}

// set adds key only when val is non-empty.
func set(v url.Values, key, val string) {
	if val != "" {
		v.Set(key, val)
	}
}
