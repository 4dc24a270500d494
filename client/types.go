package client

import "time"

// Wire shapes of the API.  They mirror the server's JSON and are owned by
// this package so callers outside the module can name them.

// User is an account of a company.
type User struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Session is returned by Login, Register and Refresh.
type Session struct {
	User                  User      `json:"user"`
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// Credentials returns the credentials that act as this session's user.
func (s Session) Credentials(locationID string) Credentials {
	return Credentials{AccessToken: s.AccessToken, LocationID: locationID}
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput creates a company together with its first admin.
type RegisterInput struct {
	CompanyName string `json:"companyName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type refreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

// CustomerSummary is the customer embedded in a ticket.
type CustomerSummary struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
}

// UserSummary is the technician embedded in a ticket.
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Ticket is a repair work order with its customer and technician.
// Customer is nil when the customer was deleted.
type Ticket struct {
	ID                      string           `json:"id"`
	CompanyID               string           `json:"companyId"`
	LocationID              *string          `json:"locationId"`
	TicketNumber            string           `json:"ticketNumber"`
	CustomerID              string           `json:"customerId"`
	TechnicianID            *string          `json:"technicianId"`
	Status                  string           `json:"status"`
	Priority                string           `json:"priority"`
	DeviceType              string           `json:"deviceType"`
	DeviceBrand             *string          `json:"deviceBrand"`
	DeviceModel             *string          `json:"deviceModel"`
	SerialNumber            *string          `json:"serialNumber"`
	IssueDescription        string           `json:"issueDescription"`
	DiagnosticNotes         *string          `json:"diagnosticNotes"`
	RepairNotes             *string          `json:"repairNotes"`
	EstimatedCompletionDate *time.Time       `json:"estimatedCompletionDate"`
	CompletedDate           *time.Time       `json:"completedDate"`
	CreatedAt               time.Time        `json:"createdAt"`
	UpdatedAt               time.Time        `json:"updatedAt"`
	Customer                *CustomerSummary `json:"customer"`
	Technician              *UserSummary     `json:"technician,omitempty"`
}

// CreateTicketInput opens a ticket.  Priority defaults to medium.
type CreateTicketInput struct {
	CustomerID              string     `json:"customerId"`
	TechnicianID            *string    `json:"technicianId,omitempty"`
	Priority                string     `json:"priority,omitempty"`
	DeviceType              string     `json:"deviceType"`
	DeviceBrand             *string    `json:"deviceBrand,omitempty"`
	DeviceModel             *string    `json:"deviceModel,omitempty"`
	SerialNumber            *string    `json:"serialNumber,omitempty"`
	IssueDescription        string     `json:"issueDescription"`
	DiagnosticNotes         *string    `json:"diagnosticNotes,omitempty"`
	EstimatedCompletionDate *time.Time `json:"estimatedCompletionDate,omitempty"`
	LocationID              *string    `json:"locationId,omitempty"`
}

// UpdateTicketInput is a partial update; nil fields are not sent.
type UpdateTicketInput struct {
	TechnicianID            *string    `json:"technicianId,omitempty"`
	Status                  *string    `json:"status,omitempty"`
	Priority                *string    `json:"priority,omitempty"`
	DeviceType              *string    `json:"deviceType,omitempty"`
	DeviceBrand             *string    `json:"deviceBrand,omitempty"`
	DeviceModel             *string    `json:"deviceModel,omitempty"`
	SerialNumber            *string    `json:"serialNumber,omitempty"`
	IssueDescription        *string    `json:"issueDescription,omitempty"`
	DiagnosticNotes         *string    `json:"diagnosticNotes,omitempty"`
	RepairNotes             *string    `json:"repairNotes,omitempty"`
	EstimatedCompletionDate *time.Time `json:"estimatedCompletionDate,omitempty"`
	CompletedDate           *time.Time `json:"completedDate,omitempty"`
}

// Customer is a client of the company.
type Customer struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	City      *string   `json:"city"`
	State     *string   `json:"state"`
	ZipCode   *string   `json:"zipCode"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateCustomerInput is the body of POST /api/customers.
type CreateCustomerInput struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	ZipCode   *string `json:"zipCode,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// Location is one shop of the company.
type Location struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Name      string    `json:"name"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// InventoryItem is the stock of one SKU at one location.
type InventoryItem struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"companyId"`
	LocationID   *string   `json:"locationId"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Category     *string   `json:"category"`
	Quantity     int       `json:"quantity"`
	ReorderLevel int       `json:"reorderLevel"`
	UnitCost     float64   `json:"unitCost"`
	SellingPrice float64   `json:"sellingPrice"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// InventoryTransfer moves stock between two locations.  Status is pending,
// completed or cancelled.
type InventoryTransfer struct {
	ID              string     `json:"id"`
	CompanyID       string     `json:"companyId"`
	FromLocationID  string     `json:"fromLocationId"`
	ToLocationID    string     `json:"toLocationId"`
	InventoryItemID string     `json:"inventoryItemId"`
	Quantity        int        `json:"quantity"`
	Status          string     `json:"status"`
	Notes           *string    `json:"notes"`
	RequestedBy     string     `json:"requestedBy"`
	CompletedAt     *time.Time `json:"completedAt"`
	CancelledAt     *time.Time `json:"cancelledAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CreateTransferInput leaves FromLocationID empty to send stock from the
// location in the request credentials.
type CreateTransferInput struct {
	FromLocationID  string  `json:"fromLocationId,omitempty"`
	ToLocationID    string  `json:"toLocationId"`
	InventoryItemID string  `json:"inventoryItemId"`
	Quantity        int     `json:"quantity"`
	Notes           *string `json:"notes,omitempty"`
}

// Invoice bills a customer, optionally for one ticket.
type Invoice struct {
	ID            string     `json:"id"`
	CompanyID     string     `json:"companyId"`
	LocationID    *string    `json:"locationId"`
	InvoiceNumber string     `json:"invoiceNumber"`
	CustomerID    string     `json:"customerId"`
	TicketID      *string    `json:"ticketId"`
	Status        string     `json:"status"`
	TotalAmount   float64    `json:"totalAmount"`
	IssueDate     time.Time  `json:"issueDate"`
	DueDate       *time.Time `json:"dueDate"`
	PaidDate      *time.Time `json:"paidDate"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CreateInvoiceInput is the body of POST /api/invoices.  Status defaults to
// draft on the server.
type CreateInvoiceInput struct {
	CustomerID  string     `json:"customerId"`
	TicketID    *string    `json:"ticketId,omitempty"`
	LocationID  *string    `json:"locationId,omitempty"`
	Status      string     `json:"status,omitempty"`
	TotalAmount float64    `json:"totalAmount"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// DashboardStats are the headline numbers of the dashboard.
type DashboardStats struct {
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	LowStockCount  int     `json:"lowStockCount"`
	ActiveTickets  int     `json:"activeTickets"`
	TotalCustomers int     `json:"totalCustomers"`
}

// RevenuePoint is one bucket of the revenue series; Date is YYYY-MM-DD.
type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}
