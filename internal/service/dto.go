package service

import "time"

// Request payloads.  Create inputs are validated with validator tags by the
// HTTP layer; services re-check the rules that need the store.

// RegisterInput signs up a company and its first admin.
type RegisterInput struct {
	CompanyName string `json:"companyName" validate:"required,max=255"`
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput carries email and password credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput exchanges a refresh token for a new session.
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// CreateTicketInput opens a ticket.  Priority defaults to medium.
type CreateTicketInput struct {
	CustomerID              string     `json:"customerId" validate:"required"`
	TechnicianID            *string    `json:"technicianId"`
	Priority                string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	DeviceType              string     `json:"deviceType" validate:"required,max=100"`
	DeviceBrand             *string    `json:"deviceBrand" validate:"omitempty,max=100"`
	DeviceModel             *string    `json:"deviceModel" validate:"omitempty,max=100"`
	SerialNumber            *string    `json:"serialNumber" validate:"omitempty,max=100"`
	IssueDescription        string     `json:"issueDescription" validate:"required"`
	DiagnosticNotes         *string    `json:"diagnosticNotes"`
	EstimatedCompletionDate *time.Time `json:"estimatedCompletionDate"`
	LocationID              *string    `json:"locationId"`
}

// UpdateTicketInput is a partial update; nil fields are left unchanged.  An
// empty TechnicianID unassigns the ticket.
type UpdateTicketInput struct {
	TechnicianID            *string    `json:"technicianId"`
	Status                  *string    `json:"status" validate:"omitempty,oneof=new in_progress waiting_for_parts completed cancelled"`
	Priority                *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DeviceType              *string    `json:"deviceType" validate:"omitempty,min=1,max=100"`
	DeviceBrand             *string    `json:"deviceBrand" validate:"omitempty,max=100"`
	DeviceModel             *string    `json:"deviceModel" validate:"omitempty,max=100"`
	SerialNumber            *string    `json:"serialNumber" validate:"omitempty,max=100"`
	IssueDescription        *string    `json:"issueDescription" validate:"omitempty,min=1"`
	DiagnosticNotes         *string    `json:"diagnosticNotes"`
	RepairNotes             *string    `json:"repairNotes"`
	EstimatedCompletionDate *time.Time `json:"estimatedCompletionDate"`
	CompletedDate           *time.Time `json:"completedDate"`
}

// CreateCustomerInput adds a customer; the email is unique per company.
type CreateCustomerInput struct {
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
	City      *string `json:"city" validate:"omitempty,max=100"`
	State     *string `json:"state" validate:"omitempty,max=100"`
	ZipCode   *string `json:"zipCode" validate:"omitempty,max=20"`
	Notes     *string `json:"notes"`
}

// UpdateCustomerInput is a partial update of a customer.
type UpdateCustomerInput struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
	City      *string `json:"city" validate:"omitempty,max=100"`
	State     *string `json:"state" validate:"omitempty,max=100"`
	ZipCode   *string `json:"zipCode" validate:"omitempty,max=20"`
	Notes     *string `json:"notes"`
}

// CreateUserInput adds a user to the caller's company.
type CreateUserInput struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Role      string `json:"role" validate:"required,oneof=admin manager technician"`
}

// UpdateRoleInput changes a user's role.
type UpdateRoleInput struct {
	Role string `json:"role" validate:"required,oneof=admin manager technician"`
}

// CreateLocationInput adds a shop location.
type CreateLocationInput struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

// CreateItemInput stocks a new SKU at a location.
type CreateItemInput struct {
	LocationID   *string `json:"locationId"`
	SKU          string  `json:"sku" validate:"required,max=100"`
	Name         string  `json:"name" validate:"required,max=255"`
	Category     *string `json:"category" validate:"omitempty,max=100"`
	Quantity     int     `json:"quantity" validate:"gte=0"`
	ReorderLevel int     `json:"reorderLevel" validate:"gte=0"`
	UnitCost     float64 `json:"unitCost" validate:"gte=0"`
	SellingPrice float64 `json:"sellingPrice" validate:"gte=0"`
}

// UpdateItemInput is a partial update of an inventory item.
type UpdateItemInput struct {
	Name         *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Category     *string  `json:"category" validate:"omitempty,max=100"`
	Quantity     *int     `json:"quantity" validate:"omitempty,gte=0"`
	ReorderLevel *int     `json:"reorderLevel" validate:"omitempty,gte=0"`
	UnitCost     *float64 `json:"unitCost" validate:"omitempty,gte=0"`
	SellingPrice *float64 `json:"sellingPrice" validate:"omitempty,gte=0"`
}

// CreateTransferInput defaults FromLocationID to the request's location
// context when empty.
type CreateTransferInput struct {
	FromLocationID  string  `json:"fromLocationId"`
	ToLocationID    string  `json:"toLocationId" validate:"required"`
	InventoryItemID string  `json:"inventoryItemId" validate:"required"`
	Quantity        int     `json:"quantity" validate:"required,gt=0"`
	Notes           *string `json:"notes"`
}

// CreateInvoiceInput bills a customer.  Status is draft or issued.
type CreateInvoiceInput struct {
	CustomerID  string     `json:"customerId" validate:"required"`
	TicketID    *string    `json:"ticketId"`
	LocationID  *string    `json:"locationId"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft issued"`
	TotalAmount float64    `json:"totalAmount" validate:"gte=0"`
	DueDate     *time.Time `json:"dueDate"`
}

// DashboardQuery dates are YYYY-MM-DD; an empty bound falls back to the
// current month.
type DashboardQuery struct {
	LocationID string
	StartDate  string
	EndDate    string
}

// RevenueQuery selects the revenue series.  GroupBy is day, week or month
// and defaults to day.
type RevenueQuery struct {
	LocationID string
	StartDate  string
	EndDate    string
	GroupBy    string
}
