package model

import "time"

// Customer is a contact scoped to a company.  Customers are shared by all
// locations of the company.
type Customer struct {
	ID        string     `db:"id" json:"id"`
	CompanyID string     `db:"company_id" json:"companyId"`
	FirstName string     `db:"first_name" json:"firstName"`
	LastName  string     `db:"last_name" json:"lastName"`
	Email     string     `db:"email" json:"email"`
	Phone     *string    `db:"phone" json:"phone"`
	Address   *string    `db:"address" json:"address"`
	City      *string    `db:"city" json:"city"`
	State     *string    `db:"state" json:"state"`
	ZipCode   *string    `db:"zip_code" json:"zipCode"`
	Notes     *string    `db:"notes" json:"notes"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

// CustomerSummary is the trimmed customer shape embedded in tickets.
type CustomerSummary struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
}

// Summary returns the embeddable view of c.
func (c Customer) Summary() CustomerSummary {
	return CustomerSummary{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, Email: c.Email, Phone: c.Phone}
}
