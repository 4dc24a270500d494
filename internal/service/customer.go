package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/repair-shop/internal/model"
)

// CustomerStore persists customers.
type CustomerStore interface {
	List(ctx context.Context, companyID, search string) ([]model.Customer, error)
	Get(ctx context.Context, companyID, id string) (model.Customer, error)
	Create(ctx context.Context, c model.Customer) (model.Customer, error)
	Update(ctx context.Context, c model.Customer) (model.Customer, error)
	SoftDelete(ctx context.Context, companyID, id string) error
}

// CustomerService manages the company's customer book.
type CustomerService struct {
	base
	customers CustomerStore
}

// NewCustomerService returns a CustomerService over customers.
func NewCustomerService(customers CustomerStore, log *zap.Logger) *CustomerService {
	return &CustomerService{base: newBase(log, nil), customers: customers}
}

// List returns the company's customers, filtered by a free-text search.
func (s *CustomerService) List(ctx context.Context, companyID, search string) ([]model.Customer, error) {
	return s.customers.List(ctx, companyID, strings.TrimSpace(search))
}

// Get loads one customer of the company.
func (s *CustomerService) Get(ctx context.Context, companyID, id string) (model.Customer, error) {
	return s.customers.Get(ctx, companyID, id)
}

// Create adds a customer with a normalized email.
func (s *CustomerService) Create(ctx context.Context, companyID string, in CreateCustomerInput) (model.Customer, error) {
	return s.customers.Create(ctx, model.Customer{
		ID:        s.newID(),
		CompanyID: companyID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     normalizeEmail(in.Email),
		Phone:     optional(in.Phone),
		Address:   optional(in.Address),
		City:      optional(in.City),
		State:     optional(in.State),
		ZipCode:   optional(in.ZipCode),
		Notes:     optional(in.Notes),
	})
}

// Update applies the non-nil fields of in.
func (s *CustomerService) Update(ctx context.Context, companyID, id string, in UpdateCustomerInput) (model.Customer, error) {
	c, err := s.customers.Get(ctx, companyID, id)
	if err != nil {
		return model.Customer{}, err
	}
	if in.FirstName != nil {
		c.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		c.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		c.Email = normalizeEmail(*in.Email)
	}
	setOptional(&c.Phone, in.Phone)
	setOptional(&c.Address, in.Address)
	setOptional(&c.City, in.City)
	setOptional(&c.State, in.State)
	setOptional(&c.ZipCode, in.ZipCode)
	setOptional(&c.Notes, in.Notes)
	return s.customers.Update(ctx, c)
}

// Delete soft-deletes the customer.  Their tickets keep the reference and
// render with a null customer.
func (s *CustomerService) Delete(ctx context.Context, companyID, id string) error {
	return s.customers.SoftDelete(ctx, companyID, id)
}
