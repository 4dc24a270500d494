package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/queue"
	"github.com/iliyamo/repair-shop/internal/repository"
)

const (
	companyA = "company-a"
	companyB = "company-b"
)

func strptr(s string) *string { return &s }

type memLocations struct{ m map[string]model.Location }

func newMemLocations(locs ...model.Location) *memLocations {
	l := &memLocations{m: map[string]model.Location{}}
	for _, loc := range locs {
		l.m[loc.ID] = loc
	}
	return l
}

func (l *memLocations) Get(ctx context.Context, companyID, id string) (model.Location, error) {
	loc, ok := l.m[id]
	if !ok || loc.CompanyID != companyID {
		return model.Location{}, apperr.NotFound("Location not found")
	}
	return loc, nil
}

func (l *memLocations) List(ctx context.Context, companyID string) ([]model.Location, error) {
	var out []model.Location
	for _, loc := range l.m {
		if loc.CompanyID == companyID {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (l *memLocations) Create(ctx context.Context, loc model.Location) (model.Location, error) {
	l.m[loc.ID] = loc
	return loc, nil
}

type memCustomers struct {
	m             map[string]model.Customer
	findManyCalls [][]string
}

func newMemCustomers(cs ...model.Customer) *memCustomers {
	c := &memCustomers{m: map[string]model.Customer{}}
	for _, cu := range cs {
		c.m[cu.ID] = cu
	}
	return c
}

func (c *memCustomers) live(companyID, id string) (model.Customer, bool) {
	cu, ok := c.m[id]
	return cu, ok && cu.CompanyID == companyID && cu.DeletedAt == nil
}

func (c *memCustomers) Get(ctx context.Context, companyID, id string) (model.Customer, error) {
	cu, ok := c.live(companyID, id)
	if !ok {
		return model.Customer{}, apperr.NotFound("Customer not found")
	}
	return cu, nil
}

func (c *memCustomers) FindMany(ctx context.Context, companyID string, ids []string) ([]model.Customer, error) {
	c.findManyCalls = append(c.findManyCalls, ids)
	var out []model.Customer
	for _, id := range ids {
		if cu, ok := c.live(companyID, id); ok {
			out = append(out, cu)
		}
	}
	return out, nil
}

func (c *memCustomers) List(ctx context.Context, companyID, search string) ([]model.Customer, error) {
	var out []model.Customer
	for _, cu := range c.m {
		if cu.CompanyID != companyID || cu.DeletedAt != nil {
			continue
		}
		if search == "" || strings.Contains(cu.FirstName+" "+cu.LastName+" "+cu.Email, search) {
			out = append(out, cu)
		}
	}
	return out, nil
}

func (c *memCustomers) Create(ctx context.Context, cu model.Customer) (model.Customer, error) {
	for _, other := range c.m {
		if other.CompanyID == cu.CompanyID && other.Email == cu.Email {
			return model.Customer{}, apperr.Conflict("Customer email already exists")
		}
	}
	c.m[cu.ID] = cu
	return cu, nil
}

func (c *memCustomers) Update(ctx context.Context, cu model.Customer) (model.Customer, error) {
	if _, ok := c.live(cu.CompanyID, cu.ID); !ok {
		return model.Customer{}, apperr.NotFound("Customer not found")
	}
	c.m[cu.ID] = cu
	return cu, nil
}

func (c *memCustomers) SoftDelete(ctx context.Context, companyID, id string) error {
	cu, ok := c.live(companyID, id)
	if !ok {
		return apperr.NotFound("Customer not found")
	}
	now := time.Now()
	cu.DeletedAt = &now
	c.m[id] = cu
	return nil
}

type memUsers struct {
	m             map[string]model.User
	findManyCalls [][]string
}

func newMemUsers(us ...model.User) *memUsers {
	u := &memUsers{m: map[string]model.User{}}
	for _, usr := range us {
		u.m[usr.ID] = usr
	}
	return u
}

func (u *memUsers) FindByID(ctx context.Context, id string) (model.User, error) {
	usr, ok := u.m[id]
	if !ok {
		return model.User{}, apperr.NotFound("User not found")
	}
	return usr, nil
}

func (u *memUsers) FindByEmail(ctx context.Context, email string) (model.User, error) {
	for _, usr := range u.m {
		if usr.Email == email {
			return usr, nil
		}
	}
	return model.User{}, apperr.NotFound("User not found")
}

func (u *memUsers) Get(ctx context.Context, companyID, id string) (model.User, error) {
	usr, ok := u.m[id]
	if !ok || usr.CompanyID != companyID {
		return model.User{}, apperr.NotFound("User not found")
	}
	return usr, nil
}

func (u *memUsers) FindMany(ctx context.Context, companyID string, ids []string) ([]model.User, error) {
	u.findManyCalls = append(u.findManyCalls, ids)
	var out []model.User
	for _, id := range ids {
		if usr, ok := u.m[id]; ok && usr.CompanyID == companyID {
			out = append(out, usr)
		}
	}
	return out, nil
}

func (u *memUsers) List(ctx context.Context, companyID string, role *model.Role, activeOnly bool) ([]model.User, error) {
	var out []model.User
	for _, usr := range u.m {
		if usr.CompanyID != companyID || (role != nil && usr.Role != *role) || (activeOnly && !usr.Active) {
			continue
		}
		out = append(out, usr)
	}
	return out, nil
}

func (u *memUsers) Register(ctx context.Context, company model.Company, usr model.User) error {
	return u.Create(ctx, usr)
}

func (u *memUsers) Create(ctx context.Context, usr model.User) error {
	if _, err := u.FindByEmail(ctx, usr.Email); err == nil {
		return apperr.Conflict("Email already registered")
	}
	u.m[usr.ID] = usr
	return nil
}

func (u *memUsers) UpdateRole(ctx context.Context, companyID, id string, role model.Role) error {
	usr, err := u.Get(ctx, companyID, id)
	if err != nil {
		return err
	}
	usr.Role = role
	u.m[id] = usr
	return nil
}

func (u *memUsers) Deactivate(ctx context.Context, companyID, id string) error {
	usr, err := u.Get(ctx, companyID, id)
	if err != nil {
		return err
	}
	usr.Active = false
	u.m[id] = usr
	return nil
}

type memTickets struct{ m map[string]model.Ticket }

func newMemTickets() *memTickets { return &memTickets{m: map[string]model.Ticket{}} }

func (s *memTickets) List(ctx context.Context, companyID string, f repository.TicketFilter) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range s.m {
		if t.CompanyID != companyID || t.DeletedAt != nil {
			continue
		}
		if (f.CustomerID != "" && t.CustomerID != f.CustomerID) || (f.Status != "" && t.Status != f.Status) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *memTickets) Get(ctx context.Context, companyID, id string) (model.Ticket, error) {
	t, ok := s.m[id]
	if !ok || t.CompanyID != companyID || t.DeletedAt != nil {
		return model.Ticket{}, apperr.NotFound("Ticket not found")
	}
	return t, nil
}

func (s *memTickets) Create(ctx context.Context, t model.Ticket) (model.Ticket, error) {
	n := 0
	for _, other := range s.m {
		if other.CompanyID == t.CompanyID {
			n++
		}
	}
	t.TicketNumber = repository.TicketNumber(t.CreatedAt, n+1)
	s.m[t.ID] = t
	return t, nil
}

func (s *memTickets) Update(ctx context.Context, t model.Ticket) (model.Ticket, error) {
	if _, err := s.Get(ctx, t.CompanyID, t.ID); err != nil {
		return model.Ticket{}, err
	}
	s.m[t.ID] = t
	return t, nil
}

func (s *memTickets) SoftDelete(ctx context.Context, companyID, id string) error {
	t, err := s.Get(ctx, companyID, id)
	if err != nil {
		return err
	}
	now := time.Now()
	t.DeletedAt = &now
	s.m[id] = t
	return nil
}

type memItems struct{ m map[string]model.InventoryItem }

func newMemItems(items ...model.InventoryItem) *memItems {
	s := &memItems{m: map[string]model.InventoryItem{}}
	for _, it := range items {
		s.m[it.ID] = it
	}
	return s
}

func (s *memItems) Get(ctx context.Context, companyID, id string) (model.InventoryItem, error) {
	it, ok := s.m[id]
	if !ok || it.CompanyID != companyID {
		return model.InventoryItem{}, apperr.NotFound("Inventory item not found")
	}
	return it, nil
}

func (s *memItems) List(ctx context.Context, companyID string, f repository.ItemFilter) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	for _, it := range s.m {
		if it.CompanyID != companyID || (f.LowStock && !it.LowStock()) {
			continue
		}
		if f.LocationID != "" && (it.LocationID == nil || *it.LocationID != f.LocationID) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *memItems) Create(ctx context.Context, it model.InventoryItem) (model.InventoryItem, error) {
	s.m[it.ID] = it
	return it, nil
}

func (s *memItems) Update(ctx context.Context, it model.InventoryItem) (model.InventoryItem, error) {
	if _, err := s.Get(ctx, it.CompanyID, it.ID); err != nil {
		return model.InventoryItem{}, err
	}
	s.m[it.ID] = it
	return it, nil
}

// memTransfers stages every transaction on copies and only swaps them in
// when fn succeeds, so a failed completion leaves no trace.  The mutex plays
// the part of the row locks.
type memTransfers struct {
	mu    sync.Mutex
	m     map[string]model.InventoryTransfer
	items *memItems
}

func newMemTransfers(items *memItems) *memTransfers {
	return &memTransfers{m: map[string]model.InventoryTransfer{}, items: items}
}

func (s *memTransfers) List(ctx context.Context, companyID string, f repository.TransferFilter) ([]model.InventoryTransfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.InventoryTransfer
	for _, t := range s.m {
		if t.CompanyID == companyID && (f.Status == "" || t.Status == f.Status) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTransfers) Get(ctx context.Context, companyID, id string) (model.InventoryTransfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.m[id]
	if !ok || t.CompanyID != companyID {
		return model.InventoryTransfer{}, apperr.NotFound("Transfer not found")
	}
	return t, nil
}

func (s *memTransfers) Create(ctx context.Context, t model.InventoryTransfer) (model.InventoryTransfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[t.ID] = t
	return t, nil
}

func (s *memTransfers) WithTx(ctx context.Context, fn func(repository.TransferTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &memTransferTx{
		transfers: make(map[string]model.InventoryTransfer, len(s.m)),
		items:     make(map[string]model.InventoryItem, len(s.items.m)),
	}
	for k, v := range s.m {
		tx.transfers[k] = v
	}
	for k, v := range s.items.m {
		tx.items[k] = v
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.m, s.items.m = tx.transfers, tx.items
	return nil
}

type memTransferTx struct {
	transfers map[string]model.InventoryTransfer
	items     map[string]model.InventoryItem
}

func (tx *memTransferTx) LockTransfer(ctx context.Context, companyID, id string) (model.InventoryTransfer, error) {
	t, ok := tx.transfers[id]
	if !ok || t.CompanyID != companyID {
		return model.InventoryTransfer{}, apperr.NotFound("Transfer not found")
	}
	return t, nil
}

func (tx *memTransferTx) LockItem(ctx context.Context, companyID, id string) (model.InventoryItem, error) {
	it, ok := tx.items[id]
	if !ok || it.CompanyID != companyID {
		return model.InventoryItem{}, apperr.NotFound("Inventory item not found")
	}
	return it, nil
}

func (tx *memTransferTx) LockItemBySKU(ctx context.Context, companyID, locationID, sku string) (model.InventoryItem, error) {
	for _, it := range tx.items {
		if it.CompanyID == companyID && it.SKU == sku && it.LocationID != nil && *it.LocationID == locationID {
			return it, nil
		}
	}
	return model.InventoryItem{}, apperr.NotFound("Inventory item not found")
}

func (tx *memTransferTx) InsertItem(ctx context.Context, it model.InventoryItem) error {
	tx.items[it.ID] = it
	return nil
}

func (tx *memTransferTx) SetItemQuantity(ctx context.Context, companyID, id string, qty int) error {
	it, ok := tx.items[id]
	if !ok {
		return apperr.NotFound("Inventory item not found")
	}
	it.Quantity = qty
	tx.items[id] = it
	return nil
}

func (tx *memTransferTx) SetStatus(ctx context.Context, companyID, id string, status model.TransferStatus, at time.Time) error {
	t := tx.transfers[id]
	t.Status = status
	if status == model.TransferCompleted {
		t.CompletedAt = &at
	} else {
		t.CancelledAt = &at
	}
	tx.transfers[id] = t
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, ev queue.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}
