// Package authz maps roles to the actions they may perform.
package authz

import "github.com/iliyamo/repair-shop/internal/model"

// Action names a capability checked by the role gate.
type Action string

const (
	TicketsRead   Action = "tickets.read"
	TicketsWrite  Action = "tickets.write"
	TicketsDelete Action = "tickets.delete"

	CustomersRead  Action = "customers.read"
	CustomersWrite Action = "customers.write"

	InventoryRead  Action = "inventory.read"
	InventoryWrite Action = "inventory.write"

	TransfersRead     Action = "transfers.read"
	TransfersCreate   Action = "transfers.create"
	TransfersComplete Action = "transfers.complete"
	TransfersCancel   Action = "transfers.cancel"

	InvoicesRead  Action = "invoices.read"
	InvoicesWrite Action = "invoices.write"

	ReportsDashboard Action = "reports.dashboard"
	ReportsRevenue   Action = "reports.revenue"

	UsersRead       Action = "users.read"
	UsersManage     Action = "users.manage"
	LocationsRead   Action = "locations.read"
	LocationsManage Action = "locations.manage"
)

var (
	everyone      = roles(model.RoleAdmin, model.RoleManager, model.RoleTechnician)
	managers      = roles(model.RoleAdmin, model.RoleManager)
	administrator = roles(model.RoleAdmin)
)

// capabilities is the single source of truth for role gating.  An action
// missing from the table is denied to everyone.
var capabilities = map[Action]map[model.Role]bool{
	TicketsRead:   everyone,
	TicketsWrite:  everyone,
	TicketsDelete: everyone,

	CustomersRead:  everyone,
	CustomersWrite: everyone,

	InventoryRead:  everyone,
	InventoryWrite: managers,

	TransfersRead:     everyone,
	TransfersCreate:   managers,
	TransfersComplete: managers,
	TransfersCancel:   managers,

	InvoicesRead:  everyone,
	InvoicesWrite: managers,

	ReportsDashboard: everyone,
	ReportsRevenue:   managers,

	UsersRead:       everyone,
	UsersManage:     administrator,
	LocationsRead:   everyone,
	LocationsManage: administrator,
}

// Can reports whether role may perform action.
func Can(role model.Role, action Action) bool {
	return capabilities[action][role]
}

// Allowed lists the roles permitted to perform action.
func Allowed(action Action) []model.Role {
	out := make([]model.Role, 0, 3)
	for _, r := range []model.Role{model.RoleAdmin, model.RoleManager, model.RoleTechnician} {
		if capabilities[action][r] {
			out = append(out, r)
		}
	}
	return out
}

func roles(rs ...model.Role) map[model.Role]bool {
	m := make(map[model.Role]bool, len(rs))
	for _, r := range rs {
		m[r] = true
	}
	return m
}
