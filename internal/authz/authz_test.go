package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/repair-shop/internal/model"
)

func TestTransferActionsRequireManager(t *testing.T) {
	for _, a := range []Action{TransfersCreate, TransfersComplete, TransfersCancel} {
		require.True(t, Can(model.RoleAdmin, a), a)
		require.True(t, Can(model.RoleManager, a), a)
		require.False(t, Can(model.RoleTechnician, a), a)
	}
}

func TestDashboardOpenToAllRoles(t *testing.T) {
	require.ElementsMatch(t,
		[]model.Role{model.RoleAdmin, model.RoleManager, model.RoleTechnician},
		Allowed(ReportsDashboard))
	require.Equal(t, []model.Role{model.RoleAdmin, model.RoleManager}, Allowed(ReportsRevenue))
}

func TestUnknownRoleOrActionDenied(t *testing.T) {
	require.False(t, Can(model.Role("owner"), TicketsRead))
	require.False(t, Can(model.RoleAdmin, Action("billing.export")))
}
