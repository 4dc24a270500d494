package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/repair-shop/internal/apperr"
)

func TestLocationCreateIsTenantScoped(t *testing.T) {
	store := newMemLocations()
	svc := NewLocationService(store, nil)
	ctx := context.Background()
	blank := "  "

	loc, err := svc.Create(ctx, "co-1", CreateLocationInput{Name: " Downtown ", Address: &blank})
	require.NoError(t, err)
	require.Equal(t, "Downtown", loc.Name)
	require.Nil(t, loc.Address)
	require.NotEmpty(t, loc.ID)

	_, err = svc.Get(ctx, "co-2", loc.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	mine, err := svc.List(ctx, "co-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	other, err := svc.List(ctx, "co-2")
	require.NoError(t, err)
	require.Empty(t, other)
}
