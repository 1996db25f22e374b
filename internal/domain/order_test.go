package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]OrderStatus]bool{
		{OrderStatusPending, OrderStatusCancelled}:    true,
		{OrderStatusPending, OrderStatusNotAssigned}:  true,
		{OrderStatusNotAssigned, OrderStatusAssigned}: true,
		{OrderStatusAssigned, OrderStatusPicked}:      true,
		{OrderStatusPicked, OrderStatusDelivered}:     true,
	}

	for _, from := range OrderStatuses {
		for _, to := range OrderStatuses {
			got := CanTransition(from, to)
			want := allowed[[2]OrderStatus{from, to}]
			assert.Equalf(t, want, got, "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_NoEscapeFromTerminal(t *testing.T) {
	for _, terminal := range []OrderStatus{OrderStatusCancelled, OrderStatusDelivered} {
		require.True(t, terminal.Terminal())
		for _, to := range OrderStatuses {
			assert.Falsef(t, CanTransition(terminal, to), "%s -> %s must be rejected", terminal, to)
		}
	}
}

func TestCheckTransition(t *testing.T) {
	require.NoError(t, CheckTransition(OrderStatusPending, OrderStatusCancelled))

	err := CheckTransition(OrderStatusAssigned, OrderStatusCancelled)
	require.Error(t, err)

	var transitionErr *InvalidStateTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, OrderStatusAssigned, transitionErr.From)
	assert.Equal(t, OrderStatusCancelled, transitionErr.To)
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleCustomer.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleRider.Valid())
	assert.False(t, Role("superuser").Valid())
}
