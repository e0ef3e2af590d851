package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	region, err := kernel.NewRegionCode("10001")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), region, "cleaning")
	require.NoError(t, err)
	return o
}

func confirmedOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newTestOrder(t)
	require.NoError(t, o.ConfirmPayment())
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("valid order", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Equal(t, order.AssignmentPending, o.AssignmentStatus())
		assert.Equal(t, "cleaning", o.ServiceType())
		assert.Equal(t, "10001", o.Region().String())
		assert.WithinDuration(t, time.Now().UTC(), o.CreatedAt(), time.Minute)
	})

	t.Run("invalid id is rejected", func(t *testing.T) {
		region, _ := kernel.NewRegionCode("10001")
		_, err := order.NewOrder(kernel.UUID{}, region, "cleaning")
		require.Error(t, err)
	})

	t.Run("empty service type is rejected", func(t *testing.T) {
		region, _ := kernel.NewRegionCode("10001")
		_, err := order.NewOrder(kernel.NewUUID(), region, "")
		require.ErrorIs(t, err, order.ErrServiceTypeIsRequired)
	})
}

func TestRestoreOrder(t *testing.T) {
	region, _ := kernel.NewRegionCode("10001")
	id := kernel.NewUUID()
	createdAt := time.Now().UTC().Add(-time.Hour)

	t.Run("round-trips persisted state", func(t *testing.T) {
		o, err := order.RestoreOrder(id, order.StatusConfirmed, order.AssignmentAssigned, region, "cleaning", createdAt)
		require.NoError(t, err)
		assert.Equal(t, order.StatusConfirmed, o.Status())
		assert.Equal(t, order.AssignmentAssigned, o.AssignmentStatus())
		assert.Equal(t, createdAt, o.CreatedAt())
	})

	t.Run("invalid statuses are rejected", func(t *testing.T) {
		_, err := order.RestoreOrder(id, order.StatusUnknown, order.AssignmentAssigned, region, "cleaning", createdAt)
		require.Error(t, err)

		_, err = order.RestoreOrder(id, order.StatusConfirmed, order.AssignmentUnknown, region, "cleaning", createdAt)
		require.Error(t, err)
	})
}

func TestOrderValidate(t *testing.T) {
	var o order.Order
	require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
}

func TestOrderDispatchability(t *testing.T) {
	o := newTestOrder(t)
	assert.False(t, o.IsDispatchable())

	require.NoError(t, o.ConfirmPayment())
	assert.True(t, o.IsDispatchable())

	require.NoError(t, o.Cancel())
	assert.False(t, o.IsDispatchable())
}

func TestOrderAssignmentLifecycle(t *testing.T) {
	t.Run("full happy path", func(t *testing.T) {
		o := confirmedOrder(t)

		require.NoError(t, o.BeginAssignmentRound())
		assert.Equal(t, order.AssignmentAssigned, o.AssignmentStatus())

		require.NoError(t, o.AcceptAssignment())
		assert.Equal(t, order.AssignmentAccepted, o.AssignmentStatus())

		require.NoError(t, o.Complete())
		assert.Equal(t, order.AssignmentCompleted, o.AssignmentStatus())
		assert.Equal(t, order.StatusCompleted, o.Status())
	})

	t.Run("exhausted round allows a new one", func(t *testing.T) {
		o := confirmedOrder(t)

		require.NoError(t, o.BeginAssignmentRound())
		require.NoError(t, o.ExhaustAssignmentRound())
		assert.Equal(t, order.AssignmentExpiredAll, o.AssignmentStatus())

		require.NoError(t, o.BeginAssignmentRound())
		assert.Equal(t, order.AssignmentAssigned, o.AssignmentStatus())
	})

	t.Run("accept requires an outstanding round", func(t *testing.T) {
		o := confirmedOrder(t)
		require.Error(t, o.AcceptAssignment())
	})

	t.Run("complete requires acceptance", func(t *testing.T) {
		o := confirmedOrder(t)
		require.NoError(t, o.BeginAssignmentRound())
		require.Error(t, o.Complete())
	})
}

func TestOrderFailAssignment(t *testing.T) {
	t.Run("failure outcomes from pending", func(t *testing.T) {
		for _, outcome := range []order.AssignmentStatus{
			order.AssignmentNoWorkersAvailable,
			order.AssignmentWorkersOverbooked,
			order.AssignmentManualReview,
		} {
			o := confirmedOrder(t)
			require.NoError(t, o.FailAssignment(outcome), outcome.String())
			assert.Equal(t, outcome, o.AssignmentStatus())
			assert.True(t, o.AssignmentStatus().IsTerminal())
		}
	})

	t.Run("non-failure outcome is rejected", func(t *testing.T) {
		o := confirmedOrder(t)
		require.Error(t, o.FailAssignment(order.AssignmentAccepted))
	})

	t.Run("failure impossible while round outstanding", func(t *testing.T) {
		o := confirmedOrder(t)
		require.NoError(t, o.BeginAssignmentRound())
		require.Error(t, o.FailAssignment(order.AssignmentManualReview))
	})
}

func TestOrderCancel(t *testing.T) {
	t.Run("cancel leaves the pipeline", func(t *testing.T) {
		o := confirmedOrder(t)
		require.NoError(t, o.BeginAssignmentRound())

		require.NoError(t, o.Cancel())
		assert.Equal(t, order.StatusCancelled, o.Status())
		assert.Equal(t, order.AssignmentCancelled, o.AssignmentStatus())
	})

	t.Run("cancel preserves terminal assignment outcome", func(t *testing.T) {
		o := confirmedOrder(t)
		require.NoError(t, o.FailAssignment(order.AssignmentManualReview))

		require.NoError(t, o.Cancel())
		assert.Equal(t, order.StatusCancelled, o.Status())
		assert.Equal(t, order.AssignmentManualReview, o.AssignmentStatus())
	})

	t.Run("completed order cannot be cancelled", func(t *testing.T) {
		o := confirmedOrder(t)
		require.NoError(t, o.BeginAssignmentRound())
		require.NoError(t, o.AcceptAssignment())
		require.NoError(t, o.Complete())

		require.Error(t, o.Cancel())
	})
}
