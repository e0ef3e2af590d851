package order_test

import (
	"math/rand"
	"testing"

	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allAssignmentStatuses() []order.AssignmentStatus {
	return []order.AssignmentStatus{
		order.AssignmentPending,
		order.AssignmentAssigned,
		order.AssignmentAccepted,
		order.AssignmentExpiredAll,
		order.AssignmentCompleted,
		order.AssignmentCancelled,
		order.AssignmentNoWorkersAvailable,
		order.AssignmentWorkersOverbooked,
		order.AssignmentManualReview,
	}
}

func TestAssignmentStatusValidate(t *testing.T) {
	for _, s := range allAssignmentStatuses() {
		require.NoError(t, s.Validate(), s.String())
	}
	require.Error(t, order.AssignmentUnknown.Validate())
	require.Error(t, order.AssignmentStatus(42).Validate())
}

func TestAssignmentStatusTerminality(t *testing.T) {
	terminal := []order.AssignmentStatus{
		order.AssignmentCompleted,
		order.AssignmentCancelled,
		order.AssignmentNoWorkersAvailable,
		order.AssignmentWorkersOverbooked,
		order.AssignmentManualReview,
	}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), s.String())
	}

	nonTerminal := []order.AssignmentStatus{
		order.AssignmentPending,
		order.AssignmentAssigned,
		order.AssignmentAccepted,
		order.AssignmentExpiredAll,
	}
	for _, s := range nonTerminal {
		assert.False(t, s.IsTerminal(), s.String())
	}
}

func TestAssignmentStatusFailureOutcomes(t *testing.T) {
	assert.True(t, order.AssignmentNoWorkersAvailable.IsFailure())
	assert.True(t, order.AssignmentWorkersOverbooked.IsFailure())
	assert.True(t, order.AssignmentManualReview.IsFailure())
	assert.False(t, order.AssignmentCompleted.IsFailure())
	assert.False(t, order.AssignmentCancelled.IsFailure())
	assert.False(t, order.AssignmentAssigned.IsFailure())
}

func TestAssignmentStatusTransitions(t *testing.T) {
	t.Run("defined edges succeed", func(t *testing.T) {
		cases := []struct {
			from, to order.AssignmentStatus
		}{
			{order.AssignmentPending, order.AssignmentAssigned},
			{order.AssignmentPending, order.AssignmentNoWorkersAvailable},
			{order.AssignmentPending, order.AssignmentWorkersOverbooked},
			{order.AssignmentPending, order.AssignmentCancelled},
			{order.AssignmentAssigned, order.AssignmentAccepted},
			{order.AssignmentAssigned, order.AssignmentExpiredAll},
			{order.AssignmentExpiredAll, order.AssignmentAssigned},
			{order.AssignmentExpiredAll, order.AssignmentManualReview},
			{order.AssignmentAccepted, order.AssignmentCompleted},
			{order.AssignmentAccepted, order.AssignmentCancelled},
		}
		for _, c := range cases {
			next, err := c.from.TransitionTo(c.to)
			require.NoError(t, err, "%s -> %s", c.from, c.to)
			assert.Equal(t, c.to, next)
		}
	})

	t.Run("undefined edges fail", func(t *testing.T) {
		cases := []struct {
			from, to order.AssignmentStatus
		}{
			{order.AssignmentPending, order.AssignmentAccepted},
			{order.AssignmentPending, order.AssignmentExpiredAll},
			{order.AssignmentAssigned, order.AssignmentPending},
			{order.AssignmentAccepted, order.AssignmentAssigned},
			{order.AssignmentExpiredAll, order.AssignmentAccepted},
		}
		for _, c := range cases {
			_, err := c.from.TransitionTo(c.to)
			require.Error(t, err, "%s -> %s", c.from, c.to)
		}
	})

	t.Run("terminal states have no outgoing edges", func(t *testing.T) {
		for _, from := range allAssignmentStatuses() {
			if !from.IsTerminal() {
				continue
			}
			for _, to := range allAssignmentStatuses() {
				_, err := from.TransitionTo(to)
				require.Error(t, err, "%s -> %s", from, to)
			}
		}
	})
}

// TestAssignmentStatusForwardOnly walks random transition sequences and checks
// that processing never revisits Pending, never leaves a terminal state, and a
// round counter derived from Assigned entries only grows.
func TestAssignmentStatusForwardOnly(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	statuses := allAssignmentStatuses()

	for walk := 0; walk < 200; walk++ {
		current := order.AssignmentPending
		rounds := 0

		for step := 0; step < 30; step++ {
			next := statuses[rng.Intn(len(statuses))]
			transitioned, err := current.TransitionTo(next)
			if err != nil {
				continue
			}

			assert.False(t, current.IsTerminal(), "left terminal state %s", current)
			assert.NotEqual(t, order.AssignmentPending, transitioned, "re-entered Pending")
			if transitioned == order.AssignmentAssigned {
				rounds++
			}
			current = transitioned
		}

		assert.GreaterOrEqual(t, rounds, 0)
	}
}
