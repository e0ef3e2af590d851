package assignment_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOffer(t *testing.T) *assignment.Assignment {
	t.Helper()
	a, err := assignment.NewAssignment(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 1, time.Now().UTC())
	require.NoError(t, err)
	return a
}

func TestNewAssignment(t *testing.T) {
	t.Run("starts offered and open", func(t *testing.T) {
		a := newOffer(t)
		require.NoError(t, a.Validate())
		assert.Equal(t, assignment.StatusOffered, a.Status())
		assert.True(t, a.IsOpen())
		assert.Nil(t, a.RespondedAt())
		assert.Equal(t, 1, a.Round())
	})

	t.Run("round below one is rejected", func(t *testing.T) {
		_, err := assignment.NewAssignment(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 0, time.Now().UTC())
		require.Error(t, err)
	})

	t.Run("invalid ids are rejected", func(t *testing.T) {
		_, err := assignment.NewAssignment(
			kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(), 1, time.Now().UTC())
		require.Error(t, err)
	})
}

func TestAssignmentResponses(t *testing.T) {
	cases := []struct {
		name string
		act  func(*assignment.Assignment) error
		want assignment.Status
	}{
		{"accept", (*assignment.Assignment).Accept, assignment.StatusAccepted},
		{"decline", (*assignment.Assignment).Decline, assignment.StatusDeclined},
		{"expire", (*assignment.Assignment).Expire, assignment.StatusExpired},
		{"supersede", (*assignment.Assignment).Supersede, assignment.StatusSuperseded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := newOffer(t)
			require.NoError(t, tc.act(a))

			assert.Equal(t, tc.want, a.Status())
			assert.True(t, a.Status().IsTerminal())
			assert.False(t, a.IsOpen())
			require.NotNil(t, a.RespondedAt())
		})
	}
}

func TestAssignmentFirstResponseWins(t *testing.T) {
	a := newOffer(t)
	require.NoError(t, a.Accept())

	require.ErrorIs(t, a.Decline(), assignment.ErrAlreadyResponded)
	require.ErrorIs(t, a.Accept(), assignment.ErrAlreadyResponded)
	require.ErrorIs(t, a.Expire(), assignment.ErrAlreadyResponded)
	require.ErrorIs(t, a.Supersede(), assignment.ErrAlreadyResponded)
	assert.Equal(t, assignment.StatusAccepted, a.Status())
}

func TestRestoreAssignment(t *testing.T) {
	respondedAt := time.Now().UTC()
	a, err := assignment.RestoreAssignment(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		2, assignment.StatusDeclined, respondedAt.Add(-time.Minute), &respondedAt)
	require.NoError(t, err)

	assert.Equal(t, assignment.StatusDeclined, a.Status())
	assert.Equal(t, 2, a.Round())
	require.ErrorIs(t, a.Accept(), assignment.ErrAlreadyResponded)
}
