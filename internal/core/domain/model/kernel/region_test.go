package kernel_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegionCode(t *testing.T) {
	t.Run("valid code", func(t *testing.T) {
		region, err := kernel.NewRegionCode("10001")
		require.NoError(t, err)
		assert.Equal(t, "10001", region.String())
		require.NoError(t, region.Validate())
	})

	t.Run("whitespace is trimmed", func(t *testing.T) {
		region, err := kernel.NewRegionCode("  10001 ")
		require.NoError(t, err)
		assert.Equal(t, "10001", region.String())
	})

	t.Run("blank code is rejected", func(t *testing.T) {
		_, err := kernel.NewRegionCode("   ")
		require.ErrorIs(t, err, kernel.ErrRegionCodeIsRequired)
	})
}

func TestRegionCodeIsEqual(t *testing.T) {
	a, _ := kernel.NewRegionCode("10001")
	b, _ := kernel.NewRegionCode("10001")
	c, _ := kernel.NewRegionCode("10002")

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
}

func TestRegionCodeZeroValueIsInvalid(t *testing.T) {
	var region kernel.RegionCode
	require.ErrorIs(t, region.Validate(), kernel.ErrRegionCodeIsRequired)
}
