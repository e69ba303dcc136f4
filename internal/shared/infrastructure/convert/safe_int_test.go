package convert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToInt32(t *testing.T) {
	t.Run("converts valid value", func(t *testing.T) {
		result, err := IntToInt32(25)
		require.NoError(t, err)
		assert.Equal(t, int32(25), result)
	})

	t.Run("converts bounds", func(t *testing.T) {
		hi, err := IntToInt32(math.MaxInt32)
		require.NoError(t, err)
		assert.Equal(t, int32(math.MaxInt32), hi)

		lo, err := IntToInt32(math.MinInt32)
		require.NoError(t, err)
		assert.Equal(t, int32(math.MinInt32), lo)
	})

	t.Run("returns error on overflow", func(t *testing.T) {
		_, err := IntToInt32(math.MaxInt32 + 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "overflow")

		_, err = IntToInt32(math.MinInt32 - 1)
		require.Error(t, err)
	})
}

func TestIntToInt32Clamped(t *testing.T) {
	assert.Equal(t, int32(10), IntToInt32Clamped(10))
	assert.Equal(t, int32(math.MaxInt32), IntToInt32Clamped(math.MaxInt32+1))
	assert.Equal(t, int32(math.MinInt32), IntToInt32Clamped(math.MinInt32-1))
}

func TestIntToUint32(t *testing.T) {
	t.Run("converts valid value", func(t *testing.T) {
		result, err := IntToUint32(5)
		require.NoError(t, err)
		assert.Equal(t, uint32(5), result)
	})

	t.Run("rejects negative", func(t *testing.T) {
		_, err := IntToUint32(-1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative")
	})

	t.Run("rejects overflow", func(t *testing.T) {
		_, err := IntToUint32(math.MaxUint32 + 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "overflow")
	})
}

func TestIntToUint32Clamped(t *testing.T) {
	assert.Equal(t, uint32(0), IntToUint32Clamped(-3))
	assert.Equal(t, uint32(7), IntToUint32Clamped(7))
	assert.Equal(t, uint32(math.MaxUint32), IntToUint32Clamped(math.MaxUint32+10))
}
