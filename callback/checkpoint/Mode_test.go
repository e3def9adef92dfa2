package checkpoint

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode("min")
	require.NoError(t, err)
	assert.Equal(t, Min, m)

	m, err = ParseMode("max")
	require.NoError(t, err)
	assert.Equal(t, Max, m)

	_, err = ParseMode("auto")
	assert.True(t, errors.Is(err, ErrInvalidMode))
}

func TestModeImproved(t *testing.T) {
	assert.True(t, Min.Improved(0.5, 1.0))
	assert.False(t, Min.Improved(1.0, 1.0))
	assert.False(t, Min.Improved(1.5, 1.0))

	assert.True(t, Max.Improved(1.5, 1.0))
	assert.False(t, Max.Improved(1.0, 1.0))
	assert.False(t, Max.Improved(0.5, 1.0))

	assert.False(t, Min.Improved(math.NaN(), Min.Worst()))
	assert.False(t, Max.Improved(math.Inf(-1), Max.Worst()))
}

func TestModeWorst(t *testing.T) {
	assert.True(t, math.IsInf(Min.Worst(), 1))
	assert.True(t, math.IsInf(Max.Worst(), -1))
	assert.Equal(t, "min", Min.String())
	assert.Equal(t, "max", Max.String())
}
