package pheno

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrubSentinelReplacesOnlySentinels(t *testing.T) {
	in := []float64{1.0, -999.0, 0.5, 2.0, -998.9995, -999.0011, -998.0}
	v := ScrubSentinel(in)

	require.Len(t, v, len(in))
	assert.Equal(t, 1.0, v[0])
	assert.True(t, math.IsNaN(v[1]))
	assert.Equal(t, 0.5, v[2])
	assert.Equal(t, 2.0, v[3])
	// Within the 1e-3 absolute tolerance on both sides.
	assert.True(t, math.IsNaN(v[4]))
	// Just outside the tolerance: passes through exactly.
	assert.Equal(t, -999.0011, v[5])
	assert.Equal(t, -998.0, v[6])
}

func TestScrubSentinelPreservesOrderAndLength(t *testing.T) {
	in := []float64{3, 1, 4, 1, 5}
	v := ScrubSentinel(in)
	assert.Equal(t, Vector{3, 1, 4, 1, 5}, v)
}

func TestIsBinomial(t *testing.T) {
	nan := math.NaN()

	assert.True(t, Vector{0, 1, 1, 0}.IsBinomial())
	assert.True(t, Vector{0, nan, 1}.IsBinomial(), "NaN entries are ignored")
	assert.False(t, Vector{0, 1, 2}.IsBinomial(), "values outside {0,1} disqualify")
	assert.False(t, Vector{0, 0, 0}.IsBinomial(), "both levels must be present")
	assert.False(t, Vector{1, 1, nan}.IsBinomial())
	assert.False(t, Vector{nan, nan}.IsBinomial())
	assert.False(t, Vector{0, 1, 0.5}.IsBinomial())
}

func TestCovariatesPreserveInsertionOrder(t *testing.T) {
	covs := NewCovariates()
	require.NoError(t, covs.Add("age", Vector{10, 20, 30}))
	require.NoError(t, covs.Add("bmi", Vector{22, 25, 28}))
	require.NoError(t, covs.Add("sex", Vector{0, 1, 0}))

	assert.Equal(t, []string{"age", "bmi", "sex"}, covs.Names())
	assert.Equal(t, 3, covs.Len())
	assert.Equal(t, 3, covs.Rows())

	col, ok := covs.Column("bmi")
	require.True(t, ok)
	assert.Equal(t, Vector{22, 25, 28}, col)

	_, ok = covs.Column("height")
	assert.False(t, ok)
}

func TestCovariatesRejectLengthMismatch(t *testing.T) {
	covs := NewCovariates()
	require.NoError(t, covs.Add("age", Vector{10, 20, 30}))
	assert.Error(t, covs.Add("bmi", Vector{22, 25}))
}
