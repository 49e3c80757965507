package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predix/domain/core"
	"predix/domain/pheno"
)

func TestResidualizeAlignsMissingRows(t *testing.T) {
	nan := math.NaN()
	p := pheno.Vector{1.0, nan, 0.5, 2.0}
	covs := pheno.NewCovariates()
	require.NoError(t, covs.Add("age", pheno.Vector{10, 20, 30, 40}))

	residuals, err := Residualize(p, covs)
	require.NoError(t, err)
	require.Len(t, residuals, 4)

	// The missing row stays missing; the fitted rows hold observed - fitted.
	// For points (10,1), (30,0.5), (40,2) the OLS line is y = 0.5 + 0.025x.
	assert.InDelta(t, 0.25, residuals[0], 1e-9)
	assert.True(t, math.IsNaN(residuals[1]))
	assert.InDelta(t, -0.75, residuals[2], 1e-9)
	assert.InDelta(t, 0.5, residuals[3], 1e-9)

	// With an intercept, residuals over the fitted rows sum to zero.
	sum := residuals[0] + residuals[2] + residuals[3]
	assert.InDelta(t, 0.0, sum, 1e-9)
}

func TestResidualizeDropsRowsWithMissingCovariates(t *testing.T) {
	nan := math.NaN()
	p := pheno.Vector{1, 2, 3, 4, 5}
	covs := pheno.NewCovariates()
	require.NoError(t, covs.Add("age", pheno.Vector{10, nan, 30, 40, 50}))
	require.NoError(t, covs.Add("bmi", pheno.Vector{20, 21, 22, nan, 24}))

	residuals, err := Residualize(p, covs)
	require.NoError(t, err)
	require.Len(t, residuals, 5)
	assert.True(t, math.IsNaN(residuals[1]))
	assert.True(t, math.IsNaN(residuals[3]))
	for _, i := range []int{0, 2, 4} {
		assert.False(t, math.IsNaN(residuals[i]), "row %d should be fitted", i)
	}
}

func TestResidualizeResolvesCollinearCovariates(t *testing.T) {
	// bmi is an exact linear function of age, so the design is rank
	// deficient; the minimum-norm fit must still resolve it.
	p := pheno.Vector{1.0, 2.2, 2.8, 4.1, 5.3}
	age := pheno.Vector{10, 20, 30, 40, 50}
	covs := pheno.NewCovariates()
	require.NoError(t, covs.Add("age", age))
	require.NoError(t, covs.Add("bmi", pheno.Vector{21, 22, 23, 24, 25}))

	residuals, err := Residualize(p, covs)
	require.NoError(t, err)
	require.Len(t, residuals, 5)

	sum := 0.0
	for i, r := range residuals {
		require.False(t, math.IsNaN(r), "row %d should be fitted", i)
		sum += r
	}
	assert.InDelta(t, 0.0, sum, 1e-9)

	// The redundant column spans nothing new, so the residuals match the
	// full-rank fit on age alone.
	single := pheno.NewCovariates()
	require.NoError(t, single.Add("age", age))
	want, err := Residualize(p, single)
	require.NoError(t, err)
	for i := range want {
		assert.InDelta(t, want[i], residuals[i], 1e-9)
	}
}

func TestResidualizePrunesAllZeroColumns(t *testing.T) {
	// The zero column would make the design matrix singular if kept.
	p := pheno.Vector{1.0, 2.1, 2.9, 4.2}
	covs := pheno.NewCovariates()
	require.NoError(t, covs.Add("x", pheno.Vector{1, 2, 3, 4}))
	require.NoError(t, covs.Add("batch", pheno.Vector{0, 0, 0, 0}))

	residuals, err := Residualize(p, covs)
	require.NoError(t, err)
	require.Len(t, residuals, 4)

	sum := 0.0
	for _, r := range residuals {
		require.False(t, math.IsNaN(r))
		sum += r
	}
	assert.InDelta(t, 0.0, sum, 1e-9)
}

func TestResidualizeFailsWithoutUsableColumns(t *testing.T) {
	p := pheno.Vector{1, 2, 3}
	covs := pheno.NewCovariates()
	require.NoError(t, covs.Add("batch", pheno.Vector{0, 0, 0}))

	_, err := Residualize(p, covs)
	assert.ErrorIs(t, err, core.ErrNoUsableCovariates)
}

func TestResidualizeFailsWithEmptyCovariates(t *testing.T) {
	_, err := Residualize(pheno.Vector{1, 2, 3}, pheno.NewCovariates())
	assert.ErrorIs(t, err, core.ErrNoUsableCovariates)

	_, err = Residualize(pheno.Vector{1, 2, 3}, nil)
	assert.ErrorIs(t, err, core.ErrNoUsableCovariates)
}

func TestResidualizeFailsOnLengthMismatch(t *testing.T) {
	covs := pheno.NewCovariates()
	require.NoError(t, covs.Add("age", pheno.Vector{10, 20}))

	_, err := Residualize(pheno.Vector{1, 2, 3}, covs)
	assert.ErrorIs(t, err, core.ErrLengthMismatch)
}

func TestResidualizeFailsWhenAllRowsMissing(t *testing.T) {
	nan := math.NaN()
	covs := pheno.NewCovariates()
	require.NoError(t, covs.Add("age", pheno.Vector{10, 20, 30}))

	_, err := Residualize(pheno.Vector{nan, nan, nan}, covs)
	require.Error(t, err)
	assert.True(t, core.IsFitError(err))
}
