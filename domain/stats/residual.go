package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"predix/domain/core"
	"predix/domain/pheno"
)

// rankTolerance is the relative singular-value cutoff when determining the
// effective rank of the design matrix.
const rankTolerance = 1e-15

// Residualize removes the linear effect of the covariates from the phenotype
// via an ordinary least squares fit with intercept.
//
// Rows carrying a missing value in the phenotype or any covariate are dropped
// from the fit. Covariate columns that are entirely zero across the retained
// rows are dropped as well, so they cannot degenerate the design matrix.
// The residuals are re-aligned onto the original row set: retained rows hold
// observed minus fitted, dropped rows hold NaN. Output length always equals
// the input phenotype length.
func Residualize(p pheno.Vector, covs *pheno.Covariates) (pheno.Vector, error) {
	if covs == nil || covs.Len() == 0 {
		return nil, core.ErrNoUsableCovariates
	}
	n := len(p)
	if covs.Rows() != n {
		return nil, core.ErrLengthMismatch
	}

	names := covs.Names()
	cols := make([]pheno.Vector, len(names))
	for i, name := range names {
		cols[i], _ = covs.Column(name)
	}

	// Listwise deletion over phenotype and covariates.
	retained := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(p[i]) {
			continue
		}
		complete := true
		for _, c := range cols {
			if math.IsNaN(c[i]) {
				complete = false
				break
			}
		}
		if complete {
			retained = append(retained, i)
		}
	}

	// Drop covariate columns that are all zero over the retained rows.
	kept := make([]int, 0, len(cols))
	for j, c := range cols {
		allZero := true
		for _, i := range retained {
			if c[i] != 0 {
				allZero = false
				break
			}
		}
		if !allZero {
			kept = append(kept, j)
		}
	}
	if len(kept) == 0 {
		return nil, core.ErrNoUsableCovariates
	}
	if len(retained) < len(kept)+1 {
		return nil, core.NewFitError(core.ErrEmptyTable)
	}

	// Design matrix: intercept column, then the kept covariates.
	rows := len(retained)
	x := mat.NewDense(rows, len(kept)+1, nil)
	y := mat.NewDense(rows, 1, nil)
	for r, i := range retained {
		x.Set(r, 0, 1)
		for k, j := range kept {
			x.Set(r, k+1, cols[j][i])
		}
		y.Set(r, 0, p[i])
	}

	// Minimum-norm least squares via the pseudoinverse. Listwise deletion can
	// leave the retained rows collinear; a rank-deficient design still has a
	// well-defined fit, so only a failed decomposition is a fit error.
	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDThin) {
		return nil, core.NewFitError(errors.New("singular value decomposition did not converge"))
	}
	rank := svd.Rank(rankTolerance)
	if rank == 0 {
		return nil, core.NewFitError(errors.New("design matrix has rank zero"))
	}
	var beta mat.Dense
	svd.SolveTo(&beta, y, rank)

	var fitted mat.Dense
	fitted.Mul(x, &beta)

	out := make(pheno.Vector, n)
	for i := range out {
		out[i] = math.NaN()
	}
	for r, i := range retained {
		out[i] = p[i] - fitted.At(r, 0)
	}
	return out, nil
}
