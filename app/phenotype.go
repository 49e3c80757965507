package app

import (
	"log"

	"predix/adapters/tabular"
	"predix/domain/core"
	"predix/domain/pheno"
	"predix/domain/stats"
	"predix/internal/config"
	"predix/internal/errors"
)

// phenotypeState is what scoped entry establishes: the validated mode, the
// loaded phenotype, and the covariate table when residualization ran.
type phenotypeState struct {
	mode       stats.Mode
	pheno      pheno.Vector
	covariates *pheno.Covariates
}

// preparePhenotype loads and validates the phenotype, then optionally
// residualizes it against the configured covariates.
//
// When both a covariates file and a covariate list are configured, a
// requested logistic mode is silently forced to linear before
// residualization. That is surprising but deliberate: residuals are
// continuous, so the downstream test family has to be linear regardless of
// what was asked for.
func preparePhenotype(cfg *config.Config) (*phenotypeState, error) {
	log.Println("Acquiring phenotype")
	p, err := tabular.LoadPhenotype(cfg.Phenotype.File, cfg.Phenotype.Column)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load phenotype")
	}

	mode, err := stats.ParseMode(cfg.Mode)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if mode == stats.ModeLogistic && !p.IsBinomial() {
		return nil, errors.WithCode(errors.CodeConfigInvalid, core.ErrNonBinomialPheno)
	}

	state := &phenotypeState{mode: mode, pheno: p}
	if !cfg.HasCovariates() {
		return state, nil
	}

	state.mode = stats.ModeLinear
	log.Println("Acquiring covariates")
	covs, err := tabular.LoadCovariates(cfg.Phenotype.CovariatesFile, cfg.Phenotype.Covariates)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load covariates from %s", cfg.Phenotype.CovariatesFile)
	}

	log.Println("Replacing phenotype with residuals")
	residuals, err := stats.Residualize(p, covs)
	if err != nil {
		return nil, errors.WithCode(errors.CodeFitError, err)
	}
	state.pheno = residuals
	state.covariates = covs
	return state, nil
}
