package tabular

import (
	"log"

	"predix/domain/pheno"
)

// LoadPhenotype reads one named column from a tabular file and returns it as
// a phenotype vector, with sentinel values replaced by NaN.
func LoadPhenotype(path, column string) (pheno.Vector, error) {
	t, err := Read(path)
	if err != nil {
		return nil, err
	}
	values, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	v := pheno.ScrubSentinel(values)
	log.Printf("[Phenotype] Loaded column %q from %s (%d rows, %d missing)", column, path, len(v), v.MissingCount())
	return v, nil
}

// LoadCovariates reads exactly the named columns from a tabular file as a
// covariate table. The sentinel substitution runs independently per column,
// and a missing named column is an error.
func LoadCovariates(path string, names []string) (*pheno.Covariates, error) {
	t, err := Read(path)
	if err != nil {
		return nil, err
	}
	covs := pheno.NewCovariates()
	for _, name := range names {
		values, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if err := covs.Add(name, pheno.ScrubSentinel(values)); err != nil {
			return nil, err
		}
	}
	log.Printf("[Covariates] Loaded %d columns from %s (%d rows)", covs.Len(), path, covs.Rows())
	return covs, nil
}
