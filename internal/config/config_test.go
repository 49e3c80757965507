package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predix/internal/errors"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MODE", "linear")
	t.Setenv("INPUT_PHENOS_FILE", "phenos.txt")
	t.Setenv("INPUT_PHENOS_COLUMN", "PHENO")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EXPRESSION_PATTERN", "")
	t.Setenv("MEMORY_EFFICIENT", "")
	t.Setenv("COVARIATES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "linear", cfg.Mode)
	assert.Equal(t, `(.*)\.txt$`, cfg.Expression.Pattern)
	assert.False(t, cfg.Expression.MemoryEfficient)
	assert.Nil(t, cfg.Phenotype.Covariates)
	assert.Zero(t, cfg.Filter.PCConditionNumber)
	assert.False(t, cfg.HasCovariates())
}

func TestLoadReadsAllFields(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MODE", "logistic")
	t.Setenv("COLUMNAR_EXPRESSION_FOLDER", "models/")
	t.Setenv("EXPRESSION_PATTERN", `pred_(.*)\.txt$`)
	t.Setenv("MEMORY_EFFICIENT", "true")
	t.Setenv("COVARIATES_FILE", "covs.txt")
	t.Setenv("COVARIATES", "SEX, AGE ,BMI")
	t.Setenv("PC_CONDITION_NUMBER", "30")
	t.Setenv("PC_EIGEN_RATIO", "0.01")
	t.Setenv("DATABASE_URL", "postgres://localhost/predix")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "logistic", cfg.Mode)
	assert.Equal(t, "models/", cfg.Expression.ColumnarFolder)
	assert.Equal(t, `pred_(.*)\.txt$`, cfg.Expression.Pattern)
	assert.True(t, cfg.Expression.MemoryEfficient)
	assert.Equal(t, []string{"SEX", "AGE", "BMI"}, cfg.Phenotype.Covariates)
	assert.Equal(t, 30.0, cfg.Filter.PCConditionNumber)
	assert.Equal(t, 0.01, cfg.Filter.PCEigenRatio)
	assert.Equal(t, "postgres://localhost/predix", cfg.Database.URL)
	assert.True(t, cfg.HasCovariates())
}

func TestValidateRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name  string
		unset string
	}{
		{"missing mode", "MODE"},
		{"missing phenotype file", "INPUT_PHENOS_FILE"},
		{"missing phenotype column", "INPUT_PHENOS_COLUMN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.unset, "")

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MODE", "poisson")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestHasCovariatesNeedsBothFileAndNames(t *testing.T) {
	cfg := &Config{}
	cfg.Phenotype.CovariatesFile = "covs.txt"
	assert.False(t, cfg.HasCovariates())

	cfg.Phenotype.CovariatesFile = ""
	cfg.Phenotype.Covariates = []string{"SEX"}
	assert.False(t, cfg.HasCovariates())

	cfg.Phenotype.CovariatesFile = "covs.txt"
	assert.True(t, cfg.HasCovariates())
}
