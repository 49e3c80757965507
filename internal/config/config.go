package config

import (
	"os"
	"strconv"
	"strings"

	"predix/domain/stats"
	"predix/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Mode       string
	Expression ExpressionConfig
	Phenotype  PhenotypeConfig
	Filter     FilterConfig
	Database   DatabaseConfig
}

// ExpressionConfig selects the expression source. Exactly one backend is
// derived from these fields, in the selector's priority order.
type ExpressionConfig struct {
	ColumnarFolder  string
	ColumnarFile    string
	Folder          string
	File            string
	Pattern         string
	MemoryEfficient bool
}

// PhenotypeConfig locates the phenotype column and optional covariates.
type PhenotypeConfig struct {
	File           string
	Column         string
	CovariatesFile string
	Covariates     []string
}

// FilterConfig holds principal-component filtering thresholds.
type FilterConfig struct {
	PCConditionNumber float64
	PCEigenRatio      float64
}

// DatabaseConfig holds the optional run ledger connection.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Mode: os.Getenv("MODE"),
		Expression: ExpressionConfig{
			ColumnarFolder:  os.Getenv("COLUMNAR_EXPRESSION_FOLDER"),
			ColumnarFile:    os.Getenv("COLUMNAR_EXPRESSION_FILE"),
			Folder:          os.Getenv("EXPRESSION_FOLDER"),
			File:            os.Getenv("EXPRESSION_FILE"),
			Pattern:         getEnvOrDefault("EXPRESSION_PATTERN", `(.*)\.txt$`),
			MemoryEfficient: getEnvBool("MEMORY_EFFICIENT"),
		},
		Phenotype: PhenotypeConfig{
			File:           os.Getenv("INPUT_PHENOS_FILE"),
			Column:         os.Getenv("INPUT_PHENOS_COLUMN"),
			CovariatesFile: os.Getenv("COVARIATES_FILE"),
			Covariates:     splitList(os.Getenv("COVARIATES")),
		},
		Filter: FilterConfig{
			PCConditionNumber: getEnvFloat("PC_CONDITION_NUMBER"),
			PCEigenRatio:      getEnvFloat("PC_EIGEN_RATIO"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the required fields.
func (c *Config) Validate() error {
	if c.Mode == "" {
		return errors.ConfigInvalid("MODE is required")
	}
	if _, err := stats.ParseMode(c.Mode); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if c.Phenotype.File == "" {
		return errors.ConfigInvalid("INPUT_PHENOS_FILE is required")
	}
	if c.Phenotype.Column == "" {
		return errors.ConfigInvalid("INPUT_PHENOS_COLUMN is required")
	}
	return nil
}

// HasCovariates reports whether both a covariates file and a covariate name
// list are configured. Only then does residualization run.
func (c *Config) HasCovariates() bool {
	return c.Phenotype.CovariatesFile != "" && len(c.Phenotype.Covariates) > 0
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func getEnvFloat(key string) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return 0
	}
	return v
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
