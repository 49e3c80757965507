package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors
	ErrInvalidMode        = errors.New("invalid association mode")
	ErrNonBinomialPheno   = errors.New("logistic regression was asked but phenotype is not binomial")
	ErrNoExpressionSource = errors.New("could not build expression from configuration")

	// Data errors
	ErrColumnNotFound = errors.New("column not found")
	ErrEmptyTable     = errors.New("table has no data rows")
	ErrLengthMismatch = errors.New("column length mismatch")
	ErrGeneNotFound   = errors.New("gene not found")

	// Fit errors
	ErrNoUsableCovariates = errors.New("no usable covariate columns after cleaning")
	ErrFitFailed          = errors.New("ordinary least squares fit failed")
)

// Error constructors with context
func NewColumnNotFoundError(column, path string) error {
	return fmt.Errorf("%w: %q in %s", ErrColumnNotFound, column, path)
}

func NewGeneNotFoundError(gene string) error {
	return fmt.Errorf("%w: %s", ErrGeneNotFound, gene)
}

func NewFitError(err error) error {
	return fmt.Errorf("%w: %v", ErrFitFailed, err)
}

// Error checking helpers
func IsFitError(err error) bool {
	return errors.Is(err, ErrFitFailed) || errors.Is(err, ErrNoUsableCovariates)
}
