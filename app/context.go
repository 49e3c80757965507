package app

import (
	"fmt"
	"log"

	"predix/adapters/expression/columnar"
	"predix/adapters/expression/plaintext"
	"predix/domain/core"
	"predix/domain/pheno"
	"predix/domain/stats"
	"predix/internal/config"
	"predix/internal/errors"
	"predix/ports"
)

// Context is the accessor contract the downstream association routine
// consumes. A context must be opened before the accessors are used, and
// closed when the analysis run ends; Close releases the expression backend
// unconditionally, error or not.
type Context interface {
	Genes() ([]string, error)
	ExpressionForGene(gene string) (*ports.GeneExpression, error)
	Pheno() pheno.Vector
	Mode() stats.Mode
	Covariates() *pheno.Covariates
	Open() error
	Close() error
}

// baseContext owns the expression backend and the prepared phenotype state
// for the duration of one analysis run.
type baseContext struct {
	cfg   *config.Config
	expr  ports.Expression
	state *phenotypeState
}

// open activates the backend and prepares the phenotype. If phenotype
// preparation fails after the backend opened, the backend is released
// before the error propagates.
func (c *baseContext) open() error {
	if c.state != nil {
		return fmt.Errorf("context is already open")
	}
	if err := c.expr.Open(); err != nil {
		return errors.Wrap(err, "failed to open expression backend")
	}
	state, err := preparePhenotype(c.cfg)
	if err != nil {
		c.expr.Close()
		return err
	}
	c.state = state
	return nil
}

// Close releases the expression backend. Safe to call regardless of how far
// Open got.
func (c *baseContext) Close() error {
	c.state = nil
	return c.expr.Close()
}

// Genes lists the gene identifiers of the expression backend.
func (c *baseContext) Genes() ([]string, error) {
	return c.expr.Genes()
}

// ExpressionForGene fetches one gene's expression.
func (c *baseContext) ExpressionForGene(gene string) (*ports.GeneExpression, error) {
	return c.expr.ExpressionForGene(gene)
}

// Pheno returns the phenotype vector, residualized when covariates were
// configured.
func (c *baseContext) Pheno() pheno.Vector {
	if c.state == nil {
		return nil
	}
	return c.state.pheno
}

// Mode returns the effective association mode.
func (c *baseContext) Mode() stats.Mode {
	if c.state == nil {
		return ""
	}
	return c.state.mode
}

// Covariates returns the covariate table, or nil when none was configured.
func (c *baseContext) Covariates() *pheno.Covariates {
	if c.state == nil {
		return nil
	}
	return c.state.covariates
}

// MultiTissueContext drives a multi-tissue association run.
type MultiTissueContext struct {
	baseContext
	policy stats.EigenPolicy
}

// NewMultiTissueContext composes a context around a previously selected
// expression backend. Construction is cheap and performs no I/O.
func NewMultiTissueContext(cfg *config.Config, expr ports.Expression) (*MultiTissueContext, error) {
	if _, err := stats.ParseMode(cfg.Mode); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return &MultiTissueContext{
		baseContext: baseContext{cfg: cfg, expr: expr},
		policy:      stats.PolicyFromThresholds(cfg.Filter.PCConditionNumber, cfg.Filter.PCEigenRatio),
	}, nil
}

// MultiTissueContextFromConfig selects the expression backend and composes
// the context in one step.
func MultiTissueContextFromConfig(cfg *config.Config) (*MultiTissueContext, error) {
	log.Println("Preparing multi-tissue association context")
	if _, err := stats.ParseMode(cfg.Mode); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	expr, err := SelectExpression(cfg)
	if err != nil {
		return nil, err
	}
	return NewMultiTissueContext(cfg, expr)
}

// Open activates the backend and loads the phenotype state.
func (c *MultiTissueContext) Open() error {
	log.Println("Entering multi-tissue association context")
	return c.open()
}

// Close releases the expression backend.
func (c *MultiTissueContext) Close() error {
	log.Println("Exiting multi-tissue association context")
	return c.baseContext.Close()
}

// PCFilter returns the configured eigenvalue filter, or nil when no
// filtering policy was configured. The association routine evaluates it;
// this context only carries it.
func (c *MultiTissueContext) PCFilter() stats.FilterFunc {
	return c.policy.Filter()
}

// SingleTissueContext drives a single-tissue association run. Its backend
// is selected internally: a plain-text expression file when configured,
// otherwise a columnar expression file.
type SingleTissueContext struct {
	baseContext
}

// NewSingleTissueContext composes a single-tissue context from
// configuration. Construction is cheap; the file handle is opened by Open.
func NewSingleTissueContext(cfg *config.Config) (*SingleTissueContext, error) {
	if _, err := stats.ParseMode(cfg.Mode); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	var expr ports.Expression
	switch {
	case cfg.Expression.File != "":
		log.Println("Preparing single-tissue association context")
		expr = plaintext.NewExpression(cfg.Expression.File)
	case cfg.Expression.ColumnarFile != "":
		log.Println("Preparing single-tissue columnar association context")
		expr = columnar.NewExpression(cfg.Expression.ColumnarFile)
	default:
		return nil, errors.WithCode(errors.CodeConfigInvalid, core.ErrNoExpressionSource)
	}
	return &SingleTissueContext{baseContext{cfg: cfg, expr: expr}}, nil
}

// Open activates the backend and loads the phenotype state.
func (c *SingleTissueContext) Open() error {
	log.Println("Entering single-tissue association context")
	return c.open()
}

// Close releases the expression backend.
func (c *SingleTissueContext) Close() error {
	log.Println("Exiting single-tissue association context")
	return c.baseContext.Close()
}

var (
	_ Context = (*MultiTissueContext)(nil)
	_ Context = (*SingleTissueContext)(nil)
)
