package run

import (
	"time"

	"predix/domain/core"
	"predix/domain/stats"
)

// Status tracks the lifecycle of one analysis run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is the audit record for one association analysis run: which phenotype
// fed it, under which mode, against how many genes.
type Run struct {
	ID             core.RunID    `db:"id" json:"id"`
	Mode           stats.Mode    `db:"mode" json:"mode"`
	PhenoFile      string        `db:"pheno_file" json:"pheno_file"`
	PhenoColumn    string        `db:"pheno_column" json:"pheno_column"`
	CovariateNames []string      `db:"-" json:"covariate_names,omitempty"`
	Residualized   bool          `db:"residualized" json:"residualized"`
	GeneCount      int           `db:"gene_count" json:"gene_count"`
	PhenoSummary   stats.Summary `db:"-" json:"pheno_summary"`
	Status         Status        `db:"status" json:"status"`
	ErrorMessage   string        `db:"error_message" json:"error_message,omitempty"`
	StartedAt      time.Time     `db:"started_at" json:"started_at"`
	FinishedAt     *time.Time    `db:"finished_at" json:"finished_at,omitempty"`
}

// NewRun creates a running record with a fresh identifier.
func NewRun(mode stats.Mode, phenoFile, phenoColumn string) *Run {
	return &Run{
		ID:          core.NewRunID(),
		Mode:        mode,
		PhenoFile:   phenoFile,
		PhenoColumn: phenoColumn,
		Status:      StatusRunning,
		StartedAt:   time.Now().UTC(),
	}
}

// Complete marks the run finished.
func (r *Run) Complete(geneCount int) {
	now := time.Now().UTC()
	r.GeneCount = geneCount
	r.Status = StatusCompleted
	r.FinishedAt = &now
}

// Fail marks the run failed with the given cause.
func (r *Run) Fail(err error) {
	now := time.Now().UTC()
	r.Status = StatusFailed
	if err != nil {
		r.ErrorMessage = err.Error()
	}
	r.FinishedAt = &now
}
