package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"predix/domain/core"
	"predix/domain/run"
	"predix/internal/errors"
	"predix/ports"
)

// runLedger implements the RunLedger interface
type runLedger struct {
	db *sqlx.DB
}

// NewRunLedger creates a new run ledger backed by PostgreSQL
func NewRunLedger(db *sqlx.DB) ports.RunLedger {
	return &runLedger{db: db}
}

// RecordRun inserts a new run record
func (r *runLedger) RecordRun(ctx context.Context, rn *run.Run) error {
	covariatesJSON, err := json.Marshal(rn.CovariateNames)
	if err != nil {
		return fmt.Errorf("failed to marshal covariate names: %w", err)
	}
	summaryJSON, err := json.Marshal(rn.PhenoSummary)
	if err != nil {
		return fmt.Errorf("failed to marshal phenotype summary: %w", err)
	}

	query := `INSERT INTO association_runs (
		id, mode, pheno_file, pheno_column, covariate_names, residualized,
		gene_count, pheno_summary, status, error_message, started_at, finished_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
	)`

	_, err = r.db.ExecContext(ctx, query,
		rn.ID, rn.Mode, rn.PhenoFile, rn.PhenoColumn, covariatesJSON, rn.Residualized,
		rn.GeneCount, summaryJSON, rn.Status, rn.ErrorMessage, rn.StartedAt, rn.FinishedAt,
	)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to record run: %w", err))
	}
	return nil
}

// UpdateRun rewrites the mutable fields of an existing run
func (r *runLedger) UpdateRun(ctx context.Context, rn *run.Run) error {
	summaryJSON, err := json.Marshal(rn.PhenoSummary)
	if err != nil {
		return fmt.Errorf("failed to marshal phenotype summary: %w", err)
	}

	query := `UPDATE association_runs SET
		gene_count = $2, pheno_summary = $3, status = $4,
		error_message = $5, residualized = $6, finished_at = $7
	WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		rn.ID, rn.GeneCount, summaryJSON, rn.Status, rn.ErrorMessage, rn.Residualized, rn.FinishedAt,
	)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to update run: %w", err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run not found: %s", rn.ID)
	}
	return nil
}

// GetRun fetches a run by id
func (r *runLedger) GetRun(ctx context.Context, id string) (*run.Run, error) {
	rid, err := core.ParseRunID(id)
	if err != nil {
		return nil, err
	}

	query := `SELECT
		id, mode, pheno_file, pheno_column, covariate_names, residualized,
		gene_count, pheno_summary, status, COALESCE(error_message, '') as error_message,
		started_at, finished_at
	FROM association_runs WHERE id = $1`

	var rn run.Run
	var covariatesJSON, summaryJSON []byte

	err = r.db.QueryRowContext(ctx, query, rid.String()).Scan(
		&rn.ID, &rn.Mode, &rn.PhenoFile, &rn.PhenoColumn, &covariatesJSON, &rn.Residualized,
		&rn.GeneCount, &summaryJSON, &rn.Status, &rn.ErrorMessage,
		&rn.StartedAt, &rn.FinishedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run not found: %s", id)
		}
		return nil, errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to get run: %w", err))
	}

	if len(covariatesJSON) > 0 {
		if err := json.Unmarshal(covariatesJSON, &rn.CovariateNames); err != nil {
			return nil, fmt.Errorf("failed to unmarshal covariate names: %w", err)
		}
	}
	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &rn.PhenoSummary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal phenotype summary: %w", err)
		}
	}
	return &rn, nil
}

var _ ports.RunLedger = (*runLedger)(nil)
