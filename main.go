package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"predix/adapters/postgres"
	"predix/app"
	"predix/domain/run"
	"predix/domain/stats"
	"predix/internal"
	"predix/internal/config"
	"predix/internal/errors"
	"predix/ports"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if err := runAnalysis(cfg); err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
}

// runAnalysis builds the configured association context, opens it for one
// run, and records the run in the ledger when one is configured. The
// association test itself runs downstream against the Context accessors.
func runAnalysis(cfg *config.Config) error {
	ctx := context.Background()
	logger := internal.DefaultLogger

	var ledger ports.RunLedger
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return errors.Wrap(err, "failed to connect to run ledger")
		}
		defer db.Close()
		ledger = postgres.NewRunLedger(db)
	}

	c, err := buildContext(cfg)
	if err != nil {
		return err
	}

	record := run.NewRun(stats.Mode(cfg.Mode), cfg.Phenotype.File, cfg.Phenotype.Column)
	record.CovariateNames = cfg.Phenotype.Covariates
	if ledger != nil {
		if err := ledger.RecordRun(ctx, record); err != nil {
			return err
		}
	}

	if err := c.Open(); err != nil {
		finishRun(ctx, ledger, record, err)
		return err
	}
	defer c.Close()

	genes, err := c.Genes()
	if err != nil {
		finishRun(ctx, ledger, record, err)
		return err
	}

	summary := stats.Summarize(c.Pheno())
	logger.Info("Phenotype: %d samples, %d missing, mean %.4f, sd %.4f",
		summary.Samples, summary.Missing, summary.Mean, summary.StdDev)
	if logger.GetLevel() >= internal.LogLevelDebug {
		logger.Debug("Phenotype spread: median %.4f, range [%.4f, %.4f]",
			summary.Median, summary.Min, summary.Max)
	}
	logger.Info("Context ready: mode %s, %d genes", c.Mode(), len(genes))

	record.Mode = c.Mode()
	record.Residualized = c.Covariates() != nil
	record.PhenoSummary = summary
	record.Complete(len(genes))
	if ledger != nil {
		return ledger.UpdateRun(ctx, record)
	}
	return nil
}

// buildContext picks the context variant: multi-tissue for folder-backed
// expression sources, single-tissue for single-file sources.
func buildContext(cfg *config.Config) (app.Context, error) {
	if cfg.Expression.ColumnarFolder != "" || cfg.Expression.Folder != "" {
		return app.MultiTissueContextFromConfig(cfg)
	}
	return app.NewSingleTissueContext(cfg)
}

func finishRun(ctx context.Context, ledger ports.RunLedger, record *run.Run, cause error) {
	if ledger == nil {
		return
	}
	record.Fail(cause)
	if err := ledger.UpdateRun(ctx, record); err != nil {
		internal.DefaultLogger.Warn("failed to update run record: %v", err)
	}
}
