package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"predix/adapters/expression/columnar"
	"predix/adapters/expression/expfiles"
	"predix/adapters/expression/plaintext"
	"predix/adapters/postgres/migrations"
	"predix/app"
	"predix/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "predix-cli",
		Short: "Utilities for predicted-expression sources and the run ledger",
	}

	rootCmd.AddCommand(
		newPackCmd(),
		newGenesCmd(),
		newMigrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newPackCmd converts a folder of plain-text expression files into the
// columnar store format, one output file per tissue.
func newPackCmd() *cobra.Command {
	var pattern, outDir string

	cmd := &cobra.Command{
		Use:   "pack <expression-folder>",
		Short: "Convert plain-text expression files to columnar files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := args[0]
			if outDir == "" {
				outDir = folder
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			files, err := expfiles.Match(folder, pattern)
			if err != nil {
				return err
			}
			for _, tf := range files {
				if err := packFile(tf.Label, tf.Path, filepath.Join(outDir, tf.Label+".pxc")); err != nil {
					return fmt.Errorf("tissue %s: %w", tf.Label, err)
				}
			}
			log.Printf("Packed %d tissues into %s", len(files), outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", `(.*)\.txt$`, "regexp selecting expression files; group 1 is the tissue label")
	cmd.Flags().StringVar(&outDir, "out", "", "output folder (defaults to the input folder)")
	return cmd
}

func packFile(label, src, dst string) error {
	expr := plaintext.NewExpression(src)
	if err := expr.Open(); err != nil {
		return err
	}
	defer expr.Close()

	genes, err := expr.Genes()
	if err != nil {
		return err
	}
	if len(genes) == 0 {
		return fmt.Errorf("no genes in %s", src)
	}
	first, err := expr.ExpressionForGene(genes[0])
	if err != nil {
		return err
	}
	samples := len(first.Values[0])

	w, err := columnar.NewWriter(dst, label, samples)
	if err != nil {
		return err
	}
	for _, gene := range genes {
		e, err := expr.ExpressionForGene(gene)
		if err != nil {
			w.Close()
			return err
		}
		if err := w.WriteGene(gene, e.Values[0]); err != nil {
			w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	log.Printf("Packed %s (%d genes, %d samples) -> %s", src, len(genes), samples, dst)
	return nil
}

// newGenesCmd lists the genes of the configured expression source.
func newGenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genes",
		Short: "List the gene identifiers of the configured expression source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.Config{}
			cfg.Expression = config.ExpressionConfig{
				ColumnarFolder:  os.Getenv("COLUMNAR_EXPRESSION_FOLDER"),
				ColumnarFile:    os.Getenv("COLUMNAR_EXPRESSION_FILE"),
				Folder:          os.Getenv("EXPRESSION_FOLDER"),
				File:            os.Getenv("EXPRESSION_FILE"),
				Pattern:         envOrDefault("EXPRESSION_PATTERN", `(.*)\.txt$`),
				MemoryEfficient: true,
			}

			expr, err := app.SelectExpression(cfg)
			if err != nil {
				return err
			}
			if err := expr.Open(); err != nil {
				return err
			}
			defer expr.Close()

			genes, err := expr.Genes()
			if err != nil {
				return err
			}
			for _, g := range genes {
				fmt.Println(g)
			}
			return nil
		},
	}
}

// newMigrateCmd applies the run ledger schema.
func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <database-url>",
		Short: "Apply the run ledger schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := sqlx.Connect("postgres", args[0])
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			if err := migrations.NewMigrator(db.DB).Up(context.Background()); err != nil {
				return err
			}
			log.Println("Run ledger schema is up to date")
			return nil
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
