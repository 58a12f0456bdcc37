package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taximport/internal/config"
	"taximport/internal/hubspot"
	"taximport/internal/importer"
	"taximport/internal/logging"
	"taximport/internal/port"
	"taximport/internal/report"
	"taximport/internal/source"
	storages3 "taximport/internal/storage/s3"
)

var (
	dryRun    bool
	batchSize int
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Validate a tax file and push its records to the CRM in batches",
	Long: `Reads tax-jurisdiction records from a CSV or XLSX file (local path or
s3://bucket/key), validates every row, and submits the valid records to the
CRM's batch-create endpoint.

Validation collects all row errors before anything is submitted; invalid rows
are excluded and reported, they never abort the run. Schema problems (missing
columns, empty file) and credential problems abort before any network call.

With --dry-run the file is validated and reported without a single network
call, and no credentials are required.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"validate the file without submitting anything")
	importCmd.Flags().IntVar(&batchSize, "batch-size", 0,
		fmt.Sprintf("records per batch (default from config, max %d)", config.MaxBatchSize))
}

func runImport(path string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if batchSize > 0 {
		cfg.Import.BatchSize = batchSize
		if cfg.Import.BatchSize > config.MaxBatchSize {
			cfg.Import.BatchSize = config.MaxBatchSize
		}
	}

	closeLog, err := logging.Setup(&cfg.Log, verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store port.ObjectStorage
	if _, _, ok := source.ParseS3URI(path); ok {
		store, err = storages3.NewS3Client(&cfg.S3)
		if err != nil {
			return err
		}
	}

	// Dry runs never need credentials and never build a client.
	var api port.TaxAPI
	if !dryRun {
		token, err := config.LoadPortalToken(cfgFile, portal)
		if err != nil {
			return err
		}
		api = hubspot.NewClient(cfg, token)
	}

	res, err := importer.New(cfg, api, store).Run(ctx, path, dryRun)
	if err != nil {
		return err
	}

	report.WriteSummary(os.Stdout, res)
	report.LogSummary(res)

	if !res.Ok() {
		return fmt.Errorf("%d of %d record(s) failed", res.Failed, res.TotalRows)
	}
	return nil
}
