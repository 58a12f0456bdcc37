package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"taximport/internal/config"
	"taximport/internal/exporter"
	"taximport/internal/hubspot"
	"taximport/internal/logging"
	"taximport/internal/port"
	storages3 "taximport/internal/storage/s3"
)

var (
	exportLimit  int
	exportOutput string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fetch tax objects from the CRM and render them",
	Long: `Fetches existing tax objects from the CRM and renders them as a table,
JSON, or CSV. Output goes to stdout by default; --output accepts a local path
or s3://bucket/key (CSV uploads set a text/csv content type).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport()
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().IntVar(&exportLimit, "limit", 100,
		"maximum number of tax objects to retrieve")
	exportCmd.Flags().StringVar(&exportOutput, "output", "",
		"output path (local file or s3://bucket/key; default stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", exporter.FormatTable,
		"output format: table, json, or csv")
}

func runExport() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	closeLog, err := logging.Setup(&cfg.Log, verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	token, err := config.LoadPortalToken(cfgFile, portal)
	if err != nil {
		return err
	}

	var store port.ObjectStorage
	if strings.HasPrefix(exportOutput, "s3://") {
		store, err = storages3.NewS3Client(&cfg.S3)
		if err != nil {
			return err
		}
	}

	return exporter.New(hubspot.NewClient(cfg, token), store).Run(ctx, exporter.Options{
		Limit:  exportLimit,
		Output: exportOutput,
		Format: exportFormat,
	})
}
