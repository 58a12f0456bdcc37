package importer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"taximport/internal/config"
	"taximport/internal/domain"
	"taximport/internal/port"
	"taximport/internal/source"
	"taximport/internal/validator"
)

// Importer runs the import pipeline: read rows, validate, chunk into
// batches, submit sequentially, aggregate the result.
type Importer struct {
	cfg   *config.Config
	api   port.TaxAPI
	store port.ObjectStorage
}

// New creates an Importer. api may be nil for dry runs: the importer never
// touches it before the submission stage, and dry runs stop earlier.
func New(cfg *config.Config, api port.TaxAPI, store port.ObjectStorage) *Importer {
	return &Importer{cfg: cfg, api: api, store: store}
}

// Run imports the file at path. With dryRun set it validates and reports
// without issuing a single network call. Row-level failures never abort the
// run; schema and config problems do.
func (im *Importer) Run(ctx context.Context, path string, dryRun bool) (*domain.ImportResult, error) {
	start := time.Now()
	runID := uuid.New().String()

	res := &domain.ImportResult{RunID: runID, DryRun: dryRun}

	rows, err := source.Read(ctx, path, im.store)
	if err != nil {
		return nil, err
	}
	res.TotalRows = len(rows)
	log.Printf("importer.Importer: [%s] starting import of %d rows from %s", runID, len(rows), path)

	records, rowErrs := validator.Default().Run(rows)
	res.Errors = rowErrs
	res.Failed = res.TotalRows - len(records)
	if len(rowErrs) > 0 {
		log.Printf("importer.Importer: [%s] %d row(s) failed validation", runID, res.Failed)
	}

	if dryRun {
		res.Succeeded = len(records)
		res.Elapsed = time.Since(start)
		log.Printf("importer.Importer: [%s] dry run: %d valid, %d invalid, no records submitted",
			runID, res.Succeeded, res.Failed)
		return res, nil
	}

	batches := chunk(records, im.cfg.Import.BatchSize)
	res.Batches = len(batches)
	log.Printf("importer.Importer: [%s] submitting %d record(s) in %d batch(es)",
		runID, len(records), len(batches))

	for i, batch := range batches {
		if i > 0 && im.cfg.Import.BatchPause > 0 {
			select {
			case <-ctx.Done():
				res.Elapsed = time.Since(start)
				return res, ctx.Err()
			case <-time.After(im.cfg.Import.BatchPause):
			}
		}

		log.Printf("importer.Importer: [%s] batch %d/%d (%d records)", runID, i+1, len(batches), len(batch))

		outcome, err := im.api.BatchCreate(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				res.Elapsed = time.Since(start)
				return res, ctx.Err()
			}
			log.Printf("importer.Importer: [%s] batch %d failed: %v", runID, i+1, err)
			res.Failed += len(batch)
			for j := range batch {
				rec := &batch[j]
				res.Errors = append(res.Errors, domain.RowError{
					Row:            rec.Row,
					JurisdictionID: rec.JurisdictionID,
					Message:        fmt.Sprintf("batch submission failed: %v", err),
				})
			}
			continue
		}

		res.Succeeded += outcome.Created
		res.Failed += len(outcome.Errors)
		for _, re := range outcome.Errors {
			msg := re.Message
			if re.Category != "" {
				msg = fmt.Sprintf("%s: %s", re.Category, re.Message)
			}
			res.Errors = append(res.Errors, domain.RowError{Message: "rejected by crm: " + msg})
		}
	}

	res.Elapsed = time.Since(start)
	log.Printf("importer.Importer: [%s] import completed: %d succeeded, %d failed in %s",
		runID, res.Succeeded, res.Failed, res.Elapsed.Round(time.Millisecond))
	return res, nil
}

// chunk splits records into slices of at most size.
func chunk(records []domain.TaxRecord, size int) [][]domain.TaxRecord {
	if size <= 0 {
		size = config.MaxBatchSize
	}
	var batches [][]domain.TaxRecord
	for i := 0; i < len(records); i += size {
		end := i + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[i:end])
	}
	return batches
}
