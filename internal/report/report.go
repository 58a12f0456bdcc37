package report

import (
	"fmt"
	"io"
	"log"
	"time"

	"taximport/internal/domain"
)

// WriteSummary renders a human-readable run summary: totals first, then
// every row-scoped error.
func WriteSummary(w io.Writer, res *domain.ImportResult) {
	header := "Import completed"
	if res.DryRun {
		header = "Dry run completed (no records submitted)"
	}

	fmt.Fprintf(w, "%s\n", header)
	fmt.Fprintf(w, "  Total rows: %d\n", res.TotalRows)
	fmt.Fprintf(w, "  Succeeded:  %d\n", res.Succeeded)
	fmt.Fprintf(w, "  Failed:     %d\n", res.Failed)
	if res.Batches > 0 {
		fmt.Fprintf(w, "  Batches:    %d\n", res.Batches)
	}
	fmt.Fprintf(w, "  Elapsed:    %s\n", res.Elapsed.Round(time.Millisecond))

	if len(res.Errors) == 0 {
		return
	}

	fmt.Fprintln(w, "Errors:")
	for _, e := range res.Errors {
		fmt.Fprintf(w, "  %s\n", formatRowError(&e))
	}
}

// LogSummary mirrors the summary counts into the run log.
func LogSummary(res *domain.ImportResult) {
	log.Printf("report: [%s] total=%d succeeded=%d failed=%d batches=%d dry_run=%v",
		res.RunID, res.TotalRows, res.Succeeded, res.Failed, res.Batches, res.DryRun)
	for _, e := range res.Errors {
		log.Printf("report: [%s] %s", res.RunID, formatRowError(&e))
	}
}

func formatRowError(e *domain.RowError) string {
	switch {
	case e.Row > 0 && e.JurisdictionID != "":
		return fmt.Sprintf("row %d (%s): %s", e.Row, e.JurisdictionID, e.Message)
	case e.Row > 0:
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	default:
		return e.Message
	}
}
