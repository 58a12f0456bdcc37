package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taximport/internal/domain"
)

func TestWriteSummary(t *testing.T) {
	res := &domain.ImportResult{
		RunID:     "run-1",
		TotalRows: 3,
		Succeeded: 2,
		Failed:    1,
		Batches:   1,
		Elapsed:   1234 * time.Millisecond,
		Errors: []domain.RowError{
			{Row: 2, JurisdictionID: "CA001", Field: "jurisdiction_desc", Message: "jurisdiction_desc is missing or empty"},
		},
	}

	var buf bytes.Buffer
	WriteSummary(&buf, res)

	out := buf.String()
	assert.Contains(t, out, "Import completed")
	assert.Contains(t, out, "Total rows: 3")
	assert.Contains(t, out, "Succeeded:  2")
	assert.Contains(t, out, "Failed:     1")
	assert.Contains(t, out, "row 2 (CA001): jurisdiction_desc is missing or empty")
}

func TestWriteSummary_DryRun(t *testing.T) {
	res := &domain.ImportResult{RunID: "run-2", TotalRows: 5, Succeeded: 5, DryRun: true}

	var buf bytes.Buffer
	WriteSummary(&buf, res)

	out := buf.String()
	assert.Contains(t, out, "Dry run completed")
	assert.Contains(t, out, "no records submitted")
	assert.NotContains(t, out, "Errors:")
}

func TestWriteSummary_BatchlessErrors(t *testing.T) {
	res := &domain.ImportResult{
		TotalRows: 1,
		Failed:    1,
		Errors:    []domain.RowError{{Message: "rejected by crm: VALIDATION_ERROR: rate invalid"}},
	}

	var buf bytes.Buffer
	WriteSummary(&buf, res)
	assert.Contains(t, buf.String(), "rejected by crm: VALIDATION_ERROR: rate invalid")
}
