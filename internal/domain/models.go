package domain

import (
	"time"
)

// TaxRecord is one tax-jurisdiction row read from an input file.
// It lives only for the duration of a run: constructed from a row,
// validated, and either packed into a batch request or rejected.
type TaxRecord struct {
	JurisdictionID   string  `json:"jurisdiction_id"`
	JurisdictionDesc string  `json:"jurisdiction_desc"`
	TaxPercentage    float64 `json:"tax_percentage"`

	// Row is the 1-based data row number in the source file, header excluded.
	Row int `json:"row"`
}

// RowError is a single row-scoped failure: either a local validation
// error or a rejection reported by the CRM for that record.
type RowError struct {
	Row            int    `json:"row"`
	JurisdictionID string `json:"jurisdiction_id,omitempty"`
	Field          string `json:"field,omitempty"`
	Message        string `json:"message"`
}

// ImportResult aggregates the outcome of one import run.
type ImportResult struct {
	RunID     string        `json:"run_id"`
	TotalRows int           `json:"total_rows"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Batches   int           `json:"batches"`
	DryRun    bool          `json:"dry_run"`
	Errors    []RowError    `json:"errors,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Ok reports whether every record made it through.
func (r *ImportResult) Ok() bool {
	return r.Failed == 0
}

// ExportedTax is one tax object fetched back from the CRM.
type ExportedTax struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Rate       string            `json:"rate"`
	ExternalID string            `json:"external_id"`
	Properties map[string]string `json:"properties"`
}
