package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"taximport/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// preferredColumns are listed first when present on the exported objects.
var preferredColumns = []string{"name", "rate", "externalId"}

// Writer wraps csv.Writer for exporting tax objects as CSV.
type Writer struct {
	csv     *csv.Writer
	columns []string
}

// NewWriter creates a Writer that writes CSV to w. The column set is "id"
// plus the property names of the first object: preferred columns first,
// the rest sorted.
func NewWriter(w io.Writer, taxes []domain.ExportedTax) *Writer {
	return &Writer{csv: csv.NewWriter(w), columns: columnsFor(taxes)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(w.columns)
}

// WriteTaxes converts tax objects to CSV rows and writes them.
func (w *Writer) WriteTaxes(taxes []domain.ExportedTax) error {
	for i := range taxes {
		if err := w.csv.Write(w.taxToRow(&taxes[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func (w *Writer) taxToRow(tax *domain.ExportedTax) []string {
	row := make([]string, len(w.columns))
	row[0] = tax.ID
	for i, col := range w.columns[1:] {
		row[i+1] = tax.Properties[col]
	}
	return row
}

func columnsFor(taxes []domain.ExportedTax) []string {
	columns := []string{"id"}
	if len(taxes) == 0 {
		return append(columns, preferredColumns...)
	}

	props := taxes[0].Properties
	seen := make(map[string]bool, len(props))
	for _, col := range preferredColumns {
		if _, ok := props[col]; ok {
			columns = append(columns, col)
			seen[col] = true
		}
	}

	var rest []string
	for col := range props {
		if !seen[col] {
			rest = append(rest, col)
		}
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use as a file name. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized, dated CSV file name.
// Format: {sanitized_name}_{YYYY-MM-DD}.csv
func BuildFilename(name string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
