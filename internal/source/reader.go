package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"taximport/internal/domain"
	"taximport/internal/port"
)

// Required input columns.
const (
	ColJurisdictionID   = "jurisdiction_id"
	ColJurisdictionDesc = "jurisdiction_desc"
	ColTaxPercentage    = "tax_percentage"
)

// RequiredColumns lists the columns every input file must carry.
var RequiredColumns = []string{ColJurisdictionID, ColJurisdictionDesc, ColTaxPercentage}

// Row is one data row keyed by header name. Num is 1-based, header excluded.
type Row struct {
	Num    int
	Fields map[string]string
}

// Get returns the named field, or "" when the column is short on this row.
func (r *Row) Get(col string) string {
	return r.Fields[col]
}

// Read loads all data rows from path. Supported inputs: local .csv and .xlsx
// files, and s3://bucket/key URIs for either (resolved through store).
// Missing required columns or an empty file abort with a schema error.
func Read(ctx context.Context, path string, store port.ObjectStorage) ([]Row, error) {
	data, name, err := fetch(ctx, path, store)
	if err != nil {
		return nil, err
	}

	var rows []Row
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		rows, err = readCSV(bytes.NewReader(data))
	case ".xlsx":
		rows, err = readXLSX(data)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, filepath.Ext(name))
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, domain.ErrEmptyFile
	}
	return rows, nil
}

// fetch returns the raw file bytes plus the name used to sniff the format.
func fetch(ctx context.Context, path string, store port.ObjectStorage) ([]byte, string, error) {
	if bucket, key, ok := ParseS3URI(path); ok {
		if store == nil {
			return nil, "", fmt.Errorf("s3 source %s: object storage not configured", path)
		}
		data, err := store.Download(ctx, bucket, key)
		if err != nil {
			return nil, "", fmt.Errorf("fetching %s: %w", path, err)
		}
		return data, key, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return data, path, nil
}

// ParseS3URI splits an s3://bucket/key URI. ok is false for non-S3 paths.
func ParseS3URI(path string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(path, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// UTF-8 BOM left by Excel on Windows exports.
var bom = []byte{0xEF, 0xBB, 0xBF}

func readCSV(r io.Reader) ([]Row, error) {
	br, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	br = bytes.TrimPrefix(br, bom)

	cr := csv.NewReader(bytes.NewReader(br))
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, domain.ErrEmptyFile
	}
	return tabulate(records)
}

func readXLSX(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading xlsx sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, domain.ErrEmptyFile
	}
	return tabulate(records)
}

// tabulate maps records[0] as the header row onto the remaining rows,
// checking that every required column is present first.
func tabulate(records [][]string) ([]Row, error) {
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	if missing := missingColumns(header); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumns, strings.Join(missing, ", "))
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		fields := make(map[string]string, len(header))
		for j, col := range header {
			if col == "" {
				continue
			}
			if j < len(rec) {
				fields[col] = strings.TrimSpace(rec[j])
			} else {
				fields[col] = ""
			}
		}
		rows = append(rows, Row{Num: i + 1, Fields: fields})
	}
	return rows, nil
}

func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}
