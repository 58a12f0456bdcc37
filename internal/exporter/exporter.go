package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"taximport/internal/domain"
	"taximport/internal/port"
	"taximport/internal/source"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// Options controls one export run.
type Options struct {
	Limit  int
	Output string // empty = stdout; may be a local path or s3://bucket/key
	Format string
}

// Exporter fetches tax objects from the CRM and renders them.
type Exporter struct {
	api   port.TaxAPI
	store port.ObjectStorage
}

// New creates an Exporter. store may be nil when no s3:// output is used.
func New(api port.TaxAPI, store port.ObjectStorage) *Exporter {
	return &Exporter{api: api, store: store}
}

// Run fetches up to opts.Limit tax objects and writes them in opts.Format.
func (e *Exporter) Run(ctx context.Context, opts Options) error {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	taxes, err := e.api.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("fetching taxes: %w", err)
	}
	log.Printf("exporter.Exporter: retrieved %d tax object(s)", len(taxes))

	var buf bytes.Buffer
	switch opts.Format {
	case FormatJSON:
		err = renderJSON(&buf, taxes)
	case FormatCSV:
		err = renderCSV(&buf, taxes)
	case FormatTable, "":
		err = renderTable(&buf, taxes)
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
	if err != nil {
		return err
	}

	return e.write(ctx, opts.Output, buf.Bytes())
}

// write delivers rendered output to stdout, a local file, or s3://.
// A path ending in "/" gets a generated, dated file name.
func (e *Exporter) write(ctx context.Context, output string, data []byte) error {
	if output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if strings.HasSuffix(output, "/") {
		output += BuildFilename("taxes")
	}

	if bucket, key, ok := source.ParseS3URI(output); ok {
		if e.store == nil {
			return fmt.Errorf("s3 output %s: object storage not configured", output)
		}
		out, err := e.store.Upload(ctx, port.UploadInput{
			Bucket:      bucket,
			Key:         key,
			Body:        bytes.NewReader(data),
			ContentType: "text/csv",
		})
		if err != nil {
			return fmt.Errorf("uploading export: %w", err)
		}
		log.Printf("exporter.Exporter: uploaded export to %s", out.Location)
		return nil
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	log.Printf("exporter.Exporter: wrote export to %s", output)
	return nil
}

func renderJSON(w io.Writer, taxes []domain.ExportedTax) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(taxes)
}

func renderCSV(w io.Writer, taxes []domain.ExportedTax) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := NewWriter(w, taxes)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteTaxes(taxes); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func renderTable(w io.Writer, taxes []domain.ExportedTax) error {
	if len(taxes) == 0 {
		_, err := fmt.Fprintln(w, "No tax objects found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tRATE\tEXTERNAL ID\tOTHER")
	for i := range taxes {
		tax := &taxes[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			tax.ID, tax.Name, tax.Rate, tax.ExternalID, otherProperties(tax))
	}
	return tw.Flush()
}

// otherProperties renders properties beyond the well-known three as k=v pairs.
func otherProperties(tax *domain.ExportedTax) string {
	var parts []string
	for k, v := range tax.Properties {
		switch k {
		case "name", "rate", "externalId":
			continue
		}
		parts = append(parts, k+"="+v)
	}
	if len(parts) == 0 {
		return ""
	}
	// Stable order for output and tests.
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
