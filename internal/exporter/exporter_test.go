package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taximport/internal/domain"
	"taximport/internal/port"
)

// fakeAPI replays a canned tax list.
type fakeAPI struct {
	taxes []domain.ExportedTax
	limit int
}

func (f *fakeAPI) BatchCreate(_ context.Context, _ []domain.TaxRecord) (*port.BatchOutcome, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) List(_ context.Context, limit int) ([]domain.ExportedTax, error) {
	f.limit = limit
	return f.taxes, nil
}

// fakeStore captures uploads.
type fakeStore struct {
	bucket, key, contentType string
	body                     []byte
}

func (f *fakeStore) Download(_ context.Context, _, _ string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	f.bucket = input.Bucket
	f.key = input.Key
	f.contentType = input.ContentType
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &port.UploadOutput{Location: "https://s3/" + input.Bucket + "/" + input.Key}, nil
}

func sampleTaxes() []domain.ExportedTax {
	return []domain.ExportedTax{
		{
			ID: "101", Name: "Texas State Tax", Rate: "6.25", ExternalID: "TX001",
			Properties: map[string]string{
				"name": "Texas State Tax", "rate": "6.25", "externalId": "TX001",
				"hs_created": "2025-01-01",
			},
		},
		{
			ID: "102", Name: "California State Tax", Rate: "7.25", ExternalID: "CA001",
			Properties: map[string]string{
				"name": "California State Tax", "rate": "7.25", "externalId": "CA001",
				"hs_created": "2025-02-01",
			},
		},
	}
}

func TestRun_CSVToFile(t *testing.T) {
	api := &fakeAPI{taxes: sampleTaxes()}
	out := filepath.Join(t.TempDir(), "taxes.csv")

	err := New(api, nil).Run(context.Background(), Options{Limit: 50, Output: out, Format: FormatCSV})
	require.NoError(t, err)
	assert.Equal(t, 50, api.limit)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, BOM))

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, BOM)))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "name", "rate", "externalId", "hs_created"}, rows[0])
	assert.Equal(t, []string{"101", "Texas State Tax", "6.25", "TX001", "2025-01-01"}, rows[1])
}

func TestRun_JSONToFile(t *testing.T) {
	api := &fakeAPI{taxes: sampleTaxes()}
	out := filepath.Join(t.TempDir(), "taxes.json")

	err := New(api, nil).Run(context.Background(), Options{Output: out, Format: FormatJSON})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var taxes []domain.ExportedTax
	require.NoError(t, json.Unmarshal(data, &taxes))
	require.Len(t, taxes, 2)
	assert.Equal(t, "101", taxes[0].ID)
}

func TestRun_CSVToS3(t *testing.T) {
	api := &fakeAPI{taxes: sampleTaxes()}
	store := &fakeStore{}

	err := New(api, store).Run(context.Background(), Options{
		Output: "s3://exports/taxes/latest.csv",
		Format: FormatCSV,
	})
	require.NoError(t, err)

	assert.Equal(t, "exports", store.bucket)
	assert.Equal(t, "taxes/latest.csv", store.key)
	assert.Equal(t, "text/csv", store.contentType)
	assert.True(t, bytes.HasPrefix(store.body, BOM))
}

func TestRun_S3WithoutStore(t *testing.T) {
	api := &fakeAPI{taxes: sampleTaxes()}

	err := New(api, nil).Run(context.Background(), Options{
		Output: "s3://exports/taxes.csv",
		Format: FormatCSV,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "object storage not configured")
}

func TestRun_DirectoryOutputGetsGeneratedName(t *testing.T) {
	api := &fakeAPI{taxes: sampleTaxes()}
	store := &fakeStore{}

	err := New(api, store).Run(context.Background(), Options{
		Output: "s3://exports/taxes/",
		Format: FormatCSV,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(store.key, "taxes/taxes_"))
	assert.True(t, strings.HasSuffix(store.key, ".csv"))
}

func TestRun_UnknownFormat(t *testing.T) {
	err := New(&fakeAPI{}, nil).Run(context.Background(), Options{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, sampleTaxes()))

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Texas State Tax")
	assert.Contains(t, out, "hs_created=2025-01-01")

	buf.Reset()
	require.NoError(t, renderTable(&buf, nil))
	assert.Contains(t, buf.String(), "No tax objects found")
}

func TestColumnsFor_NoResults(t *testing.T) {
	assert.Equal(t, []string{"id", "name", "rate", "externalId"}, columnsFor(nil))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "My_Taxes_2026", SanitizeFilename("My Taxes! (2026)"))
	assert.Equal(t, "a-b_c", SanitizeFilename("a-b c"))
	assert.Len(t, SanitizeFilename(strings.Repeat("x", 150)), 100)
}

func TestBuildFilename(t *testing.T) {
	name := BuildFilename("taxes")
	assert.True(t, strings.HasPrefix(name, "taxes_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
}
