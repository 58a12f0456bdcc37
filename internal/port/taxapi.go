package port

import (
	"context"

	"taximport/internal/domain"
)

// RemoteError is one rejection reported by the CRM inside an otherwise
// successful batch response.
type RemoteError struct {
	Message  string
	Category string
}

// BatchOutcome reports the per-record results of a single batch-create call.
type BatchOutcome struct {
	Created int
	Errors  []RemoteError
}

// TaxAPI abstracts the CRM's tax object endpoints.
type TaxAPI interface {
	// BatchCreate submits up to the CRM's maximum batch size of records in
	// one request and reports how many were created and which were rejected.
	BatchCreate(ctx context.Context, records []domain.TaxRecord) (*BatchOutcome, error)

	// List fetches up to limit existing tax objects.
	List(ctx context.Context, limit int) ([]domain.ExportedTax, error)
}
