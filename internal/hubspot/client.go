package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"taximport/internal/config"
	"taximport/internal/domain"
	"taximport/internal/port"
)

const (
	batchCreatePath = "/crm/v3/objects/taxes/batch/create"
	listPath        = "/crm/v3/objects/taxes"
)

// Client implements port.TaxAPI against the CRM's v3 tax object endpoints.
type Client struct {
	token       string
	endpoint    string
	maxAttempts int
	backoff     time.Duration
	client      *http.Client
}

// NewClient creates a Client from app config and a portal access token.
func NewClient(cfg *config.Config, token string) *Client {
	return newClient(cfg, token, cfg.API.BaseURL)
}

// NewClientWithEndpoint creates a Client pointing at a custom base URL (for testing).
func NewClientWithEndpoint(cfg *config.Config, token, endpoint string) *Client {
	return newClient(cfg, token, endpoint)
}

func newClient(cfg *config.Config, token, endpoint string) *Client {
	timeout := cfg.API.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxAttempts := cfg.Import.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	backoff := cfg.Import.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	return &Client{
		token:       token,
		endpoint:    endpoint,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		client:      &http.Client{Timeout: timeout},
	}
}

// BatchCreate submits one batch of records and reports per-record outcomes.
// The caller is responsible for keeping len(records) within the CRM's limit.
func (c *Client) BatchCreate(ctx context.Context, records []domain.TaxRecord) (*port.BatchOutcome, error) {
	reqBody := batchCreateRequest{Inputs: make([]batchInput, 0, len(records))}
	for i := range records {
		reqBody.Inputs = append(reqBody.Inputs, batchInput{Properties: recordProperties(&records[i])})
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling batch request: %w", err)
	}

	respBody, err := c.doWithRetry(ctx, http.MethodPost, c.endpoint+batchCreatePath, bodyBytes)
	if err != nil {
		return nil, err
	}

	var resp batchCreateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding batch response: %w", err)
	}

	outcome := &port.BatchOutcome{Created: len(resp.Results)}
	for _, e := range resp.Errors {
		outcome.Errors = append(outcome.Errors, port.RemoteError{
			Message:  e.Message,
			Category: e.Category,
		})
	}
	return outcome, nil
}

// List fetches up to limit tax objects from the CRM.
func (c *Client) List(ctx context.Context, limit int) ([]domain.ExportedTax, error) {
	url := c.endpoint + listPath + "?limit=" + strconv.Itoa(limit)

	respBody, err := c.doWithRetry(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding list response: %w", err)
	}

	taxes := make([]domain.ExportedTax, 0, len(resp.Results))
	for _, obj := range resp.Results {
		taxes = append(taxes, domain.ExportedTax{
			ID:         obj.ID,
			Name:       obj.Properties[propName],
			Rate:       obj.Properties[propRate],
			ExternalID: obj.Properties[propExternalID],
			Properties: obj.Properties,
		})
	}
	return taxes, nil
}

// recordProperties maps a record onto CRM property names, dropping empty
// values so blank properties are never created.
func recordProperties(rec *domain.TaxRecord) map[string]string {
	props := make(map[string]string, 3)
	if rec.JurisdictionDesc != "" {
		props[propName] = rec.JurisdictionDesc
	}
	props[propRate] = strconv.FormatFloat(rec.TaxPercentage, 'f', -1, 64)
	if rec.JurisdictionID != "" {
		props[propExternalID] = rec.JurisdictionID
	}
	return props
}

// doWithRetry sends the request, retrying network errors and 5xx responses
// with exponential backoff and honoring Retry-After on 429. Other 4xx
// statuses are terminal.
func (c *Client) doWithRetry(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		respBody, retryable, err := c.do(ctx, method, url, body)
		if err == nil {
			return respBody, nil
		}
		lastErr = err
		if !retryable || attempt == c.maxAttempts {
			return nil, err
		}

		wait := c.backoff * (1 << (attempt - 1))
		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			wait = rlErr.RetryAfter
		}

		log.Printf("hubspot.Client: attempt %d/%d failed, retrying in %s: %v",
			attempt, c.maxAttempts, wait, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}

// do performs a single request. retryable reports whether the failure is
// worth another attempt.
func (c *Client) do(ctx context.Context, method, url string, body []byte) (respBody []byte, retryable bool, err error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("calling crm API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return respBody, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		baseErr := &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
		retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
		return nil, true, NewRateLimitError(baseErr, retryAfter)
	case resp.StatusCode >= 500:
		return nil, true, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	default:
		return nil, false, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
}
