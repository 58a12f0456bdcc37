package hubspot

// Property names on the CRM tax object.
const (
	propName       = "name"
	propRate       = "rate"
	propExternalID = "externalId"
)

// batchCreateRequest is the body of a batch-create call.
type batchCreateRequest struct {
	Inputs []batchInput `json:"inputs"`
}

// batchInput wraps one record's property map.
type batchInput struct {
	Properties map[string]string `json:"properties"`
}

// taxObject is one tax object as the CRM returns it.
type taxObject struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// batchCreateResponse is the CRM's reply to a batch-create call. A 2xx
// response can still carry per-record rejections in Errors.
type batchCreateResponse struct {
	Status    string       `json:"status"`
	Results   []taxObject  `json:"results"`
	NumErrors int          `json:"numErrors"`
	Errors    []batchError `json:"errors"`
}

// batchError is one remote rejection inside a batch response.
type batchError struct {
	Status   string `json:"status"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// listResponse is the CRM's reply to a list call.
type listResponse struct {
	Results []taxObject `json:"results"`
}
