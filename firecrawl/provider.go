// Package firecrawl implements coursefetch.Provider against the Firecrawl
// extract API. Extraction is asynchronous on the provider side: a submit
// call returns a job ID which is then polled until the job completes or
// fails. The whole exchange is bounded by the caller's context.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/boldstep/coursefetch"
)

// DefaultBaseURL is the hosted Firecrawl API endpoint.
const DefaultBaseURL = "https://api.firecrawl.dev/v1"

// DefaultPollInterval is the delay between job status polls.
const DefaultPollInterval = 2 * time.Second

// Ensure Provider implements coursefetch.Provider at compile time.
var _ coursefetch.Provider = (*Provider)(nil)

// Provider submits extraction jobs to the Firecrawl API.
type Provider struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	pollInterval time.Duration
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL overrides the API endpoint. Used by tests and self-hosted
// deployments.
func WithBaseURL(url string) Option {
	return func(p *Provider) {
		p.baseURL = url
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.client = client
	}
}

// WithPollInterval sets the delay between job status polls.
func WithPollInterval(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.pollInterval = d
		}
	}
}

// NewProvider creates a Provider. The API key is required; a missing key is
// a configuration error detected up front, before any URL is processed.
func NewProvider(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, coursefetch.Errorf(coursefetch.EUNAUTHORIZED, "firecrawl API key required")
	}

	// The default client carries no timeout of its own. Every request is
	// built with the caller's context, and a client-level deadline shorter
	// than the batch deadline would masquerade as a batch timeout.
	p := &Provider{
		apiKey:       apiKey,
		baseURL:      DefaultBaseURL,
		client:       &http.Client{},
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "firecrawl"
}

// Extract submits the URL and schema and polls until the provider resolves
// the job. Provider-side failures surface as coded errors; the caller maps
// them onto per-URL outcomes.
func (p *Provider) Extract(ctx context.Context, req coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
	jobID, err := p.submit(ctx, req)
	if err != nil {
		return nil, err
	}

	fields, err := p.await(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return coursefetch.CourseFromFields(fields, req.URL), nil
}

type submitResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Error   string `json:"error"`
}

func (p *Provider) submit(ctx context.Context, req coursefetch.ExtractionRequest) (string, error) {
	body := map[string]any{
		"urls":   []string{req.URL},
		"prompt": req.Schema.Prompt,
		"schema": jsonSchema(req.Schema),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", coursefetch.Errorf(coursefetch.EINTERNAL, "encode extract request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/extract", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	var resp submitResponse
	if err := p.do(httpReq, &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.ID == "" {
		return "", coursefetch.Errorf(coursefetch.EINTERNAL, "extract job rejected: %s", orUnknown(resp.Error))
	}
	return resp.ID, nil
}

type statusResponse struct {
	Success bool            `json:"success"`
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// await polls the job until it leaves the processing state. The poll loop
// has no deadline of its own; the batch client's timeout bounds it through
// the context.
func (p *Provider) await(ctx context.Context, jobID string) (map[string]string, error) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/extract/"+jobID, nil)
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

		var resp statusResponse
		if err := p.do(httpReq, &resp); err != nil {
			return nil, err
		}

		switch resp.Status {
		case "completed":
			return decodeFields(resp.Data)
		case "failed", "cancelled":
			return nil, coursefetch.Errorf(coursefetch.EINTERNAL, "extraction failed: %s", orUnknown(resp.Error))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Provider) do(req *http.Request, out any) error {
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if err := statusError(resp.StatusCode, body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return coursefetch.Errorf(coursefetch.EINTERNAL, "decode provider response: %v", err)
	}
	return nil
}

func statusError(code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}

	msg := apiError(body)
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return coursefetch.Errorf(coursefetch.EUNAUTHORIZED, "authentication failed: %s", msg)
	case code == http.StatusPaymentRequired || code == http.StatusTooManyRequests:
		return coursefetch.Errorf(coursefetch.EUNAVAILABLE, "quota exceeded: %s", msg)
	case code >= 500:
		return coursefetch.Errorf(coursefetch.EUNAVAILABLE, "provider unavailable: HTTP %d: %s", code, msg)
	default:
		return coursefetch.Errorf(coursefetch.EINTERNAL, "provider error: HTTP %d: %s", code, msg)
	}
}

// apiError pulls the error message out of an API error body, falling back
// to the raw body when it isn't the usual JSON envelope.
func apiError(body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	if len(body) == 0 {
		return "unknown error"
	}
	return string(body)
}

// decodeFields flattens the job's data payload into a field-name to value
// mapping. The API returns either a single object or a one-element list.
func decodeFields(data json.RawMessage) (map[string]string, error) {
	if len(data) == 0 {
		return nil, coursefetch.Errorf(coursefetch.EINTERNAL, "extraction completed with no data")
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		var list []map[string]any
		if err := json.Unmarshal(data, &list); err != nil || len(list) == 0 {
			return nil, coursefetch.Errorf(coursefetch.EINTERNAL, "unparseable extraction data")
		}
		obj = list[0]
	}

	fields := make(map[string]string, len(obj))
	for name, value := range obj {
		switch v := value.(type) {
		case nil:
			// Field not found on the page; leave unset.
		case string:
			fields[name] = v
		default:
			fields[name] = fmt.Sprint(v)
		}
	}
	return fields, nil
}

func jsonSchema(s coursefetch.Schema) map[string]any {
	props := make(map[string]any, len(s.Fields))
	var required []string
	for _, f := range s.Fields {
		props[f.Name] = map[string]any{
			"type":        "string",
			"description": f.Description,
		}
		if f.Required {
			required = append(required, f.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func orUnknown(msg string) string {
	if msg == "" {
		return "unknown error"
	}
	return msg
}
