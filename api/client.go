package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Client is the typed entry point to the remote case-management service.
// It performs no credential handling of its own; authentication and retry
// live in the transport pipeline supplied via WithHTTPClient.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client, normally one returned by
// transport.Pipeline.Client. Defaults to http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the client logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a service client rooted at baseURL (e.g.
// "https://api.example.com/api").
func New(baseURL string, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[api.New] base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.Wrap(err, "[api.New] parsing base URL")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Resource accessors.

func (c *Client) Auth() *AuthAPI           { return &AuthAPI{c: c} }
func (c *Client) Cases() *CasesAPI         { return &CasesAPI{c: c} }
func (c *Client) CaseTypes() *CaseTypesAPI { return &CaseTypesAPI{c: c} }
func (c *Client) Clients() *ClientsAPI     { return &ClientsAPI{c: c} }
func (c *Client) Tasks() *TasksAPI         { return &TasksAPI{c: c} }
func (c *Client) Documents() *DocumentsAPI { return &DocumentsAPI{c: c} }
func (c *Client) Dashboard() *DashboardAPI { return &DashboardAPI{c: c} }
func (c *Client) Firms() *FirmsAPI         { return &FirmsAPI{c: c} }

// do sends one JSON request. A non-2xx response decodes into *APIError;
// network-level failures are wrapped but keep their original cause.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[do] encoding %s %s body", method, path)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return errors.Wrapf(err, "[do] building %s %s", method, path)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[do] %s %s", method, path)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "[do] decoding %s %s response", method, path)
	}
	return nil
}

// raw sends a request and returns the response body bytes, for endpoints
// that do not speak JSON (document downloads).
func (c *Client) raw(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "[raw] building %s %s", method, path)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "[raw] %s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, decodeAPIError(resp)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "[raw] reading %s %s response", method, path)
	}
	return raw, nil
}
