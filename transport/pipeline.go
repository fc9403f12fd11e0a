package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/casedesk/casedesk-go/credentials"
	interrors "github.com/casedesk/casedesk-go/internal/errors"
)

const requestIDHeader = "X-Request-ID"

// retryMarker marks a request context as already retried so a request can
// be resubmitted at most once after a credential refresh.
type retryMarker struct{}

// Pipeline is an http.RoundTripper that wraps every outbound call to the
// remote service. It attaches the current access token as a bearer
// credential and, on a 401 with a refresh token available, drives the
// refresh protocol before retrying the original request exactly once.
//
// Concurrent 401s collapse into a single refresh call: the first failing
// request starts the refresh, everyone else waits on the same in-flight
// call and resumes with the one resulting access token.
type Pipeline struct {
	base             http.RoundTripper
	creds            *credentials.Store
	refreshURL       string
	onSessionExpired func()
	log              zerolog.Logger
	metrics          *Metrics

	refreshMu sync.Mutex
	refresh   *refreshCall
}

// refreshCall is the one-slot in-flight refresh future. Waiters block on
// done; err is written once before done is closed.
type refreshCall struct {
	done chan struct{}
	err  error
}

// PipelineOption defines a function type to modify the Pipeline instance.
type PipelineOption func(*Pipeline)

// WithBase sets the underlying transport. Defaults to http.DefaultTransport.
func WithBase(rt http.RoundTripper) PipelineOption {
	return func(p *Pipeline) {
		p.base = rt
	}
}

// WithLogger sets the pipeline logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithSessionExpiredHandler registers the callback invoked after a failed
// refresh has torn the session down. Applications use it to route the user
// back to their login entry point.
func WithSessionExpiredHandler(fn func()) PipelineOption {
	return func(p *Pipeline) {
		p.onSessionExpired = fn
	}
}

// WithMetrics sets the metrics collection for the pipeline.
func WithMetrics(m *Metrics) PipelineOption {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// NewPipeline creates a request pipeline over the given credential store.
// refreshURL is the absolute URL of the token refresh endpoint.
func NewPipeline(creds *credentials.Store, refreshURL string, options ...PipelineOption) (*Pipeline, error) {
	if creds == nil {
		return nil, errors.New("[NewPipeline] credential store is required")
	}
	if refreshURL == "" {
		return nil, errors.New("[NewPipeline] refresh URL is required")
	}

	p := &Pipeline{
		base:       http.DefaultTransport,
		creds:      creds,
		refreshURL: refreshURL,
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = NewMetrics(nil)
	}
	return p, nil
}

// SetSessionExpiredHandler replaces the session-expired callback after
// construction. The pipeline and the session controller reference each
// other at wiring time, so one side has to bind late.
func (p *Pipeline) SetSessionExpiredHandler(fn func()) {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()
	p.onSessionExpired = fn
}

// Client returns an http.Client that routes through the pipeline.
func (p *Pipeline) Client() *http.Client {
	return &http.Client{Transport: p}
}

// RoundTrip implements http.RoundTripper.
func (p *Pipeline) RoundTrip(req *http.Request) (*http.Response, error) {
	requestID := uuid.NewString()

	resp, err := p.base.RoundTrip(p.withOutboundHeaders(req, requestID))
	if err != nil {
		// Network-level failure: no response to inspect, pass through.
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	if req.Context().Value(retryMarker{}) != nil {
		return resp, nil
	}

	pair := p.creds.Get()
	if pair.Refresh == "" {
		return resp, nil
	}

	retry, retryErr := cloneForRetry(req)
	if retryErr != nil {
		p.log.Warn().Str("request_id", requestID).Err(retryErr).
			Msg("cannot replay request after refresh, surfacing original 401")
		return resp, nil
	}

	if refreshErr := p.awaitRefresh(req.Context(), pair.Refresh); refreshErr != nil {
		drainAndClose(resp.Body)
		return nil, refreshErr
	}

	drainAndClose(resp.Body)
	p.metrics.Retries.Inc()
	p.log.Debug().Str("request_id", requestID).Str("url", req.URL.Path).
		Msg("retrying request with refreshed access token")

	return p.base.RoundTrip(p.withOutboundHeaders(retry, requestID))
}

// withOutboundHeaders clones the request and attaches the bearer credential
// (when one exists) and the correlation ID. The caller's request is never
// mutated.
func (p *Pipeline) withOutboundHeaders(req *http.Request, requestID string) *http.Request {
	out := req.Clone(req.Context())
	if pair := p.creds.Get(); pair.Access != "" {
		out.Header.Set("Authorization", "Bearer "+pair.Access)
	}
	out.Header.Set(requestIDHeader, requestID)
	return out
}

// awaitRefresh joins the in-flight refresh call, starting one if none is
// running. All concurrent callers observe the same outcome.
func (p *Pipeline) awaitRefresh(ctx context.Context, refreshToken string) error {
	p.refreshMu.Lock()
	call := p.refresh
	if call == nil {
		call = &refreshCall{done: make(chan struct{})}
		p.refresh = call
		go p.runRefresh(call, refreshToken)
	}
	p.refreshMu.Unlock()

	select {
	case <-call.done:
		return call.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runRefresh executes the refresh protocol once and settles the in-flight
// call. A failed refresh tears the session down: both tokens and the user
// snapshot are cleared before the session-expired handler fires.
func (p *Pipeline) runRefresh(call *refreshCall, refreshToken string) {
	err := p.refreshCredentials(refreshToken)

	p.refreshMu.Lock()
	p.refresh = nil
	onExpired := p.onSessionExpired
	p.refreshMu.Unlock()

	if err != nil {
		p.metrics.RefreshAttempts.WithLabelValues("failure").Inc()
		if clearErr := p.creds.Clear(); clearErr != nil {
			p.log.Error().Err(clearErr).Msg("clearing credentials after failed refresh")
		}
		if onExpired != nil {
			onExpired()
		}
		p.log.Warn().Err(err).Msg("credential refresh failed, session torn down")
		call.err = interrors.Wrapf(interrors.ErrSessionExpired, "%v", err)
	} else {
		p.metrics.RefreshAttempts.WithLabelValues("success").Inc()
		p.log.Debug().Msg("access token refreshed")
	}
	close(call.done)
}

// refreshCredentials posts the refresh token to the dedicated endpoint and
// stores the new access token. The refresh token itself is unchanged.
func (p *Pipeline) refreshCredentials(refreshToken string) error {
	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return errors.Wrap(err, "[refreshCredentials] encoding payload")
	}

	req, err := http.NewRequest(http.MethodPost, p.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "[refreshCredentials] building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.base.RoundTrip(req)
	if err != nil {
		return errors.Wrap(err, "[refreshCredentials] posting refresh token")
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Wrapf(interrors.ErrRefreshFailed, "refresh endpoint returned %d", resp.StatusCode)
	}

	var body struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return errors.Wrap(err, "[refreshCredentials] decoding response")
	}
	if body.Access == "" {
		return errors.Wrap(interrors.ErrRefreshFailed, "refresh response missing access token")
	}

	return errors.Wrap(p.creds.Set(body.Access, refreshToken), "[refreshCredentials] storing access token")
}

// cloneForRetry produces the retry request, marked so it is never retried
// again. Requests whose body cannot be replayed are not retriable.
func cloneForRetry(req *http.Request) (*http.Request, error) {
	retry := req.Clone(context.WithValue(req.Context(), retryMarker{}, true))
	if req.Body == nil || req.Body == http.NoBody {
		return retry, nil
	}
	if req.GetBody == nil {
		return nil, interrors.ErrBodyNotReplayable
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, errors.Wrap(err, "[cloneForRetry] rewinding body")
	}
	retry.Body = body
	return retry, nil
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
