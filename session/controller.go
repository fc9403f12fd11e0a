package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/casedesk/casedesk-go/api"
	"github.com/casedesk/casedesk-go/credentials"
	"github.com/casedesk/casedesk-go/users"
)

// Phase is the coarse session state.
type Phase uint8

const (
	PhaseAnonymous Phase = iota
	PhaseAuthenticating
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseAnonymous:
		return "anonymous"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// State is the session snapshot exposed to views. Views read it; only the
// controller writes it.
type State struct {
	User            *users.Profile
	IsAuthenticated bool
	IsLoading       bool
	Err             string
}

// AuthService is the slice of the API surface the controller needs for the
// credential exchange.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	UpdateProfile(ctx context.Context, input api.UpdateProfileInput) (*users.Profile, error)
}

// FirmRegistrar registers a firm together with its first manager account.
type FirmRegistrar interface {
	Register(ctx context.Context, input api.RegisterFirmInput) (*api.RegisterFirmResponse, error)
}

// Controller owns the session state machine: anonymous, authenticating,
// authenticated. It is the only writer of the session state and of the
// credential store outside the transport pipeline's refresh path.
type Controller struct {
	auth  AuthService
	firms FirmRegistrar
	creds *credentials.Store
	log   zerolog.Logger

	mu    sync.RWMutex
	state State
	phase Phase
}

// ControllerOption defines a function type to modify the Controller instance.
type ControllerOption func(*Controller)

// WithLogger sets the controller logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.log = log
	}
}

// NewController creates a session controller over the given dependencies.
func NewController(auth AuthService, firms FirmRegistrar, creds *credentials.Store, options ...ControllerOption) (*Controller, error) {
	if auth == nil {
		return nil, errors.New("[NewController] auth service is required")
	}
	if firms == nil {
		return nil, errors.New("[NewController] firm registrar is required")
	}
	if creds == nil {
		return nil, errors.New("[NewController] credential store is required")
	}

	c := &Controller{
		auth:  auth,
		firms: firms,
		creds: creds,
		log:   zerolog.Nop(),
		state: State{IsLoading: true},
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// State returns a snapshot of the session state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Phase returns the current state-machine phase.
func (c *Controller) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

// Restore replays a persisted session on startup. When a credential pair
// and a user snapshot exist, the session becomes authenticated without a
// network round trip; the snapshot is trusted as-is, and the first failing
// request demotes the session through the normal refresh-failure path.
func (c *Controller) Restore() bool {
	pair := c.creds.Get()
	raw, ok, err := c.creds.LoadUserSnapshot()
	if err != nil || !ok || pair.Access == "" {
		c.setAnonymous("")
		return false
	}

	profile := &users.Profile{}
	if err := json.Unmarshal(raw, profile); err != nil {
		c.log.Warn().Err(err).Msg("discarding unreadable user snapshot")
		c.setAnonymous("")
		return false
	}

	c.setAuthenticated(profile)
	c.log.Debug().Str("email", profile.Email).Msg("session restored from profile storage")
	return true
}

// Login exchanges credentials for a session.
func (c *Controller) Login(ctx context.Context, email, password string) (*users.Profile, error) {
	c.setAuthenticating()

	resp, err := c.auth.Login(ctx, email, password)
	if err != nil {
		c.setAnonymous(failureMessage(err, "Login failed"))
		return nil, err
	}

	if err := c.establish(resp.Access, resp.Refresh, &resp.User); err != nil {
		c.setAnonymous(failureMessage(err, "Login failed"))
		return nil, err
	}
	return c.State().User, nil
}

// RegisterFirm self-registers a firm; its first account is the manager.
// When the service returns tokens the new account is logged straight in.
func (c *Controller) RegisterFirm(ctx context.Context, input api.RegisterFirmInput) (*users.Profile, error) {
	c.setAuthenticating()

	resp, err := c.firms.Register(ctx, input)
	if err != nil {
		c.setAnonymous(failureMessage(err, "Registration failed"))
		return nil, err
	}

	profile := resp.User
	profile.Firm = &users.FirmMembership{
		ID:             resp.Firm.ID,
		Name:           resp.Firm.Name,
		Role:           users.RoleFirmManager,
		CanAssignTasks: true,
	}

	if resp.Tokens == nil {
		// Account created but pending verification: no credentials means
		// no authenticated session yet.
		c.setAnonymous("")
		return &profile, nil
	}

	if err := c.establish(resp.Tokens.Access, resp.Tokens.Refresh, &profile); err != nil {
		c.setAnonymous(failureMessage(err, "Registration failed"))
		return nil, err
	}
	return c.State().User, nil
}

// Logout notifies the server (best effort) and tears the session down.
// Credentials are cleared regardless of the server response.
func (c *Controller) Logout(ctx context.Context) error {
	if pair := c.creds.Get(); pair.Refresh != "" {
		if err := c.auth.Logout(ctx, pair.Refresh); err != nil {
			c.log.Debug().Err(err).Msg("server logout failed, clearing local session anyway")
		}
	}

	err := c.creds.Clear()
	c.setAnonymous("")
	return errors.Wrap(err, "[Logout] clearing credentials")
}

// UpdateProfile pushes a profile update and refreshes the session snapshot.
func (c *Controller) UpdateProfile(ctx context.Context, input api.UpdateProfileInput) (*users.Profile, error) {
	updated, err := c.auth.UpdateProfile(ctx, input)
	if err != nil {
		c.setError(failureMessage(err, "Profile update failed"))
		return nil, err
	}

	c.mu.Lock()
	// The profile endpoint does not echo firm membership; carry it over
	// from the current snapshot.
	if updated.Firm == nil && c.state.User != nil {
		updated.Firm = c.state.User.Firm
	}
	c.state.User = updated
	c.mu.Unlock()

	if raw, err := json.Marshal(updated); err == nil {
		if saveErr := c.creds.SaveUserSnapshot(raw); saveErr != nil {
			c.log.Warn().Err(saveErr).Msg("persisting updated user snapshot")
		}
	}
	return updated, nil
}

// ClearError resets the last error message.
func (c *Controller) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Err = ""
}

// HandleSessionExpired demotes the session after the transport pipeline has
// torn the credentials down. Wire it to the pipeline's session-expired
// handler.
func (c *Controller) HandleSessionExpired() {
	c.setAnonymous("Session expired, please sign in again")
	c.log.Info().Msg("session expired")
}

// HasRole reports whether the current user holds the given firm role.
func (c *Controller) HasRole(role users.RoleType) bool {
	return c.State().User.HasRole(role)
}

// IsManager reports whether the current user manages the firm.
func (c *Controller) IsManager() bool {
	return c.State().User.IsManager()
}

// CanAssignTasks reports whether the current user may assign tasks.
func (c *Controller) CanAssignTasks() bool {
	return c.State().User.CanAssignTasks()
}

// establish stores the credential pair, persists the user snapshot, and
// flips the session to authenticated in one step.
func (c *Controller) establish(access, refresh string, profile *users.Profile) error {
	if err := c.creds.Set(access, refresh); err != nil {
		return errors.Wrap(err, "[establish] storing credential pair")
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "[establish] encoding user snapshot")
	}
	if err := c.creds.SaveUserSnapshot(raw); err != nil {
		return errors.Wrap(err, "[establish] persisting user snapshot")
	}

	c.setAuthenticated(profile)
	return nil
}

func (c *Controller) setAuthenticating() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = PhaseAuthenticating
	c.state.IsLoading = true
	c.state.Err = ""
}

func (c *Controller) setAuthenticated(profile *users.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = PhaseAuthenticated
	c.state = State{User: profile, IsAuthenticated: true}
}

func (c *Controller) setAnonymous(errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = PhaseAnonymous
	c.state = State{Err: errMsg}
}

func (c *Controller) setError(errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Err = errMsg
}

// failureMessage extracts a human-readable message from an API failure:
// the structured detail when present, else the first field-level validation
// error, else the fallback.
func failureMessage(err error, fallback string) string {
	apiErr := &api.APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return fallback
}
