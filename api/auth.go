package api

import (
	"context"
	"net/http"

	"github.com/casedesk/casedesk-go/users"
)

// AuthAPI covers the authentication endpoints. Credential refresh is not
// here: the transport pipeline owns the refresh protocol.
type AuthAPI struct {
	c *Client
}

// TokenPair is the access/refresh pair returned by login and registration.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginResponse is the payload of POST /auth/login/.
type LoginResponse struct {
	Access  string        `json:"access"`
	Refresh string        `json:"refresh"`
	User    users.Profile `json:"user"`
}

// RegisterInput creates an individual account.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RegisterResponse is the payload of POST /auth/register/. Tokens are only
// present when the service logs the new account straight in.
type RegisterResponse struct {
	Tokens *TokenPair    `json:"tokens,omitempty"`
	User   users.Profile `json:"user"`
}

// UpdateProfileInput carries a partial profile update; nil fields are left
// unchanged by the server.
type UpdateProfileInput struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// Login exchanges credentials for a token pair and the user profile.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	payload := map[string]string{"email": email, "password": password}
	out := &LoginResponse{}
	if err := a.c.do(ctx, http.MethodPost, "/auth/login/", nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Register creates an individual account.
func (a *AuthAPI) Register(ctx context.Context, input RegisterInput) (*RegisterResponse, error) {
	out := &RegisterResponse{}
	if err := a.c.do(ctx, http.MethodPost, "/auth/register/", nil, input, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Logout notifies the server that the refresh token should be revoked.
// Callers treat this as best effort; local teardown happens regardless.
func (a *AuthAPI) Logout(ctx context.Context, refreshToken string) error {
	payload := map[string]string{"refresh": refreshToken}
	return a.c.do(ctx, http.MethodPost, "/auth/logout/", nil, payload, nil)
}

// Me returns the current user profile.
func (a *AuthAPI) Me(ctx context.Context) (*users.Profile, error) {
	out := &users.Profile{}
	if err := a.c.do(ctx, http.MethodGet, "/auth/me/", nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProfile updates the current user profile and returns the stored
// version.
func (a *AuthAPI) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*users.Profile, error) {
	out := &users.Profile{}
	if err := a.c.do(ctx, http.MethodPut, "/auth/me/", nil, input, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ChangePassword changes the password of the logged-in user.
func (a *AuthAPI) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	payload := map[string]string{
		"old_password":         oldPassword,
		"new_password":         newPassword,
		"new_password_confirm": newPassword,
	}
	return a.c.do(ctx, http.MethodPost, "/auth/change-password/", nil, payload, nil)
}

// RequestPasswordReset starts the forgot-password flow and returns the
// server's confirmation message.
func (a *AuthAPI) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	payload := map[string]string{"email": email}
	out := struct {
		Message string `json:"message"`
	}{}
	if err := a.c.do(ctx, http.MethodPost, "/auth/password-reset/", nil, payload, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ConfirmPasswordReset completes the forgot-password flow with the token
// from the reset email.
func (a *AuthAPI) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	payload := map[string]string{
		"token":                token,
		"new_password":         newPassword,
		"new_password_confirm": newPassword,
	}
	return a.c.do(ctx, http.MethodPost, "/auth/password-reset/confirm/", nil, payload, nil)
}
