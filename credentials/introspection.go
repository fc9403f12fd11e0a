package credentials

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	interrors "github.com/casedesk/casedesk-go/internal/errors"
)

// AccessExpiry decodes the access token's registered claims without
// verifying the signature and returns its expiry time. Verification is the
// server's job; the client only needs the expiry as a hint for logging and
// for the oauth2 TokenSource adapter.
func (p Pair) AccessExpiry() (time.Time, error) {
	if p.Access == "" {
		return time.Time{}, interrors.ErrNoAccessToken
	}

	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(p.Access, &claims); err != nil {
		return time.Time{}, interrors.Wrapf(interrors.ErrMalformedToken, "parsing access token: %v", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}

// AccessSubject returns the subject claim of the access token, when present.
func (p Pair) AccessSubject() (string, error) {
	if p.Access == "" {
		return "", interrors.ErrNoAccessToken
	}

	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(p.Access, &claims); err != nil {
		return "", interrors.Wrapf(interrors.ErrMalformedToken, "parsing access token: %v", err)
	}
	return claims.Subject, nil
}
