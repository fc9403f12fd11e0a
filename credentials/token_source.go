package credentials

import (
	"golang.org/x/oauth2"

	interrors "github.com/casedesk/casedesk-go/internal/errors"
)

// TokenSource adapts the store to golang.org/x/oauth2 so HTTP stacks that
// consume an oauth2.TokenSource can attach casedesk credentials. The source
// never refreshes on its own; refresh stays with the request pipeline.
func (s *Store) TokenSource() oauth2.TokenSource {
	return tokenSource{store: s}
}

type tokenSource struct {
	store *Store
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	pair := ts.store.Get()
	if pair.Access == "" {
		return nil, interrors.ErrNoAccessToken
	}

	token := &oauth2.Token{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		TokenType:    "Bearer",
	}
	if expiry, err := pair.AccessExpiry(); err == nil && !expiry.IsZero() {
		token.Expiry = expiry
	}
	return token, nil
}
