package credentials

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Pair holds the current access/refresh token pair. Empty strings mean the
// token is absent. The access token is short-lived and attached to every
// authenticated request; the refresh token is long-lived and used only to
// mint new access tokens.
type Pair struct {
	Access  string
	Refresh string
}

// Store owns the credential pair for the process. It keeps the pair in
// memory and mirrors every write synchronously to the durable Repo, so a
// restart restores the session. The store holds no network or validation
// logic.
type Store struct {
	mu   sync.RWMutex
	pair Pair
	repo Repo
	log  zerolog.Logger
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithLogger sets the logger used by the store. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore creates a credential store backed by the given durable repo and
// loads any previously persisted pair into memory.
func NewStore(repo Repo, options ...StoreOption) (*Store, error) {
	if repo == nil {
		return nil, errors.New("[NewStore] repo is required")
	}

	s := &Store{
		repo: repo,
		log:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}

	access, _, err := repo.Get(KeyAccessToken)
	if err != nil {
		return nil, errors.Wrap(err, "[NewStore] loading access token")
	}
	refresh, _, err := repo.Get(KeyRefreshToken)
	if err != nil {
		return nil, errors.Wrap(err, "[NewStore] loading refresh token")
	}
	s.pair = Pair{Access: access, Refresh: refresh}

	return s, nil
}

// Set replaces the in-memory pair and mirrors it to durable storage. An
// empty access or refresh value removes the corresponding persisted token,
// which supports access-only rotation during a refresh.
func (s *Store) Set(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = Pair{Access: access, Refresh: refresh}

	if err := s.persist(KeyAccessToken, access); err != nil {
		return errors.Wrap(err, "[Set] persisting access token")
	}
	if err := s.persist(KeyRefreshToken, refresh); err != nil {
		return errors.Wrap(err, "[Set] persisting refresh token")
	}
	return nil
}

// Get returns the current pair.
func (s *Store) Get() Pair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair
}

// Clear removes the pair from memory and durable storage, along with the
// persisted user profile snapshot.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = Pair{}

	var firstErr error
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser} {
		if err := s.repo.Delete(key); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "[Clear] deleting %s", key)
		}
	}
	if firstErr != nil {
		return firstErr
	}

	s.log.Debug().Msg("credentials cleared")
	return nil
}

// SaveUserSnapshot persists the JSON-encoded user profile alongside the
// tokens so the session can be restored optimistically on startup.
func (s *Store) SaveUserSnapshot(raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Wrap(s.repo.Set(KeyUser, string(raw)), "[SaveUserSnapshot]")
}

// LoadUserSnapshot returns the persisted user profile, if any.
func (s *Store) LoadUserSnapshot() ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok, err := s.repo.Get(KeyUser)
	if err != nil {
		return nil, false, errors.Wrap(err, "[LoadUserSnapshot]")
	}
	if !ok || raw == "" {
		return nil, false, nil
	}
	return []byte(raw), true, nil
}

func (s *Store) persist(key, value string) error {
	if value == "" {
		return s.repo.Delete(key)
	}
	return s.repo.Set(key, value)
}
