package credentials_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/casedesk/casedesk-go/credentials"
	storagerepofake "github.com/casedesk/casedesk-go/credentials/repofake"
	interrors "github.com/casedesk/casedesk-go/internal/errors"
)

func TestSetMirrorsToStorage(t *testing.T) {
	repo := storagerepofake.NewFakeStorageRepo()
	store, err := credentials.NewStore(repo)
	require.NoError(t, err)

	require.NoError(t, store.Set("access-1", "refresh-1"))

	require.Equal(t, credentials.Pair{Access: "access-1", Refresh: "refresh-1"}, store.Get())

	access, ok, err := repo.Get(credentials.KeyAccessToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "access-1", access)

	refresh, ok, err := repo.Get(credentials.KeyRefreshToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "refresh-1", refresh)
}

func TestSetWithEmptyAccessRemovesPersistedToken(t *testing.T) {
	repo := storagerepofake.NewFakeStorageRepo()
	store, err := credentials.NewStore(repo)
	require.NoError(t, err)

	require.NoError(t, store.Set("access-1", "refresh-1"))
	require.NoError(t, store.Set("", "refresh-1"))

	_, ok, err := repo.Get(credentials.KeyAccessToken)
	require.NoError(t, err)
	require.False(t, ok)

	// Refresh token untouched by the access-only removal.
	refresh, ok, err := repo.Get(credentials.KeyRefreshToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "refresh-1", refresh)
}

func TestAccessOnlyRotationKeepsRefreshToken(t *testing.T) {
	repo := storagerepofake.NewFakeStorageRepo()
	store, err := credentials.NewStore(repo)
	require.NoError(t, err)

	require.NoError(t, store.Set("access-1", "refresh-1"))
	require.NoError(t, store.Set("access-2", store.Get().Refresh))

	require.Equal(t, credentials.Pair{Access: "access-2", Refresh: "refresh-1"}, store.Get())
}

func TestClearErasesTokensAndUserSnapshot(t *testing.T) {
	repo := storagerepofake.NewFakeStorageRepo()
	store, err := credentials.NewStore(repo)
	require.NoError(t, err)

	require.NoError(t, store.Set("access-1", "refresh-1"))
	require.NoError(t, store.SaveUserSnapshot([]byte(`{"id":1}`)))

	require.NoError(t, store.Clear())

	require.Equal(t, credentials.Pair{}, store.Get())
	require.Equal(t, 0, repo.Len())

	_, ok, err := store.LoadUserSnapshot()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNewStoreRestoresPersistedPair(t *testing.T) {
	repo := storagerepofake.NewFakeStorageRepo()
	require.NoError(t, repo.Set(credentials.KeyAccessToken, "access-1"))
	require.NoError(t, repo.Set(credentials.KeyRefreshToken, "refresh-1"))

	store, err := credentials.NewStore(repo)
	require.NoError(t, err)

	require.Equal(t, credentials.Pair{Access: "access-1", Refresh: "refresh-1"}, store.Get())
}

func TestUserSnapshotRoundTrip(t *testing.T) {
	repo := storagerepofake.NewFakeStorageRepo()
	store, err := credentials.NewStore(repo)
	require.NoError(t, err)

	require.NoError(t, store.SaveUserSnapshot([]byte(`{"id":7,"email":"jane@example.com"}`)))

	raw, ok, err := store.LoadUserSnapshot()
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"id":7,"email":"jane@example.com"}`, string(raw))
}

func TestAccessExpiry(t *testing.T) {
	expiry := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-7",
		ExpiresAt: jwt.NewNumericDate(expiry),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	pair := credentials.Pair{Access: signed}

	got, err := pair.AccessExpiry()
	require.NoError(t, err)
	require.True(t, got.Equal(expiry))

	subject, err := pair.AccessSubject()
	require.NoError(t, err)
	require.Equal(t, "user-7", subject)
}

func TestAccessExpiryErrors(t *testing.T) {
	_, err := credentials.Pair{}.AccessExpiry()
	require.ErrorIs(t, err, interrors.ErrNoAccessToken)

	_, err = credentials.Pair{Access: "not-a-jwt"}.AccessExpiry()
	require.ErrorIs(t, err, interrors.ErrMalformedToken)
}

func TestTokenSource(t *testing.T) {
	repo := storagerepofake.NewFakeStorageRepo()
	store, err := credentials.NewStore(repo)
	require.NoError(t, err)

	_, err = store.TokenSource().Token()
	require.ErrorIs(t, err, interrors.ErrNoAccessToken)

	require.NoError(t, store.Set("access-1", "refresh-1"))

	token, err := store.TokenSource().Token()
	require.NoError(t, err)
	require.Equal(t, "access-1", token.AccessToken)
	require.Equal(t, "refresh-1", token.RefreshToken)
	require.Equal(t, "Bearer", token.TokenType)
}
