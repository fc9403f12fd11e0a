package filerepo_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casedesk/casedesk-go/credentials/filerepo"
)

func TestRoundTripAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	repo, err := filerepo.New(dir)
	require.NoError(t, err)

	require.NoError(t, repo.Set("accessToken", "access-1"))
	require.NoError(t, repo.Set("user", `{"id":1}`))

	// A fresh open over the same directory sees the persisted record,
	// the way a page reload restores a browser session.
	reopened, err := filerepo.New(dir)
	require.NoError(t, err)

	value, ok, err := reopened.Get("accessToken")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "access-1", value)
}

func TestDeleteRemovesKey(t *testing.T) {
	repo, err := filerepo.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, repo.Set("refreshToken", "refresh-1"))
	require.NoError(t, repo.Delete("refreshToken"))
	require.NoError(t, repo.Delete("refreshToken")) // idempotent

	_, ok, err := repo.Get("refreshToken")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCorruptRecordTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0o600))

	repo, err := filerepo.New(dir)
	require.NoError(t, err)

	_, ok, err := repo.Get("accessToken")
	require.NoError(t, err)
	require.False(t, ok)
}
