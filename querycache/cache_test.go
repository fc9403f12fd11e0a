package querycache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/casedesk/casedesk-go/querycache"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newCache(t *testing.T, options ...querycache.CacheOption) *querycache.Cache {
	t.Helper()

	cache, err := querycache.NewCache(querycache.DefaultGraph(), options...)
	require.NoError(t, err)
	return cache
}

func staticFetch(value any) querycache.FetchFunc {
	return func(context.Context) (any, error) {
		return value, nil
	}
}

// prime loads a fingerprint into the cache so its entry is fresh.
func prime(t *testing.T, cache *querycache.Cache, fp querycache.Fingerprint, value any) {
	t.Helper()

	got, err := cache.Read(context.Background(), fp, 0, staticFetch(value))
	require.NoError(t, err)
	require.Equal(t, value, got)
}

func TestConcurrentReadsCollapseIntoOneFetch(t *testing.T) {
	cache := newCache(t)
	fp := querycache.NewFingerprint("cases/list", nil)

	var fetches int64
	fetch := func(context.Context) (any, error) {
		atomic.AddInt64(&fetches, 1)
		time.Sleep(50 * time.Millisecond) // keep the fetch in flight while readers pile up
		return "cases-page-1", nil
	}

	const readers = 8
	results := make([]any, readers)
	errs := make([]error, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.Read(context.Background(), fp, 0, fetch)
		}(i)
	}
	wg.Wait()

	require.Equal(t, int64(1), atomic.LoadInt64(&fetches))
	for i := 0; i < readers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, "cases-page-1", results[i])
	}
}

func TestStalenessWindowControlsRefetch(t *testing.T) {
	clock := newTestClock()
	cache := newCache(t, querycache.WithNowTime(clock.Now))
	fp := querycache.NewFingerprint("cases/list", map[string]string{})

	var fetches int64
	fetch := func(context.Context) (any, error) {
		return atomic.AddInt64(&fetches, 1), nil
	}

	_, err := cache.Read(context.Background(), fp, 30*time.Second, fetch)
	require.NoError(t, err)

	// Second read 10 seconds later is served from cache.
	clock.Advance(10 * time.Second)
	_, err = cache.Read(context.Background(), fp, 30*time.Second, fetch)
	require.NoError(t, err)
	require.Equal(t, int64(1), atomic.LoadInt64(&fetches))

	// 40 seconds past the original fetch the entry is too old.
	clock.Advance(30 * time.Second)
	_, err = cache.Read(context.Background(), fp, 30*time.Second, fetch)
	require.NoError(t, err)
	require.Equal(t, int64(2), atomic.LoadInt64(&fetches))
}

func TestMutationInvalidatesDeclaredFamiliesOnly(t *testing.T) {
	cache := newCache(t)

	casesAll := querycache.NewFingerprint("cases/list", nil)
	casesOpen := querycache.NewFingerprint("cases/list", map[string]string{"status": "open"})
	clientsList := querycache.NewFingerprint("clients/list", nil)

	prime(t, cache, casesAll, "cases")
	prime(t, cache, casesOpen, "open cases")
	prime(t, cache, clientsList, "clients")

	_, err := cache.Mutate(context.Background(), querycache.MutationCaseCreate, nil, staticFetch("created"))
	require.NoError(t, err)

	for _, fp := range []querycache.Fingerprint{casesAll, casesOpen} {
		entry, ok := cache.Get(fp)
		require.True(t, ok)
		require.Equal(t, querycache.StatusStale, entry.Status)
		require.NotNil(t, entry.Value) // value retained for instant display
	}

	entry, ok := cache.Get(clientsList)
	require.True(t, ok)
	require.Equal(t, querycache.StatusFresh, entry.Status)
}

func TestFailedMutationInvalidatesNothing(t *testing.T) {
	cache := newCache(t)
	casesList := querycache.NewFingerprint("cases/list", nil)
	prime(t, cache, casesList, "cases")

	boom := errors.New("boom")
	_, err := cache.Mutate(context.Background(), querycache.MutationCaseCreate, nil, func(context.Context) (any, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	entry, ok := cache.Get(casesList)
	require.True(t, ok)
	require.Equal(t, querycache.StatusFresh, entry.Status)
}

func TestCaseNoteMutationScopedToOneCase(t *testing.T) {
	cache := newCache(t)

	notes42 := querycache.NewFingerprint("cases/42/notes", nil)
	notes7 := querycache.NewFingerprint("cases/7/notes", nil)
	prime(t, cache, notes42, "notes 42")
	prime(t, cache, notes7, "notes 7")

	_, err := cache.Mutate(context.Background(), querycache.MutationCaseNoteAdd,
		map[string]string{"case_id": "42"}, staticFetch("note"))
	require.NoError(t, err)

	entry, _ := cache.Get(notes42)
	require.Equal(t, querycache.StatusStale, entry.Status)

	entry, _ = cache.Get(notes7)
	require.Equal(t, querycache.StatusFresh, entry.Status)
}

func TestFetchErrorPoisonsOnlyItsOwnEntry(t *testing.T) {
	cache := newCache(t)

	failing := querycache.NewFingerprint("cases/list", map[string]string{"status": "open"})
	healthy := querycache.NewFingerprint("clients/list", nil)
	prime(t, cache, healthy, "clients")

	boom := errors.New("upstream 500")
	_, err := cache.Read(context.Background(), failing, 0, func(context.Context) (any, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	entry, ok := cache.Get(failing)
	require.True(t, ok)
	require.Equal(t, querycache.StatusError, entry.Status)
	require.ErrorIs(t, entry.Err, boom)

	entry, _ = cache.Get(healthy)
	require.Equal(t, querycache.StatusFresh, entry.Status)
}

func TestErrorEntryRecoversOnNextRead(t *testing.T) {
	cache := newCache(t)
	fp := querycache.NewFingerprint("tasks/list", nil)

	_, err := cache.Read(context.Background(), fp, 0, func(context.Context) (any, error) {
		return nil, errors.New("transient")
	})
	require.Error(t, err)

	got, err := cache.Read(context.Background(), fp, 0, staticFetch("tasks"))
	require.NoError(t, err)
	require.Equal(t, "tasks", got)

	entry, _ := cache.Get(fp)
	require.Equal(t, querycache.StatusFresh, entry.Status)
	require.NoError(t, entry.Err)
}

func TestSubscribeObservesTransitionsUntilUnsubscribed(t *testing.T) {
	cache := newCache(t)
	fp := querycache.NewFingerprint("cases/list", nil)

	var seen []querycache.Status
	unsubscribe := cache.Subscribe(fp, func(_ querycache.Fingerprint, entry querycache.Entry) {
		seen = append(seen, entry.Status)
	})

	prime(t, cache, fp, "cases")
	require.Equal(t, []querycache.Status{querycache.StatusLoading, querycache.StatusFresh}, seen)

	unsubscribe()

	// Post-unsubscribe transitions are invisible to the view.
	cache.InvalidateFamily("cases/")
	require.Equal(t, []querycache.Status{querycache.StatusLoading, querycache.StatusFresh}, seen)

	entry, _ := cache.Get(fp)
	require.Equal(t, querycache.StatusStale, entry.Status)
}

func TestWindowForPrefersLongestFamilyPrefix(t *testing.T) {
	cache := newCache(t,
		querycache.WithStalenessWindow("cases/", 30*time.Second),
		querycache.WithStalenessWindow("cases/42/notes", 5*time.Second),
		querycache.WithDefaultStaleness(time.Minute),
	)

	require.Equal(t, 30*time.Second, cache.WindowFor(querycache.NewFingerprint("cases/list", nil)))
	require.Equal(t, 5*time.Second, cache.WindowFor(querycache.NewFingerprint("cases/42/notes", nil)))
	require.Equal(t, time.Minute, cache.WindowFor(querycache.NewFingerprint("documents/list", nil)))
}
