package querycache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casedesk/casedesk-go/querycache"
)

func TestFingerprintIsOrderIndependent(t *testing.T) {
	a := querycache.NewFingerprint("cases/list", map[string]string{"status": "open", "page": "2"})
	b := querycache.NewFingerprint("cases/list", map[string]string{"page": "2", "status": "open"})
	require.Equal(t, a, b)
	require.Equal(t, querycache.Fingerprint("cases/list:{page=2,status=open}"), a)

	empty := querycache.NewFingerprint("cases/list", nil)
	require.Equal(t, querycache.Fingerprint("cases/list:{}"), empty)
}

func TestFamilyMatching(t *testing.T) {
	family := querycache.Family("cases/")
	require.True(t, family.Matches(querycache.NewFingerprint("cases/list", nil)))
	require.True(t, family.Matches(querycache.NewFingerprint("cases/42", nil)))
	require.False(t, family.Matches(querycache.NewFingerprint("clients/list", nil)))
}

func TestGraphFamiliesExpandArguments(t *testing.T) {
	graph := querycache.DefaultGraph()

	families := graph.Families(querycache.MutationCaseNoteAdd, map[string]string{"case_id": "42"})
	require.Equal(t, []querycache.Family{"cases/42/notes"}, families)
}

func TestGraphFamiliesWidenWhenArgumentMissing(t *testing.T) {
	graph := querycache.DefaultGraph()

	// Without a case ID the rule falls back to the whole cases family:
	// coarser invalidation beats a staleness bug.
	families := graph.Families(querycache.MutationCaseNoteAdd, nil)
	require.Equal(t, []querycache.Family{"cases/"}, families)
}

func TestGraphUnknownMutationHasNoFamilies(t *testing.T) {
	graph := querycache.DefaultGraph()
	require.Empty(t, graph.Families(querycache.MutationKind("nonsense"), nil))
}

func TestGraphIsIsolatedFromItsInput(t *testing.T) {
	rules := map[querycache.MutationKind][]string{
		querycache.MutationCaseCreate: {"cases/"},
	}
	graph := querycache.NewGraph(rules)

	rules[querycache.MutationCaseCreate][0] = "mutated/"

	require.Equal(t, []querycache.Family{"cases/"}, graph.Families(querycache.MutationCaseCreate, nil))
}
