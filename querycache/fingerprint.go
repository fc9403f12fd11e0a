package querycache

import (
	"sort"
	"strings"
)

// Fingerprint is a stable, order-independent key identifying a cached query
// result by resource path and parameters, e.g. "cases/list:{status=open}".
type Fingerprint string

// Family is a fingerprint prefix. All fingerprints sharing the prefix form
// one family and are invalidated together.
type Family string

// NewFingerprint encodes a resource path and its query parameters into a
// fingerprint. Parameters are sorted by key, so two callers building the
// same query in different order land on the same entry.
func NewFingerprint(resource string, params map[string]string) Fingerprint {
	var b strings.Builder
	b.WriteString(resource)
	b.WriteString(":{")

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	b.WriteByte('}')
	return Fingerprint(b.String())
}

// Matches reports whether the fingerprint belongs to the family.
func (f Family) Matches(fp Fingerprint) bool {
	return strings.HasPrefix(string(fp), string(f))
}
