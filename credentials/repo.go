package credentials

// Storage keys for the namespaced session record. The layout mirrors a
// browser profile: two tokens plus a JSON-encoded user snapshot.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// Repo is the durable key-value persistence behind the credential store.
// Implementations must be safe for concurrent use. The store is the only
// component that reads or writes through a Repo; everything else goes
// through the store's accessors.
type Repo interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}
