package filerepo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/casedesk/casedesk-go/credentials"
)

const recordFileName = "session.json"

var _ credentials.Repo = (*FileStorageRepo)(nil)

// FileStorageRepo persists the session record as a single JSON file under a
// profile directory, the process analog of browser-local storage. Writes go
// through a temp file and rename so a crash never leaves a torn record.
type FileStorageRepo struct {
	path   string
	values map[string]string
	lock   sync.RWMutex
}

// New opens (or creates) the session record under dir.
func New(dir string) (*FileStorageRepo, error) {
	if dir == "" {
		return nil, errors.New("[filerepo.New] dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "[filerepo.New] creating profile dir")
	}

	r := &FileStorageRepo{
		path:   filepath.Join(dir, recordFileName),
		values: make(map[string]string),
	}

	raw, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[filerepo.New] reading session record")
	}
	if err := json.Unmarshal(raw, &r.values); err != nil {
		// A corrupt record is treated as an empty session rather than a
		// fatal error; the user just logs in again.
		r.values = make(map[string]string)
	}
	return r, nil
}

func (r *FileStorageRepo) Get(key string) (string, bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	value, ok := r.values[key]
	return value, ok, nil
}

func (r *FileStorageRepo) Set(key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.values[key] = value
	return r.flush()
}

func (r *FileStorageRepo) Delete(key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.values[key]; !ok {
		return nil
	}
	delete(r.values, key)
	return r.flush()
}

func (r *FileStorageRepo) flush() error {
	raw, err := json.MarshalIndent(r.values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[flush] encoding session record")
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return errors.Wrap(err, "[flush] writing session record")
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return errors.Wrap(err, "[flush] replacing session record")
	}
	return nil
}
