package workspace

import (
	"context"

	"github.com/matzehuels/varbridge/pkg/errors"
	"github.com/matzehuels/varbridge/pkg/host/memory"
	"github.com/matzehuels/varbridge/pkg/observability"
)

// DefaultKey is the workspace key used when none is configured.
const DefaultKey = "default"

// Workspace is a memory store bound to a snapshot slot in a backend.
type Workspace struct {
	backend Backend
	key     string
	store   *memory.Store
	saved   string // hash of the last loaded or saved snapshot
}

// Open restores the snapshot under key into a new memory store. A missing
// snapshot gives an empty store. A snapshot that cannot be restored fails
// with INVALID_WORKSPACE.
func Open(ctx context.Context, backend Backend, key string) (*Workspace, error) {
	if key == "" {
		key = DefaultKey
	}
	if err := errors.ValidateWorkspaceKey(key); err != nil {
		return nil, err
	}

	w := &Workspace{backend: backend, key: key, store: memory.New()}
	data, ok, err := backend.Load(ctx, key)
	observability.Workspace().OnLoad(ctx, backend.Name(), len(data), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkspace, err, "load workspace %q from %s", key, backend.Name())
	}
	if !ok {
		return w, nil
	}
	if err := w.store.Restore(data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkspace, err, "restore workspace %q", key)
	}
	w.saved = Hash(data)
	return w, nil
}

// Store returns the live store.
func (w *Workspace) Store() *memory.Store { return w.store }

// Key returns the workspace key.
func (w *Workspace) Key() string { return w.key }

// Backend returns the backend the workspace saves to.
func (w *Workspace) Backend() Backend { return w.backend }

// Commit saves the store if it changed since it was loaded or last saved.
// It reports whether a snapshot was written.
func (w *Workspace) Commit(ctx context.Context) (bool, error) {
	data, err := w.store.Snapshot()
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInternal, err, "snapshot workspace")
	}
	h := Hash(data)
	if h == w.saved {
		return false, nil
	}

	err = w.backend.Save(ctx, w.key, data)
	observability.Workspace().OnSave(ctx, w.backend.Name(), len(data), err)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidWorkspace, err, "save workspace %q", w.key)
	}
	w.saved = h
	return true, nil
}

// Reset empties the store and deletes the saved snapshot.
func (w *Workspace) Reset(ctx context.Context) error {
	w.store.Reset()
	if err := w.backend.Delete(ctx, w.key); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidWorkspace, err, "delete workspace %q", w.key)
	}
	w.saved = ""
	return nil
}

// Close closes the backend.
func (w *Workspace) Close() error {
	return w.backend.Close()
}
