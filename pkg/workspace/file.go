package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileBackend keeps each snapshot in its own file under a directory.
type FileBackend struct {
	dir string
}

// NewFileBackend creates the directory if needed. An empty dir defaults to
// DefaultDir().
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// DefaultDir is ~/.config/varbridge/workspaces.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "varbridge", "workspaces"), nil
}

type fileEntry struct {
	Key     string          `json:"key"`
	SavedAt time.Time       `json:"saved_at"`
	Data    json.RawMessage `json:"data"`
}

func (b *FileBackend) Name() string { return BackendFile }

func (b *FileBackend) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	raw, err := os.ReadFile(b.Path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read workspace file: %w", err)
	}
	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("parse workspace file: %w", err)
	}
	return entry.Data, true, nil
}

// Save writes the snapshot to a temporary file and renames it into place.
// data must be JSON.
func (b *FileBackend) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(fileEntry{Key: key, SavedAt: time.Now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}

	path := b.Path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write workspace file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (b *FileBackend) Delete(ctx context.Context, key string) error {
	err := os.Remove(b.Path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (b *FileBackend) Close() error { return nil }

// Path returns the file a key is stored in. The first two hash characters
// name a subdirectory.
func (b *FileBackend) Path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(b.dir, h[:2], h[2:]+".json")
}

var _ Backend = (*FileBackend)(nil)
