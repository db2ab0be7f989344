package workspace

import "context"

// NullBackend never stores anything.
type NullBackend struct{}

// NewNullBackend returns a backend that keeps nothing.
func NewNullBackend() *NullBackend {
	return &NullBackend{}
}

func (NullBackend) Name() string { return BackendNull }

// Load always reports a miss.
func (NullBackend) Load(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullBackend) Save(context.Context, string, []byte) error { return nil }
func (NullBackend) Delete(context.Context, string) error       { return nil }
func (NullBackend) Close() error                               { return nil }

var _ Backend = (*NullBackend)(nil)
