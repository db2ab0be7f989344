package memory

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/varbridge/pkg/host"
	"github.com/matzehuels/varbridge/pkg/variables"
)

// snapshotVersion is bumped whenever the snapshot layout changes.
const snapshotVersion = 1

type snapshot struct {
	Version     int                  `json:"version"`
	Collections []snapshotCollection `json:"collections"`
}

type snapshotCollection struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Modes     []host.Mode        `json:"modes"`
	Variables []snapshotVariable `json:"variables"`
}

type snapshotVariable struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Type        string                     `json:"type"`
	Description string                     `json:"description,omitempty"`
	Scopes      []string                   `json:"scopes,omitempty"`
	Values      map[string]json.RawMessage `json:"values"`
}

// Snapshot returns the full store state as JSON. Ids are preserved, so
// aliases stay valid across [Store.Restore].
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{Version: snapshotVersion, Collections: make([]snapshotCollection, 0, len(s.order))}
	for _, cid := range s.order {
		c := s.collections[cid]
		sc := snapshotCollection{ID: c.ID, Name: c.Name, Modes: c.Modes, Variables: make([]snapshotVariable, 0, len(c.VariableIDs))}
		for _, vid := range c.VariableIDs {
			v := s.vars[vid]
			sv := snapshotVariable{
				ID:          v.ID,
				Name:        v.Name,
				Type:        v.Type.String(),
				Description: v.Description,
				Scopes:      v.Scopes,
				Values:      make(map[string]json.RawMessage, len(v.Values)),
			}
			for mode, val := range v.Values {
				data, err := variables.MarshalValue(val)
				if err != nil {
					return nil, fmt.Errorf("variable %q: %w", v.Name, err)
				}
				sv.Values[mode] = data
			}
			sc.Variables = append(sc.Variables, sv)
		}
		snap.Collections = append(snap.Collections, sc)
	}
	return json.Marshal(snap)
}

// Restore replaces the store state with a snapshot produced by
// [Store.Snapshot]. On error the store is left unchanged.
func (s *Store) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	order := make([]string, 0, len(snap.Collections))
	collections := make(map[string]*host.Collection, len(snap.Collections))
	vars := make(map[string]*host.Variable)
	for _, sc := range snap.Collections {
		if len(sc.Modes) == 0 {
			return fmt.Errorf("collection %q has no modes", sc.Name)
		}
		c := &host.Collection{ID: sc.ID, Name: sc.Name, Modes: sc.Modes}
		for _, sv := range sc.Variables {
			typ, err := variables.ParseType(sv.Type)
			if err != nil {
				return fmt.Errorf("variable %q: %w", sv.Name, err)
			}
			v := &host.Variable{
				ID:           sv.ID,
				Name:         sv.Name,
				CollectionID: c.ID,
				Type:         typ,
				Description:  sv.Description,
				Scopes:       sv.Scopes,
				Values:       make(map[string]variables.Value, len(sv.Values)),
			}
			for mode, raw := range sv.Values {
				val, err := variables.UnmarshalValue(raw)
				if err != nil {
					return fmt.Errorf("variable %q: %w", sv.Name, err)
				}
				v.Values[mode] = val
			}
			vars[v.ID] = v
			c.VariableIDs = append(c.VariableIDs, v.ID)
		}
		collections[c.ID] = c
		order = append(order, c.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = order
	s.collections = collections
	s.vars = vars
	return nil
}
