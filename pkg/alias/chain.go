package alias

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/varbridge/pkg/errors"
	"github.com/matzehuels/varbridge/pkg/host"
	"github.com/matzehuels/varbridge/pkg/variables"
)

// ResolveValue follows v through alias chains in the live store until it
// reaches a direct value. At every hop the mode is carried over by id when
// the target collection has it, then by name, then falls back to the
// target's first mode. A chain that revisits a variable fails with
// CYCLIC_ALIAS_REFERENCE.
func ResolveValue(ctx context.Context, store host.Store, v variables.Value, mode host.Mode) (variables.Value, error) {
	seen := make(map[string]bool)
	for {
		a, ok := v.(variables.AliasValue)
		if !ok {
			return v, nil
		}
		if seen[a.VariableID] {
			return nil, errors.New(errors.ErrCodeCyclicAlias, "alias chain loops at %s", a.VariableID)
		}
		seen[a.VariableID] = true

		target, err := store.GetVariable(ctx, a.VariableID)
		if err != nil {
			if stderrors.Is(err, host.ErrNotFound) {
				return nil, errors.Wrap(errors.ErrCodeUnknownVariable, err, "alias target")
			}
			return nil, err
		}
		c, err := store.GetCollection(ctx, target.CollectionID)
		if err != nil {
			if stderrors.Is(err, host.ErrNotFound) {
				return nil, errors.Wrap(errors.ErrCodeUnknownCollection, err, "collection of %q", target.Name)
			}
			return nil, err
		}

		next, ok := carryMode(c, mode)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownMode, "collection %q has no modes", c.Name)
		}
		val, ok := target.Values[next.ID]
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "variable %q has no value in mode %q", target.Name, next.Name)
		}
		v, mode = val, next
	}
}

// ResolveColor resolves v to a direct color. See [ResolveValue].
func ResolveColor(ctx context.Context, store host.Store, v variables.Value, mode host.Mode) (variables.ColorValue, error) {
	resolved, err := ResolveValue(ctx, store, v, mode)
	if err != nil {
		return variables.ColorValue{}, err
	}
	c, ok := resolved.(variables.ColorValue)
	if !ok {
		return variables.ColorValue{}, errors.New(errors.ErrCodeInvalidInput, "value resolves to %T, not a color", resolved)
	}
	return c, nil
}

func carryMode(c *host.Collection, m host.Mode) (host.Mode, bool) {
	if same, ok := c.ModeByID(m.ID); ok {
		return same, true
	}
	if named, ok := c.ModeByName(m.Name); ok {
		return named, true
	}
	return c.DefaultMode()
}
