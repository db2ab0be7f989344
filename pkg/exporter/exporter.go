// Package exporter serializes host collections into a portable document.
//
// Collections are written in the same aliases-last order the importer
// expects, so an exported document can be imported as is. Values are
// written per mode in collection mode order; a variable without a value in
// some mode simply has no entry for it. Colors are written as "#RRGGBB"
// unless raw output is requested. Aliases become symbolic references whose
// mode is inferred (see alias.Resolver.Symbolic).
package exporter

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/varbridge/pkg/alias"
	"github.com/matzehuels/varbridge/pkg/codec"
	"github.com/matzehuels/varbridge/pkg/document"
	"github.com/matzehuels/varbridge/pkg/errors"
	"github.com/matzehuels/varbridge/pkg/host"
	"github.com/matzehuels/varbridge/pkg/observability"
	"github.com/matzehuels/varbridge/pkg/order"
	"github.com/matzehuels/varbridge/pkg/variables"
)

// Options configures an export.
type Options struct {
	// CollectionIDs selects the collections to export, in this order. Empty
	// exports every collection in store order.
	CollectionIDs []string

	// RawColors writes colors as {r,g,b[,a]} channel objects instead of
	// rounded hex strings.
	RawColors bool

	// Logger receives approximation warnings. Defaults to log.Default().
	Logger *log.Logger
}

type entry struct {
	collection *host.Collection
	variables  []*host.Variable
}

func (e entry) hasAlias() bool {
	for _, v := range e.variables {
		for _, val := range v.Values {
			if variables.IsAlias(val) {
				return true
			}
		}
	}
	return false
}

// Export builds a document from the selected collections of store.
func Export(ctx context.Context, store host.Store, opts Options) (*document.Document, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	start := time.Now()
	selected, err := selectCollections(ctx, store, opts.CollectionIDs)
	observability.Conversion().OnExportStart(ctx, len(selected))
	var doc *document.Document
	if err == nil {
		doc, err = export(ctx, store, selected, opts)
	}
	count := 0
	if doc != nil {
		count = doc.VariableCount()
	}
	observability.Conversion().OnExportComplete(ctx, count, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("export complete", "collections", len(doc.Collections), "variables", count)
	return doc, nil
}

// ExportJSON exports and encodes the document with two-space indentation.
func ExportJSON(ctx context.Context, store host.Store, opts Options) ([]byte, error) {
	doc, err := Export(ctx, store, opts)
	if err != nil {
		return nil, err
	}
	return document.Marshal(doc)
}

func export(ctx context.Context, store host.Store, selected []*host.Collection, opts Options) (*document.Document, error) {
	resolver, err := alias.NewResolver(ctx, store)
	if err != nil {
		return nil, errors.Annotate(err, errors.ErrCodeInternal, "index store")
	}

	entries := make([]entry, 0, len(selected))
	for _, c := range selected {
		vars, err := store.ListVariables(ctx, c.ID)
		if err != nil {
			return nil, errors.Annotate(err, errors.ErrCodeInternal, "list variables of %q", c.Name)
		}
		entries = append(entries, entry{collection: c, variables: vars})
	}

	doc := &document.Document{Collections: make([]document.Collection, 0, len(entries))}
	for _, e := range order.AliasesLast(entries, entry.hasAlias) {
		doc.Collections = append(doc.Collections, serializeCollection(e, resolver, opts))
	}
	return doc, nil
}

func selectCollections(ctx context.Context, store host.Store, ids []string) ([]*host.Collection, error) {
	all, err := store.ListCollections(ctx)
	if err != nil {
		return nil, errors.Annotate(err, errors.ErrCodeInternal, "list collections")
	}
	if len(ids) == 0 {
		return all, nil
	}

	byID := make(map[string]*host.Collection, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}
	seen := make(map[string]bool, len(ids))
	out := make([]*host.Collection, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "collection %s not found", id)
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, c)
		}
	}
	return out, nil
}

func serializeCollection(e entry, resolver *alias.Resolver, opts Options) document.Collection {
	c := e.collection
	out := document.Collection{
		Name:      c.Name,
		Modes:     make([]string, 0, len(c.Modes)),
		Variables: make([]document.Variable, 0, len(e.variables)),
	}
	for _, m := range c.Modes {
		out.Modes = append(out.Modes, m.Name)
	}

	for _, v := range e.variables {
		dv := document.Variable{
			Name:        v.Name,
			Type:        v.Type.String(),
			Description: v.Description,
			Scopes:      v.Scopes,
		}
		for _, m := range c.Modes {
			val, ok := v.Values[m.ID]
			if !ok {
				continue
			}
			pv, ok := serializeValue(c, v, m, val, resolver, opts)
			if !ok {
				continue
			}
			dv.Values = append(dv.Values, document.ModeValue{Mode: m.Name, Value: pv})
		}
		out.Variables = append(out.Variables, dv)
	}
	return out
}

// serializeValue converts one host value. It reports false when the value
// is left out of the document.
func serializeValue(c *host.Collection, v *host.Variable, m host.Mode, val variables.Value, resolver *alias.Resolver, opts Options) (document.Value, bool) {
	if a, ok := val.(variables.AliasValue); ok {
		ref, match, err := resolver.Symbolic(m, a)
		if err != nil {
			opts.Logger.Warn("skipping dangling alias", "collection", c.Name, "variable", v.Name, "mode", m.Name, "err", err)
			return nil, false
		}
		if match == alias.ModeMatchFirst {
			opts.Logger.Warn("alias mode approximated",
				"collection", c.Name, "variable", v.Name, "mode", m.Name,
				"target", ref.Collection+"/"+ref.Variable, "using", ref.Mode)
		}
		return ref, true
	}

	pv, err := codec.Encode(val, !opts.RawColors)
	if err != nil {
		opts.Logger.Warn("skipping unencodable value", "collection", c.Name, "variable", v.Name, "mode", m.Name, "err", err)
		return nil, false
	}
	return pv, true
}
