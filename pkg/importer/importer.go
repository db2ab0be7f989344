// Package importer materializes a portable document into a host store.
//
// Import runs in passes:
//
//  1. Check: the document is validated and its alias graph is checked for
//     cycles. Nothing is mutated if either fails.
//  2. Collections: each collection is reused by name or created. A new
//     collection's default mode is renamed to the first declared mode and
//     the remaining modes are added; a reused collection only gains the
//     modes it lacks.
//  3. Direct variables: every variable not declared ALIAS is reused by name
//     or created with its declared type, and its direct values are set.
//  4. Aliases: alias-bearing variables are visited in dependency order,
//     ALIAS variables are created, and every alias value is resolved and
//     set.
//
// Re-running an import reuses every object by name and overwrites the
// values it names, so it is idempotent. There is no rollback: a failure
// part way through leaves the objects created so far in place, and fixing
// the document and importing again is the recovery path.
package importer

import (
	"context"
	stderrors "errors"
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

// Options configures an import.
type Options struct {
	// Logger receives per-object debug logs and a summary. Defaults to
	// log.Default().
	Logger *log.Logger

	// Pacing is slept after every store mutation. Zero disables it.
	Pacing time.Duration

	// AliasTypeColor creates every ALIAS variable as COLOR instead of
	// taking the type of its first alias target.
	AliasTypeColor bool
}

// Result summarizes an import. On failure it describes the work done before
// the error.
type Result struct {
	// Created counts newly created variables; reused ones are not counted.
	Created      int
	Reused       int
	Collections  int
	ModesCreated int
	ValuesSet    int
}

// Import materializes doc into store.
func Import(ctx context.Context, store host.Store, doc *document.Document, opts Options) (Result, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	collections := 0
	if doc != nil {
		collections = len(doc.Collections)
	}

	start := time.Now()
	observability.Conversion().OnImportStart(ctx, collections)
	m := &materializer{store: store, opts: opts, log: opts.Logger, hosts: make(map[string]*host.Collection)}
	err := m.run(ctx, doc)
	observability.Conversion().OnImportComplete(ctx, m.result.Created, time.Since(start), err)

	if err != nil {
		m.log.Error("import failed", "created", m.result.Created, "err", err)
		return m.result, err
	}
	m.log.Info("import complete",
		"created", m.result.Created,
		"reused", m.result.Reused,
		"collections", m.result.Collections,
		"values", m.result.ValuesSet)
	return m.result, nil
}

// ImportJSON parses data as a portable document and imports it.
func ImportJSON(ctx context.Context, store host.Store, data []byte, opts Options) (Result, error) {
	doc, err := document.Parse(data)
	if err != nil {
		return Result{}, err
	}
	return Import(ctx, store, doc, opts)
}

type materializer struct {
	store    host.Store
	opts     Options
	log      *log.Logger
	resolver *alias.Resolver
	hosts    map[string]*host.Collection // by document collection name
	result   Result
}

func (m *materializer) run(ctx context.Context, doc *document.Document) error {
	if err := document.Validate(doc); err != nil {
		return err
	}
	aliasOrder, err := order.NewGraph(doc).Topological()
	if err != nil {
		return err
	}

	m.resolver, err = alias.NewResolver(ctx, m.store)
	if err != nil {
		return errors.Annotate(err, errors.ErrCodeInternal, "index store")
	}

	cols := order.Collections(doc)
	for _, c := range cols {
		if err := m.ensureCollection(ctx, c); err != nil {
			return within(err, "collection %q", c.Name)
		}
	}
	for _, c := range cols {
		if err := m.directPass(ctx, c); err != nil {
			return within(err, "collection %q", c.Name)
		}
	}
	for _, ref := range aliasOrder {
		c, _ := doc.Collection(ref.Collection)
		v, _ := c.Variable(ref.Variable)
		if err := m.aliasPass(ctx, c, v); err != nil {
			return within(err, "collection %q", c.Name)
		}
	}
	return nil
}

func (m *materializer) ensureCollection(ctx context.Context, c document.Collection) error {
	hc, ok := m.resolver.Collection(c.Name)
	if !ok {
		created, err := m.store.CreateCollection(ctx, c.Name)
		if err != nil {
			return mutation(err, "create collection")
		}
		m.result.Collections++
		m.log.Debug("created collection", "collection", c.Name)
		if err := m.pace(ctx); err != nil {
			return err
		}

		if first, _ := created.DefaultMode(); first.Name != c.Modes[0] {
			if err := m.store.RenameMode(ctx, created.ID, first.ID, c.Modes[0]); err != nil {
				return mutation(err, "rename mode %q to %q", first.Name, c.Modes[0])
			}
			if err := m.pace(ctx); err != nil {
				return err
			}
		}
		hc = created
		hc.Modes[0].Name = c.Modes[0]
	}

	for _, name := range c.Modes {
		if _, ok := hc.ModeByName(name); ok {
			continue
		}
		if _, err := m.store.AddMode(ctx, hc.ID, name); err != nil {
			return mutation(err, "add mode %q", name)
		}
		m.result.ModesCreated++
		m.log.Debug("created mode", "collection", c.Name, "mode", name)
		if err := m.pace(ctx); err != nil {
			return err
		}
	}

	fresh, err := m.store.GetCollection(ctx, hc.ID)
	if err != nil {
		return mutation(err, "reload collection")
	}
	m.resolver.TrackCollection(fresh)
	m.hosts[c.Name] = fresh
	return nil
}

func (m *materializer) directPass(ctx context.Context, c document.Collection) error {
	hc := m.hosts[c.Name]
	for _, v := range c.Variables {
		if v.IsAliasType() {
			continue
		}
		typ, err := v.DirectType()
		if err != nil {
			return err
		}
		hv, err := m.ensureVariable(ctx, hc, v, typ)
		if err != nil {
			return err
		}
		for _, mv := range v.Values {
			if document.IsAlias(mv.Value) {
				continue
			}
			val, err := codec.Decode(typ, mv.Value)
			if err != nil {
				return errors.Annotate(err, errors.ErrCodeInvalidDocument, "variable %q mode %q", v.Name, mv.Mode)
			}
			if err := m.setValue(ctx, hc, hv, mv.Mode, val); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *materializer) aliasPass(ctx context.Context, c document.Collection, v document.Variable) error {
	hc := m.hosts[c.Name]

	var hv *host.Variable
	if v.IsAliasType() {
		typ, err := m.aliasType(v)
		if err != nil {
			return errors.Annotate(err, errors.ErrCodeInvalidDocument, "variable %q", v.Name)
		}
		if hv, err = m.ensureVariable(ctx, hc, v, typ); err != nil {
			return err
		}
	} else {
		var ok bool
		if hv, ok = m.resolver.Variable(hc.ID, v.Name); !ok {
			return errors.New(errors.ErrCodeInternal, "variable %q missing after direct pass", v.Name)
		}
	}

	for _, mv := range v.Values {
		ref, ok := mv.Value.(document.Alias)
		if !ok {
			continue
		}
		val, err := m.resolver.Resolve(ref)
		if err != nil {
			return errors.Annotate(err, errors.ErrCodeInvalidDocument, "variable %q mode %q", v.Name, mv.Mode)
		}
		if err := m.setValue(ctx, hc, hv, mv.Mode, val); err != nil {
			return err
		}
	}
	return nil
}

// aliasType picks the type an ALIAS variable is created with: the type of
// its first alias target, or COLOR when Options.AliasTypeColor is set.
func (m *materializer) aliasType(v document.Variable) (variables.Type, error) {
	if m.opts.AliasTypeColor {
		return variables.TypeColor, nil
	}
	aliases := v.Aliases()
	if len(aliases) == 0 {
		return variables.TypeColor, nil
	}
	target, err := m.resolver.Target(aliases[0])
	if err != nil {
		return 0, err
	}
	return m.resolver.ResolvedType(target.ID)
}

func (m *materializer) ensureVariable(ctx context.Context, hc *host.Collection, v document.Variable, typ variables.Type) (*host.Variable, error) {
	hv, ok := m.resolver.Variable(hc.ID, v.Name)
	if ok {
		m.result.Reused++
		if hv.Type != typ {
			m.log.Warn("reused variable has a different type", "collection", hc.Name, "variable", v.Name, "have", hv.Type, "want", typ)
		}
	} else {
		created, err := m.store.CreateVariable(ctx, hc.ID, v.Name, typ)
		if err != nil {
			return nil, mutation(err, "create variable %q", v.Name)
		}
		m.result.Created++
		m.resolver.TrackVariable(created)
		m.log.Debug("created variable", "collection", hc.Name, "variable", v.Name, "type", typ)
		if err := m.pace(ctx); err != nil {
			return nil, err
		}
		hv = created
	}

	if len(v.Scopes) > 0 {
		if err := m.store.SetScopes(ctx, hv.ID, v.Scopes); err != nil {
			return nil, mutation(err, "set scopes of %q", v.Name)
		}
	}
	if v.Description != "" {
		if err := m.store.SetDescription(ctx, hv.ID, v.Description); err != nil {
			return nil, mutation(err, "set description of %q", v.Name)
		}
	}
	return hv, nil
}

func (m *materializer) setValue(ctx context.Context, hc *host.Collection, hv *host.Variable, modeName string, val variables.Value) error {
	mode, ok := hc.ModeByName(modeName)
	if !ok {
		return errors.New(errors.ErrCodeUnknownMode, "mode %q has no id in collection %q", modeName, hc.Name)
	}
	if err := m.store.SetValue(ctx, hv.ID, mode.ID, val); err != nil {
		return mutation(err, "set value of %q in mode %q", hv.Name, modeName)
	}
	m.result.ValuesSet++
	return m.pace(ctx)
}

func (m *materializer) pace(ctx context.Context) error {
	if m.opts.Pacing <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.opts.Pacing)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// within adds context to err, keeping its code. Cancellation is passed
// through untouched.
func within(err error, format string, args ...any) error {
	if isCancel(err) {
		return err
	}
	return errors.Annotate(err, errors.ErrCodeInternal, format, args...)
}

func isCancel(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}

// mutation wraps a store error as HOST_MUTATION_FAILURE. Cancellation is
// passed through untouched.
func mutation(err error, format string, args ...any) error {
	if isCancel(err) {
		return err
	}
	return errors.Wrap(errors.ErrCodeHostMutation, err, format, args...)
}
