// Package pkg provides the core libraries for varbridge variable conversion.
//
// # Overview
//
// varbridge moves design-token variable collections between a host design
// tool and a portable JSON document. A collection has named modes (such as
// Light and Dark) and typed variables with one value per mode. A value is a
// literal or an alias to another variable, possibly in another collection.
//
// The pkg directory is organized into three areas:
//
//  1. Data model: [variables], [document], [codec] and [errors]
//  2. Conversion: [importer], [exporter], [order], [alias] and [preview]
//  3. Hosting: [host], [host/memory], [workspace], [plugin] and [observability]
//
// # Architecture
//
// An import flows through:
//
//	JSON document
//	     ↓
//	[document] package (parse, normalize legacy layout, validate)
//	     ↓
//	[order] package (aliases-last collection order, cycle check)
//	     ↓
//	[importer] package (get-or-create collections, modes and variables,
//	                    then literal values, then aliases)
//	     ↓
//	[host.Store]
//
// An export walks the other way: [exporter] reads the store, rewrites alias
// ids as collection/mode/variable names and encodes colors with [codec].
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/varbridge/pkg/exporter"
//	    "github.com/matzehuels/varbridge/pkg/host/memory"
//	    "github.com/matzehuels/varbridge/pkg/importer"
//	)
//
//	store := memory.New()
//	res, err := importer.ImportJSON(ctx, store, data, importer.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Created, "variables created")
//
//	out, err := exporter.ExportJSON(ctx, store, exporter.Options{})
//
// # Hosting
//
// [plugin.Handler] dispatches the UI command messages (list, import,
// export, delete, template, preview) against one store, one command at a
// time. [workspace.Workspace] restores a [host/memory.Store] from a
// file, SQLite, Redis or MongoDB backend and saves it after each change.
//
// # Rendering
//
// [render/aliasgraph] draws the alias graph as Graphviz DOT or SVG.
//
// [variables]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/variables
// [document]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/document
// [codec]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/codec
// [errors]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/errors
// [importer]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/importer
// [exporter]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/exporter
// [order]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/order
// [alias]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/alias
// [preview]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/preview
// [host]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/host
// [host.Store]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/host#Store
// [host/memory]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/host/memory
// [host/memory.Store]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/host/memory#Store
// [workspace]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/workspace
// [workspace.Workspace]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/workspace#Workspace
// [plugin]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/plugin
// [plugin.Handler]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/plugin#Handler
// [observability]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/observability
// [render/aliasgraph]: https://pkg.go.dev/github.com/matzehuels/varbridge/pkg/render/aliasgraph
package pkg
