// Package aliasgraph renders the alias dependencies of a document as a
// node-link diagram.
//
// Every variable becomes a box grouped into a cluster per collection, and
// every alias becomes an arrow from the aliasing variable to its target.
// Alias-bearing variables are drawn with a dashed outline. Aliases to
// variables outside the document draw no arrow.
//
//	dot := aliasgraph.ToDOT(doc, aliasgraph.Options{})
//	svg, err := aliasgraph.RenderSVG(ctx, dot)
//
// [RenderSVG] uses [github.com/goccy/go-graphviz] in process, so no Graphviz
// installation is needed.
package aliasgraph
