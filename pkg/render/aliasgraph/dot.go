package aliasgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/varbridge/pkg/document"
	"github.com/matzehuels/varbridge/pkg/order"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the variable type to node labels.
	Detailed bool

	// Flat drops the per-collection clusters.
	Flat bool
}

// ToDOT converts the alias graph of doc to Graphviz DOT source.
func ToDOT(doc *document.Document, opts Options) string {
	g := order.NewGraph(doc)

	var buf bytes.Buffer
	buf.WriteString("digraph aliases {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for i, c := range doc.Collections {
		indent := "  "
		if !opts.Flat {
			buf.WriteString("\n")
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
			fmt.Fprintf(&buf, "    label=%q;\n", c.Name)
			buf.WriteString("    style=\"rounded,dashed\";\n")
			indent = "    "
		}
		for _, v := range c.Variables {
			ref := order.Ref{Collection: c.Name, Variable: v.Name}
			attrs := []string{fmt.Sprintf("label=%q", fmtLabel(c, v, opts))}
			if g.IsAliased(ref) {
				attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
			}
			fmt.Fprintf(&buf, "%s%q [%s];\n", indent, ref.String(), strings.Join(attrs, ", "))
		}
		if !opts.Flat {
			buf.WriteString("  }\n")
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From.String(), e.To.String())
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(c document.Collection, v document.Variable, opts Options) string {
	label := v.Name
	if opts.Flat {
		label = c.Name + "/" + v.Name
	}
	if opts.Detailed {
		label += "\n" + v.Type
	}
	return label
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz <svg> tag with one whose size
// matches its viewBox, so the output scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
