package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pkgsmith/pkg/errors"
	"github.com/matzehuels/pkgsmith/pkg/pkgbuild"
)

// Node fill colors per dependency class.
const (
	colorPackage = "palegreen"
	colorRuntime = "lightblue"
	colorMake    = "lightyellow"
	colorCheck   = "lightpink"
)

// Options configures dependency graph rendering.
type Options struct {
	// Constraints keeps version constraints in dependency labels.
	// When false, labels show bare package names.
	Constraints bool
}

// ToDOT converts a manifest to Graphviz DOT format. The resulting DOT
// string can be rendered with [RenderSVG] or piped to the dot tool.
//
// A dependency listed in several classes appears as one node with one edge
// per class. Runtime edges are solid, build-time edges dashed, test-time
// edges dotted.
func ToDOT(m *pkgbuild.Info, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph deps {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	label := m.Name + "\n" + m.FullVersion()
	fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%s, style=\"rounded,filled,bold\"];\n", m.Name, label, colorPackage)
	buf.WriteString("\n")

	seen := make(map[string]bool)
	classes := []struct {
		specs []string
		color string
		style string
	}{
		{m.Depends, colorRuntime, ""},
		{m.MakeDepends, colorMake, "dashed"},
		{m.CheckDepends, colorCheck, "dotted"},
	}

	for _, class := range classes {
		for _, spec := range class.specs {
			id := errors.SpecName(spec)
			if id == "" {
				continue
			}
			if !seen[id] {
				seen[id] = true
				nodeLabel := id
				if opts.Constraints {
					nodeLabel = spec
				}
				fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%s];\n", id, nodeLabel, class.color)
			}
			if class.style == "" {
				fmt.Fprintf(&buf, "  %q -> %q;\n", m.Name, id)
			} else {
				fmt.Fprintf(&buf, "  %q -> %q [style=%s];\n", m.Name, id, class.style)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz engine.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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

// normalizeViewBox rewrites the svg element so the image scales cleanly
// when embedded in CI report pages.
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
