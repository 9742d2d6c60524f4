// Package render draws dependency graphs for package manifests.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz. The
// graph is a star: the package in the center, one node per declared
// dependency, with edge styles distinguishing the dependency classes.
//
//   - Runtime dependencies: solid edges, lightblue nodes
//   - Build-time dependencies: dashed edges, lightyellow nodes
//   - Test-time dependencies: dotted edges, lightpink nodes
//
// # Usage
//
// Convert a parsed manifest to DOT format, then render to SVG:
//
//	dot := render.ToDOT(info, render.Options{})
//	svg, err := render.RenderSVG(dot)
//
// The DOT source can also be saved as-is and processed with external
// Graphviz tools.
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Constraints: When true, dependency labels keep version constraints
//     (for example "python>=3.11" instead of "python")
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no system Graphviz installation is required.
package render
