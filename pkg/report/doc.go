// Package report turns a built hierarchy into files people read.
//
// # Overview
//
// Reports are pure read-only views of a [hierarchy.Hierarchy]:
//
//   - [ToDOT] writes the confirmed dominance graph as Graphviz DOT, with
//     nodes and edges sorted so that exports diff cleanly between runs.
//   - [ClusteredDOT] writes the transitive reduction of the graph, with each
//     group of mutually dominating algorithms drawn as a cluster.
//   - [Matrix] is the conflict matrix over the sorted algorithm names: cell
//     (v1, v2) lists the instances refuting the dominance v1 → v2. It is
//     exported as CSV ([Matrix.WriteCSV]) or as a LaTeX table
//     ([Matrix.WriteLaTeX]).
//   - [Summary] is a JSON digest of a run, and [WriteSizeHistogram] counts
//     interventions by size per instance and algorithm.
//
// [Export] writes every report of a hierarchy into a directory. Data files
// are always written before images are rendered, so a rendering failure
// never loses them; it is reported as an error wrapping [ErrRender].
//
// # Rendering
//
// [RenderSVG] and [RenderPNG] lay out DOT source in-process using
// [github.com/goccy/go-graphviz]; no Graphviz installation is required.
package report
