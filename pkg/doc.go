// Package pkg provides the libraries behind bntaxonomy.
//
// # Overview
//
// bntaxonomy compares control tools for Boolean networks. Each tool proposes
// interventions (partial variable assignments) that drive a network to a
// target. Tools are run over benchmark instances, their outputs normalized,
// and the results organized into a dominance hierarchy. The pkg directory
// is organized into:
//
//  1. [control] - Interventions, normalization and the dominance comparator
//  2. [digraph] - Directed graphs, reachability and transitive reduction
//  3. [hierarchy] - Per-instance graphs and their aggregation
//  4. [report] - DOT, JSON, CSV and LaTeX reports, image rendering
//  5. [tools] - External tool execution and output parsers
//  6. [store] - Instance and results directory layout
//  7. [experiment] - Running tools over instances
//  8. [cache], [config], [server], [observability] - Infrastructure
//
// # Data Flow
//
//	Instance (setting.json + transition_formula.bnet)
//	         ↓
//	    [tools] package (run each tool, parse its output)
//	         ↓
//	    [control] package (normalize into a result)
//	         ↓
//	    [store] package (results/<group>/<instance>/<tool>.json)
//	         ↓
//	    [hierarchy] package (dominance graph per instance, then aggregate)
//	         ↓
//	    [report] package (summary graph, conflict matrices)
//
// # Quick Start
//
//	a := control.NewResult("A", []control.Intervention{
//		control.MustIntervention(map[string]int{"x1": 0}),
//	}, control.Options{})
//	b := control.NewResult("B", []control.Intervention{
//		control.MustIntervention(map[string]int{"x1": 0, "x2": 1}),
//	}, control.Options{})
//
//	a.AtLeastAsStrongAs(b) // true: {x1=0} covers {x1=0, x2=1}
//	b.AtLeastAsStrongAs(a) // false
//
// The bntaxonomy command in cmd/bntaxonomy wires these packages together.
package pkg
