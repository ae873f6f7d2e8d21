// Package experiment runs control tools over instances and persists their
// results.
//
// For every instance directory (under an "instances" tree) the [Runner]
// reads setting.json, picks the network file, and runs each selected tool
// with the instance's target and exclusion list. Normalized results are
// written to the mirrored "results" directory, after which the instance's
// dominance graph is rebuilt from every result present there and exported
// as _graph.dot (and rendered images).
//
// A tool that runs out of memory or times out leaves a failure marker next
// to the results; later runs skip that pair until the markers are cleared.
// Failures never abort the run: they are collected and returned with the
// per-instance reports.
package experiment
