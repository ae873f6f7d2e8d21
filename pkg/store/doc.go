// Package store reads and writes the on-disk layout of an experiment.
//
// Every instance has its own results directory holding one file per
// algorithm:
//
//	<alg>.full.json  every intervention the tool reported, deduplicated and sorted
//	<alg>.json       the minimal, size-capped interventions used for comparison
//	<alg>.oom        sentinel left by a tool that ran out of memory
//
// Files starting with "_" (exported graphs and summaries) are ignored when
// loading. If only the full file exists the minimal result is re-derived.
//
// Instances live under an "instances" tree and their results under the
// parallel "results" tree ([ResultsPath]). Each instance directory holds a
// setting.json file ([Setting]) and the network files handed to the tools.
package store
