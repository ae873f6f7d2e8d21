// Package tools runs the external control tools whose outputs are compared.
//
// A [Tool] takes a [Request] (one network, one target phenotype, a size
// bound and an exclusion list) and returns the raw interventions it found.
// Tools are registered in a [Registry] under unique algorithm names; those
// names become result file names, so they follow
// [github.com/bntaxonomy/bntaxonomy/pkg/errors.ValidateAlgorithmName].
//
// Most tools are external programs wrapped by [ExecTool]. Their output is
// decoded by one of the parsers in this package and memoized in a
// [github.com/bntaxonomy/bntaxonomy/pkg/cache.Cache].
package tools
