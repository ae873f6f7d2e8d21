package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bntaxonomy/bntaxonomy/pkg/digraph"
	"github.com/bntaxonomy/bntaxonomy/pkg/digraph/transform"
)

// ToDOT converts a graph to Graphviz DOT. Nodes and edges are written in
// sorted order.
func ToDOT(name string, g *digraph.Graph) string {
	var buf bytes.Buffer
	writeHeader(&buf, name, false)
	for _, id := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q;\n", id)
	}
	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// ClusteredDOT converts a graph to DOT after transitive reduction. Each
// strongly connected component with more than one node becomes a
// cluster_N subgraph; edges inside a cluster are omitted and edges between
// components attach to the cluster border. g is not modified.
func ClusteredDOT(name string, g *digraph.Graph) string {
	reduced := g.Clone()
	transform.TransitiveReduction(reduced)

	comps := reduced.Components()
	cluster := make(map[string]string)
	var buf bytes.Buffer
	writeHeader(&buf, name, true)

	n := 0
	for _, comp := range comps {
		if len(comp) == 1 {
			fmt.Fprintf(&buf, "  %q;\n", comp[0])
			continue
		}
		id := fmt.Sprintf("cluster_%d", n)
		n++
		fmt.Fprintf(&buf, "  subgraph %s {\n", id)
		buf.WriteString("    style=\"rounded,dashed\";\n")
		fmt.Fprintf(&buf, "    label=%q;\n", strings.Join(comp, " = "))
		for _, node := range comp {
			fmt.Fprintf(&buf, "    %q;\n", node)
			cluster[node] = id
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range reduced.Edges() {
		tail, head := cluster[e.From], cluster[e.To]
		if tail != "" && tail == head {
			continue
		}
		var attrs []string
		if tail != "" {
			attrs = append(attrs, "ltail="+tail)
		}
		if head != "" {
			attrs = append(attrs, "lhead="+head)
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func writeHeader(buf *bytes.Buffer, name string, compound bool) {
	if name == "" {
		name = "G"
	}
	fmt.Fprintf(buf, "digraph %q {\n", name)
	buf.WriteString("  rankdir=TB;\n")
	if compound {
		buf.WriteString("  compound=true;\n")
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("\n")
}
