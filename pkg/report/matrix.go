package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/bntaxonomy/bntaxonomy/pkg/hierarchy"
)

// Labeler names an instance in a report.
type Labeler func(*hierarchy.Instance) string

// NameLabels labels instances by name.
func NameLabels(inst *hierarchy.Instance) string { return inst.Name }

// GroupLabels labels instances with the compact group labels of h.
func GroupLabels(h *hierarchy.Hierarchy) Labeler {
	labels := h.Labels()
	return func(inst *hierarchy.Instance) string {
		if l, ok := labels[inst.Name]; ok {
			return l
		}
		return inst.Name
	}
}

// Matrix is the conflict matrix of a hierarchy: rows and columns are the
// sorted algorithm names and cell (v1, v2) holds the labels of the
// instances refuting v1 → v2, in instance order. The diagonal is empty.
type Matrix struct {
	Algorithms []string
	Cells      [][][]string
}

// NewMatrix builds the conflict matrix of h. A nil labeler selects
// [NameLabels].
func NewMatrix(h *hierarchy.Hierarchy, label Labeler) Matrix {
	if label == nil {
		label = NameLabels
	}
	algs := h.Algorithms()
	cells := make([][][]string, len(algs))
	for i, v1 := range algs {
		cells[i] = make([][]string, len(algs))
		for j, v2 := range algs {
			if i == j {
				continue
			}
			for _, inst := range h.Counterexamples(v1, v2) {
				cells[i][j] = append(cells[i][j], label(inst))
			}
		}
	}
	return Matrix{Algorithms: algs, Cells: cells}
}

// Cell renders one cell: the first counterexample, or all of them joined
// by "; " when full is set.
func (m Matrix) Cell(i, j int, full bool) string {
	labels := m.Cells[i][j]
	if len(labels) == 0 {
		return ""
	}
	if !full {
		return labels[0]
	}
	return strings.Join(labels, "; ")
}

// Rows returns the matrix as text rows, header first.
func (m Matrix) Rows(full bool) [][]string {
	rows := make([][]string, 0, len(m.Algorithms)+1)
	rows = append(rows, append([]string{""}, m.Algorithms...))
	for i, v1 := range m.Algorithms {
		row := make([]string, 0, len(m.Algorithms)+1)
		row = append(row, v1)
		for j := range m.Algorithms {
			row = append(row, m.Cell(i, j, full))
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes the matrix as CSV with a header row.
func (m Matrix) WriteCSV(w io.Writer, full bool) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(m.Rows(full)); err != nil {
		return fmt.Errorf("write conflict matrix: %w", err)
	}
	return nil
}

// WriteLaTeX writes the matrix as a tabular environment. Column headers
// are rotated so that long algorithm names fit.
func (m Matrix) WriteLaTeX(w io.Writer, full bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\\begin{tabular}{l|%s}\n", strings.Repeat("c", len(m.Algorithms)))
	b.WriteString("\\hline\n")
	b.WriteString(" ")
	for _, a := range m.Algorithms {
		fmt.Fprintf(&b, " & \\rotatebox{90}{%s}", latexEscape(a))
	}
	b.WriteString(" \\\\\n\\hline\n")
	for i, v1 := range m.Algorithms {
		b.WriteString(latexEscape(v1))
		for j := range m.Algorithms {
			cell := latexEscape(m.Cell(i, j, full))
			if i == j {
				cell = "--"
			}
			fmt.Fprintf(&b, " & %s", cell)
		}
		b.WriteString(" \\\\\n")
	}
	b.WriteString("\\hline\n\\end{tabular}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

func latexEscape(s string) string { return latexReplacer.Replace(s) }
