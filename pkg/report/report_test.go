package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bntaxonomy/bntaxonomy/pkg/control"
	"github.com/bntaxonomy/bntaxonomy/pkg/hierarchy"
)

func res(name string, maps ...map[string]int) control.Result {
	items := make([]control.Intervention, len(maps))
	for i, m := range maps {
		items[i] = control.MustIntervention(m)
	}
	return control.NewResult(name, items, control.Options{})
}

// fixture: B and C are equivalent everywhere; A is dominated by both in
// inst1 and inst2 (group g) and incomparable in inst3 (group h).
func fixture(t *testing.T) *hierarchy.Hierarchy {
	t.Helper()
	mk := func(name, group string, results ...control.Result) *hierarchy.Instance {
		inst, err := hierarchy.NewInstance(name, group, results)
		if err != nil {
			t.Fatal(err)
		}
		return inst
	}
	dominated := func(name string) *hierarchy.Instance {
		return mk(name, "g",
			res("A", map[string]int{"x": 1, "y": 1}),
			res("B", map[string]int{"x": 1}),
			res("C", map[string]int{"x": 1}),
		)
	}
	instances := []*hierarchy.Instance{
		dominated("inst1"),
		dominated("inst2"),
		mk("inst3", "h",
			res("A", map[string]int{"x": 1}),
			res("B", map[string]int{"y": 1}),
			res("C", map[string]int{"y": 1}),
		),
	}
	h, err := hierarchy.Build(context.Background(), "H", instances)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestToDOT(t *testing.T) {
	h := fixture(t)
	want := `digraph "H" {
  rankdir=TB;
  node [shape=box, style="rounded,filled", fillcolor=white];

  "A";
  "B";
  "C";

  "B" -> "C";
  "C" -> "B";
}
`
	if got := ToDOT("H", h.Confirmed()); got != want {
		t.Errorf("ToDOT() =\n%s\nwant\n%s", got, want)
	}
}

func TestClusteredDOT(t *testing.T) {
	h := fixture(t)
	g := h.Confirmed().Clone()
	_ = g.AddEdge("A", "B")
	_ = g.AddEdge("A", "C")

	dot := ClusteredDOT("H", g)
	for _, want := range []string{
		"compound=true;",
		"subgraph cluster_0 {",
		`label="B = C";`,
		`"A" -> "B" [lhead=cluster_0];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ClusteredDOT() missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"B" -> "C"`) {
		t.Error("edges inside a cluster must be omitted")
	}
	if strings.Contains(dot, `"A" -> "C"`) {
		t.Error("parallel edges into a cluster must be reduced")
	}
	if g.EdgeCount() != 4 {
		t.Error("ClusteredDOT must not modify its input")
	}
}

func TestMatrixCSV(t *testing.T) {
	h := fixture(t)
	tests := []struct {
		name  string
		label Labeler
		full  bool
		want  string
	}{
		{
			name: "first match",
			want: ",A,B,C\nA,,inst3,inst3\nB,inst1,,\nC,inst1,,\n",
		},
		{
			name: "full match",
			full: true,
			want: ",A,B,C\nA,,inst3,inst3\nB,inst1; inst2; inst3,,\nC,inst1; inst2; inst3,,\n",
		},
		{
			name:  "group labels",
			label: GroupLabels(h),
			full:  true,
			want:  ",A,B,C\nA,,B1,B1\nB,A1; A2; B1,,\nC,A1; A2; B1,,\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewMatrix(h, tt.label).WriteCSV(&buf, tt.full); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("WriteCSV() =\n%q\nwant\n%q", buf.String(), tt.want)
			}
		})
	}
}

func TestMatrixDiagonalEmpty(t *testing.T) {
	m := NewMatrix(fixture(t), nil)
	if len(m.Cells) != len(m.Algorithms) {
		t.Fatalf("matrix has %d rows, want %d", len(m.Cells), len(m.Algorithms))
	}
	for i := range m.Algorithms {
		if m.Cell(i, i, true) != "" {
			t.Errorf("diagonal cell %d = %q", i, m.Cell(i, i, true))
		}
	}
}

func TestMatrixLaTeX(t *testing.T) {
	m := Matrix{
		Algorithms: []string{"PBN_SA", "A&B"},
		Cells:      [][][]string{{nil, {"inst_1"}}, {nil, nil}},
	}
	var buf bytes.Buffer
	if err := m.WriteLaTeX(&buf, true); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`\begin{tabular}{l|cc}`,
		`\rotatebox{90}{PBN\_SA}`,
		`\rotatebox{90}{A\&B}`,
		`PBN\_SA & -- & inst\_1 \\`,
		`A\&B &  & -- \\`,
		`\end{tabular}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteLaTeX() missing %q:\n%s", want, out)
		}
	}
}

func TestSummary(t *testing.T) {
	h := fixture(t)
	s := NewSummary(h, nil)
	if s.RunID == "" {
		t.Error("summary must carry a run id")
	}
	if s.Instances != 3 || len(s.Algorithms) != 3 {
		t.Errorf("summary counts: %d instances, %v", s.Instances, s.Algorithms)
	}
	if len(s.Confirmed) != 2 || len(s.Counterexamples) != 4 {
		t.Errorf("confirmed=%v counterexamples=%v", s.Confirmed, s.Counterexamples)
	}
	if s.VacuousPolicy != "confirm" {
		t.Errorf("VacuousPolicy = %q", s.VacuousPolicy)
	}

	var buf bytes.Buffer
	if err := s.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["vacuous"] == nil {
		t.Error("empty lists must be encoded as [] not null")
	}
}

func TestGroupList(t *testing.T) {
	groups := GroupList(fixture(t))
	if len(groups) != 2 {
		t.Fatalf("GroupList() = %+v", groups)
	}
	if groups[0].Label != "A" || groups[0].Group != "g" || len(groups[0].Instances) != 2 {
		t.Errorf("first group = %+v", groups[0])
	}
	if groups[1].Label != "B" || groups[1].Instances[0] != (InstanceEntry{Label: "B1", Name: "inst3"}) {
		t.Errorf("second group = %+v", groups[1])
	}
}

func TestWriteSizeHistogram(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSizeHistogram(&buf, fixture(t), nil); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "instance,algorithm,size,count" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 10 {
		t.Errorf("got %d lines, want 10", len(lines))
	}
	if lines[1] != "inst1,A,2,1" {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	written, err := Export(context.Background(), fixture(t), dir, ExportOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		SummaryDOT, ReducedDOT, SummaryJSON, FirstMatchCSV, FullMatchCSV,
		FullMatchTeX, GroupListJSON, SizeHistogramCSV,
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if len(written) != 8 {
		t.Errorf("written = %v", written)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := Export(context.Background(), fixture(t), t.TempDir(), ExportOptions{Formats: []string{"gif"}})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Export() = %v, want ErrUnknownFormat", err)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT("H", fixture(t).Confirmed()))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("RenderSVG() output is not SVG")
	}
}

func TestRenderInvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), "digraph {")
	if !errors.Is(err, ErrRender) {
		t.Errorf("RenderSVG() = %v, want ErrRender", err)
	}
}

func TestExportInstance(t *testing.T) {
	dir := t.TempDir()
	inst := fixture(t).Instances()[0]
	written, err := ExportInstance(context.Background(), inst, dir, []string{"svg"})
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 2 {
		t.Fatalf("written = %v", written)
	}
	data, err := os.ReadFile(filepath.Join(dir, InstanceDOT))
	if err != nil {
		t.Fatal(err)
	}
	for _, edge := range []string{`"A" -> "B";`, `"A" -> "C";`, `"B" -> "C";`, `"C" -> "B";`} {
		if !strings.Contains(string(data), edge) {
			t.Errorf("instance graph missing %s:\n%s", edge, data)
		}
	}
	if strings.Contains(string(data), "cluster") {
		t.Errorf("instance graph should not be clustered:\n%s", data)
	}
	svg, err := os.ReadFile(filepath.Join(dir, InstanceImage+".svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("cluster_0")) {
		t.Error("instance image should show B and C as one cluster")
	}
}
