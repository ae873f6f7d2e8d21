package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bntaxonomy/bntaxonomy/pkg/control"
	"github.com/bntaxonomy/bntaxonomy/pkg/hierarchy"
	"github.com/bntaxonomy/bntaxonomy/pkg/report"
)

func testHierarchy(t *testing.T) *hierarchy.Hierarchy {
	t.Helper()
	a := control.MustIntervention(map[string]int{"a": 1})
	ab := control.MustIntervention(map[string]int{"a": 1, "b": 0})
	c := control.MustIntervention(map[string]int{"c": 0})

	inst, err := hierarchy.NewInstance("g/001", "g", []control.Result{
		control.NewResult("narrow", []control.Intervention{ab}, control.Options{}),
		control.NewResult("broad", []control.Intervention{a, c}, control.Options{}),
		control.NewResult("other", []control.Intervention{c}, control.Options{}),
	})
	if err != nil {
		t.Fatal(err)
	}
	h, err := hierarchy.Build(context.Background(), "test", []*hierarchy.Instance{inst})
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowseModelNavigation(t *testing.T) {
	h := testHierarchy(t)
	m := newBrowseModel(h, report.GroupLabels(h))
	if len(m.edges) == 0 {
		t.Fatal("expected counterexample edges")
	}

	next, _ := m.Update(key("up"))
	m = next.(browseModel)
	if m.cursor != 0 {
		t.Errorf("cursor moved above the first row: %d", m.cursor)
	}

	for range len(m.edges) + 2 {
		next, _ = m.Update(key("down"))
		m = next.(browseModel)
	}
	if m.cursor != len(m.edges)-1 {
		t.Errorf("cursor = %d, want last row %d", m.cursor, len(m.edges)-1)
	}

	next, _ = m.Update(key("g"))
	m = next.(browseModel)
	if m.cursor != 0 || m.offset != 0 {
		t.Errorf("home did not reset: cursor=%d offset=%d", m.cursor, m.offset)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestBrowseModelView(t *testing.T) {
	h := testHierarchy(t)
	m := newBrowseModel(h, report.GroupLabels(h))

	view := m.View()
	first := m.edges[0]
	if !strings.Contains(view, first.String()) {
		t.Errorf("view missing %s:\n%s", first, view)
	}
	if !strings.Contains(view, "refuted by") || !strings.Contains(view, "A1") {
		t.Errorf("view missing detail:\n%s", view)
	}
}

func TestBrowseModelScrolls(t *testing.T) {
	h := testHierarchy(t)
	m := newBrowseModel(h, report.GroupLabels(h))
	m.height = 1

	next, _ := m.Update(key("down"))
	m = next.(browseModel)
	if m.offset != m.cursor {
		t.Errorf("offset = %d, want %d", m.offset, m.cursor)
	}
}
