package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/bntaxonomy/bntaxonomy/pkg/hierarchy"
)

// Summary is the JSON digest of a hierarchy.
type Summary struct {
	RunID           string           `json:"run_id"`
	Name            string           `json:"name"`
	CreatedAt       time.Time        `json:"created_at"`
	VacuousPolicy   string           `json:"vacuous_policy"`
	Instances       int              `json:"instances"`
	Algorithms      []string         `json:"algorithms"`
	Confirmed       [][2]string      `json:"confirmed"`
	Counterexamples []Counterexample `json:"counterexamples"`
	Vacuous         [][2]string      `json:"vacuous"`
}

// Counterexample lists the instances refuting one dominance pair.
type Counterexample struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Instances []string `json:"instances"`
}

// NewSummary digests h. Instances are named by label; nil selects
// [NameLabels].
func NewSummary(h *hierarchy.Hierarchy, label Labeler) Summary {
	if label == nil {
		label = NameLabels
	}
	s := Summary{
		RunID:           uuid.NewString(),
		Name:            h.Name(),
		CreatedAt:       time.Now().UTC(),
		VacuousPolicy:   h.Policy().String(),
		Instances:       len(h.Instances()),
		Algorithms:      h.Algorithms(),
		Confirmed:       [][2]string{},
		Counterexamples: []Counterexample{},
		Vacuous:         [][2]string{},
	}
	for _, e := range h.Confirmed().Edges() {
		s.Confirmed = append(s.Confirmed, [2]string{e.From, e.To})
	}
	for _, e := range h.CounterexampleEdges() {
		ce := Counterexample{From: e.From, To: e.To}
		for _, inst := range h.Counterexamples(e.From, e.To) {
			ce.Instances = append(ce.Instances, label(inst))
		}
		s.Counterexamples = append(s.Counterexamples, ce)
	}
	for _, e := range h.Vacuous() {
		s.Vacuous = append(s.Vacuous, [2]string{e.From, e.To})
	}
	return s
}

// WriteJSON writes the summary as indented JSON.
func (s Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// GroupEntry describes one instance group and the labels of its members.
type GroupEntry struct {
	Label     string          `json:"label"`
	Group     string          `json:"group"`
	Instances []InstanceEntry `json:"instances"`
}

// InstanceEntry maps an instance label to its name.
type InstanceEntry struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

// GroupList returns the groups of h with their instance labels, in order
// of first appearance.
func GroupList(h *hierarchy.Hierarchy) []GroupEntry {
	labels := h.Labels()
	var groups []GroupEntry
	index := make(map[string]int)
	for _, inst := range h.Instances() {
		label := labels[inst.Name]
		i, ok := index[inst.Group]
		if !ok {
			i = len(groups)
			index[inst.Group] = i
			groups = append(groups, GroupEntry{
				Label: trimDigits(label),
				Group: inst.Group,
			})
		}
		groups[i].Instances = append(groups[i].Instances, InstanceEntry{Label: label, Name: inst.Name})
	}
	return groups
}

// WriteGroupList writes [GroupList] as indented JSON.
func WriteGroupList(w io.Writer, h *hierarchy.Hierarchy) error {
	groups := GroupList(h)
	if groups == nil {
		groups = []GroupEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(groups)
}

func trimDigits(label string) string {
	end := len(label)
	for end > 0 && label[end-1] >= '0' && label[end-1] <= '9' {
		end--
	}
	return label[:end]
}

// WriteSizeHistogram writes, for every instance and algorithm, how many
// interventions of each size were found. Instances restored without
// results contribute no rows.
func WriteSizeHistogram(w io.Writer, h *hierarchy.Hierarchy, label Labeler) error {
	if label == nil {
		label = NameLabels
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"instance", "algorithm", "size", "count"}); err != nil {
		return err
	}
	for _, inst := range h.Instances() {
		for _, r := range inst.Results() {
			counts := r.SizeCounts()
			for _, size := range slices.Sorted(maps.Keys(counts)) {
				row := []string{label(inst), r.Name, strconv.Itoa(size), strconv.Itoa(counts[size])}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write size histogram: %w", err)
	}
	return nil
}
