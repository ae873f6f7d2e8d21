package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bntaxonomy/bntaxonomy/pkg/digraph"
	"github.com/bntaxonomy/bntaxonomy/pkg/report"
)

type edge struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Support int    `json:"support"`
}

type verdict struct {
	From            string   `json:"from"`
	To              string   `json:"to"`
	Verdict         string   `json:"verdict"`
	Support         int      `json:"support"`
	Counterexamples []string `json:"counterexamples"`
}

// algorithmView lists the confirmed neighbours of one algorithm. An edge
// from -> to means to covers every control of from.
type algorithmView struct {
	Name      string   `json:"name"`
	CoveredBy []string `json:"covered_by"`
	Covers    []string `json:"covers"`
}

type instanceView struct {
	Name       string                 `json:"name"`
	Group      string                 `json:"group"`
	Label      string                 `json:"label"`
	Algorithms []string               `json:"algorithms"`
	Edges      [][2]string            `json:"edges"`
	Sizes      map[string]map[int]int `json:"sizes,omitempty"`
}

func (s *Server) algorithms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.h.Algorithms())
}

func (s *Server) algorithm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	g := s.h.Confirmed()
	if !g.HasNode(name) {
		writeError(w, http.StatusNotFound, "unknown algorithm")
		return
	}
	writeJSON(w, http.StatusOK, algorithmView{
		Name:      name,
		CoveredBy: append([]string{}, g.Children(name)...),
		Covers:    append([]string{}, g.Parents(name)...),
	})
}

func (s *Server) edges(w http.ResponseWriter, r *http.Request) {
	if flag(r, "reduced") {
		pairs := s.reduced()
		out := make([]edge, len(pairs))
		for i, p := range pairs {
			out[i] = edge{From: p[0], To: p[1], Support: s.h.Support(p[0], p[1])}
		}
		writeJSON(w, http.StatusOK, out)
		return
	}
	all := s.h.Confirmed().Edges()
	out := make([]edge, len(all))
	for i, e := range all {
		out[i] = edge{From: e.From, To: e.To, Support: s.h.Support(e.From, e.To)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) counterexamples(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, report.NewSummary(s.h, s.labels).Counterexamples)
}

func (s *Server) verdict(w http.ResponseWriter, r *http.Request) {
	from, to := chi.URLParam(r, "from"), chi.URLParam(r, "to")
	if !s.h.Confirmed().HasNode(from) || !s.h.Confirmed().HasNode(to) {
		writeError(w, http.StatusNotFound, "unknown algorithm")
		return
	}
	v := verdict{
		From:            from,
		To:              to,
		Verdict:         s.h.Verdict(from, to).String(),
		Support:         s.h.Support(from, to),
		Counterexamples: []string{},
	}
	for _, inst := range s.h.Counterexamples(from, to) {
		v.Counterexamples = append(v.Counterexamples, s.labels(inst))
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) summary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, report.NewSummary(s.h, s.labels))
}

func (s *Server) matrixCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := report.NewMatrix(s.h, s.labels).WriteCSV(&buf, flag(r, "full")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) matrixTeX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := report.NewMatrix(s.h, s.labels).WriteLaTeX(&buf, !flag(r, "first")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/x-tex; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// graph returns the confirmed graph, restricted to ?only=A,B when given.
func (s *Server) graph(r *http.Request) *digraph.Graph {
	only := r.URL.Query().Get("only")
	if only == "" {
		return s.h.Confirmed()
	}
	return s.h.Confirmed().Subgraph(strings.Split(only, ","))
}

func (s *Server) dot(r *http.Request) string {
	if flag(r, "reduced") {
		return report.ClusteredDOT(s.h.Name(), s.graph(r))
	}
	return report.ToDOT(s.h.Name(), s.graph(r))
}

func (s *Server) graphDOT(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(s.dot(r)))
}

func (s *Server) graphSVG(w http.ResponseWriter, r *http.Request) {
	svg, err := report.RenderSVG(r.Context(), report.ClusteredDOT(s.h.Name(), s.graph(r)))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) instances(w http.ResponseWriter, _ *http.Request) {
	groups := report.GroupList(s.h)
	if groups == nil {
		groups = []report.GroupEntry{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) instance(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "group") + "/" + chi.URLParam(r, "name")
	for _, inst := range s.h.Instances() {
		if inst.Name != name {
			continue
		}
		view := instanceView{
			Name:       inst.Name,
			Group:      inst.Group,
			Label:      s.labels(inst),
			Algorithms: inst.Algorithms(),
			Edges:      [][2]string{},
		}
		for _, e := range inst.Graph().Edges() {
			view.Edges = append(view.Edges, [2]string{e.From, e.To})
		}
		for _, res := range inst.Results() {
			if view.Sizes == nil {
				view.Sizes = make(map[string]map[int]int)
			}
			view.Sizes[res.Name] = res.SizeCounts()
		}
		writeJSON(w, http.StatusOK, view)
		return
	}
	writeError(w, http.StatusNotFound, "unknown instance "+name)
}
