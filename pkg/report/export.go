package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bntaxonomy/bntaxonomy/pkg/hierarchy"
)

// File names written by [Export] and [ExportInstance].
const (
	SummaryDOT       = "_summary.dot"
	ReducedDOT       = "_summary.reduced.dot"
	SummaryJSON      = "_summary.json"
	SummaryImage     = "_summary"
	FirstMatchCSV    = "counterexample_first_match.csv"
	FullMatchCSV     = "counterexample_full_match.csv"
	FullMatchTeX     = "counterexample_full_match.tex"
	GroupListJSON    = "counterexample_group_list.json"
	SizeHistogramCSV = "count_control.csv"
	InstanceDOT      = "_graph.dot"
	InstanceImage    = "_graph"
)

// ExportOptions configures [Export].
type ExportOptions struct {
	// Labels names instances in matrices and summaries. Nil selects
	// [NameLabels].
	Labels Labeler
	// Formats lists the image formats to render ("png", "svg"). Empty
	// disables rendering.
	Formats []string
}

// Image formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ErrUnknownFormat is returned for an image format other than png or svg.
var ErrUnknownFormat = errors.New("unknown image format")

// ValidateFormats checks image format names.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if f != FormatPNG && f != FormatSVG {
			return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
		}
	}
	return nil
}

// Export writes every report of h into dir and returns the paths written.
// All data files are written before any image is rendered. Rendering errors
// are joined and returned wrapping [ErrRender]; the data files stay valid.
func Export(ctx context.Context, h *hierarchy.Hierarchy, dir string, opts ExportOptions) ([]string, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	label := opts.Labels
	if label == nil {
		label = NameLabels
	}

	matrix := NewMatrix(h, label)
	reduced := ClusteredDOT(h.Name(), h.Confirmed())
	data := []struct {
		name  string
		write func(io.Writer) error
	}{
		{SummaryDOT, stringWriter(ToDOT(h.Name(), h.Confirmed()))},
		{ReducedDOT, stringWriter(reduced)},
		{SummaryJSON, NewSummary(h, label).WriteJSON},
		{FirstMatchCSV, func(w io.Writer) error { return matrix.WriteCSV(w, false) }},
		{FullMatchCSV, func(w io.Writer) error { return matrix.WriteCSV(w, true) }},
		{FullMatchTeX, func(w io.Writer) error { return matrix.WriteLaTeX(w, true) }},
		{GroupListJSON, func(w io.Writer) error { return WriteGroupList(w, h) }},
		{SizeHistogramCSV, func(w io.Writer) error { return WriteSizeHistogram(w, h, label) }},
	}

	var written []string
	for _, d := range data {
		path := filepath.Join(dir, d.name)
		if err := writeFile(path, d.write); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	images, err := renderImages(ctx, reduced, filepath.Join(dir, SummaryImage), opts.Formats)
	return append(written, images...), err
}

// ExportInstance writes the full dominance graph of one instance into dir.
// Images are rendered from its reduced, clustered form.
func ExportInstance(ctx context.Context, inst *hierarchy.Instance, dir string, formats []string) ([]string, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	dot := ToDOT(inst.Name, inst.Graph())
	path := filepath.Join(dir, InstanceDOT)
	if err := writeFile(path, stringWriter(dot)); err != nil {
		return nil, err
	}
	images, err := renderImages(ctx, ClusteredDOT(inst.Name, inst.Graph()), filepath.Join(dir, InstanceImage), formats)
	return append([]string{path}, images...), err
}

func renderImages(ctx context.Context, dot, base string, formats []string) ([]string, error) {
	var written []string
	var errs []error
	for _, format := range formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatPNG:
			data, err = RenderPNG(ctx, dot)
		case FormatSVG:
			data, err = RenderSVG(ctx, dot)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			errs = append(errs, fmt.Errorf("%w: %v", ErrRender, err))
			continue
		}
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}

func stringWriter(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

// writeFile renders into memory first so a failing writer leaves no
// truncated file behind.
func writeFile(path string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
