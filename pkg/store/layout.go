package store

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	bnerrors "github.com/bntaxonomy/bntaxonomy/pkg/errors"
	"github.com/bntaxonomy/bntaxonomy/pkg/hierarchy"
)

// InstanceRef locates one instance.
type InstanceRef struct {
	// Path is the instance directory (under "instances" for runs, or a
	// results directory for summaries).
	Path string
	// Group is the name of the enclosing group directory.
	Group string
}

// Name identifies the instance as group/base.
func (r InstanceRef) Name() string {
	return filepath.ToSlash(filepath.Join(r.Group, filepath.Base(r.Path)))
}

// NewInstanceRef refers to a single instance directory; the group is the
// name of its parent directory.
func NewInstanceRef(path string) InstanceRef {
	clean := filepath.Clean(path)
	return InstanceRef{Path: clean, Group: filepath.Base(filepath.Dir(clean))}
}

// ExpandGroups lists the instance directories of each group, sorted by
// name within the group. Groups keep their given order. A group path that
// is not a directory is an INVALID_PATH error.
func ExpandGroups(groups []string) ([]InstanceRef, error) {
	var refs []InstanceRef
	for _, g := range groups {
		info, err := os.Stat(g)
		if err != nil || !info.IsDir() {
			return nil, bnerrors.New(bnerrors.ErrCodeInvalidPath, "instance group is not a directory: %s", g)
		}
		entries, err := os.ReadDir(g)
		if err != nil {
			return nil, bnerrors.Wrap(bnerrors.ErrCodeInvalidPath, err, "read instance group %s", g)
		}
		group := filepath.Base(filepath.Clean(g))
		for _, e := range entries {
			if !e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.HasPrefix(e.Name(), "_") {
				continue
			}
			refs = append(refs, InstanceRef{Path: filepath.Join(g, e.Name()), Group: group})
		}
	}
	return refs, nil
}

// ListGroups returns the group directories under root in reverse name
// order, the default set of groups for summaries.
func ListGroups(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, bnerrors.Wrap(bnerrors.ErrCodeInvalidPath, err, "read instance root %s", root)
	}
	var groups []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			groups = append(groups, filepath.Join(root, e.Name()))
		}
	}
	slices.Sort(groups)
	slices.Reverse(groups)
	return groups, nil
}

// ResultsPath maps a path inside an "instances" tree to the matching path
// in the "results" tree. The last "instances" segment is replaced. It
// reports false when the path has no such segment.
func ResultsPath(path string) (string, bool) {
	parts := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == "instances" {
			parts[i] = "results"
			return filepath.FromSlash(strings.Join(parts, "/")), true
		}
	}
	return "", false
}

// Failure records an instance, or one algorithm of an instance, that could
// not be loaded or run.
type Failure struct {
	Ref InstanceRef
	// Algorithm is set when only that algorithm's result failed and the
	// instance was loaded without it.
	Algorithm string
	Err       error
}

func (f Failure) Error() string {
	if f.Algorithm != "" {
		return f.Ref.Name() + ": " + f.Algorithm + ": " + f.Err.Error()
	}
	return f.Ref.Name() + ": " + f.Err.Error()
}

func (f Failure) Unwrap() error { return f.Err }

// LoadInstances loads result directories in parallel. Instances that fail
// to load are returned as failures; the others keep the order of refs. A
// malformed result drops only its algorithm from the instance and is
// returned as a failure with Algorithm set.
func LoadInstances(ctx context.Context, refs []InstanceRef, sizeLimit, workers int) ([]*hierarchy.Instance, []Failure, error) {
	loaded := make([]*hierarchy.Instance, len(refs))
	errs := make([]error, len(refs))
	bad := make([][]*ResultError, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, ref := range refs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			loaded[i], bad[i], errs[i] = LoadInstance(ref.Path, ref.Name(), ref.Group, sizeLimit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var instances []*hierarchy.Instance
	var failures []Failure
	for i, ref := range refs {
		for _, b := range bad[i] {
			failures = append(failures, Failure{Ref: ref, Algorithm: b.Algorithm, Err: b.Err})
		}
		if errs[i] != nil {
			failures = append(failures, Failure{Ref: ref, Err: errs[i]})
			continue
		}
		instances = append(instances, loaded[i])
	}
	return instances, failures, nil
}
