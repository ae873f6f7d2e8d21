package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bntaxonomy/bntaxonomy/pkg/control"
	bnerrors "github.com/bntaxonomy/bntaxonomy/pkg/errors"
	"github.com/bntaxonomy/bntaxonomy/pkg/hierarchy"
)

const (
	resultExt   = ".json"
	fullExt     = ".full.json"
	sentinelExt = ".oom"
)

// ErrNoResult is returned when an algorithm has no result file.
var ErrNoResult = errors.New("no result")

// ResultFile returns the path of the minimal result of an algorithm.
func ResultFile(dir, algorithm string) string {
	return filepath.Join(dir, algorithm+resultExt)
}

// FullResultFile returns the path of the unfiltered result of an algorithm.
func FullResultFile(dir, algorithm string) string {
	return filepath.Join(dir, algorithm+fullExt)
}

// SaveResult normalizes raw tool output and writes both the full and the
// minimal variant. It returns the minimal result.
func SaveResult(dir, algorithm string, raw []control.Intervention, sizeLimit int) (control.Result, error) {
	if err := bnerrors.ValidateAlgorithmName(algorithm); err != nil {
		return control.Result{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return control.Result{}, err
	}
	full := control.NewResult(algorithm, raw, control.Options{KeepNonMinimal: true})
	if err := writeItems(FullResultFile(dir, algorithm), full.Items); err != nil {
		return control.Result{}, err
	}
	minimal := control.NewResult(algorithm, raw, control.Options{SizeLimit: sizeLimit})
	if err := writeItems(ResultFile(dir, algorithm), minimal.Items); err != nil {
		return control.Result{}, err
	}
	return minimal, nil
}

// LoadResult reads the minimal result of an algorithm, re-deriving it from
// the full file when needed. Items are renormalized with sizeLimit, so a
// result saved with a larger cap is trimmed on load.
func LoadResult(dir, algorithm string, sizeLimit int) (control.Result, error) {
	opts := control.Options{SizeLimit: sizeLimit}
	items, err := readItems(ResultFile(dir, algorithm))
	if errors.Is(err, fs.ErrNotExist) {
		items, err = readItems(FullResultFile(dir, algorithm))
	}
	if errors.Is(err, fs.ErrNotExist) {
		return control.Result{}, fmt.Errorf("%w: %s in %s", ErrNoResult, algorithm, dir)
	}
	if err != nil {
		return control.Result{}, err
	}
	return control.NewResult(algorithm, items, opts), nil
}

// Algorithms lists the algorithms with a result file in dir, sorted.
func Algorithms(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		switch {
		case strings.HasSuffix(name, fullExt):
			seen[strings.TrimSuffix(name, fullExt)] = struct{}{}
		case strings.HasSuffix(name, resultExt) && name != SettingFile:
			seen[strings.TrimSuffix(name, resultExt)] = struct{}{}
		}
	}
	algs := make([]string, 0, len(seen))
	for a := range seen {
		algs = append(algs, a)
	}
	slices.Sort(algs)
	return algs, nil
}

// ResultError reports an algorithm whose result could not be loaded.
type ResultError struct {
	Algorithm string
	Err       error
}

func (e *ResultError) Error() string { return e.Algorithm + ": " + e.Err.Error() }

func (e *ResultError) Unwrap() error { return e.Err }

// LoadInstance reads every result in dir and builds the instance's
// dominance graph. An algorithm whose result cannot be read or decoded is
// left out of the graph and reported in the returned slice; the error is
// only set when dir itself cannot be listed.
func LoadInstance(dir, name, group string, sizeLimit int) (*hierarchy.Instance, []*ResultError, error) {
	algs, err := Algorithms(dir)
	if err != nil {
		return nil, nil, err
	}
	results := make([]control.Result, 0, len(algs))
	var bad []*ResultError
	for _, a := range algs {
		r, err := LoadResult(dir, a, sizeLimit)
		if err != nil {
			bad = append(bad, &ResultError{Algorithm: a, Err: err})
			continue
		}
		results = append(results, r)
	}
	inst, err := hierarchy.NewInstance(name, group, results)
	if err != nil {
		return nil, bad, err
	}
	return inst, bad, nil
}

// MarkFailed leaves a sentinel so later runs skip the algorithm on this
// instance. The reason is stored as the file content.
func MarkFailed(dir, algorithm, reason string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, algorithm+sentinelExt), []byte(reason+"\n"), 0o644)
}

// IsMarkedFailed reports whether a sentinel exists, with its reason.
func IsMarkedFailed(dir, algorithm string) (bool, string) {
	data, err := os.ReadFile(filepath.Join(dir, algorithm+sentinelExt))
	if err != nil {
		return false, ""
	}
	return true, strings.TrimSpace(string(data))
}

// ClearMarks removes all failure sentinels in dir.
func ClearMarks(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+sentinelExt))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func writeItems(path string, items []control.Intervention) error {
	data, err := control.EncodeInterventions(items)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func readItems(path string) ([]control.Intervention, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	items, err := control.DecodeInterventions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}
