package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bntaxonomy/bntaxonomy/pkg/report"
)

const testConfig = `max_size = 3
formats = []

[cache]
disabled = true

[[tools]]
name = "narrow"
format = "lines"
command = ["sh", "-c", "echo a=1"]

[[tools]]
name = "broad"
format = "lines"
command = ["sh", "-c", "echo a=1; echo c=0"]
`

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	c := New(&logs, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// makeExperiment lays out one instance under root/experiments/instances/g
// and a configuration with two tools. It returns the instance directory and
// the configuration path.
func makeExperiment(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	inst := filepath.Join(root, "experiments", "instances", "g", "001")
	writeFile(t, filepath.Join(inst, "setting.json"), `{"inputs": {}, "target": {"t": 1}, "exclude": []}`)
	writeFile(t, filepath.Join(inst, "transition_formula.bnet"), "a, a\nc, c\nt, a & !c\n")
	cfgPath := filepath.Join(root, "bntaxonomy.toml")
	writeFile(t, cfgPath, testConfig)
	return inst, cfgPath
}

func TestRootCommandTree(t *testing.T) {
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()

	want := []string{"run", "summarize", "compare", "tools", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "redis-url", "no-cache"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	writeFile(t, a, `[{"x1": 0}]`)
	writeFile(t, b, `[{"x1": 0, "x2": 1}]`)

	out, err := execute(t, "compare", a, b, "--missing")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !strings.Contains(out, "b -> a holds") {
		t.Errorf("output missing b -> a:\n%s", out)
	}
	if !strings.Contains(out, "a -> b fails: 1 of 1 controls uncovered") {
		t.Errorf("output missing a -> b failure:\n%s", out)
	}
}

func TestCompareErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `[{"x1": 2}]`)

	if _, err := execute(t, "compare", bad, bad); err == nil {
		t.Error("expected error for a non-Boolean value")
	}
	if _, err := execute(t, "compare", filepath.Join(dir, "missing.json"), bad); err == nil {
		t.Error("expected error for a missing file")
	}
	if _, err := execute(t, "compare", bad); err == nil {
		t.Error("expected error for a single argument")
	}
}

func TestRunAndSummarize(t *testing.T) {
	inst, cfg := makeExperiment(t)

	out, err := execute(t, "run", "-c", cfg, "-i", inst)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	results := strings.Replace(inst, filepath.Join("experiments", "instances"), filepath.Join("experiments", "results"), 1)
	for _, name := range []string{"narrow.json", "broad.json", "narrow.full.json", report.InstanceDOT} {
		if _, err := os.Stat(filepath.Join(results, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	outDir := t.TempDir()
	out, err = execute(t, "summarize", "-c", cfg, "-i", inst, "-o", outDir, "--formats", "none", "--counts")
	if err != nil {
		t.Fatalf("summarize: %v\n%s", err, out)
	}
	if !strings.Contains(out, "broad -> narrow: 1 of 1") {
		t.Errorf("summarize output missing counterexample:\n%s", out)
	}
	for _, name := range []string{report.SummaryJSON, report.ReducedDOT, report.FirstMatchCSV, report.GroupListJSON} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	dot, err := os.ReadFile(filepath.Join(outDir, report.SummaryDOT))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), `"narrow" -> "broad"`) {
		t.Errorf("summary graph missing narrow -> broad:\n%s", dot)
	}

	out, err = execute(t, "summarize", "-c", cfg, "-i", inst, "-o", outDir, "--formats", "none")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if !strings.Contains(out, "broad -> narrow: [A1]") {
		t.Errorf("summarize output missing labeled counterexample:\n%s", out)
	}
}

func TestUnreadableResultIsReported(t *testing.T) {
	inst, cfg := makeExperiment(t)
	results := strings.Replace(inst, filepath.Join("experiments", "instances"), filepath.Join("experiments", "results"), 1)
	writeFile(t, filepath.Join(results, "stale.json"), `[{"x1": 2}]`)

	out, err := execute(t, "run", "-c", cfg, "-i", inst)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "g/001: stale: ") {
		t.Errorf("run output missing unreadable result:\n%s", out)
	}

	out, err = execute(t, "summarize", "-c", cfg, "-i", inst, "-o", t.TempDir(), "--formats", "none", "--counts")
	if err != nil {
		t.Fatalf("summarize: %v\n%s", err, out)
	}
	if !strings.Contains(out, "broad -> narrow: 1 of 1") {
		t.Errorf("readable results were dropped:\n%s", out)
	}
	if !strings.Contains(out, "g/001: stale: ") {
		t.Errorf("summarize output missing unreadable result:\n%s", out)
	}
}

func TestRunSelectsTools(t *testing.T) {
	inst, cfg := makeExperiment(t)

	if _, err := execute(t, "run", "-c", cfg, "-i", inst, "--tools", "nar*"); err != nil {
		t.Fatalf("run: %v", err)
	}
	results := strings.Replace(inst, filepath.Join("experiments", "instances"), filepath.Join("experiments", "results"), 1)
	if _, err := os.Stat(filepath.Join(results, "narrow.json")); err != nil {
		t.Errorf("narrow not run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(results, "broad.json")); err == nil {
		t.Error("broad should not have run")
	}

	if _, err := execute(t, "run", "-c", cfg, "-i", inst, "--tools", "unknown"); err == nil {
		t.Error("expected error for an unknown tool")
	}
}

func TestRunArguments(t *testing.T) {
	inst, cfg := makeExperiment(t)

	tests := []struct {
		name string
		args []string
	}{
		{"non-integer max size", []string{"run", "many", "-c", cfg, "-i", inst}},
		{"no instances", []string{"run", "-c", cfg}},
		{"bad format", []string{"run", "-c", cfg, "-i", inst, "--formats", "gif"}},
		{"missing config", []string{"run", "-c", filepath.Join(t.TempDir(), "none.toml"), "-i", inst}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestSummarizeLabels(t *testing.T) {
	inst, cfg := makeExperiment(t)
	if _, err := execute(t, "summarize", "-c", cfg, "-i", inst, "--labels", "letters"); err == nil {
		t.Error("expected error for unknown label style")
	}
}

func TestToolsCommand(t *testing.T) {
	_, cfg := makeExperiment(t)

	out, err := execute(t, "tools", "-c", cfg)
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	for _, want := range []string{"narrow", "broad", "lines", "2 of 2 tools"} {
		if !strings.Contains(out, want) {
			t.Errorf("tools output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "tools", "-c", cfg, "b*")
	if err != nil {
		t.Fatalf("tools b*: %v", err)
	}
	if strings.Contains(out, "narrow") || !strings.Contains(out, "1 of 2 tools") {
		t.Errorf("pattern did not filter:\n%s", out)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	cfg := filepath.Join(dir, "bntaxonomy.toml")
	writeFile(t, cfg, "[cache]\ndir = \""+filepath.ToSlash(cacheDir)+"\"\n")
	writeFile(t, filepath.Join(cacheDir, "entry"), "stale")

	out, err := execute(t, "cache", "path", "-c", cfg)
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(cacheDir) {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), cacheDir)
	}

	out, err = execute(t, "cache", "clear", "-c", cfg)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared") {
		t.Errorf("cache clear output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "entry")); !os.IsNotExist(err) {
		t.Errorf("cache entry survived clear: %v", err)
	}

	out, err = execute(t, "cache", "clear", "-c", cfg, "--no-cache")
	if err != nil {
		t.Fatalf("cache clear --no-cache: %v", err)
	}
	if !strings.Contains(out, "disabled") {
		t.Errorf("cache clear --no-cache output = %q", out)
	}
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "bntaxonomy") {
		t.Error("bash completion does not mention the command")
	}
}

func TestCompleteToolNames(t *testing.T) {
	_, cfg := makeExperiment(t)

	out, err := execute(t, cobra.ShellCompRequestCmd, "run", "-c", cfg, "--tools", "")
	if err != nil {
		t.Fatalf("complete --tools: %v", err)
	}
	for _, want := range []string{"narrow\tlines", "broad\tlines"} {
		if !strings.Contains(out, want) {
			t.Errorf("completions missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, cobra.ShellCompRequestCmd, "tools", "-c", cfg, "b")
	if err != nil {
		t.Fatalf("complete tools: %v", err)
	}
	if !strings.Contains(out, "broad") || strings.Contains(out, "narrow") {
		t.Errorf("prefix did not filter completions:\n%s", out)
	}

	out, err = execute(t, cobra.ShellCompRequestCmd, "run", "--formats", "")
	if err != nil {
		t.Fatalf("complete --formats: %v", err)
	}
	if !strings.Contains(out, "svg") || !strings.Contains(out, "none") {
		t.Errorf("format completions = %q", out)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"none", 0},
		{"png", 1},
		{"png,svg", 2},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); len(got) != tt.want {
			t.Errorf("parseFormats(%q) = %v, want %d formats", tt.in, got, tt.want)
		}
	}
}
