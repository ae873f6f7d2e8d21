package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bntaxonomy/bntaxonomy/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Built hierarchy (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports library events through the CLI logger.
type logHooks struct {
	logger *log.Logger
}

// installHooks routes run, aggregation and cache events to l.
func installHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetRunHooks(h)
	observability.SetAggregateHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnToolStart(_ context.Context, tool, instance string) {
	h.logger.Debug("running tool", "tool", tool, "instance", instance)
}

func (h logHooks) OnToolComplete(_ context.Context, tool, instance string, items int, d time.Duration, err error) {
	if err != nil {
		return // the runner logs failures with more context
	}
	h.logger.Info("tool finished", "tool", tool, "instance", instance, "controls", items, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnToolSkipped(_ context.Context, tool, instance, reason string) {
	h.logger.Debug("tool skipped", "tool", tool, "instance", instance, "reason", reason)
}

func (h logHooks) OnAggregateStart(_ context.Context, instances, algorithms int) {
	h.logger.Debug("aggregating", "instances", instances, "algorithms", algorithms)
}

func (h logHooks) OnAggregateComplete(_ context.Context, confirmed, counterexampled, vacuous int, d time.Duration) {
	h.logger.Debug("aggregated", "confirmed", confirmed, "counterexampled", counterexampled, "duration", d)
	if vacuous > 0 {
		h.logger.Warn("pairs never evaluated jointly", "count", vacuous)
	}
}

func (h logHooks) OnVacuousPair(_ context.Context, from, to string) {
	h.logger.Debug("no joint instance", "from", from, "to", to)
}

func (h logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h logHooks) OnCacheMiss(_ context.Context, key string) {}

func (h logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}
