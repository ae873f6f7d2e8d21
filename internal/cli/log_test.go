package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	// Test that it can log
	logger.Info("loaded instances", "count", 12)

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("tool finished") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("cache hit") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("cache hit") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	if prog == nil {
		t.Fatal("newProgress() returned nil")
	}

	// Small delay to ensure measurable duration
	time.Sleep(10 * time.Millisecond)

	prog.done("Built hierarchy of 3 algorithms")

	output := buf.String()
	if output == "" {
		t.Error("progress.done() should produce output")
	}

	// Should contain the message
	if !bytes.Contains(buf.Bytes(), []byte("Built hierarchy of 3 algorithms")) {
		t.Error("progress.done() output should contain message")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := logHooks{logger: newLogger(&buf, log.InfoLevel)}
	ctx := context.Background()

	h.OnToolStart(ctx, "mtsnf", "bbm/001")
	h.OnToolSkipped(ctx, "mtsnf", "bbm/001", "out of memory")
	if buf.Len() != 0 {
		t.Errorf("debug events logged at info level: %q", buf.String())
	}

	h.OnToolComplete(ctx, "mtsnf", "bbm/001", 4, 3*time.Millisecond, nil)
	if !strings.Contains(buf.String(), "tool finished") {
		t.Errorf("completion not logged: %q", buf.String())
	}

	buf.Reset()
	h.OnToolComplete(ctx, "mtsnf", "bbm/001", 0, time.Millisecond, errors.New("boom"))
	if buf.Len() != 0 {
		t.Errorf("failed completion logged: %q", buf.String())
	}

	h.OnAggregateComplete(ctx, 3, 1, 2, time.Millisecond)
	if !strings.Contains(buf.String(), "never evaluated jointly") {
		t.Errorf("vacuous pairs not reported: %q", buf.String())
	}
}
