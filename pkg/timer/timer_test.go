package timer

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestNewTimer(t *testing.T) {
	tm := New()
	if !tm.on {
		t.Error("expected timer to be on")
	}
	if tm.start.IsZero() {
		t.Error("expected timer start time to be set")
	}
}

func TestConditionalTimer(t *testing.T) {
	t.Run("ConditionTrue", func(t *testing.T) {
		if tm := Conditional(true); !tm.on {
			t.Error("expected timer to be on when condition is true")
		}
	})

	t.Run("ConditionFalse", func(t *testing.T) {
		tm := Conditional(false)
		if tm.on {
			t.Error("expected timer to be off when condition is false")
		}
		if tm.start.IsZero() {
			t.Error("expected timer start time to be set even if condition is false")
		}
	})
}

func TestElapsed(t *testing.T) {
	tm := New()
	time.Sleep(5 * time.Millisecond)
	if got := tm.Elapsed(); got < 5*time.Millisecond {
		t.Errorf("expected at least 5ms, got %v", got)
	}
}

func TestCheckpoint(t *testing.T) {
	log, buf := captureLogger()
	tm := New().WithLogger(log)
	before := tm.start

	time.Sleep(time.Millisecond)
	tm.Checkpoint("parse")

	out := buf.String()
	if !strings.Contains(out, "label=parse") || !strings.Contains(out, "duration=") {
		t.Errorf("expected checkpoint record, got %q", out)
	}
	if !tm.start.After(before) {
		t.Error("expected checkpoint to reset the timer")
	}
}

func TestMultipleCheckpoints(t *testing.T) {
	log, buf := captureLogger()
	tm := New().WithLogger(log)
	for _, label := range []string{"one", "two", "three"} {
		tm.Checkpoint(label)
	}
	if got := strings.Count(buf.String(), "msg=checkpoint"); got != 3 {
		t.Errorf("expected 3 checkpoints, got %d", got)
	}
}

func TestConditionalTimerStaysQuiet(t *testing.T) {
	log, buf := captureLogger()
	tm := Conditional(false).WithLogger(log)
	start := tm.start

	time.Sleep(time.Millisecond)
	tm.Checkpoint("ignored")
	tm.Reset()

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
	if !tm.start.Equal(start) {
		t.Error("expected an off timer not to reset")
	}
}
