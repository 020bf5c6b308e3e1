// Package timer measures how long a request or a step of work takes.
package timer

import (
	"log/slog"
	"time"
)

type Timer struct {
	start time.Time
	on    bool
	log   *slog.Logger
}

func New() *Timer {
	return &Timer{start: time.Now(), on: true}
}

// Conditional returns a timer whose checkpoints only report when
// condition is true. Elapsed works either way.
func Conditional(condition bool) *Timer {
	return &Timer{start: time.Now(), on: condition}
}

// WithLogger sends checkpoints to log at Debug level instead of the
// default slog logger.
func (t *Timer) WithLogger(log *slog.Logger) *Timer {
	t.log = log
	return t
}

// Elapsed returns the time since the timer started or was last reset.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Checkpoint reports the time since the last checkpoint and resets.
func (t *Timer) Checkpoint(label string) {
	if !t.on {
		return
	}
	log := t.log
	if log == nil {
		log = slog.Default()
	}
	log.Debug("checkpoint", "label", label, "duration", t.Elapsed())
	t.Reset()
}

func (t *Timer) Reset() {
	if !t.on {
		return
	}
	t.start = time.Now()
}
