package logger

import (
	"sync"

	"go.uber.org/zap/zapcore"
)

// RingBuffer retains the last N formatted log lines for the TUI's debug
// pane. It implements zapcore.WriteSyncer so it can sit behind a second
// core, fanned out alongside the stdout core the way the teacher's
// multi-writer setup fans output to several destinations at once.
type RingBuffer struct {
	mu       sync.Mutex
	lines    []string
	capacity int
}

// NewRingBuffer creates a RingBuffer retaining up to capacity lines.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 200
	}
	return &RingBuffer{capacity: capacity}
}

func (r *RingBuffer) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lines = append(r.lines, string(p))
	if len(r.lines) > r.capacity {
		r.lines = r.lines[len(r.lines)-r.capacity:]
	}
	return len(p), nil
}

func (r *RingBuffer) Sync() error { return nil }

// Lines returns a snapshot of retained lines, oldest first.
func (r *RingBuffer) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// NewDebugPaneCore builds a zapcore.Core that writes JSON-encoded records
// into buf, suitable for tee-ing alongside the console core so the TUI's
// debug pane can replay recent log lines without re-parsing console
// color codes.
func NewDebugPaneCore(buf *RingBuffer, level zapcore.LevelEnabler) zapcore.Core {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		NameKey:        "logger",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		LineEnding:     zapcore.DefaultLineEnding,
	}
	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(buf), level)
}
