package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf)

	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "test message",
			fields:  Fields{"key": "value"},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "debug message",
			want:    false, // won't log (below INFO)
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "error occurred",
			err:     errors.New("test error"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := buf.Len()

			logger.log(tt.level, tt.message, tt.fields, tt.err)

			logged := buf.Len() > before
			if logged != tt.want {
				t.Errorf("log() logged = %v, want %v", logged, tt.want)
			}
		})
	}
}

func TestLogger_JSONShape(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf)

	logger.Error("write failed", Fields{"file": "index_avisos.html"}, errors.New("disk full"))

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("Unmarshal() error = %v (line %q)", err, buf.String())
	}

	if entry["message"] != "write failed" {
		t.Errorf("message = %v, want %q", entry["message"], "write failed")
	}
	if entry["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", entry["level"])
	}
	if entry["file"] != "index_avisos.html" {
		t.Errorf("file = %v, want index_avisos.html", entry["file"])
	}
	if entry["error"] != "disk full" {
		t.Errorf("error = %v, want %q", entry["error"], "disk full")
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("timestamp missing from entry")
	}
}

func TestLogger_WithObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core)

	logger.Debug("row skipped", Fields{"cells": 2})

	entries := logs.FilterMessage("row skipped").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["cells"]; got != int64(2) {
		t.Errorf("cells = %v (%T), want 2", got, got)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf)

	logger.Debug("hidden", nil)
	if buf.Len() != 0 {
		t.Fatalf("debug logged at INFO level: %q", buf.String())
	}

	logger.SetLevel(LevelDebug)
	logger.Debug("shown", nil)
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug not logged after SetLevel(DEBUG): %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("test_counter")
	m.IncrCounter("test_counter")
	m.AddCounter("test_counter", 3)

	snapshot := m.GetSnapshot()
	counters := snapshot["counters"].(map[string]int64)

	if counters["test_counter"] != 5 {
		t.Errorf("Counter = %v, want 5", counters["test_counter"])
	}
}

func TestMetrics_Gauge(t *testing.T) {
	m := NewMetrics()

	m.SetGauge("teachers", 12)
	m.SetGauge("teachers", 14)

	snapshot := m.GetSnapshot()
	gauges := snapshot["gauges"].(map[string]float64)

	if gauges["teachers"] != 14 {
		t.Errorf("Gauge = %v, want 14", gauges["teachers"])
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("generate", 100*time.Millisecond)
	m.RecordTiming("generate", 200*time.Millisecond)
	m.RecordTiming("generate", 150*time.Millisecond)

	snapshot := m.GetSnapshot()
	timings := snapshot["timings"].(map[string]map[string]interface{})

	gen := timings["generate"]
	if gen["count"].(int) != 3 {
		t.Errorf("Timing count = %v, want 3", gen["count"])
	}
	if gen["min"].(string) != "100ms" {
		t.Errorf("Min timing = %v, want 100ms", gen["min"])
	}
	if gen["max"].(string) != "200ms" {
		t.Errorf("Max timing = %v, want 200ms", gen["max"])
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("a")
	m.Reset()

	counters := m.GetSnapshot()["counters"].(map[string]int64)
	if len(counters) != 0 {
		t.Errorf("counters after Reset = %v, want empty", counters)
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	prev := Default()
	SetDefault(New(LevelDebug, &buf))
	defer SetDefault(prev)

	Debug("test debug", nil)
	Info("test info", Fields{"key": "value"})
	Warn("test warning", nil)
	Error("test error", Fields{"component": "test"}, errors.New("test"))

	if got := strings.Count(buf.String(), "\n"); got != 4 {
		t.Errorf("logged %d lines, want 4", got)
	}

	IncrCounter("test")
	SetGauge("test", 42.0)
	RecordTiming("test", time.Second)

	if snapshot := GetMetricsSnapshot(); snapshot == nil {
		t.Error("GetMetricsSnapshot() returned nil")
	}
}
