package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		" error ": slog.LevelError,
		"info+2":  slog.LevelInfo + 2,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_NormalizesTimesAndDurations(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf, Service: "bookings"}).WithComponent("service")

	wib := time.FixedZone("WIB", 7*3600)
	log.Info("booking created",
		"start", time.Date(2031, 6, 2, 13, 0, 0, 0, wib),
		"ttl", 90*time.Second,
	)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	want := map[string]string{
		"start":      "2031-06-02T06:00:00Z",
		"ttl":        "1m30s",
		ServiceKey:   "bookings",
		ComponentKey: "service",
	}
	for k, v := range want {
		if line[k] != v {
			t.Errorf("%s = %v, want %q", k, line[k], v)
		}
	}
	if _, ok := line[slog.TimeKey].(string); !ok {
		t.Errorf("record time missing: %v", line)
	}
}

func TestNew_TextFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf, Format: "TEXT", Level: "warn"})

	log.Info("dropped")
	log.Warn("kept", "booking_id", "b1")

	out := buf.String()
	if bytes.Contains(buf.Bytes(), []byte("dropped")) {
		t.Errorf("info line written at warn level: %s", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("booking_id=b1")) {
		t.Errorf("text output = %s", out)
	}
}

func TestFromContext(t *testing.T) {
	fallback := Nop()
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Error("empty context should return the fallback")
	}

	scoped := fallback.With("request_id", "req-1")
	ctx := IntoContext(context.Background(), scoped)
	if got := FromContext(ctx, fallback); got != scoped {
		t.Error("FromContext did not return the stored logger")
	}
}
