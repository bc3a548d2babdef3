package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestConsoleHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	logger = NewComponentLogger(logger, "indexer")
	logger.Info("rebuild complete", Int("records", 42), String("source", "sitemap crawl"))

	line := buf.String()
	if !strings.Contains(line, "[indexer]") {
		t.Fatalf("missing component tag: %q", line)
	}
	if !strings.Contains(line, "records=42") {
		t.Fatalf("missing int attr: %q", line)
	}
	if !strings.Contains(line, `source="sitemap crawl"`) {
		t.Fatalf("expected quoted value with spaces: %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	logger.Info("dropped")
	logger.Warn("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Fatalf("info line should have been filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn line missing: %q", buf.String())
	}
}

func TestJSONHandlerKeys(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, levelVar))

	logger.Error("boom", Error(context.DeadlineExceeded))

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json log line: %v", err)
	}
	if decoded["msg"] != "boom" {
		t.Fatalf("msg key = %v", decoded["msg"])
	}
	if decoded["level"] != "error" {
		t.Fatalf("level key = %v", decoded["level"])
	}
	if _, ok := decoded["ts"]; !ok {
		t.Fatal("missing ts key")
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	id, ok := RequestIDFromContext(ctx)
	if !ok || id != "req-123" {
		t.Fatalf("request id = %q, ok=%v", id, ok)
	}
	if _, ok := RequestIDFromContext(context.Background()); ok {
		t.Fatal("expected no request id on empty context")
	}
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	ctx := WithRequestID(context.Background(), "req-9")
	WithContext(ctx, logger).Info("hello")

	if !strings.Contains(buf.String(), "request_id=req-9") {
		t.Fatalf("missing request id attr: %q", buf.String())
	}
}
