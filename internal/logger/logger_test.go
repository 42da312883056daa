package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func initBuffer(t *testing.T, level string, detailed bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := InitWithConfig(LogConfig{
		Level:           level,
		Format:          "json",
		DetailedLogging: detailed,
		Output:          &buf,
	}); err != nil {
		t.Fatalf("InitWithConfig: %v", err)
	}
	return &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	return entry
}

func TestInfoWritesFields(t *testing.T) {
	buf := initBuffer(t, "INFO", false)

	Info(context.Background(), "hello", "symbol", "PETR4")

	entry := lastEntry(t, buf)
	if entry["msg"] != "hello" || entry["symbol"] != "PETR4" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestDebugRequiresDetailedLogging(t *testing.T) {
	buf := initBuffer(t, "INFO", false)

	Debug(context.Background(), "hidden")
	Classification(context.Background(), "PETR4", "ROE", "Good", 18.4)
	if buf.Len() != 0 {
		t.Errorf("debug output written without detailed logging: %s", buf.String())
	}

	buf = initBuffer(t, "DEBUG", false)
	Classification(context.Background(), "PETR4", "ROE", "Good", 18.4)
	entry := lastEntry(t, buf)
	if entry["type"] != "CLASSIFICATION" || entry["indicator"] != "ROE" {
		t.Errorf("unexpected entry %v", entry)
	}
	if _, ok := entry["source"]; !ok {
		t.Error("detailed logging should attach the caller source")
	}
}

func TestErrorWithErrSkip(t *testing.T) {
	buf := initBuffer(t, "INFO", false)

	ErrorWithErrSkip(context.Background(), 1, "failed", errors.New("boom"), "symbol", "VALE3")

	entry := lastEntry(t, buf)
	if entry["level"] != "ERROR" || entry["error"] != "boom" || entry["symbol"] != "VALE3" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestEvaluationFailureIsWarning(t *testing.T) {
	buf := initBuffer(t, "INFO", false)

	EvaluationFailure(context.Background(), "ITUB4", "P/L", errors.New("cannot normalize"))

	entry := lastEntry(t, buf)
	if entry["level"] != "WARN" || entry["type"] != "EVALUATION_FAILURE" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]string{"debug": "DEBUG", "WARN": "WARN", "error": "ERROR", "bogus": "INFO"}
	for in, want := range cases {
		if got := parseLogLevel(in).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
