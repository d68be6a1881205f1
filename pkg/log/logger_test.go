package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// TestLoggerInterface tests the TestLogger implementation of Logger
func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationFit)
	testLogger.Warn("warning message", ColumnKey, "city")
	testLogger.Error("error message", fmt.Errorf("test error"), ErrorCodeKey, ErrorColumnNotFound)

	if buffer.Len() == 0 {
		t.Fatal("Expected log output, got empty buffer")
	}

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}

	if !testLogger.ContainsField("key1", "value1") {
		t.Error("Expected field key1=value1 not found")
	}
	if !testLogger.ContainsField("number", 42.0) {
		t.Error("Expected field number=42 not found")
	}
	if !testLogger.ContainsField(ErrAttrKey, "test error") {
		t.Error("Expected leading error to be attached as error field")
	}
	if !testLogger.ContainsField(ErrorCodeKey, ErrorColumnNotFound) {
		t.Error("Expected error code field not found")
	}
}

func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	child := testLogger.With(ModelNameKey, "random_forest", SessionIDKey, "s-1")
	child.Info("Training started", SamplesKey, 100)

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry[ModelNameKey] != "random_forest" {
		t.Errorf("model.name = %v", entry[ModelNameKey])
	}
	if entry[SessionIDKey] != "s-1" {
		t.Errorf("session.id = %v", entry[SessionIDKey])
	}
	if entry[SamplesKey] != 100.0 {
		t.Errorf("data.samples = %v", entry[SamplesKey])
	}
}

func TestLoggerEnabled(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelWarn)
	ctx := context.Background()

	if testLogger.Enabled(ctx, LevelInfo) {
		t.Error("Info should be disabled at warn level")
	}
	if !testLogger.Enabled(ctx, LevelError) {
		t.Error("Error should be enabled at warn level")
	}

	testLogger.Info("hidden")
	if buffer.Len() != 0 {
		t.Errorf("Expected no output, got %q", buffer.String())
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToLogLevelPanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid level")
		}
	}()
	ToLogLevel("loud")
}

func TestZerologProvider(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(LevelInfo, &buf)

	logger := provider.GetLoggerWithName("Pipeline").With(ModelNameKey, "linear")
	logger.Debug("not emitted")
	logger.Info("Training completed", R2ScoreKey, 0.93, SamplesKey, 80)
	logger.Error("Training failed", fmt.Errorf("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	var first map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if first["message"] != "Training completed" {
		t.Errorf("message = %v", first["message"])
	}
	if first[ComponentKey] != "Pipeline" {
		t.Errorf("component = %v", first[ComponentKey])
	}
	if first[ModelNameKey] != "linear" {
		t.Errorf("model.name = %v", first[ModelNameKey])
	}
	if first[R2ScoreKey] != 0.93 {
		t.Errorf("r2 = %v", first[R2ScoreKey])
	}

	var second map[string]interface{}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatal(err)
	}
	if second[ErrAttrKey] != "boom" {
		t.Errorf("error = %v", second[ErrAttrKey])
	}
}

func TestZerologProviderSetLevel(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(LevelError, &buf)

	provider.GetLogger().Warn("dropped")
	if buf.Len() != 0 {
		t.Fatalf("unexpected output %q", buf.String())
	}

	provider.SetLevel(LevelDebug)
	logger := provider.GetLogger()
	if !logger.Enabled(context.Background(), LevelDebug) {
		t.Error("debug should be enabled after SetLevel")
	}
	logger.Debug("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}

func TestRouteWarnings(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(LevelInfo, &buf)
	provider.RouteWarnings()
	defer errors.SetZerologWarnFunc(nil)

	errors.Warn(errors.NewUnseenCategoryWarning("city", 1, []string{"Atlantis"}, "Boston"))

	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("expected warn level in %q", out)
	}
	if !strings.Contains(out, "Atlantis") {
		t.Errorf("expected unseen value in %q", out)
	}
}

func TestGlobalProvider(t *testing.T) {
	provider, captured := NewTestLoggerProvider(LevelDebug)
	SetProvider(provider)
	defer SetProvider(NewZerologProvider(LevelInfo))

	GetLoggerWithName("stats").Info("Analysis completed", OperationKey, OperationAnalyze)

	if !captured.ContainsField(ComponentKey, "stats") {
		t.Error("expected component field from named logger")
	}
	if !captured.ContainsField(OperationKey, OperationAnalyze) {
		t.Error("expected operation field")
	}
}

func TestConcurrentLogging(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			child := testLogger.With("worker", id)
			for j := 0; j < 10; j++ {
				child.Info("tree fitted", IterationKey, j)
			}
		}(i)
	}
	wg.Wait()

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 80 {
		t.Errorf("Expected 80 entries, got %d", len(entries))
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Info("nothing")
	if logger.Enabled(context.Background(), LevelError) {
		t.Error("Nop logger should be disabled")
	}
}
