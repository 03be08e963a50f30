package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"keysort/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Info("info message")
	assert.Contains(t, buf.String(), "level=info")
	assert.Contains(t, buf.String(), "info message")
	buf.Reset()

	l.Warn("warn message")
	assert.Contains(t, buf.String(), "level=warning")
	buf.Reset()

	l.Error("error message")
	assert.Contains(t, buf.String(), "level=error")
	buf.Reset()

	l.Infof("formatted %s", "message")
	assert.Contains(t, buf.String(), "formatted message")
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	SetDebug(false)
	l.Debug("debug message")
	assert.Empty(t, buf.String())

	SetDebug(true)
	defer SetDebug(false)
	l.Debug("debug message")
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), "debug message")
	buf.Reset()

	l.Debugf("formatted %s", "debug")
	assert.Contains(t, buf.String(), "formatted debug")
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.With(F("key1", "value1"), F("key2", 123)).Info("structured message")
	output := buf.String()
	assert.Contains(t, output, "structured message")
	assert.Contains(t, output, "key1=value1")
	assert.Contains(t, output, "key2=123")
	buf.Reset()

	l.With(F("key1", "value1")).With(F("key2", 123)).Info("chained fields")
	output = buf.String()
	assert.Contains(t, output, "key1=value1")
	assert.Contains(t, output, "key2=123")
}

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithJSON())

	l.With(F("key1", "value1"), F("key2", 123)).Info("structured json")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &logEntry))
	assert.Equal(t, "info", logEntry["level"])
	assert.Equal(t, "structured json", logEntry["message"])
	assert.Contains(t, logEntry, "timestamp")
	assert.Equal(t, "value1", logEntry["key1"])
	assert.Equal(t, float64(123), logEntry["key2"])
}

func TestErrorLogging(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := logger
	Configure(WithOutput(&buf))
	defer func() { logger = originalLogger }()

	LogWithFields(F("error", fmt.Errorf("standard error").Error())).Error("error occurred")
	assert.Contains(t, buf.String(), "standard error")
	buf.Reset()

	fileErr := errors.NewFileError("source missing", "/path/to/file", errors.SourceMissing, nil)
	LogWithError(fileErr).Error("move failed")
	output := buf.String()
	assert.Contains(t, output, "move failed")
	assert.Contains(t, output, "path=/path/to/file")
	assert.Contains(t, output, fmt.Sprintf("error_kind=%d", int(errors.SourceMissing)))
	buf.Reset()

	cfgErr := errors.NewConfigError("config error", "settings.verify", errors.InvalidConfig, fileErr)
	LogError(cfgErr, "nested error occurred")
	output = buf.String()
	assert.Contains(t, output, "param=settings.verify")
	assert.Contains(t, output, fmt.Sprintf("error_kind=%d", int(errors.InvalidConfig)))
	buf.Reset()

	LogWithError(nil).Error("nil error test")
	assert.Contains(t, buf.String(), "error=\"<nil>\"")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keysort.log")
	originalLogger := logger
	Configure(WithFile(path))
	defer func() {
		require.NoError(t, Close())
		logger = originalLogger
	}()

	Info("file test message")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file test message")
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.WithContext(nil).Info("context message")
	assert.Contains(t, buf.String(), "context message")
}
