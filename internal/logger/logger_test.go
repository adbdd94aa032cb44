package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	if New(true) == nil {
		t.Fatal("Expected logger to not be nil")
	}
	if New(false) == nil {
		t.Fatal("Expected logger to not be nil")
	}
}

func TestNewWithWriter_DebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, true)
	logger.Debug("test debug message")

	if !strings.Contains(buf.String(), "test debug message") {
		t.Errorf("Expected log output to contain 'test debug message', but it didn't")
	}
}

func TestNewWithWriter_Info(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false)
	logger.Info("test info message")

	if !strings.Contains(buf.String(), "test info message") {
		t.Errorf("Expected log output to contain 'test info message', but it didn't")
	}
}

func TestNewWithWriter_DebugSuppressed(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false)
	logger.Debug("test debug message")

	if strings.Contains(buf.String(), "test debug message") {
		t.Errorf("Expected log output to not contain 'test debug message', but it did")
	}
}
