package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestOutput_Success(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput().WithWriter(&buf)

	out.Success("Operation completed")

	output := buf.String()
	if !strings.Contains(output, "✓") {
		t.Error("Expected success checkmark")
	}
	if !strings.Contains(output, "Operation completed") {
		t.Error("Expected message in output")
	}
}

func TestOutput_Error(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput().WithErrWriter(&buf)

	out.Error("Something went wrong")

	output := buf.String()
	if !strings.Contains(output, "✗") {
		t.Error("Expected error X mark")
	}
	if !strings.Contains(output, "Something went wrong") {
		t.Error("Expected message in output")
	}
}

func TestOutput_Warning(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput().WithErrWriter(&buf)

	out.Warning("This is a warning")

	output := buf.String()
	if !strings.Contains(output, "⚠") {
		t.Error("Expected warning symbol")
	}
}

func TestOutput_Info(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput().WithWriter(&buf)

	out.Info("just so you know")

	output := buf.String()
	if !strings.Contains(output, "just so you know") {
		t.Error("Expected message in output")
	}
}

func TestOutput_List(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput().WithWriter(&buf)

	out.List([]string{"Item 1", "Item 2", "Item 3"})

	output := buf.String()
	if !strings.Contains(output, "• Item 1") {
		t.Error("Expected bullet point for Item 1")
	}
	if !strings.Contains(output, "• Item 2") {
		t.Error("Expected bullet point for Item 2")
	}
	if !strings.Contains(output, "• Item 3") {
		t.Error("Expected bullet point for Item 3")
	}
}

func TestOutput_KeyValue(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput().WithWriter(&buf)

	out.KeyValue("Version", "1.0.0")

	output := buf.String()
	if !strings.Contains(output, "Version") {
		t.Error("Expected key in output")
	}
	if !strings.Contains(output, "1.0.0") {
		t.Error("Expected value in output")
	}
}

func TestOutput_WithVerbose(t *testing.T) {
	out := NewOutput().WithVerbose(true)
	if !out.verbose {
		t.Error("Expected verbose flag to be set")
	}
}
