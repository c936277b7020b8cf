package provider

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorAppendsCause(t *testing.T) {
	cause := errors.New("ECONNRESET while reading response")
	err := NewError(CategoryNetwork, "network failure talking to Anthropic", cause)

	msg := err.Error()
	if !strings.Contains(msg, "network failure talking to Anthropic") {
		t.Errorf("remediation missing from message: %q", msg)
	}
	if !strings.Contains(msg, "ECONNRESET while reading response") {
		t.Errorf("original diagnostic text missing from message: %q", msg)
	}
}

func TestErrorWithoutCause(t *testing.T) {
	err := NewError(CategoryInvalidRequest, "model identifier is required", nil)
	if err.Error() != "model identifier is required" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewError(CategoryUnclassified, "wrapper", cause)
	if !errors.Is(err, cause) {
		t.Error("expected Error to unwrap to its cause")
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Category
	}{
		{"direct", NewError(CategoryAuthRequired, "login required", nil), CategoryAuthRequired},
		{"wrapped", fmt.Errorf("operation failed: %w", NewError(CategoryCLIMissing, "cli not found", nil)), CategoryCLIMissing},
		{"plain error", errors.New("something broke"), CategoryUnclassified},
		{"nil chain", fmt.Errorf("outer: %w", errors.New("inner")), CategoryUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryOf(tt.err); got != tt.expected {
				t.Errorf("CategoryOf() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCodedError(t *testing.T) {
	cause := errors.New("underlying")
	err := &CodedError{Message: "spawn failed", Code: "ETIMEDOUT", Status: 0, Cause: cause}

	if !strings.Contains(err.Error(), "ETIMEDOUT") {
		t.Errorf("code missing from message: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected CodedError to unwrap to its cause")
	}

	plain := &CodedError{Message: "spawn failed"}
	if plain.Error() != "spawn failed" {
		t.Errorf("unexpected message: %q", plain.Error())
	}
}
