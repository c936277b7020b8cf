package provider

import (
	"errors"
	"testing"
)

func TestGollmProviderMapError(t *testing.T) {
	p := &GollmProvider{Base: NewBase("openai"), name: "openai"}

	tests := []struct {
		errMsg   string
		expected Category
	}{
		{"401 Unauthorized", CategoryAuthRequired},
		{"invalid api key", CategoryAuthRequired},
		{"403 Forbidden", CategoryAccessDenied},
		{"timeout waiting for response", CategoryTimeout},
		{"context deadline exceeded", CategoryTimeout},
		{"dial tcp: connection refused", CategoryNetwork},
		{"something unknown", CategoryUnclassified},
	}

	for _, tt := range tests {
		err := p.mapError(errors.New(tt.errMsg))
		if err == nil {
			t.Errorf("expected non-nil error for %q", tt.errMsg)
			continue
		}
		if got := CategoryOf(err); got != tt.expected {
			t.Errorf("for %q: expected %q, got %q", tt.errMsg, tt.expected, got)
		}
	}
}

func TestGollmProviderMapErrorPreservesCause(t *testing.T) {
	p := &GollmProvider{Base: NewBase("openai"), name: "openai"}
	cause := errors.New("429 rate limit exceeded by upstream")

	err := p.mapError(cause)
	if !errors.Is(err, cause) {
		t.Error("expected mapped error to preserve the original cause")
	}
}

func TestEstimateTokens(t *testing.T) {
	req := Request{Messages: []Message{
		UserMessage("Hello world, this is a test message."),
	}}
	if tokens := estimateTokens(req); tokens <= 0 {
		t.Errorf("expected positive token estimate, got %d", tokens)
	}
}

func TestEstimateTokensEmpty(t *testing.T) {
	req := Request{Messages: []Message{}}
	if tokens := estimateTokens(req); tokens != 10 {
		t.Errorf("expected default token estimate of 10, got %d", tokens)
	}
}
