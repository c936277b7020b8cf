package provider

import (
	"context"
	"testing"
)

// fakeProvider records calls for routing tests.
type fakeProvider struct {
	name      string
	calls     int
	closed    bool
	lastModel string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) ValidateParams(req Request) error { return nil }

func (f *fakeProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	f.calls++
	f.lastModel = req.Model
	return &Response{Provider: f.name, Text: "ok"}, nil
}

func (f *fakeProvider) GenerateStream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	f.calls++
	ch := make(chan StreamEvent, 2)
	ch <- StreamEvent{Type: TextDelta, Delta: "ok"}
	ch <- StreamEvent{Type: StreamFinish, Response: &Response{Provider: f.name, Text: "ok"}}
	close(ch)
	return ch, nil
}

func (f *fakeProvider) GenerateStructured(ctx context.Context, req Request, schema map[string]interface{}) (map[string]interface{}, error) {
	f.calls++
	return map[string]interface{}{"ok": true}, nil
}

func (f *fakeProvider) Close() error {
	f.closed = true
	return nil
}

func TestClientRoutesByExplicitProvider(t *testing.T) {
	a := &fakeProvider{name: "anthropic"}
	b := &fakeProvider{name: "openai"}
	client := NewClient(WithProvider("anthropic", a), WithProvider("openai", b))

	_, err := client.Generate(context.Background(), Request{
		Provider: "openai",
		Model:    "gpt-5.2",
		Messages: []Message{UserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.calls != 1 || a.calls != 0 {
		t.Errorf("expected openai to serve the request: a=%d b=%d", a.calls, b.calls)
	}
}

func TestClientInfersProviderFromCatalog(t *testing.T) {
	a := &fakeProvider{name: "anthropic"}
	b := &fakeProvider{name: "openai"}
	client := NewClient(WithProvider("anthropic", a), WithProvider("openai", b))

	_, err := client.Generate(context.Background(), Request{
		Model:    "sonnet",
		Messages: []Message{UserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.calls != 1 {
		t.Errorf("expected catalog inference to route to anthropic, got %d calls", a.calls)
	}
}

func TestClientSingleProviderIsDefault(t *testing.T) {
	a := &fakeProvider{name: "anthropic"}
	client := NewClient(WithProvider("anthropic", a))

	_, err := client.Generate(context.Background(), Request{
		Model:    "custom-model",
		Messages: []Message{UserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.calls != 1 {
		t.Errorf("expected the sole provider to serve the request, got %d calls", a.calls)
	}
}

func TestClientUnregisteredProvider(t *testing.T) {
	client := NewClient(WithProvider("anthropic", &fakeProvider{name: "anthropic"}))

	_, err := client.Generate(context.Background(), Request{
		Provider: "gemini",
		Model:    "whatever",
		Messages: []Message{UserMessage("hi")},
	})
	if err == nil {
		t.Fatal("expected error for unregistered provider")
	}
	if CategoryOf(err) != CategoryInvalidRequest {
		t.Errorf("expected invalid_request, got %q", CategoryOf(err))
	}
}

func TestClientNoDefault(t *testing.T) {
	client := NewClient()
	_, err := client.Generate(context.Background(), Request{
		Model:    "unknown",
		Messages: []Message{UserMessage("hi")},
	})
	if err == nil {
		t.Fatal("expected error when nothing is registered")
	}
}

func TestClientClose(t *testing.T) {
	a := &fakeProvider{name: "anthropic"}
	client := NewClient(WithProvider("anthropic", a))
	if err := client.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.closed {
		t.Error("expected Close to propagate to providers")
	}
}
