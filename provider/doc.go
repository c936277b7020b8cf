// Package provider defines the uniform AI-provider contract consumed by the
// orchestration layer, together with the shared plumbing every backend needs:
// request/response types, a categorized error type, a model catalog, and a
// routing Client.
//
// # Architecture
//
// The package follows a three-layer structure:
//
//   - Contract: the Provider interface and shared request/response types
//   - Base: generic parameter validation and structured-output helpers that
//     concrete backends embed instead of reimplementing
//   - Client: provider registration and per-request routing
//
// Concrete backends live elsewhere and compose around Base rather than
// overriding it: the claudecode package wraps the Claude Code CLI behind this
// contract, and GollmProvider in this package wraps API-backed providers via
// the gollm library.
//
// # Quick Start
//
//	claude := claudecode.New(claudecode.DefaultConfig())
//	client := provider.NewClient(provider.WithProvider("claude-code", claude))
//
//	resp, err := client.Generate(ctx, provider.Request{
//	    Model:    "sonnet",
//	    Messages: []provider.Message{provider.UserMessage("Hello")},
//	})
//	fmt.Println(resp.Text)
//
// # Error Categories
//
// Every failure that crosses the Provider boundary is a *provider.Error
// carrying a Category, so callers can distinguish an authentication problem
// from a missing executable from a transient network fault:
//
//	if provider.CategoryOf(err) == provider.CategoryAuthRequired {
//	    // prompt the user to log in
//	}
package provider
