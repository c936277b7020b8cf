// Package claudecode adapts the Claude Code CLI into the provider contract.
//
// The adapter owns four pieces of behavior around an otherwise pass-through
// delegation to the CLI:
//
//   - a capability probe: one lazy `claude --version` check per adapter
//     lifetime, cached so repeated requests never re-spawn the probe
//   - an error classifier: keyword and code matching that maps raw process
//     and SDK failures to actionable categories (auth, missing CLI,
//     permissions, timeout, network, access), kept as configuration data in
//     a Ruleset so wording drift in the CLI can be absorbed without code
//     changes
//   - a retry executor: exponential backoff (1s, 2s, 4s, ...) applied only
//     to failures the narrower retryability predicate judges transient
//   - operation gating: each of Generate, GenerateStream, and
//     GenerateStructured validates the model against the supported set,
//     consults the probe, delegates under retry, and classifies whatever
//     failure survives
//
// Requests for a missing CLI fail fast; absence of the tool is not
// transient. Everything else flows through the retry executor first, and the
// original diagnostic text is preserved on every surfaced error.
//
//	adapter := claudecode.New(claudecode.DefaultConfig())
//	resp, err := adapter.Generate(ctx, provider.Request{
//	    Model:    "sonnet",
//	    Messages: []provider.Message{provider.UserMessage("Hello")},
//	})
package claudecode
