package claudecode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/martinemde/llmbridge/provider"
)

// backend is the outbound surface the adapter delegates to. *Client is the
// real implementation; tests substitute a stub.
type backend interface {
	Complete(ctx context.Context, req provider.Request) (*provider.Response, error)
	Stream(ctx context.Context, req provider.Request) (<-chan provider.StreamEvent, error)
}

// Adapter exposes the Claude Code CLI as a provider.Provider. Each operation
// validates the request, consults the cached availability probe, delegates to
// the CLI under the retry executor, and classifies whatever failure survives.
type Adapter struct {
	base   provider.Base
	cfg    Config
	client backend
	probe  *probe
	rules  Ruleset
	policy Policy
	log    zerolog.Logger
}

// Option customizes an Adapter.
type Option func(*Adapter)

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Adapter) { a.log = log }
}

// WithRuleset replaces the built-in classification tables.
func WithRuleset(rs Ruleset) Option {
	return func(a *Adapter) { a.rules = rs }
}

// WithRetryPolicy replaces the default retry budget of three retries with
// 1s base delay.
func WithRetryPolicy(p Policy) Option {
	return func(a *Adapter) { a.policy = p }
}

// New creates an Adapter for the given configuration. The CLI is not touched
// until the first request; the availability probe runs lazily and its verdict
// is cached for the adapter's lifetime.
func New(cfg Config, opts ...Option) *Adapter {
	a := &Adapter{
		base:   provider.NewBase("anthropic"),
		cfg:    cfg.normalized(),
		rules:  DefaultRuleset(),
		policy: defaultPolicy(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil {
		a.client = NewClient(a.cfg, a.log)
	}
	if a.probe == nil {
		a.probe = newProbe(a.cfg.CLIPath, a.log)
	}
	return a
}

// Name implements provider.Provider.
func (a *Adapter) Name() string {
	return providerName
}

// ValidateParams implements provider.Provider.
func (a *Adapter) ValidateParams(req provider.Request) error {
	return a.base.ValidateParams(req)
}

// Generate runs one blocking completion through the CLI.
func (a *Adapter) Generate(ctx context.Context, req provider.Request) (*provider.Response, error) {
	if err := a.gate(ctx, "generate", &req); err != nil {
		return nil, err
	}

	resp, err := withRetry(ctx, a.log, "generate", a.policy, a.rules.IsRetryable,
		func(ctx context.Context) (*provider.Response, error) {
			return a.client.Complete(ctx, req)
		})
	if err != nil {
		return nil, a.rules.classified(err)
	}
	return resp, nil
}

// GenerateStream opens a streaming completion. Retry applies to establishing
// the stream; failures after the first event are classified but not retried,
// since partial output has already been delivered.
func (a *Adapter) GenerateStream(ctx context.Context, req provider.Request) (<-chan provider.StreamEvent, error) {
	if err := a.gate(ctx, "generate_stream", &req); err != nil {
		return nil, err
	}

	inner, err := withRetry(ctx, a.log, "generate_stream", a.policy, a.rules.IsRetryable,
		func(ctx context.Context) (<-chan provider.StreamEvent, error) {
			return a.client.Stream(ctx, req)
		})
	if err != nil {
		return nil, a.rules.classified(err)
	}

	out := make(chan provider.StreamEvent)
	go func() {
		defer close(out)
		for ev := range inner {
			if ev.Type == provider.StreamError {
				ev.Err = a.rules.classified(ev.Err)
			}
			if !sendEvent(ctx, out, ev) {
				return
			}
		}
	}()
	return out, nil
}

// GenerateStructured runs a completion constrained to a JSON schema and
// decodes the object from the generated text.
func (a *Adapter) GenerateStructured(ctx context.Context, req provider.Request, schema map[string]interface{}) (map[string]interface{}, error) {
	structured := provider.StructuredRequest(req, schema)
	if err := a.gate(ctx, "generate_structured", &structured); err != nil {
		return nil, err
	}

	resp, err := withRetry(ctx, a.log, "generate_structured", a.policy, a.rules.IsRetryable,
		func(ctx context.Context) (*provider.Response, error) {
			return a.client.Complete(ctx, structured)
		})
	if err != nil {
		return nil, a.rules.classified(err)
	}

	obj, err := provider.ParseStructured(resp.Text)
	if err != nil {
		return nil, provider.NewError(provider.CategoryUnclassified,
			"model did not produce a valid structured object", err)
	}
	return obj, nil
}

// gate performs the shared front half of every operation: log intent,
// validate the request, check CLI availability, and resolve the model alias.
// A missing CLI fails fast; absence is not transient, so no retries and no
// spawn attempts happen for the actual request.
func (a *Adapter) gate(ctx context.Context, op string, req *provider.Request) error {
	a.log.Debug().
		Str("op", op).
		Str("model", req.Model).
		Int("messages", len(req.Messages)).
		Msg("claude cli request")

	if err := a.base.ValidateParams(*req); err != nil {
		return err
	}
	if !a.probe.available(ctx) {
		return provider.NewError(provider.CategoryCLIMissing,
			remediation[provider.CategoryCLIMissing],
			fmt.Errorf("executable %q did not answer a version check", a.cfg.CLIPath))
	}
	req.Model = a.base.Resolve(req.Model)
	return nil
}

var _ provider.Provider = (*Adapter)(nil)
