package provider

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/teilomillet/gollm"
)

// GollmProvider is the API-backed implementation of Provider, wrapping a
// gollm.LLM. It gives the uniform contract a second backend alongside the
// process-boundary claudecode adapter.
type GollmProvider struct {
	Base
	name   string
	llm    gollm.LLM
	model  string
	logger zerolog.Logger
}

// GollmOption configures a GollmProvider.
type GollmOption func(*gollmConfig)

type gollmConfig struct {
	model       string
	maxTokens   int
	temperature float64
	logger      zerolog.Logger
	extraOpts   []gollm.ConfigOption
}

// WithGollmModel sets the default model.
func WithGollmModel(model string) GollmOption {
	return func(c *gollmConfig) { c.model = model }
}

// WithGollmMaxTokens sets the default max tokens.
func WithGollmMaxTokens(n int) GollmOption {
	return func(c *gollmConfig) { c.maxTokens = n }
}

// WithGollmLogger sets the diagnostic logger.
func WithGollmLogger(l zerolog.Logger) GollmOption {
	return func(c *gollmConfig) { c.logger = l }
}

// WithGollmOptions adds extra gollm configuration options.
func WithGollmOptions(opts ...gollm.ConfigOption) GollmOption {
	return func(c *gollmConfig) { c.extraOpts = append(c.extraOpts, opts...) }
}

// NewGollmProvider creates a GollmProvider for the given provider key. An
// empty apiKey lets gollm read it from the environment.
func NewGollmProvider(providerKey, apiKey string, opts ...GollmOption) (*GollmProvider, error) {
	cfg := &gollmConfig{
		maxTokens:   4096,
		temperature: 0.7,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	model := cfg.model
	if model == "" {
		if known := ListModels(providerKey); len(known) > 0 {
			model = known[0].ID
		} else {
			return nil, NewError(CategoryInvalidRequest,
				fmt.Sprintf("no catalog models for provider %q and no model configured", providerKey), nil)
		}
	}

	gollmOpts := []gollm.ConfigOption{
		gollm.SetProvider(providerKey),
		gollm.SetModel(model),
		gollm.SetMaxTokens(cfg.maxTokens),
		gollm.SetTemperature(cfg.temperature),
		gollm.SetMaxRetries(0), // retries belong to the caller layer
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}
	if apiKey != "" {
		gollmOpts = append(gollmOpts, gollm.SetAPIKey(apiKey))
	}
	gollmOpts = append(gollmOpts, cfg.extraOpts...)

	llm, err := gollm.NewLLM(gollmOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gollm LLM for provider %s: %w", providerKey, err)
	}

	return &GollmProvider{
		Base:   NewBase(providerKey),
		name:   providerKey,
		llm:    llm,
		model:  model,
		logger: cfg.logger,
	}, nil
}

// NewGollmProviderFromLLM wraps an existing gollm.LLM instance.
func NewGollmProviderFromLLM(providerKey string, llm gollm.LLM) *GollmProvider {
	return &GollmProvider{
		Base:   NewBase(providerKey),
		name:   providerKey,
		llm:    llm,
		logger: zerolog.Nop(),
	}
}

// Name returns the provider identifier.
func (p *GollmProvider) Name() string {
	return p.name
}

// Generate sends a blocking request and returns the full response.
func (p *GollmProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := p.ValidateParams(req); err != nil {
		return nil, err
	}
	p.logger.Debug().Str("op", "generate").Str("model", req.Model).
		Int("messages", len(req.Messages)).Msg("gollm request")

	prompt := p.translateRequest(req)
	p.applyRequestOptions(req)

	text, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, p.mapError(err)
	}
	return p.buildResponse(req, text), nil
}

// GenerateStream sends a streaming request. Providers without native
// streaming fall back to a single delta carrying the full response.
func (p *GollmProvider) GenerateStream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	if err := p.ValidateParams(req); err != nil {
		return nil, err
	}
	p.logger.Debug().Str("op", "generate_stream").Str("model", req.Model).
		Int("messages", len(req.Messages)).Msg("gollm request")

	prompt := p.translateRequest(req)
	p.applyRequestOptions(req)

	ch := make(chan StreamEvent, 64)

	if !p.llm.SupportsStreaming() {
		go func() {
			defer close(ch)
			ch <- StreamEvent{Type: StreamStart}
			text, err := p.llm.Generate(ctx, prompt)
			if err != nil {
				ch <- StreamEvent{Type: StreamError, Err: p.mapError(err)}
				return
			}
			ch <- StreamEvent{Type: TextDelta, Delta: text}
			resp := p.buildResponse(req, text)
			ch <- StreamEvent{Type: StreamFinish, Response: resp}
		}()
		return ch, nil
	}

	stream, err := p.llm.Stream(ctx, prompt)
	if err != nil {
		return nil, p.mapError(err)
	}

	go func() {
		defer close(ch)
		defer stream.Close()

		ch <- StreamEvent{Type: StreamStart}
		var full strings.Builder
		for {
			token, err := stream.Next(ctx)
			if err == io.EOF {
				break
			}
			if err != nil {
				ch <- StreamEvent{Type: StreamError, Err: p.mapError(err)}
				return
			}
			if token == nil {
				continue
			}
			ch <- StreamEvent{Type: TextDelta, Delta: token.Text}
			full.WriteString(token.Text)
		}
		resp := p.buildResponse(req, full.String())
		ch <- StreamEvent{Type: StreamFinish, Response: resp}
	}()

	return ch, nil
}

// GenerateStructured generates schema-conforming output via prompt injection
// and decodes the result.
func (p *GollmProvider) GenerateStructured(ctx context.Context, req Request, schema map[string]interface{}) (map[string]interface{}, error) {
	resp, err := p.Generate(ctx, StructuredRequest(req, schema))
	if err != nil {
		return nil, err
	}
	out, err := ParseStructured(resp.Text)
	if err != nil {
		return nil, NewError(CategoryUnclassified, "model did not produce a valid structured object", err)
	}
	return out, nil
}

// translateRequest converts a Request into a gollm Prompt.
func (p *GollmProvider) translateRequest(req Request) *gollm.Prompt {
	system, prompt := req.Flatten()
	if prompt == "" {
		prompt = "Hello"
	}

	var promptOpts []gollm.PromptOption
	if system != "" {
		promptOpts = append(promptOpts, gollm.WithSystemPrompt(strings.TrimSpace(system), gollm.CacheTypeEphemeral))
	}
	if req.MaxTokens != nil {
		promptOpts = append(promptOpts, gollm.WithMaxLength(*req.MaxTokens))
	}
	return gollm.NewPrompt(prompt, promptOpts...)
}

// applyRequestOptions applies request-level parameters to the gollm LLM.
func (p *GollmProvider) applyRequestOptions(req Request) {
	if req.Model != "" {
		p.llm.SetOption("model", p.Resolve(req.Model))
	}
	if req.Temperature != nil {
		p.llm.SetOption("temperature", *req.Temperature)
	}
	if req.TopP != nil {
		p.llm.SetOption("top_p", *req.TopP)
	}
	if req.MaxTokens != nil {
		p.llm.SetOption("max_tokens", *req.MaxTokens)
	}
}

// buildResponse constructs a Response from the generated text. gollm does
// not expose token usage, so usage is estimated from text length.
func (p *GollmProvider) buildResponse(req Request, text string) *Response {
	model := p.Resolve(req.Model)
	if model == "" {
		model = p.model
	}
	in := estimateTokens(req)
	out := len(text) / 4
	return &Response{
		ID:           "resp_" + uuid.New().String()[:8],
		Model:        model,
		Provider:     p.name,
		Text:         text,
		FinishReason: FinishStop,
		Usage: Usage{
			InputTokens:  in,
			OutputTokens: out,
			TotalTokens:  in + out,
		},
	}
}

// mapError converts a gollm failure into a categorized Error.
func (p *GollmProvider) mapError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "invalid api key") || strings.Contains(msg, "invalid key"):
		return NewError(CategoryAuthRequired, fmt.Sprintf("%s provider rejected the API key", p.name), err)
	case strings.Contains(msg, "403") || strings.Contains(msg, "forbidden"):
		return NewError(CategoryAccessDenied, fmt.Sprintf("%s provider denied access", p.name), err)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return NewError(CategoryTimeout, fmt.Sprintf("%s provider request timed out", p.name), err)
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "no such host") || strings.Contains(msg, "network"):
		return NewError(CategoryNetwork, fmt.Sprintf("network failure talking to %s provider", p.name), err)
	default:
		return NewError(CategoryUnclassified, fmt.Sprintf("%s provider request failed", p.name), err)
	}
}

// estimateTokens provides a rough token count estimate from request messages.
func estimateTokens(req Request) int {
	total := 0
	for _, msg := range req.Messages {
		total += len(msg.Content) / 4
	}
	if total == 0 {
		total = 10
	}
	return total
}

var _ Provider = (*GollmProvider)(nil)
