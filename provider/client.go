package provider

import (
	"context"
	"fmt"
	"sync"
)

// Client is the routing layer the orchestrator talks to. It holds registered
// providers and resolves each request to one of them by explicit provider
// name, configured default, or model catalog lookup.
type Client struct {
	mu              sync.RWMutex
	providers       map[string]Provider
	defaultProvider string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithProvider registers a provider under the given name.
func WithProvider(name string, p Provider) ClientOption {
	return func(c *Client) {
		c.providers[name] = p
	}
}

// WithDefaultProvider sets the provider used when a request names none and
// the model is not in the catalog.
func WithDefaultProvider(name string) ClientOption {
	return func(c *Client) {
		c.defaultProvider = name
	}
}

// NewClient creates a Client with the given options. With exactly one
// registered provider and no explicit default, that provider is the default.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{providers: make(map[string]Provider)}
	for _, opt := range opts {
		opt(c)
	}
	if c.defaultProvider == "" && len(c.providers) == 1 {
		for name := range c.providers {
			c.defaultProvider = name
		}
	}
	return c
}

// Register adds a provider to the client.
func (c *Client) Register(name string, p Provider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers[name] = p
	if c.defaultProvider == "" {
		c.defaultProvider = name
	}
}

// resolve determines which provider serves a request.
func (c *Client) resolve(req Request) (Provider, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name := req.Provider
	if name == "" {
		if info := GetModelInfo(req.Model); info != nil {
			if _, ok := c.providers[info.Provider]; ok {
				name = info.Provider
			}
		}
	}
	if name == "" {
		name = c.defaultProvider
	}
	if name == "" {
		return nil, NewError(CategoryInvalidRequest,
			"no provider specified and no default provider configured", nil)
	}

	p, ok := c.providers[name]
	if !ok {
		return nil, NewError(CategoryInvalidRequest,
			fmt.Sprintf("provider %q is not registered", name), nil)
	}
	return p, nil
}

// Generate routes a blocking generation request to the resolved provider.
func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	p, err := c.resolve(req)
	if err != nil {
		return nil, err
	}
	if req.Provider == "" {
		req.Provider = p.Name()
	}
	return p.Generate(ctx, req)
}

// GenerateStream routes a streaming generation request.
func (c *Client) GenerateStream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	p, err := c.resolve(req)
	if err != nil {
		return nil, err
	}
	if req.Provider == "" {
		req.Provider = p.Name()
	}
	return p.GenerateStream(ctx, req)
}

// GenerateStructured routes a structured generation request.
func (c *Client) GenerateStructured(ctx context.Context, req Request, schema map[string]interface{}) (map[string]interface{}, error) {
	p, err := c.resolve(req)
	if err != nil {
		return nil, err
	}
	if req.Provider == "" {
		req.Provider = p.Name()
	}
	return p.GenerateStructured(ctx, req, schema)
}

// Close releases resources held by all registered providers.
func (c *Client) Close() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var firstErr error
	for _, p := range c.providers {
		if closer, ok := p.(Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
