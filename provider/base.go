package provider

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Base holds the generic parts of a Provider implementation: supported-set
// parameter validation and structured-output plumbing. Concrete backends
// embed a Base and add their own transport, gating, and failure handling
// around it.
type Base struct {
	providerKey string
}

// NewBase creates a Base validating against the catalog entries for the
// given provider key.
func NewBase(providerKey string) Base {
	return Base{providerKey: providerKey}
}

// ProviderKey returns the catalog provider key this Base validates against.
func (b Base) ProviderKey() string {
	return b.providerKey
}

// ValidateParams checks a request against the backend's supported set. An
// unsupported model identifier is rejected with an error naming both the
// rejected value and the set that would have been accepted.
func (b Base) ValidateParams(req Request) error {
	if req.Model == "" {
		return NewError(CategoryInvalidRequest, "model identifier is required", nil)
	}
	if len(req.Messages) == 0 {
		return NewError(CategoryInvalidRequest, "at least one message is required", nil)
	}
	info := GetModelInfo(req.Model)
	if info == nil || info.Provider != b.providerKey {
		return NewError(CategoryInvalidRequest, fmt.Sprintf(
			"unsupported model %q (supported: %s)",
			req.Model, strings.Join(SupportedModels(b.providerKey), ", ")), nil)
	}
	if req.MaxTokens != nil && *req.MaxTokens <= 0 {
		return NewError(CategoryInvalidRequest, fmt.Sprintf("max_tokens must be positive, got %d", *req.MaxTokens), nil)
	}
	if req.Temperature != nil && (*req.Temperature < 0 || *req.Temperature > 2) {
		return NewError(CategoryInvalidRequest, fmt.Sprintf("temperature must be in [0, 2], got %g", *req.Temperature), nil)
	}
	return nil
}

// Resolve maps a model ID or alias to its canonical catalog ID. Unknown
// identifiers pass through unchanged; ValidateParams already rejected them.
func (b Base) Resolve(model string) string {
	if info := GetModelInfo(model); info != nil {
		return info.ID
	}
	return model
}

// StructuredRequest returns a copy of req with the schema instruction folded
// into the system prompt, for backends without native structured output.
func StructuredRequest(req Request, schema map[string]interface{}) Request {
	schemaJSON, _ := json.MarshalIndent(schema, "", "  ")
	instruction := fmt.Sprintf(
		"You must respond with valid JSON matching this schema:\n```json\n%s\n```\nRespond ONLY with the JSON object, no other text.",
		string(schemaJSON),
	)

	out := req
	out.Schema = schema
	out.Messages = append([]Message{SystemMessage(instruction)}, req.Messages...)
	return out
}

// ParseStructured decodes a JSON object from generated text, tolerating a
// markdown code fence around the payload.
func ParseStructured(text string) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return nil, fmt.Errorf("failed to parse structured output: %w", err)
	}
	return out, nil
}
