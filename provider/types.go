package provider

import "strings"

// Role identifies who produced a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is the fundamental unit of conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// SystemMessage creates a system Message.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// UserMessage creates a user Message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// AssistantMessage creates an assistant Message.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// Request is the input type for all three generation operations. Backends
// read the fields they need and forward the rest; they never mutate it.
type Request struct {
	Model         string                 `json:"model"`
	Provider      string                 `json:"provider,omitempty"`
	Messages      []Message              `json:"messages"`
	MaxTokens     *int                   `json:"max_tokens,omitempty"`
	Temperature   *float64               `json:"temperature,omitempty"`
	TopP          *float64               `json:"top_p,omitempty"`
	StopSequences []string               `json:"stop_sequences,omitempty"`
	Schema        map[string]interface{} `json:"schema,omitempty"`
	Metadata      map[string]string      `json:"metadata,omitempty"`
}

// Flatten renders the message list into a system prompt and a single user
// prompt, for backends that accept one prompt string per invocation.
func (r Request) Flatten() (system string, prompt string) {
	var sys, user strings.Builder
	for _, msg := range r.Messages {
		switch msg.Role {
		case RoleSystem:
			if sys.Len() > 0 {
				sys.WriteString("\n")
			}
			sys.WriteString(msg.Content)
		case RoleAssistant:
			if msg.Content == "" {
				continue
			}
			if user.Len() > 0 {
				user.WriteString("\n")
			}
			user.WriteString("[Assistant]: " + msg.Content)
		default:
			if user.Len() > 0 {
				user.WriteString("\n")
			}
			user.WriteString(msg.Content)
		}
	}
	return sys.String(), user.String()
}

// Usage tracks token consumption for one response.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// FinishReason values reported in a Response.
const (
	FinishStop   = "stop"
	FinishLength = "length"
	FinishError  = "error"
)

// Response is the output of Generate.
type Response struct {
	ID           string                 `json:"id"`
	Model        string                 `json:"model"`
	Provider     string                 `json:"provider"`
	Text         string                 `json:"text"`
	FinishReason string                 `json:"finish_reason"`
	Usage        Usage                  `json:"usage"`
	Raw          map[string]interface{} `json:"raw,omitempty"`
}

// StreamEventType identifies the kind of stream event.
type StreamEventType string

const (
	StreamStart  StreamEventType = "stream_start"
	TextDelta    StreamEventType = "text_delta"
	StreamFinish StreamEventType = "finish"
	StreamError  StreamEventType = "error"
)

// StreamEvent is a single event from a streaming response. A finish event
// carries the accumulated Response; an error event carries Err.
type StreamEvent struct {
	Type     StreamEventType `json:"type"`
	Delta    string          `json:"delta,omitempty"`
	Response *Response       `json:"response,omitempty"`
	Err      error           `json:"-"`
}
