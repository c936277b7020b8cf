package claudecode

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/martinemde/llmbridge/provider"
)

const providerName = "claude-code"

// Client spawns the Claude Code CLI for each request and decodes its JSON
// output. It carries no retry or classification logic; callers layer those on
// top so the raw process error text stays intact for keyword matching.
type Client struct {
	cfg Config
	log zerolog.Logger
	sem chan struct{}
}

// NewClient returns a CLI client for the given configuration. cfg should
// already be normalized.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	return &Client{
		cfg: cfg,
		log: log,
		sem: make(chan struct{}, cfg.MaxConcurrentProcesses),
	}
}

// resultEnvelope is the CLI's terminal JSON object in both output modes.
type resultEnvelope struct {
	Type      string `json:"type"`
	Subtype   string `json:"subtype"`
	Result    string `json:"result"`
	IsError   bool   `json:"is_error"`
	SessionID string `json:"session_id"`
	Usage     struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// streamLine is one line of the CLI's stream-json output. Only assistant
// text deltas and the final result are interesting; everything else is
// tool-use plumbing the adapter does not surface.
type streamLine struct {
	Type    string `json:"type"`
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
	resultEnvelope
}

// Complete runs one CLI invocation and returns the final response.
func (c *Client) Complete(ctx context.Context, req provider.Request) (*provider.Response, error) {
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}
	defer c.release()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	system, prompt := req.Flatten()
	cmd := exec.CommandContext(ctx, c.cfg.CLIPath, c.args(req.Model, system, false)...)
	cmd.Stdin = strings.NewReader(prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.log.Debug().Str("model", req.Model).Int("prompt_bytes", len(prompt)).Msg("spawning claude cli")

	if err := cmd.Run(); err != nil {
		return nil, c.runError(ctx, err, stderr.String())
	}

	var env resultEnvelope
	if err := json.Unmarshal(stdout.Bytes(), &env); err != nil {
		return nil, fmt.Errorf("failed to parse claude cli output: %w", err)
	}
	if env.IsError {
		return nil, fmt.Errorf("claude cli reported an error: %s", env.Result)
	}
	return c.response(req.Model, env), nil
}

// Stream runs one CLI invocation in stream-json mode, decoding each line
// into a stream event. The returned channel closes after the terminal event.
func (c *Client) Stream(ctx context.Context, req provider.Request) (<-chan provider.StreamEvent, error) {
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}

	// The timeout bounds the process; event delivery is gated on the
	// caller's own context so a timeout error still reaches a live reader.
	callerCtx := ctx
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)

	system, prompt := req.Flatten()
	cmd := exec.CommandContext(ctx, c.cfg.CLIPath, c.args(req.Model, system, true)...)
	cmd.Stdin = strings.NewReader(prompt)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		c.release()
		return nil, fmt.Errorf("failed to open claude cli stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		c.release()
		return nil, c.runError(ctx, err, stderr.String())
	}

	c.log.Debug().Str("model", req.Model).Msg("streaming from claude cli")

	events := make(chan provider.StreamEvent)
	go func() {
		defer close(events)
		defer c.release()
		defer cancel()

		// An abandoned consumer must not pin this goroutine: kill the
		// process and reap it before giving up.
		abort := func() {
			cancel()
			_ = cmd.Wait()
		}

		if !sendEvent(callerCtx, events, provider.StreamEvent{Type: provider.StreamStart}) {
			abort()
			return
		}

		var text strings.Builder
		var final *resultEnvelope

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			var ev streamLine
			if err := json.Unmarshal(line, &ev); err != nil {
				continue
			}
			switch ev.Type {
			case "assistant":
				for _, block := range ev.Message.Content {
					if block.Type == "text" && block.Text != "" {
						text.WriteString(block.Text)
						if !sendEvent(callerCtx, events, provider.StreamEvent{Type: provider.TextDelta, Delta: block.Text}) {
							abort()
							return
						}
					}
				}
			case "result":
				env := ev.resultEnvelope
				final = &env
			}
		}

		waitErr := cmd.Wait()
		switch {
		case waitErr != nil:
			sendEvent(callerCtx, events, provider.StreamEvent{Type: provider.StreamError, Err: c.runError(ctx, waitErr, stderr.String())})
		case scanner.Err() != nil:
			sendEvent(callerCtx, events, provider.StreamEvent{Type: provider.StreamError, Err: fmt.Errorf("failed to read claude cli stream: %w", scanner.Err())})
		case final != nil && final.IsError:
			sendEvent(callerCtx, events, provider.StreamEvent{Type: provider.StreamError, Err: fmt.Errorf("claude cli reported an error: %s", final.Result)})
		default:
			env := resultEnvelope{Result: text.String()}
			if final != nil {
				env.Usage = final.Usage
				env.SessionID = final.SessionID
				env.Result = text.String()
			}
			sendEvent(callerCtx, events, provider.StreamEvent{Type: provider.StreamFinish, Response: c.response(req.Model, env)})
		}
	}()

	return events, nil
}

// sendEvent delivers ev unless the context gives up first, so a consumer
// that walks away from the channel cannot block the producer forever.
func sendEvent(ctx context.Context, ch chan<- provider.StreamEvent, ev provider.StreamEvent) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Client) args(model, system string, stream bool) []string {
	args := []string{"-p", "--model", model}
	if stream {
		args = append(args, "--output-format", "stream-json", "--verbose")
	} else {
		args = append(args, "--output-format", "json")
	}
	if system != "" {
		args = append(args, "--append-system-prompt", system)
	}
	if c.cfg.SkipPermissions {
		args = append(args, "--dangerously-skip-permissions")
	}
	return args
}

// runError turns a process failure into an error that carries everything the
// classifier needs: the timeout code when the deadline killed the process,
// and the CLI's stderr text otherwise.
func (c *Client) runError(ctx context.Context, err error, stderr string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &provider.CodedError{
			Message: fmt.Sprintf("claude cli timed out after %s", c.cfg.Timeout),
			Code:    "ETIMEDOUT",
			Cause:   err,
		}
	}
	stderr = strings.TrimSpace(stderr)
	if stderr != "" {
		return fmt.Errorf("claude cli failed: %s: %w", stderr, err)
	}
	return fmt.Errorf("claude cli failed: %w", err)
}

func (c *Client) response(model string, env resultEnvelope) *provider.Response {
	return &provider.Response{
		ID:           "resp_" + uuid.NewString()[:8],
		Model:        model,
		Provider:     providerName,
		Text:         env.Result,
		FinishReason: provider.FinishStop,
		Usage: provider.Usage{
			InputTokens:  env.Usage.InputTokens,
			OutputTokens: env.Usage.OutputTokens,
			TotalTokens:  env.Usage.InputTokens + env.Usage.OutputTokens,
		},
		Raw: map[string]interface{}{"session_id": env.SessionID},
	}
}

func (c *Client) acquire(ctx context.Context) error {
	select {
	case c.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) release() {
	<-c.sem
}
