package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/arb8020/ireul/pkg/approval"
	"github.com/arb8020/ireul/pkg/session"
	"github.com/arb8020/ireul/pkg/tools"
)

// Engine drives the request/response/tool-execution cycle against one
// provider. It is strictly single-threaded: one outstanding provider call,
// one tool execution at a time, in the order the provider returned them.
type Engine struct {
	provider   Provider
	registry   *tools.Registry
	gate       approval.Gate
	out        io.Writer
	transcript *session.Transcript
	logger     zerolog.Logger
}

// Config holds engine collaborators. Gate and Output default to an
// allow-all gate and os.Stdout.
type Config struct {
	Provider   Provider
	Registry   *tools.Registry
	Gate       approval.Gate
	Output     io.Writer
	Transcript *session.Transcript
	Logger     zerolog.Logger
}

// NewEngine creates a turn engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	gate := cfg.Gate
	if gate == nil {
		gate = approval.AllowAll{}
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	return &Engine{
		provider:   cfg.Provider,
		registry:   cfg.Registry,
		gate:       gate,
		out:        out,
		transcript: cfg.Transcript,
		logger:     cfg.Logger,
	}, nil
}

// RunTurn appends the user input and loops provider calls until an
// assistant message carries no tool-call requests. Every tool-call id
// issued by the provider is answered exactly once before the next call.
func (e *Engine) RunTurn(ctx context.Context, conversation []Message, userInput string) ([]Message, error) {
	conversation = e.append(conversation, Message{Role: "user", Content: userInput})

	iteration := 0
	for {
		iteration++
		if iteration > 1 {
			fmt.Fprintln(e.out, formatDebug(fmt.Sprintf("Processing follow-up response (iteration %d)", iteration)))
		}

		assistant, err := e.provider.SendTurn(ctx, conversation, e.registry.List())
		if err != nil {
			return conversation, fmt.Errorf("provider call failed: %w", err)
		}
		conversation = e.append(conversation, assistant)

		if assistant.Content != "" {
			fmt.Fprintln(e.out, formatAssistantMessage(assistant.Content))
		} else if len(assistant.ToolCalls) > 0 {
			fmt.Fprintln(e.out, formatDebug("Assistant requested tools without message content"))
		}

		if len(assistant.ToolCalls) == 0 {
			return conversation, nil
		}

		conversation = e.processToolCalls(ctx, conversation, assistant.ToolCalls)
	}
}

// processToolCalls executes one batch of requested calls in provider order.
// Once a call is denied, every later call in the same batch is skipped with
// a synthesized error result instead of prompting again, preserving the
// one-result-per-call invariant.
func (e *Engine) processToolCalls(ctx context.Context, conversation []Message, calls []ToolCall) []Message {
	batchRejected := false

	for _, call := range calls {
		fmt.Fprintln(e.out, formatToolCall(call.Name, call.Arguments))

		result := e.executeCall(ctx, call, &batchRejected)

		conversation = e.append(conversation, Message{
			Role:       "tool",
			Content:    result.Content,
			ToolCallID: result.ToolCallID,
			Name:       result.Name,
		})

		if result.IsError {
			fmt.Fprintln(e.out, formatToolResult(call.Name, "", result.Content))
		} else {
			fmt.Fprintln(e.out, formatToolResult(call.Name, result.Content, ""))
		}
	}
	return conversation
}

func (e *Engine) executeCall(ctx context.Context, call ToolCall, batchRejected *bool) ToolResult {
	if *batchRejected {
		fmt.Fprintln(e.out, formatDebug("Skipping tool execution due to previous rejection"))
		return ToolResult{
			ToolCallID: call.ID,
			Name:       call.Name,
			Content:    "Skipped - previous tool was rejected",
			IsError:    true,
		}
	}

	if !e.gate.Approve(call.Name, call.Arguments) {
		*batchRejected = true
		e.logger.Info().Str("tool", call.Name).Msg("Tool execution denied by user")
		return ToolResult{
			ToolCallID: call.ID,
			Name:       call.Name,
			Content:    "Tool execution denied by user",
			IsError:    true,
		}
	}

	output, err := e.registry.Execute(ctx, call.Name, call.Arguments)
	if err != nil {
		return ToolResult{
			ToolCallID: call.ID,
			Name:       call.Name,
			Content:    err.Error(),
			IsError:    true,
		}
	}
	return ToolResult{
		ToolCallID: call.ID,
		Name:       call.Name,
		Content:    output,
	}
}

// append grows the conversation copy-on-append and mirrors the message to
// the session transcript when one is configured.
func (e *Engine) append(conversation []Message, msg Message) []Message {
	if e.transcript != nil {
		if err := e.transcript.Append(session.Record{
			Role:       msg.Role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
			Name:       msg.Name,
		}); err != nil {
			e.logger.Warn().Err(err).Msg("Failed to persist transcript record")
		}
	}
	return AppendMessage(conversation, msg)
}

// Run is the outer read loop: it reads user input lines until end of input,
// running one turn per line.
func (e *Engine) Run(ctx context.Context, input io.Reader) error {
	fmt.Fprintf(e.out, "Chat with %s (use 'ctrl-c' to quit)\n", e.provider.Name())

	reader := bufio.NewReader(input)
	conversation := []Message{}

	for {
		fmt.Fprint(e.out, "\033[94mYou\033[0m: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return nil
		}

		conversation, err = e.RunTurn(ctx, conversation, trimNewline(line))
		if err != nil {
			return err
		}
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
