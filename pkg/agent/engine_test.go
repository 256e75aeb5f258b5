package agent

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arb8020/ireul/pkg/tools"
)

// scriptedProvider replays a fixed sequence of assistant messages.
type scriptedProvider struct {
	responses []Message
	calls     [][]Message
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) SendTurn(_ context.Context, conversation []Message, _ []tools.Definition) (Message, error) {
	p.calls = append(p.calls, conversation)
	if len(p.responses) == 0 {
		return Message{}, fmt.Errorf("scripted provider exhausted")
	}
	next := p.responses[0]
	p.responses = p.responses[1:]
	return next, nil
}

// scriptedGate replays a fixed sequence of approval decisions.
type scriptedGate struct {
	answers []bool
	asked   []string
}

func (g *scriptedGate) Approve(toolName string, _ map[string]interface{}) bool {
	g.asked = append(g.asked, toolName)
	if len(g.answers) == 0 {
		return false
	}
	next := g.answers[0]
	g.answers = g.answers[1:]
	return next
}

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func newTestRegistry(t *testing.T, executed *[]string) *tools.Registry {
	t.Helper()
	registry := tools.NewRegistry(testLogger())

	require.NoError(t, registry.Register(tools.Definition{
		Name:        "greet",
		Description: "Return a greeting.",
		Parameters: []tools.Parameter{
			{Name: "name", Type: "string", Description: "Who to greet.", Required: true},
		},
		Handler: func(_ context.Context, args map[string]interface{}) (string, error) {
			*executed = append(*executed, "greet")
			name, _ := args["name"].(string)
			return "hello " + name, nil
		},
	}))
	require.NoError(t, registry.Register(tools.Definition{
		Name:        "fail",
		Description: "Always fail.",
		Parameters:  []tools.Parameter{},
		Handler: func(context.Context, map[string]interface{}) (string, error) {
			*executed = append(*executed, "fail")
			return "", fmt.Errorf("boom")
		},
	}))
	return registry
}

func newTestEngine(t *testing.T, provider Provider, registry *tools.Registry, gate *scriptedGate) *Engine {
	t.Helper()
	cfg := Config{
		Provider: provider,
		Registry: registry,
		Output:   &bytes.Buffer{},
		Logger:   testLogger(),
	}
	if gate != nil {
		cfg.Gate = gate
	}
	engine, err := NewEngine(cfg)
	require.NoError(t, err)
	return engine
}

func toolMessages(conversation []Message) []Message {
	out := []Message{}
	for _, msg := range conversation {
		if msg.Role == "tool" {
			out = append(out, msg)
		}
	}
	return out
}

func TestNewEngine(t *testing.T) {
	t.Run("should require provider and registry", func(t *testing.T) {
		_, err := NewEngine(Config{Registry: tools.NewRegistry(testLogger())})
		assert.ErrorContains(t, err, "provider")

		_, err = NewEngine(Config{Provider: &scriptedProvider{}})
		assert.ErrorContains(t, err, "registry")
	})
}

func TestRunTurn(t *testing.T) {
	t.Run("should finish on a plain assistant message", func(t *testing.T) {
		var executed []string
		provider := &scriptedProvider{responses: []Message{
			{Role: "assistant", Content: "just text"},
		}}
		engine := newTestEngine(t, provider, newTestRegistry(t, &executed), nil)

		conversation, err := engine.RunTurn(context.Background(), nil, "hi")

		require.NoError(t, err)
		require.Len(t, conversation, 2)
		assert.Equal(t, "user", conversation[0].Role)
		assert.Equal(t, "hi", conversation[0].Content)
		assert.Equal(t, "assistant", conversation[1].Role)
		assert.Empty(t, executed)
	})

	t.Run("should answer every tool call exactly once", func(t *testing.T) {
		var executed []string
		provider := &scriptedProvider{responses: []Message{
			{Role: "assistant", ToolCalls: []ToolCall{
				{ID: "call-1", Name: "greet", Arguments: map[string]interface{}{"name": "a"}},
				{ID: "call-2", Name: "greet", Arguments: map[string]interface{}{"name": "b"}},
				{ID: "call-3", Name: "fail", Arguments: map[string]interface{}{}},
			}},
			{Role: "assistant", Content: "done"},
		}}
		engine := newTestEngine(t, provider, newTestRegistry(t, &executed), nil)

		conversation, err := engine.RunTurn(context.Background(), nil, "go")

		require.NoError(t, err)
		results := toolMessages(conversation)
		require.Len(t, results, 3)
		assert.Equal(t, "call-1", results[0].ToolCallID)
		assert.Equal(t, "call-2", results[1].ToolCallID)
		assert.Equal(t, "call-3", results[2].ToolCallID)
		assert.Equal(t, "hello a", results[0].Content)
		assert.Equal(t, "hello b", results[1].Content)
		assert.Equal(t, "boom", results[2].Content)

		// Second provider call saw all three results before answering.
		require.Len(t, provider.calls, 2)
		assert.Len(t, toolMessages(provider.calls[1]), 3)
	})

	t.Run("should skip the rest of a batch after a denial", func(t *testing.T) {
		var executed []string
		provider := &scriptedProvider{responses: []Message{
			{Role: "assistant", ToolCalls: []ToolCall{
				{ID: "call-1", Name: "greet", Arguments: map[string]interface{}{"name": "a"}},
				{ID: "call-2", Name: "greet", Arguments: map[string]interface{}{"name": "b"}},
				{ID: "call-3", Name: "greet", Arguments: map[string]interface{}{"name": "c"}},
			}},
			{Role: "assistant", Content: "done"},
		}}
		gate := &scriptedGate{answers: []bool{true, false, true}}
		engine := newTestEngine(t, provider, newTestRegistry(t, &executed), gate)

		conversation, err := engine.RunTurn(context.Background(), nil, "go")

		require.NoError(t, err)
		results := toolMessages(conversation)
		require.Len(t, results, 3)
		assert.Equal(t, "hello a", results[0].Content)
		assert.Equal(t, "Tool execution denied by user", results[1].Content)
		assert.Equal(t, "Skipped - previous tool was rejected", results[2].Content)

		// The third call was never executed and the gate never re-asked.
		assert.Equal(t, []string{"greet"}, executed)
		assert.Equal(t, []string{"greet", "greet"}, gate.asked)
	})

	t.Run("should loop until no tool calls remain", func(t *testing.T) {
		var executed []string
		provider := &scriptedProvider{responses: []Message{
			{Role: "assistant", ToolCalls: []ToolCall{
				{ID: "c1", Name: "greet", Arguments: map[string]interface{}{"name": "x"}},
			}},
			{Role: "assistant", ToolCalls: []ToolCall{
				{ID: "c2", Name: "greet", Arguments: map[string]interface{}{"name": "y"}},
			}},
			{Role: "assistant", Content: "all done"},
		}}
		engine := newTestEngine(t, provider, newTestRegistry(t, &executed), nil)

		conversation, err := engine.RunTurn(context.Background(), nil, "go")

		require.NoError(t, err)
		assert.Len(t, provider.calls, 3)
		assert.Equal(t, []string{"greet", "greet"}, executed)
		assert.Equal(t, "all done", conversation[len(conversation)-1].Content)
	})

	t.Run("should record unknown tools as errors", func(t *testing.T) {
		var executed []string
		provider := &scriptedProvider{responses: []Message{
			{Role: "assistant", ToolCalls: []ToolCall{
				{ID: "c1", Name: "no_such_tool", Arguments: map[string]interface{}{}},
			}},
			{Role: "assistant", Content: "done"},
		}}
		engine := newTestEngine(t, provider, newTestRegistry(t, &executed), nil)

		conversation, err := engine.RunTurn(context.Background(), nil, "go")

		require.NoError(t, err)
		results := toolMessages(conversation)
		require.Len(t, results, 1)
		assert.Contains(t, results[0].Content, "tool not found")
	})

	t.Run("should propagate provider failures", func(t *testing.T) {
		var executed []string
		provider := &scriptedProvider{}
		engine := newTestEngine(t, provider, newTestRegistry(t, &executed), nil)

		_, err := engine.RunTurn(context.Background(), nil, "go")

		assert.ErrorContains(t, err, "provider call failed")
	})

	t.Run("should not mutate the input conversation", func(t *testing.T) {
		var executed []string
		provider := &scriptedProvider{responses: []Message{
			{Role: "assistant", Content: "reply"},
		}}
		engine := newTestEngine(t, provider, newTestRegistry(t, &executed), nil)

		original := make([]Message, 1, 8)
		original[0] = Message{Role: "user", Content: "earlier"}

		updated, err := engine.RunTurn(context.Background(), original, "now")

		require.NoError(t, err)
		assert.Len(t, original, 1)
		assert.Len(t, updated, 3)
	})
}

func TestAppendMessage(t *testing.T) {
	t.Run("should copy on append", func(t *testing.T) {
		base := make([]Message, 1, 4)
		base[0] = Message{Role: "user", Content: "one"}

		grown := AppendMessage(base, Message{Role: "assistant", Content: "two"})
		AppendMessage(base, Message{Role: "assistant", Content: "overwrite?"})

		assert.Equal(t, "two", grown[1].Content)
	})
}
