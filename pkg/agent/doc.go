// Package agent drives the tool-call turn loop against an LLM provider.
//
// Invariants:
// - Execution is strictly sequential: one provider call, one tool at a time.
// - Every tool-call id issued by the provider is answered by exactly one
//   tool-role message before the next provider call.
// - Once a call in a batch is denied, later calls in that batch are skipped
//   with a synthesized error result and never executed.
//
// Usage:
//
//	provider, _ := agent.NewProvider(agent.ProviderOptions{Provider: "openai", APIKey: key})
//	engine, _ := agent.NewEngine(agent.Config{Provider: provider, Registry: registry})
//	conversation, _ := engine.RunTurn(ctx, nil, "list the files here")
//	_ = conversation
package agent
