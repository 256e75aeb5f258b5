// Package tools registers and executes the agent's fixed tool set.
//
// Invariants:
// - Tool names are unique; definitions are built once at startup.
// - Arguments are schema-validated before dispatch.
// - Handlers convert every failure into an error return; a non-nil error is
//   authoritative regardless of accompanying result text.
package tools
