// Package approval implements the human-in-the-loop confirmation gate that
// sits in front of tool execution.
package approval

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Gate decides whether a requested tool call may execute. Implementations
// are stateless challenge/response checks.
type Gate interface {
	Approve(toolName string, args map[string]interface{}) bool
}

// AllowAll is a Gate that approves every request. Used with --no-confirm.
type AllowAll struct{}

// Approve always returns true.
func (AllowAll) Approve(string, map[string]interface{}) bool { return true }

// CLIGate prompts on the terminal and reads one line of input. "y" or "yes"
// (case-insensitive) approves; anything else, or end of input, denies.
// There is no retry and no default.
type CLIGate struct {
	reader *bufio.Reader
	writer io.Writer
	logger zerolog.Logger
}

// NewCLIGate creates a confirmation gate reading from reader and prompting
// on writer.
func NewCLIGate(reader io.Reader, writer io.Writer, logger zerolog.Logger) *CLIGate {
	return &CLIGate{
		reader: bufio.NewReader(reader),
		writer: writer,
		logger: logger,
	}
}

// Approve displays the tool call and waits for a single line of input.
func (g *CLIGate) Approve(toolName string, args map[string]interface{}) bool {
	formatted, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		formatted = []byte(fmt.Sprintf("%v", args))
	}

	fmt.Fprintf(g.writer, "\033[95mConfirmation required\033[0m: Execute '%s' with arguments:\n", toolName)
	fmt.Fprintf(g.writer, "\033[95m%s\033[0m\n", formatted)
	fmt.Fprint(g.writer, "\033[95mAllow? (y/n):\033[0m ")

	line, err := g.reader.ReadString('\n')
	if err != nil && line == "" {
		g.logger.Debug().Str("tool", toolName).Msg("Confirmation input closed, denying")
		return false
	}

	response := strings.ToLower(strings.TrimSpace(line))
	approved := response == "y" || response == "yes"

	g.logger.Debug().
		Str("tool", toolName).
		Bool("approved", approved).
		Msg("Tool confirmation resolved")

	return approved
}
