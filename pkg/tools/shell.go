package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// bashTimeout is the hard ceiling on shell command execution.
const bashTimeout = 30 * time.Second

// ExecuteBashDefinition returns the execute_bash tool.
func ExecuteBashDefinition() Definition {
	return Definition{
		Name: "execute_bash",
		Description: "Execute a bash command and get its output. " +
			"Use this for running system commands, checking files, or other shell operations.",
		Parameters: []Parameter{
			{Name: "command", Type: "string", Description: "The bash command to execute.", Required: true},
		},
		Handler: executeBash,
	}
}

func executeBash(ctx context.Context, args map[string]interface{}) (string, error) {
	command, _ := args["command"].(string)

	execCtx, cancel := context.WithTimeout(ctx, bashTimeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "bash", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("Command timed out after 30 seconds")
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), fmt.Errorf("Command failed with exit code %d. Error: %s",
				exitErr.ExitCode(), stderr.String())
		}
		return "", err
	}
	return stdout.String(), nil
}
