package agent

import (
	"encoding/json"
	"fmt"
)

// ANSI escape sequences used for console output.
const (
	colorReset   = "\033[0m"
	colorYellow  = "\033[93m"
	colorGreen   = "\033[92m"
	colorRed     = "\033[91m"
	colorCyan    = "\033[96m"
	colorGray    = "\033[90m"
)

// displayTruncateLimit caps tool result output on the console. The full
// result still goes into the conversation.
const displayTruncateLimit = 500

func formatAssistantMessage(content string) string {
	return fmt.Sprintf("%sAssistant%s: %s", colorYellow, colorReset, content)
}

func formatToolCall(name string, args map[string]interface{}) string {
	encoded, err := json.Marshal(args)
	if err != nil {
		encoded = []byte(fmt.Sprintf("%v", args))
	}
	return fmt.Sprintf("%stool%s: %s(%s)", colorGreen, colorReset, name, encoded)
}

func formatToolResult(name, result, errText string) string {
	if errText != "" {
		return fmt.Sprintf("%stool result (%s)%s: Error - %s", colorRed, name, colorReset, errText)
	}
	display := result
	if len(display) > displayTruncateLimit {
		display = display[:displayTruncateLimit] + "... [truncated]"
	}
	return fmt.Sprintf("%stool result (%s)%s: %s", colorCyan, name, colorReset, display)
}

func formatDebug(message string) string {
	return fmt.Sprintf("%s[DEBUG] %s%s", colorGray, message, colorReset)
}
