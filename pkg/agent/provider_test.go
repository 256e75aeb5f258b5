package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultModel(t *testing.T) {
	assert.Equal(t, "claude-3-5-sonnet-20241022", DefaultModel("anthropic"))
	assert.Equal(t, "gemini-2.0-flash", DefaultModel("google"))
	assert.Equal(t, "gpt-4.1-mini", DefaultModel("openai"))
}

func TestAPIKeyEnvVar(t *testing.T) {
	assert.Equal(t, "ANTHROPIC_API_KEY", APIKeyEnvVar("anthropic"))
	assert.Equal(t, "GEMINI_API_KEY", APIKeyEnvVar("google"))
	assert.Equal(t, "OPENAI_API_KEY", APIKeyEnvVar("openai"))
}

func TestNewProvider(t *testing.T) {
	t.Run("should build each supported backend", func(t *testing.T) {
		for _, name := range []string{"anthropic", "openai", "google"} {
			provider, err := NewProvider(ProviderOptions{Provider: name, APIKey: "test-key"})
			require.NoError(t, err)
			assert.Equal(t, name, provider.Name())
		}
	})

	t.Run("should reject unknown backends", func(t *testing.T) {
		_, err := NewProvider(ProviderOptions{Provider: "cohere", APIKey: "test-key"})
		assert.ErrorContains(t, err, "unsupported provider")
	})
}

func TestDisplayFormatting(t *testing.T) {
	t.Run("should truncate long tool results for display only", func(t *testing.T) {
		long := strings.Repeat("a", displayTruncateLimit+50)

		formatted := formatToolResult("read_file", long, "")

		assert.Contains(t, formatted, "... [truncated]")
		assert.NotContains(t, formatted, strings.Repeat("a", displayTruncateLimit+1))
	})

	t.Run("should mark errors", func(t *testing.T) {
		formatted := formatToolResult("glob", "", "bad pattern")
		assert.Contains(t, formatted, "Error - bad pattern")
	})

	t.Run("should include the arguments in tool call lines", func(t *testing.T) {
		formatted := formatToolCall("grep", map[string]interface{}{"pattern": "func main"})
		assert.Contains(t, formatted, `grep({"pattern":"func main"})`)
	})
}
