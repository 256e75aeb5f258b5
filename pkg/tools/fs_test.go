package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile(t *testing.T) {
	t.Run("should return file contents", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "note.txt")
		require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

		result, err := readFile(context.Background(), map[string]interface{}{"path": path})

		require.NoError(t, err)
		assert.Equal(t, "hello world", result)
	})

	t.Run("should error on missing file", func(t *testing.T) {
		_, err := readFile(context.Background(), map[string]interface{}{"path": "does-not-exist.txt"})

		assert.Error(t, err)
	})
}

func TestEditFile(t *testing.T) {
	t.Run("should create missing file with empty old_str", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "deep", "new.txt")

		result, err := editFile(context.Background(), map[string]interface{}{
			"path":    path,
			"old_str": "",
			"new_str": "fresh content",
		})

		require.NoError(t, err)
		assert.Contains(t, result, "Successfully created file")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "fresh content", string(data))
	})

	t.Run("should replace all occurrences", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "multi.txt")
		require.NoError(t, os.WriteFile(path, []byte("foo bar foo baz foo"), 0644))

		result, err := editFile(context.Background(), map[string]interface{}{
			"path":    path,
			"old_str": "foo",
			"new_str": "qux",
		})

		require.NoError(t, err)
		assert.Equal(t, "OK", result)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "qux bar qux baz qux", string(data))
	})

	t.Run("should leave file untouched when old_str not found", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "untouched.txt")
		original := []byte("original content")
		require.NoError(t, os.WriteFile(path, original, 0644))

		_, err := editFile(context.Background(), map[string]interface{}{
			"path":    path,
			"old_str": "missing needle",
			"new_str": "replacement",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "old_str not found")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, original, data)
	})

	t.Run("should error when file missing and old_str non-empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ghost.txt")

		_, err := editFile(context.Background(), map[string]interface{}{
			"path":    path,
			"old_str": "anything",
			"new_str": "else",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("should reject identical old_str and new_str", func(t *testing.T) {
		_, err := editFile(context.Background(), map[string]interface{}{
			"path":    "any.txt",
			"old_str": "same",
			"new_str": "same",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be different")
	})

	t.Run("should reject empty path", func(t *testing.T) {
		_, err := editFile(context.Background(), map[string]interface{}{
			"path":    "",
			"old_str": "a",
			"new_str": "b",
		})

		assert.Error(t, err)
	})
}
