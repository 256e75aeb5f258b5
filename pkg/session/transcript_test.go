package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func TestOpen(t *testing.T) {
	t.Run("should create the sessions directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "sessions")

		_, err := Open(dir, "abc", testLogger())

		require.NoError(t, err)
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("should reject unsafe session keys", func(t *testing.T) {
		dir := t.TempDir()

		_, err := Open(dir, "", testLogger())
		assert.ErrorContains(t, err, "empty")

		_, err = Open(dir, "../escape", testLogger())
		assert.ErrorContains(t, err, "..")

		_, err = Open(dir, "a/b", testLogger())
		assert.ErrorContains(t, err, "separators")
	})
}

func TestNew(t *testing.T) {
	t.Run("should generate distinct keys", func(t *testing.T) {
		dir := t.TempDir()

		first, err := New(dir, testLogger())
		require.NoError(t, err)
		second, err := New(dir, testLogger())
		require.NoError(t, err)

		assert.NotEmpty(t, first.Key())
		assert.NotEqual(t, first.Key(), second.Key())
	})
}

func TestAppendLoad(t *testing.T) {
	t.Run("should round-trip records oldest first", func(t *testing.T) {
		transcript, err := Open(t.TempDir(), "s1", testLogger())
		require.NoError(t, err)

		require.NoError(t, transcript.Append(Record{Role: "user", Content: "hello"}))
		require.NoError(t, transcript.Append(Record{Role: "assistant", Content: "hi"}))
		require.NoError(t, transcript.Append(Record{Role: "tool", Content: "ok", ToolCallID: "c1", Name: "glob"}))

		records, err := transcript.Load()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "user", records[0].Role)
		assert.Equal(t, "hi", records[1].Content)
		assert.Equal(t, "c1", records[2].ToolCallID)
		assert.Equal(t, "glob", records[2].Name)
		assert.False(t, records[0].Timestamp.IsZero())
	})

	t.Run("should reject records without a role", func(t *testing.T) {
		transcript, err := Open(t.TempDir(), "s1", testLogger())
		require.NoError(t, err)

		assert.ErrorContains(t, transcript.Append(Record{Content: "orphan"}), "role")
	})

	t.Run("should return nothing for a fresh session", func(t *testing.T) {
		transcript, err := Open(t.TempDir(), "s1", testLogger())
		require.NoError(t, err)

		records, err := transcript.Load()
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("should skip malformed lines", func(t *testing.T) {
		dir := t.TempDir()
		transcript, err := Open(dir, "s1", testLogger())
		require.NoError(t, err)

		require.NoError(t, transcript.Append(Record{Role: "user", Content: "kept"}))
		file, err := os.OpenFile(filepath.Join(dir, "s1.jsonl"), os.O_WRONLY|os.O_APPEND, 0600)
		require.NoError(t, err)
		_, err = file.WriteString("not json\n")
		require.NoError(t, err)
		require.NoError(t, file.Close())
		require.NoError(t, transcript.Append(Record{Role: "assistant", Content: "also kept"}))

		records, err := transcript.Load()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "kept", records[0].Content)
		assert.Equal(t, "also kept", records[1].Content)
	})

	t.Run("should resume an existing session file", func(t *testing.T) {
		dir := t.TempDir()

		first, err := Open(dir, "resume", testLogger())
		require.NoError(t, err)
		require.NoError(t, first.Append(Record{Role: "user", Content: "before"}))

		second, err := Open(dir, "resume", testLogger())
		require.NoError(t, err)
		require.NoError(t, second.Append(Record{Role: "user", Content: "after"}))

		records, err := second.Load()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "before", records[0].Content)
		assert.Equal(t, "after", records[1].Content)
	})
}
