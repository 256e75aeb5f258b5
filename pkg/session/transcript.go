// Package session persists agent conversations as append-only JSONL
// transcripts, one file per session keyed by a generated id.
package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Record is one transcript line.
type Record struct {
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	ToolCallID string    `json:"tool_call_id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Transcript appends conversation records to a session file. Writes are
// serialized; records are never rewritten.
type Transcript struct {
	dir    string
	key    string
	mu     sync.Mutex
	logger zerolog.Logger
}

// New creates a transcript with a fresh UUID session key under dir.
func New(dir string, logger zerolog.Logger) (*Transcript, error) {
	return Open(dir, uuid.NewString(), logger)
}

// Open creates or resumes a transcript for an explicit session key.
func Open(dir, key string, logger zerolog.Logger) (*Transcript, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".ireul", "sessions")
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	logger.Debug().Str("dir", dir).Str("session", key).Msg("Transcript opened")

	return &Transcript{dir: dir, key: key, logger: logger}, nil
}

// Key returns the session key.
func (t *Transcript) Key() string {
	return t.key
}

func (t *Transcript) path() string {
	return filepath.Join(t.dir, t.key+".jsonl")
}

// Append writes one record to the transcript.
func (t *Transcript) Append(rec Record) error {
	if rec.Role == "" {
		return fmt.Errorf("record role cannot be empty")
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	file, err := os.OpenFile(t.path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open transcript: %w", err)
	}
	defer file.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Load reads back every record in the transcript, oldest first.
func (t *Transcript) Load() ([]Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	file, err := os.Open(t.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.logger.Warn().Err(err).Msg("Skipping malformed transcript line")
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	return records, nil
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("session key cannot be empty")
	}
	if strings.Contains(key, "..") {
		return fmt.Errorf("session key cannot contain '..'")
	}
	if strings.ContainsAny(key, "/\\") {
		return fmt.Errorf("session key cannot contain path separators")
	}
	return nil
}
