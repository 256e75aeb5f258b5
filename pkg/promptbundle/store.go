package promptbundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// currentPointerFile holds the name of the active bundle.
const currentPointerFile = "current_prompt.json"

// Dirs locates on-disk state. The user directory is always writable; the
// bundled directory carries packaged persona and patch-instruction
// defaults; the legacy directory is a read-only fallback for old patch
// instruction files.
type Dirs struct {
	User    string
	Bundled string
	Legacy  string
}

// DefaultDirs resolves the standard per-user layout under ~/.ireul.
func DefaultDirs() (Dirs, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Dirs{}, fmt.Errorf("failed to get home directory: %w", err)
	}
	return Dirs{User: filepath.Join(home, ".ireul")}, nil
}

// Store persists bundles as one JSON file per name plus a plaintext
// current-pointer file.
type Store struct {
	dirs   Dirs
	logger zerolog.Logger
}

// NewStore creates a bundle store rooted at the given directories.
func NewStore(dirs Dirs, logger zerolog.Logger) (*Store, error) {
	if dirs.User == "" {
		return nil, fmt.Errorf("user directory is required")
	}
	if err := os.MkdirAll(filepath.Join(dirs.User, "prompts"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create prompt directory: %w", err)
	}
	return &Store{dirs: dirs, logger: logger}, nil
}

func (s *Store) promptDir() string {
	return filepath.Join(s.dirs.User, "prompts")
}

// BundlePath returns the JSON file path for a named bundle.
func (s *Store) BundlePath(name string) string {
	return filepath.Join(s.promptDir(), name+".json")
}

// Exists reports whether a named bundle is on disk.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.BundlePath(name))
	return err == nil
}

// Save writes a bundle to disk.
func (s *Store) Save(name string, bundle Bundle) error {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	if err := os.WriteFile(s.BundlePath(name), data, 0644); err != nil {
		return fmt.Errorf("failed to save bundle %s: %w", name, err)
	}
	s.logger.Debug().Str("bundle", name).Msg("Bundle saved")
	return nil
}

// Load reads a named bundle. It returns os.ErrNotExist when missing.
func (s *Store) Load(name string) (Bundle, error) {
	data, err := os.ReadFile(s.BundlePath(name))
	if err != nil {
		return Bundle{}, err
	}
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return Bundle{}, fmt.Errorf("failed to decode bundle %s: %w", name, err)
	}
	if bundle.Format == "" {
		bundle.Format = FormatXML
	}
	return bundle, nil
}

// List returns the names of all stored bundles, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.promptDir())
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt directory: %w", err)
	}
	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || name == currentPointerFile {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) pointerPath() string {
	return filepath.Join(s.promptDir(), currentPointerFile)
}

// CurrentName returns the name in the current pointer, or "" when unset.
func (s *Store) CurrentName() string {
	data, err := os.ReadFile(s.pointerPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetCurrent updates the current pointer.
func (s *Store) SetCurrent(name string) error {
	if err := os.WriteFile(s.pointerPath(), []byte(name), 0644); err != nil {
		return fmt.Errorf("failed to set current bundle: %w", err)
	}
	return nil
}

// Current resolves the current pointer to a bundle. A missing pointer or a
// pointer to a missing file is repaired by lazily creating "default" (or an
// empty bundle under the pointed-at name), so the pointer always resolves.
func (s *Store) Current() (string, Bundle, error) {
	name := s.CurrentName()
	if name == "" {
		name = "default"
		bundle := NewBundle()
		if err := s.Save(name, bundle); err != nil {
			return "", Bundle{}, err
		}
		if err := s.SetCurrent(name); err != nil {
			return "", Bundle{}, err
		}
		return name, bundle, nil
	}

	bundle, err := s.Load(name)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", Bundle{}, err
		}
		bundle = NewBundle()
		if err := s.Save(name, bundle); err != nil {
			return "", Bundle{}, err
		}
	}
	return name, bundle, nil
}
