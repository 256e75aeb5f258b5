package promptbundle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

// Persona is a named reusable role description stored as YAML. User
// persona files override bundled defaults of the same name.
type Persona struct {
	Name    string `yaml:"name"`
	Content string `yaml:"content"`
}

func (s *Store) userPersonaDir() string {
	return filepath.Join(s.dirs.User, "personas")
}

func (s *Store) bundledPersonaDir() string {
	if s.dirs.Bundled == "" {
		return ""
	}
	return filepath.Join(s.dirs.Bundled, "personas")
}

// LoadPersona loads a persona by name, checking the user directory first
// and the bundled defaults second. Returns os.ErrNotExist when neither has
// it.
func (s *Store) LoadPersona(name string) (Persona, error) {
	paths := []string{filepath.Join(s.userPersonaDir(), name+".yaml")}
	if dir := s.bundledPersonaDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, name+".yaml"))
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var persona Persona
		if err := yaml.Unmarshal(data, &persona); err != nil {
			s.logger.Warn().Str("persona", name).Str("path", path).Err(err).Msg("Failed to parse persona")
			continue
		}
		if persona.Name == "" {
			persona.Name = fmt.Sprintf("[%s]", name)
		}
		if persona.Content == "" {
			persona.Content = fmt.Sprintf("Role: %s", name)
		}
		return persona, nil
	}
	return Persona{}, os.ErrNotExist
}

// ListPersonas returns the names of available personas from both the user
// and bundled directories, deduplicated and sorted.
func (s *Store) ListPersonas() []string {
	seen := map[string]bool{}
	names := []string{}

	dirs := []string{s.userPersonaDir()}
	if dir := s.bundledPersonaDir(); dir != "" {
		dirs = append(dirs, dir)
	}
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
				continue
			}
			base := strings.TrimSuffix(name, ".yaml")
			if !seen[base] {
				seen[base] = true
				names = append(names, base)
			}
		}
	}
	sort.Strings(names)
	return names
}

// AddPersona adds a persona name to the bundle, preserving order and
// dropping duplicates.
func AddPersona(bundle Bundle, name string) Bundle {
	for _, existing := range bundle.Personas {
		if existing == name {
			return bundle
		}
	}
	updated := bundle
	updated.Personas = append(append([]string{}, bundle.Personas...), name)
	return updated
}

// SetInstruction replaces the bundle instruction, normalizing all
// whitespace runs (including newlines) to single spaces.
func SetInstruction(bundle Bundle, instruction string) Bundle {
	updated := bundle
	updated.Instruction = strings.Join(strings.Fields(instruction), " ")
	return updated
}
