package promptbundle

import (
	"os"
	"path/filepath"
)

// LoadPatchInstructions loads the patch-format instruction text for a
// patch type. Override order: user directory, bundled defaults, then the
// legacy <type>prompt.txt location. Returns "" when none exist.
func (s *Store) LoadPatchInstructions(patchType string) string {
	if patchType == "" {
		patchType = FormatXML
	}

	paths := []string{filepath.Join(s.dirs.User, "patching", patchType+".txt")}
	if s.dirs.Bundled != "" {
		paths = append(paths, filepath.Join(s.dirs.Bundled, "patching", patchType+".txt"))
	}
	if s.dirs.Legacy != "" {
		paths = append(paths, filepath.Join(s.dirs.Legacy, patchType+"prompt.txt"))
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return string(data)
	}

	s.logger.Warn().Str("patch_type", patchType).Msg("No patch instructions found")
	return ""
}
