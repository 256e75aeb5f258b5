package promptbundle

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// AddFiles expands the given glob patterns, filters the expansion through
// the exclude patterns, and adds the surviving regular files to the bundle.
// Duplicates are dropped regardless of how many overlapping patterns name
// them; insertion order of new files is preserved. Returns the updated
// bundle, the newly added paths, and a warning per pattern that matched
// nothing.
func AddFiles(bundle Bundle, patterns, excludes []string) (Bundle, []string, []string) {
	warnings := []string{}
	candidates := []string{}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil || len(matches) == 0 {
			warnings = append(warnings, fmt.Sprintf("No files match pattern '%s'", pattern))
			continue
		}
		candidates = append(candidates, matches...)
	}

	if len(excludes) > 0 {
		filtered := candidates[:0]
		for _, path := range candidates {
			if !matchesAny(path, excludes) {
				filtered = append(filtered, path)
			}
		}
		candidates = filtered
	}

	existing := make(map[string]bool, len(bundle.Files))
	for _, f := range bundle.Files {
		existing[f] = true
	}

	added := []string{}
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if existing[path] {
			continue
		}
		existing[path] = true
		added = append(added, path)
	}

	updated := bundle
	updated.Files = append(append([]string{}, bundle.Files...), added...)
	return updated, added, warnings
}

// RemoveFiles removes files matching the patterns from the bundle. Patterns
// containing wildcards are glob-expanded; anything else is treated as a
// literal path. Returns the updated bundle and the number removed.
func RemoveFiles(bundle Bundle, patterns []string) (Bundle, int) {
	remove := make(map[string]bool)
	for _, pattern := range patterns {
		if strings.ContainsAny(pattern, "*?[") {
			matches, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				continue
			}
			for _, m := range matches {
				remove[m] = true
			}
		} else {
			remove[pattern] = true
		}
	}

	kept := []string{}
	for _, f := range bundle.Files {
		if !remove[f] {
			kept = append(kept, f)
		}
	}

	updated := bundle
	updated.Files = kept
	return updated, len(bundle.Files) - len(kept)
}

func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
