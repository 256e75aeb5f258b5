package promptbundle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ReadFileContent reads one bundle file, converting any failure into
// inline error text so a broken path never aborts an export.
func ReadFileContent(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Error reading file: %s", err)
	}
	return string(data)
}

// ReadAllFiles reads every file in the bundle, keyed by path.
func ReadAllFiles(bundle Bundle) map[string]string {
	contents := make(map[string]string, len(bundle.Files))
	for _, path := range bundle.Files {
		contents[path] = ReadFileContent(path)
	}
	return contents
}

// FileMap renders a directory-tree view of the bundle files rooted at
// their common path prefix.
func FileMap(files []string) string {
	if len(files) == 0 {
		return "No files added to prompt."
	}

	absPaths := make([]string, len(files))
	for i, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		absPaths[i] = abs
	}
	prefix := commonPath(absPaths)

	sorted := append([]string{}, files...)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString(prefix + "\n")
	for _, f := range sorted {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		rel, err := filepath.Rel(prefix, abs)
		if err != nil {
			rel = abs
		}
		indent := strings.Repeat("  ", strings.Count(rel, string(filepath.Separator)))
		fmt.Fprintf(&b, "%s├── %s\n", indent, filepath.Base(f))
	}
	return b.String()
}

// commonPath returns the longest common directory prefix of the given
// absolute paths. A single path is its own prefix.
func commonPath(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	common := strings.Split(filepath.Clean(paths[0]), string(filepath.Separator))
	for _, path := range paths[1:] {
		parts := strings.Split(filepath.Clean(path), string(filepath.Separator))
		i := 0
		for i < len(common) && i < len(parts) && common[i] == parts[i] {
			i++
		}
		common = common[:i]
	}
	joined := strings.Join(common, string(filepath.Separator))
	if joined == "" {
		joined = string(filepath.Separator)
	}
	return joined
}

// Render formats the bundle as an XML document. Block order is fixed:
// patch instructions, file map, file contents, persona blocks, user
// instructions. Empty sections are omitted entirely.
func (s *Store) Render(bundle Bundle, contents map[string]string, patchType string) string {
	var b strings.Builder

	if patchType != "" {
		if instructions := s.LoadPatchInstructions(patchType); instructions != "" {
			b.WriteString("<xml_formatting_instructions>\n")
			b.WriteString(instructions)
			b.WriteString("\n</xml_formatting_instructions>\n\n")
		}
	}

	if len(bundle.Files) > 0 {
		b.WriteString("<file_map>\n")
		b.WriteString(FileMap(bundle.Files))
		b.WriteString("</file_map>\n\n")
	}

	if len(contents) > 0 {
		b.WriteString("<file_contents>\n")
		for _, path := range bundle.Files {
			content, ok := contents[path]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "File: %s\n", path)
			b.WriteString("```\n")
			b.WriteString(content)
			b.WriteString("\n```\n\n")
		}
		b.WriteString("</file_contents>\n\n")
	}

	for i, name := range bundle.Personas {
		persona, err := s.LoadPersona(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "<meta prompt %d = %q>\n", i+1, persona.Name)
		b.WriteString(persona.Content)
		fmt.Fprintf(&b, "\n</meta prompt %d>\n", i+1)
	}

	if bundle.Instruction != "" {
		b.WriteString("<user_instructions>\n")
		b.WriteString(bundle.Instruction)
		b.WriteString("\n</user_instructions>\n")
	}

	return b.String()
}

// Export renders the bundle and writes it to outputPath, or returns the
// document without writing when toStdout is set. The default output path
// is <name>.txt.
func (s *Store) Export(name string, bundle Bundle, patchType, outputPath string, toStdout bool) (string, string, error) {
	document := s.Render(bundle, ReadAllFiles(bundle), patchType)

	if toStdout {
		return document, "", nil
	}

	if outputPath == "" {
		outputPath = name + ".txt"
	}
	if err := os.WriteFile(outputPath, []byte(document), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write export: %w", err)
	}
	return document, outputPath, nil
}
