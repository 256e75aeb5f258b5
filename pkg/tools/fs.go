package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadFileDefinition returns the read_file tool.
func ReadFileDefinition() Definition {
	return Definition{
		Name: "read_file",
		Description: "Read the contents of a given relative file path. " +
			"Use this when you want to see what's inside a file. Do not use this with directory names.",
		Parameters: []Parameter{
			{Name: "path", Type: "string", Description: "The relative path of a file in the working directory.", Required: true},
		},
		Handler: readFile,
	}
}

func readFile(_ context.Context, args map[string]interface{}) (string, error) {
	path, _ := args["path"].(string)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EditFileDefinition returns the edit_file tool.
//
// The replacement is a single-shot literal substitution: when old_str occurs
// more than once, every occurrence is replaced. This matches the documented
// behavior rather than a stricter single-match intent.
func EditFileDefinition() Definition {
	return Definition{
		Name: "edit_file",
		Description: "Make edits to a text file. Replaces 'old_str' with 'new_str' in the given file. " +
			"If 'old_str' is empty and the file doesn't exist, a new file will be created with 'new_str' as content. " +
			"'old_str' and 'new_str' must be different from each other.",
		Parameters: []Parameter{
			{Name: "path", Type: "string", Description: "The relative path of a file in the working directory.", Required: true},
			{Name: "old_str", Type: "string", Description: "Text to search for - must match exactly.", Required: true},
			{Name: "new_str", Type: "string", Description: "Text to replace old_str with.", Required: true},
		},
		Handler: editFile,
	}
}

func editFile(_ context.Context, args map[string]interface{}) (string, error) {
	path, _ := args["path"].(string)
	oldStr, _ := args["old_str"].(string)
	newStr, _ := args["new_str"].(string)

	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if oldStr == newStr {
		return "", fmt.Errorf("old_str and new_str must be different")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) && oldStr == "" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return "", err
			}
		}
		if err := os.WriteFile(path, []byte(newStr), 0644); err != nil {
			return "", err
		}
		return fmt.Sprintf("Successfully created file %s", path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file %s not found", path)
		}
		return "", err
	}
	content := string(data)

	updated := strings.ReplaceAll(content, oldStr, newStr)
	if updated == content && oldStr != "" {
		return "", fmt.Errorf("old_str not found in file")
	}

	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return "", err
	}
	return "OK", nil
}
