package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// GlobDefinition returns the glob tool.
func GlobDefinition() Definition {
	return Definition{
		Name: "glob",
		Description: "Fast file pattern matching tool that works with any codebase size.\n" +
			"- Supports glob patterns like '**/*.js' or 'src/**/*.ts'\n" +
			"- Returns matching file paths sorted by modification time (newest first)\n" +
			"- Use this tool when you need to find files by name patterns\n" +
			"- When searching for specific code, combine with grep for best results",
		Parameters: []Parameter{
			{Name: "pattern", Type: "string", Description: "The glob pattern to match files against (e.g. '**/*.go', 'src/**/*.js')", Required: true},
			{Name: "path", Type: "string", Description: "The directory to search in. If not specified, the current working directory will be used.", Required: false},
		},
		Handler: globSearch,
	}
}

func globSearch(_ context.Context, args map[string]interface{}) (string, error) {
	pattern, _ := args["pattern"].(string)
	path, _ := args["path"].(string)
	if path == "" {
		path = "."
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("Path does not exist: %s", path)
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(path, pattern))
	if err != nil {
		return "", err
	}

	// Newest-modified-first. Unstattable entries sort last.
	type match struct {
		path  string
		mtime time.Time
	}
	stats := make([]match, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		var mtime time.Time
		if err == nil {
			mtime = info.ModTime()
		}
		stats = append(stats, match{path: m, mtime: mtime})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].mtime.After(stats[j].mtime)
	})

	if len(stats) == 0 {
		return "No files found matching the pattern.", nil
	}

	paths := make([]string, len(stats))
	for i, m := range stats {
		paths[i] = m.path
	}
	return strings.Join(paths, "\n"), nil
}

// GrepDefinition returns the grep tool, which shells out to ripgrep.
func GrepDefinition() Definition {
	return Definition{
		Name: "grep",
		Description: "Fast content search tool that works with any codebase size.\n" +
			"- Searches file contents using regular expressions\n" +
			"- Supports full regex syntax (eg. 'log.*Error', 'function\\s+\\w+', etc.)\n" +
			"- Filter files by pattern with the include parameter (eg. '*.js')\n" +
			"- Returns matching file paths with line numbers and context\n" +
			"- Use this tool when you need to find specific patterns within files",
		Parameters: []Parameter{
			{Name: "pattern", Type: "string", Description: "The regular expression pattern to search for in file contents", Required: true},
			{Name: "path", Type: "string", Description: "The directory to search in. Defaults to the current working directory.", Required: false},
			{Name: "include", Type: "string", Description: "File pattern to include in the search (e.g. '*.js', '*.{ts,tsx}')", Required: false},
		},
		Handler: grepSearch,
	}
}

func grepSearch(ctx context.Context, args map[string]interface{}) (string, error) {
	pattern, _ := args["pattern"].(string)
	path, _ := args["path"].(string)
	include, _ := args["include"].(string)
	if path == "" {
		path = "."
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("Path does not exist: %s", path)
	}

	cmdArgs := []string{"--line-number", "--no-heading", "--sort", "modified", pattern}
	if include != "" {
		cmdArgs = append(cmdArgs, "--glob", include)
	}
	cmdArgs = append(cmdArgs, path)

	execCtx, cancel := context.WithTimeout(ctx, bashTimeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "rg", cmdArgs...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	if err != nil {
		// Exit code 1 from rg means no matches, which is not a failure.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
			return "", fmt.Errorf("ripgrep (rg) not found or failed to run. Please install ripgrep for grep functionality.")
		}
	}

	if strings.TrimSpace(stdout.String()) == "" {
		return "No matches found.", nil
	}
	return stdout.String(), nil
}
