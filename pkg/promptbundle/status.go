package promptbundle

import "fmt"

// Status summarizes the current bundle for display.
type Status struct {
	Name        string
	Bundle      Bundle
	Available   []string
	TotalTokens int
	FileTokens  map[string]int
	Warn        bool
}

// Status computes the current bundle's status, including a crude token
// estimate of the fully rendered document and per-file estimates.
func (s *Store) Status() (Status, error) {
	name, bundle, err := s.Current()
	if err != nil {
		return Status{}, fmt.Errorf("failed to resolve current bundle: %w", err)
	}

	available, err := s.List()
	if err != nil {
		return Status{}, err
	}

	contents := ReadAllFiles(bundle)
	fileTokens := make(map[string]int, len(contents))
	for path, content := range contents {
		fileTokens[path] = EstimateTokens(content)
	}

	total := EstimateTokens(s.Render(bundle, contents, ""))

	return Status{
		Name:        name,
		Bundle:      bundle,
		Available:   available,
		TotalTokens: total,
		FileTokens:  fileTokens,
		Warn:        total > TokenWarnThreshold,
	}, nil
}
