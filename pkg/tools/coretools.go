package tools

import (
	"fmt"

	"github.com/rs/zerolog"
)

// NewCoreRegistry builds the fixed registry of baseline filesystem, shell,
// and search tools used by the agent.
func NewCoreRegistry(logger zerolog.Logger) (*Registry, error) {
	registry := NewRegistry(logger)

	defs := []Definition{
		ReadFileDefinition(),
		ExecuteBashDefinition(),
		EditFileDefinition(),
		GlobDefinition(),
		GrepDefinition(),
	}
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", def.Name, err)
		}
	}
	return registry, nil
}
