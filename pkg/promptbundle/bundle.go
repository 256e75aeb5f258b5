// Package promptbundle manages named collections of files, instructions,
// and personas persisted on disk and rendered into an XML document for
// pasting into an LLM.
package promptbundle

// FormatXML is the only supported render format.
const FormatXML = "xml"

// TokenWarnThreshold is the estimate above which status reports warn about
// exceeding a typical effective context window.
const TokenWarnThreshold = 32000

// Bundle is one named prompt bundle. Files and Personas are ordered sets:
// duplicates are never stored, insertion order is preserved.
type Bundle struct {
	Files       []string `json:"files"`
	Instruction string   `json:"instruction"`
	Personas    []string `json:"personas"`
	Format      string   `json:"format"`
}

// NewBundle creates an empty bundle with the default format.
func NewBundle() Bundle {
	return Bundle{
		Files:    []string{},
		Personas: []string{},
		Format:   FormatXML,
	}
}

// EstimateTokens approximates the token count of text as len/4.
func EstimateTokens(text string) int {
	return len(text) / 4
}
