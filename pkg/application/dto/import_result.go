package dto

// SkippedLine is an import line that did not produce a record
type SkippedLine struct {
	Line   int    `json:"line" yaml:"line"`
	Reason string `json:"reason" yaml:"reason"`
}

// ImportResult summarises one CSV import
type ImportResult struct {
	Kind    string        `json:"kind" yaml:"kind"`
	Created int           `json:"created" yaml:"created"`
	Skipped []SkippedLine `json:"skipped" yaml:"skipped"`
	// Unmatched lists item names that resolved to no supply item, in first-seen order
	Unmatched []string `json:"unmatched,omitempty" yaml:"unmatched,omitempty"`
}

// HasWarnings reports whether anything was skipped or unresolved
func (r ImportResult) HasWarnings() bool {
	return len(r.Skipped) > 0 || len(r.Unmatched) > 0
}
