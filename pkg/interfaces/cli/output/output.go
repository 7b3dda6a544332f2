package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormats defines the allowed output formats
var ValidFormats = []string{FormatText, FormatJSON, FormatYAML}

// IsValidFormat checks if the format is one of the allowed values
func IsValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Renderer writes command results in the configured format
type Renderer struct {
	Format string
	Writer io.Writer
}

// Render encodes data as JSON or YAML, or calls text for human-readable output
func (r Renderer) Render(data any, text func(w io.Writer) error) error {
	switch r.Format {
	case FormatJSON:
		enc := json.NewEncoder(r.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(r.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatText, "":
		return text(r.Writer)
	default:
		return fmt.Errorf("unsupported output format: %s", r.Format)
	}
}
