package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format names accepted by Write.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as a YAML document.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Write encodes v in the named format.
func Write(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(w, v)
	case FormatYAML, "yml":
		return WriteYAML(w, v)
	}
	return fmt.Errorf("unknown format %q", format)
}
