package persistence

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// SaveJSON writes object as indented JSON. Non-ASCII text is written as is,
// which keeps Portuguese titles readable in the generated files.
func SaveJSON(filePath string, object any) error {
	return writeAtomic(filePath, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(object); err != nil {
			return fmt.Errorf("failed to encode JSON to file %s: %w", filePath, err)
		}
		return nil
	})
}

// LoadJSON decodes the JSON file at filePath into objectPointer.
func LoadJSON(filePath string, objectPointer any) error {
	data, err := os.ReadFile(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	if err := json.Unmarshal(data, objectPointer); err != nil {
		return fmt.Errorf("failed to decode JSON from file %s: %w", filePath, err)
	}
	return nil
}
