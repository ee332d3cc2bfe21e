package output

import (
	"encoding/json"
	"fmt"
	"os"

	"tsimport/timesheet"
)

// JSONWriter writes entries as an indented array of documents.
type JSONWriter struct{}

func (w *JSONWriter) Write(path string, entries []timesheet.Entry) error {
	if entries == nil {
		entries = []timesheet.Entry{}
	}
	return writeJSON(path, entries)
}

func writeJSON(path string, value any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json output %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("write json output %s: %w", path, err)
	}
	return nil
}
