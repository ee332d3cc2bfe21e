package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVReader treats a CSV export as a single-sheet workbook. A leading
// UTF-8 or UTF-16 byte order mark selects the decoding; otherwise the
// content is read as UTF-8.
type CSVReader struct{}

func (r *CSVReader) Read(path string) (RawSheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return RawSheet{}, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	decoded := transform.NewReader(file, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows := make([][]string, 0, 64)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RawSheet{}, fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, row)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return RawSheet{Name: name, Rows: rows}, nil
}
