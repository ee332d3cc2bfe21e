package importer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SheetReader loads the cells of one worksheet without interpreting them.
type SheetReader interface {
	Read(path string) (RawSheet, error)
}

// ReaderForFormat returns the reader for format. sheetName is the preferred
// worksheet for workbook formats and is ignored for CSV.
func ReaderForFormat(format, sheetName string) (SheetReader, error) {
	switch strings.TrimSpace(strings.ToLower(format)) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{SheetName: sheetName}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

func readerForPath(path, sheetName string) (SheetReader, error) {
	return ReaderForFormat(inferFormat(path), sheetName)
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return "csv"
	case ".xlsx", ".xlsm":
		return "excel"
	default:
		return strings.TrimPrefix(ext, ".")
	}
}
