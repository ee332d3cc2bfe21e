package importer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelReader reads the preferred worksheet of an .xlsx/.xlsm workbook,
// falling back to the first worksheet when no sheet matches SheetName.
// Cells come back as stored, not as displayed: number formats would round
// hours, so date cells arrive as serials and are resolved by parseSheetDate.
type ExcelReader struct {
	SheetName string
}

func (r *ExcelReader) Read(path string) (RawSheet, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return RawSheet{}, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName := selectSheet(file.GetSheetList(), r.SheetName)
	if sheetName == "" {
		return RawSheet{}, fmt.Errorf("excel file has no sheets: %s", path)
	}

	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return RawSheet{}, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}

	return RawSheet{Name: sheetName, Rows: rows}, nil
}

// selectSheet prefers an exact name match, then a case-insensitive one,
// then the first sheet in the workbook.
func selectSheet(sheets []string, preferred string) string {
	if len(sheets) == 0 {
		return ""
	}
	preferred = strings.TrimSpace(preferred)
	if preferred == "" {
		return sheets[0]
	}
	for _, name := range sheets {
		if name == preferred {
			return name
		}
	}
	for _, name := range sheets {
		if strings.EqualFold(strings.TrimSpace(name), preferred) {
			return name
		}
	}
	return sheets[0]
}
