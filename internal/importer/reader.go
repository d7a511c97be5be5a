package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawRow is one spreadsheet row before typing. Cells decoded from a
// workbook arrive as strings; callers may also hand in time.Time or
// float64 values directly and the parser passes them through.
type RawRow []any

// ReadWorkbook decodes the first sheet of an xlsx/xls workbook into raw
// rows. Row 0 is the header and is skipped. A row whose plate column is
// empty is dropped entirely: trailing blank rows are normal in the
// supplier's export and are not a validation outcome.
func ReadWorkbook(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot decode spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheets[0], err)
	}

	out := make([]RawRow, 0, len(rows))
	for i, cells := range rows {
		if i == 0 {
			continue
		}
		if len(cells) <= colPlate || strings.TrimSpace(cells[colPlate]) == "" {
			continue
		}
		raw := make(RawRow, len(cells))
		for j, c := range cells {
			raw[j] = c
		}
		out = append(out, raw)
	}
	return out, nil
}
