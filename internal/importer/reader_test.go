package importer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func mkXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	buf := bytes.NewBuffer(nil)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func sheetRow(date, plate, liters, total string) []any {
	row := make([]any, 30)
	for i := range row {
		row[i] = ""
	}
	row[colDate] = date
	row[colEstablishment] = "ACME"
	row[colPlate] = plate
	row[colLiters] = liters
	row[colTotalAmount] = total
	return row
}

func TestReadWorkbook(t *testing.T) {
	blob := mkXLSX(t, [][]any{
		sheetRow("Fecha", "Patente", "Litros", "Importe"), // header
		sheetRow("15/03/2024 10:30:00", "AB123CD", "120,5", "102425,00"),
		sheetRow("16/03/2024 08:00:00", "", "10", "100"), // blank plate, dropped
		sheetRow("17/03/2024 09:15:00", "AC456BD", "80", "68000"),
	})

	rows, err := ReadWorkbook(bytes.NewReader(blob))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "15/03/2024 10:30:00", rows[0][colDate])
	assert.Equal(t, "AB123CD", rows[0][colPlate])
	assert.Equal(t, "AC456BD", rows[1][colPlate])
}

func TestReadWorkbookCorruptFile(t *testing.T) {
	_, err := ReadWorkbook(bytes.NewReader([]byte("this is not a spreadsheet")))
	assert.Error(t, err)
}

func TestReadWorkbookFeedsParser(t *testing.T) {
	blob := mkXLSX(t, [][]any{
		sheetRow("Fecha", "Patente", "Litros", "Importe"),
		sheetRow("15/03/2024 10:30:00", "AB123CD", "120,5", "102425,00"),
		sheetRow("", "", "", ""), // trailing blank row
	})

	rows, err := ReadWorkbook(bytes.NewReader(blob))
	require.NoError(t, err)

	records := NewRowParser(testRefs(), "transportes").ParseRows(rows)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Errors)
	require.NotNil(t, records[0].MatchedVehicleID)
	assert.Equal(t, "veh-1", *records[0].MatchedVehicleID)
}
