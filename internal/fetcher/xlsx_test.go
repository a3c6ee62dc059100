package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeTestXLSX(t *testing.T, sheetName string, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)

	for _, cells := range rows {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}

	path := filepath.Join(t.TempDir(), "series.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	t.Parallel()

	path := writeTestXLSX(t, "depths", [][]string{
		{"time", "latitude", "longitude", "depth", "scenario"},
		{"2030-01-01", "46.8015", "9.1506", "0.42", "ssp245"},
		{"2030-02-01", "46.8015", "9.1506", "0.31", "ssp245"},
		{"", "", "", "", ""}, // trailing blank row is skipped
	})

	records, err := ReadXLSX(path, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 0.42, records[0].Depth)
	assert.Equal(t, "ssp245", records[1].Scenario)
}

func TestReadXLSX_SheetByName(t *testing.T) {
	t.Parallel()

	path := writeTestXLSX(t, "extraction", [][]string{
		{"time", "depth"},
		{"2030-01-01", "0.1"},
	})

	records, err := ReadXLSX(path, XLSXOptions{SheetName: "extraction"})
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = ReadXLSX(path, XLSXOptions{SheetName: "missing"})
	assert.Error(t, err)
}

func TestReadXLSX_BadFile(t *testing.T) {
	t.Parallel()

	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), XLSXOptions{})
	assert.Error(t, err)
}

func TestReadXLSX_MalformedRow(t *testing.T) {
	t.Parallel()

	path := writeTestXLSX(t, "depths", [][]string{
		{"time", "depth"},
		{"2030-01-01", "quite deep"},
	})

	_, err := ReadXLSX(path, XLSXOptions{})
	assert.Error(t, err)
}
