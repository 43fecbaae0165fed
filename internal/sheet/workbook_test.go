package sheet

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/committee-records/internal/record"
)

func fullRecord(schema *record.Schema, name string) record.Record {
	rec := record.New(schema)
	for _, column := range schema.Columns() {
		rec.Set(column, column+" value")
	}
	rec.Set(record.ColumnStudentName, name)
	return rec
}

func readRows(t *testing.T, path string) (string, [][]string) {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return sheet, rows
}

func TestWorkbook_AppendCreatesWithHeader(t *testing.T) {
	schema := record.DefaultSchema()
	output := filepath.Join(t.TempDir(), "ExtractPdfData.xlsx")
	wb := New(output, "", schema, nil)

	require.NoError(t, wb.Append([]record.Record{fullRecord(schema, "Jane Doe")}))
	require.NoError(t, wb.Append([]record.Record{fullRecord(schema, "John Roe"), fullRecord(schema, "Ann Poe")}))

	_, rows := readRows(t, output)
	require.Len(t, rows, 4)
	assert.Equal(t, schema.Columns(), rows[0])
	assert.Equal(t, fullRecord(schema, "Jane Doe").Values(), rows[1])
	assert.Equal(t, "John Roe", rows[2][0])
	assert.Equal(t, "Ann Poe", rows[3][0])
}

func TestWorkbook_AppendFromTemplate(t *testing.T) {
	schema := record.DefaultSchema()
	dir := t.TempDir()
	template := filepath.Join(dir, "Template.xlsm")
	output := filepath.Join(dir, "ExtractPdfData.xlsm")
	macro := []byte("fake vba project payload")

	writeTemplate(t, template, schema, macro)
	templateBefore, err := os.ReadFile(template)
	require.NoError(t, err)

	wb := New(output, template, schema, nil)
	require.NoError(t, wb.Append([]record.Record{fullRecord(schema, "Jane Doe")}))

	sheet, rows := readRows(t, output)
	assert.Equal(t, "Data", sheet)
	require.Len(t, rows, 2)
	assert.Equal(t, schema.Columns(), rows[0])
	assert.Equal(t, "Jane Doe", rows[1][0])

	// untouched sheet survives
	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	notes, err := f.GetCellValue("Notes", "A1")
	require.NoError(t, err)
	assert.Equal(t, "keep me", notes)
	require.NoError(t, f.Close())

	assert.Equal(t, macro, zipEntry(t, output, "xl/vbaProject.bin"))

	// template itself is never written
	templateAfter, err := os.ReadFile(template)
	require.NoError(t, err)
	assert.Equal(t, templateBefore, templateAfter)
}

func TestWorkbook_AppendToExistingOutputIgnoresTemplate(t *testing.T) {
	schema := record.DefaultSchema()
	dir := t.TempDir()
	output := filepath.Join(dir, "out.xlsx")

	require.NoError(t, New(output, "", schema, nil).Append([]record.Record{fullRecord(schema, "First")}))

	wb := New(output, filepath.Join(dir, "missing-template.xlsm"), schema, nil)
	require.NoError(t, wb.Append([]record.Record{fullRecord(schema, "Second")}))

	_, rows := readRows(t, output)
	require.Len(t, rows, 3)
	assert.Equal(t, "Second", rows[2][0])
}

func TestWorkbook_MissingTemplate(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.xlsm")
	wb := New(output, filepath.Join(dir, "nope.xlsm"), nil, nil)

	err := wb.Append([]record.Record{fullRecord(record.DefaultSchema(), "x")})
	require.Error(t, err)
	assert.NoFileExists(t, output)
}

func TestWorkbook_ConcurrentAppends(t *testing.T) {
	schema := record.DefaultSchema()
	output := filepath.Join(t.TempDir(), "out.xlsx")
	wb := New(output, "", schema, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- wb.Append([]record.Record{fullRecord(schema, fmt.Sprintf("Student %d", i))})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	_, rows := readRows(t, output)
	assert.Len(t, rows, 6)
}

// writeTemplate builds a two-sheet workbook whose active sheet "Data"
// holds the header row, then injects a vbaProject part into the package.
func writeTemplate(t *testing.T, path string, schema *record.Schema, macro []byte) {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "keep me"))
	require.NoError(t, f.SetSheetName("Sheet1", "Notes"))
	idx, err := f.NewSheet("Data")
	require.NoError(t, err)
	require.NoError(t, writeRow(f, "Data", 1, schema.Columns()))
	f.SetActiveSheet(idx)

	plain := path + ".xlsx"
	require.NoError(t, f.SaveAs(plain))
	require.NoError(t, f.Close())

	src, err := zip.OpenReader(plain)
	require.NoError(t, err)
	defer src.Close()

	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, entry := range src.File {
		r, err := entry.Open()
		require.NoError(t, err)
		w, err := zw.Create(entry.Name)
		require.NoError(t, err)
		_, err = io.Copy(w, r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
	}
	w, err := zw.Create("xl/vbaProject.bin")
	require.NoError(t, err)
	_, err = w.Write(macro)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}

func zipEntry(t *testing.T, path, name string) []byte {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	for _, entry := range zr.File {
		if entry.Name != name {
			continue
		}
		r, err := entry.Open()
		require.NoError(t, err)
		defer r.Close()
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		return data
	}
	t.Fatalf("entry %s not found in %s", name, path)
	return nil
}
