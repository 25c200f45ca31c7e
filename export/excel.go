// Package export turns a finished result file into other formats and ships
// it to object storage.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// XLSXName maps a result CSV name onto its workbook name.
func XLSXName(csvPath string) string {
	return strings.TrimSuffix(csvPath, ".csv") + ".xlsx"
}

// WriteXLSX copies the result CSV at csvPath into a workbook at xlsxPath.
// Numeric cells outside the first column are stored as numbers.
func WriteXLSX(csvPath, xlsxPath string) error {
	csvFile, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open csv: %w", err)
	}
	defer csvFile.Close()

	reader := csv.NewReader(csvFile)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read csv: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}

		row := toCells(record, i == 0)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(xlsxPath); err != nil {
		return fmt.Errorf("failed to save xlsx: %w", err)
	}

	return nil
}

func toCells(record []string, header bool) []any {
	row := make([]any, len(record))

	for i, v := range record {
		row[i] = v

		if header || i == 0 {
			continue
		}

		if n, err := strconv.ParseFloat(v, 64); err == nil {
			row[i] = n
		}
	}

	return row
}
