package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const excelSheet = "Avisos"

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, report *Report) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), excelSheet); err != nil {
		return fmt.Errorf("rename excel sheet: %w", err)
	}

	for col, header := range tableHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(excelSheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, line := range report.Lines() {
		row := i + 2
		for col, value := range line {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(excelSheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SetPanes(excelSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze excel header: %w", err)
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
