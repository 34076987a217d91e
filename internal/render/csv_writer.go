package render

import (
	"encoding/csv"
	"fmt"
	"os"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, report *Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(tableHeader); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	if err := writer.WriteAll(report.Lines()); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
