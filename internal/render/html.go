package render

import (
	"bufio"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
)

//go:embed templates/avisos.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/avisos.html.tmpl"))

// HTMLWriter writes the avisos page.
type HTMLWriter struct{}

// Write renders the report to path, replacing any existing file.
func (w *HTMLWriter) Write(path string, report *Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create html output %s: %w", path, err)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	if err := WriteHTML(buf, report); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("write html output %s: %w", path, err)
	}
	return file.Close()
}

// WriteHTML renders the report page to w.
func WriteHTML(w io.Writer, report *Report) error {
	if err := reportTemplate.ExecuteTemplate(w, "avisos.html.tmpl", report); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}
