package render

import (
	"fmt"
	"strings"

	"github.com/cyberpills/avisos/internal/schedule"
)

const (
	DefaultTitle   = "Avisos Profesorado - CyberPills"
	DefaultHeading = "Avisos de visitas - Profesorado afectado"
)

// EmailLookup resolves a teacher name to an email address ("" when unknown).
type EmailLookup interface {
	FindEmail(name string) string
}

// Row is one teacher of the report.
type Row struct {
	Teacher string           `json:"teacher"`
	Email   string           `json:"email,omitempty"`
	Entries []schedule.Entry `json:"entries"`
}

// Report is the data rendered into the avisos page.
type Report struct {
	Title   string `json:"title"`
	Heading string `json:"heading"`
	Rows    []Row  `json:"rows"`
}

// Build creates a report with one row per teacher, sorted by name. A nil
// lookup leaves every email empty.
func Build(ix *schedule.Index, lookup EmailLookup) *Report {
	report := &Report{
		Title:   DefaultTitle,
		Heading: DefaultHeading,
		Rows:    make([]Row, 0, ix.Len()),
	}

	for _, name := range ix.Teachers() {
		row := Row{Teacher: name, Entries: ix.Entries(name)}
		if lookup != nil {
			row.Email = lookup.FindEmail(name)
		}
		report.Rows = append(report.Rows, row)
	}

	return report
}

// Unmatched returns the teachers without an email, in report order.
func (r *Report) Unmatched() []string {
	var names []string
	for _, row := range r.Rows {
		if row.Email == "" {
			names = append(names, row.Teacher)
		}
	}
	return names
}

// EntryCount returns the number of entries across all rows.
func (r *Report) EntryCount() int {
	n := 0
	for _, row := range r.Rows {
		n += len(row.Entries)
	}
	return n
}

var tableHeader = []string{"Profesor/a", "Email", "Franja", "Grupo", "Momento", "CyberPill"}

// Lines flattens the report into one line per (teacher, entry).
func (r *Report) Lines() [][]string {
	lines := make([][]string, 0, r.EntryCount())
	for _, row := range r.Rows {
		for _, e := range row.Entries {
			lines = append(lines, []string{row.Teacher, row.Email, e.Header, e.Group, string(e.Timing), e.Comment})
		}
	}
	return lines
}

// Writer writes a report to a file.
type Writer interface {
	Write(path string, report *Report) error
}

// WriterForFormat returns the writer for html, csv or xlsx output.
func WriterForFormat(format string) (Writer, error) {
	switch strings.TrimSpace(strings.ToLower(format)) {
	case "html", "htm":
		return &HTMLWriter{}, nil
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
