package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cyberpills/avisos/internal/render"
	"github.com/olekukonko/tablewriter"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// TeacherSummary is one teacher of a generate run.
type TeacherSummary struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Entries int    `json:"entries"`
}

// SnapshotSummary describes the comparison with the previous snapshot.
type SnapshotSummary struct {
	Path       string   `json:"path"`
	NewEntries int      `json:"new_entries"`
	Teachers   []string `json:"teachers"`
}

// ArchiveSummary describes the SQLite archive step.
type ArchiveSummary struct {
	Path     string `json:"path"`
	Inserted int    `json:"inserted"`
	Total    int    `json:"total"`
}

// OutputResult contains data to be output
type OutputResult struct {
	GeneratedAt  time.Time        `json:"generated_at"`
	Schedule     string           `json:"schedule"`
	Output       string           `json:"output"`
	Engine       string           `json:"engine"`
	Filter       string           `json:"filter,omitempty"`
	Contacts     int              `json:"contacts"`
	TeacherCount int              `json:"teacher_count"`
	EntryCount   int              `json:"entry_count"`
	Teachers     []TeacherSummary `json:"teachers"`
	Unmatched    []string         `json:"unmatched,omitempty"`
	Exports      []string         `json:"exports,omitempty"`
	Snapshot     *SnapshotSummary `json:"snapshot,omitempty"`
	Archive      *ArchiveSummary  `json:"archive,omitempty"`
}

func newOutputResult(report *render.Report) *OutputResult {
	result := &OutputResult{
		GeneratedAt:  time.Now().UTC(),
		TeacherCount: len(report.Rows),
		EntryCount:   report.EntryCount(),
		Teachers:     make([]TeacherSummary, 0, len(report.Rows)),
		Unmatched:    report.Unmatched(),
	}
	for _, row := range report.Rows {
		result.Teachers = append(result.Teachers, TeacherSummary{
			Name:    row.Teacher,
			Email:   row.Email,
			Entries: len(row.Entries),
		})
	}
	return result
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, showTable bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, showTable)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs the optional steps of a run as human-readable text. The
// main messages are printed by the command itself as it goes.
func writeText(w io.Writer, result *OutputResult, showTable bool) error {
	for _, path := range result.Exports {
		fmt.Fprintf(w, "Wrote %s\n", path)
	}

	if result.Archive != nil {
		fmt.Fprintf(w, "Archived %d new visits in %s (%d total).\n",
			result.Archive.Inserted, result.Archive.Path, result.Archive.Total)
	}

	if snap := result.Snapshot; snap != nil {
		if snap.NewEntries == 0 {
			fmt.Fprintln(w, "No new entries since last snapshot.")
		} else {
			fmt.Fprintf(w, "\nNew entries since last snapshot (%d for %d teachers):\n", snap.NewEntries, len(snap.Teachers))
			for _, name := range snap.Teachers {
				fmt.Fprintf(w, "  NEW: %s\n", name)
			}
		}
	}

	if !showTable {
		return nil
	}

	fmt.Fprintln(w)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Profesor/a", "Email", "Avisos"})
	table.SetAutoWrapText(false)
	for _, t := range result.Teachers {
		email := t.Email
		if email == "" {
			email = "-"
		}
		table.Append([]string{t.Name, email, strconv.Itoa(t.Entries)})
	}
	table.SetFooter([]string{"", "Total", strconv.Itoa(result.EntryCount)})
	table.Render()

	if result.Filter != "" {
		fmt.Fprintf(w, "Filter: %s\n", result.Filter)
	}
	if n := len(result.Unmatched); n > 0 {
		fmt.Fprintf(w, "%d teachers without email\n", n)
	}

	return nil
}
