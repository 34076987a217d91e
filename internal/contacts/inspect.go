package contacts

import (
	"fmt"
	"io"
	"strings"
)

// DefaultInspectLimit is how many teacher candidates Inspect prints.
const DefaultInspectLimit = 11

// Inspect prints the header of a contacts export, where the email column is,
// and up to limit rows that look like teachers: empty phonetic field and an
// email containing "@". Nothing is written to disk.
func Inspect(w io.Writer, path string, cols Columns, limit int) error {
	header, rows, err := ReadTable(path)
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = DefaultInspectLimit
	}

	fmt.Fprintf(w, "Header length: %d\n", len(header))
	fmt.Fprintf(w, "Header: %s\n", formatHeader(header))

	emailIdx := EmailIndex(header, cols)
	if emailIdx < 0 {
		fmt.Fprintf(w, "Could not find '%s' in header\n", cols.emailHeader())
		return nil
	}
	fmt.Fprintf(w, "Found '%s' at index %d\n", cols.emailHeader(), emailIdx)
	fmt.Fprintln(w, strings.Repeat("-", 20))

	count := 0
	for _, row := range rows {
		if len(row) <= emailIdx {
			continue
		}

		first := rawField(row, cols.FirstName)
		last := rawField(row, cols.LastName)
		phonetic := rawField(row, cols.Phonetic)
		email := rawField(row, emailIdx)

		if phonetic != "" || email == "" || !strings.Contains(email, "@") {
			continue
		}

		fmt.Fprintf(w, "Teacher candidate: %s %s -> %s\n", first, last, email)
		count++
		if count >= limit {
			break
		}
	}

	return nil
}

func rawField(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func formatHeader(header []string) string {
	quoted := make([]string, len(header))
	for i, h := range header {
		quoted[i] = fmt.Sprintf("'%s'", h)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
