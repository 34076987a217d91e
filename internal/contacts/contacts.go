package contacts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cyberpills/avisos/internal/logger"
	"github.com/xuri/excelize/v2"
)

// EmailHeader is the header label of the primary email column.
const EmailHeader = "E-mail 1 - Value"

var (
	// ErrNotFound is returned when the contacts file does not exist.
	ErrNotFound = errors.New("contacts file not found")
	// ErrMissingColumns is returned when the email header is absent.
	ErrMissingColumns = errors.New("required columns not found")
)

// Columns locates the name fields in a contacts row.
type Columns struct {
	FirstName   int
	LastName    int
	Phonetic    int
	EmailHeader string
}

// DefaultColumns matches the Google contacts export layout.
var DefaultColumns = Columns{
	FirstName:   0,
	LastName:    2,
	Phonetic:    3,
	EmailHeader: EmailHeader,
}

func (c Columns) emailHeader() string {
	if c.EmailHeader == "" {
		return EmailHeader
	}
	return c.EmailHeader
}

// Contact is a teacher row of the contacts export.
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	FullName  string
	Words     WordSet
}

// Directory is the ordered list of teacher contacts.
type Directory struct {
	contacts []Contact
}

// Load reads a contacts export. Files ending in .xlsx are read as spreadsheets,
// anything else as CSV.
func Load(path string, cols Columns) (*Directory, error) {
	header, rows, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	return FromRows(header, rows, cols)
}

// ReadTable returns the header and data rows of a contacts export.
func ReadTable(path string) ([]string, [][]string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, nil, fmt.Errorf("stat contacts file: %w", err)
	}

	var (
		table [][]string
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		table, err = readExcel(path)
	default:
		table, err = readCSV(path)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(table) == 0 {
		return nil, nil, fmt.Errorf("%w: %s is empty", ErrMissingColumns, path)
	}

	header := table[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	return header, table[1:], nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	table := make([][]string, 0, 128)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(table)+1, err)
		}
		table = append(table, row)
	}
	return table, nil
}

func readExcel(path string) ([][]string, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("excel file has no sheets: %s", path)
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}
	return rows, nil
}

// EmailIndex returns the position of the email header, or -1.
func EmailIndex(header []string, cols Columns) int {
	want := cols.emailHeader()
	for i, h := range header {
		if h == want {
			return i
		}
	}
	return -1
}

// FromRows builds a Directory from an already-read table.
func FromRows(header []string, rows [][]string, cols Columns) (*Directory, error) {
	emailIdx := EmailIndex(header, cols)
	if emailIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumns, cols.emailHeader())
	}

	dir := &Directory{}
	for i, row := range rows {
		if len(row) <= emailIdx {
			continue
		}

		first := field(row, cols.FirstName)
		last := field(row, cols.LastName)
		phonetic := field(row, cols.Phonetic)
		email := field(row, emailIdx)

		if first == "" || last == "" || email == "" {
			continue
		}
		if phonetic != "" {
			// Students carry their class code in the phonetic field
			logger.Debug("Skipping student contact", logger.Fields{"row": i + 2})
			continue
		}

		full := first + " " + last
		dir.contacts = append(dir.contacts, Contact{
			FirstName: first,
			LastName:  last,
			Email:     email,
			FullName:  full,
			Words:     Words(full),
		})
	}

	return dir, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Len returns the number of loaded teacher contacts.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.contacts)
}

// Candidates returns every contact whose name contains all words of name,
// in file order.
func (d *Directory) Candidates(name string) []Contact {
	words := Words(name)
	if d == nil || len(words) == 0 {
		return nil
	}

	var out []Contact
	for _, c := range d.contacts {
		if words.SubsetOf(c.Words) {
			out = append(out, c)
		}
	}
	return out
}

// FindEmail resolves a schedule name to an email address, or "" when no
// contact matches. With several candidates the first one in file order wins.
func (d *Directory) FindEmail(name string) string {
	candidates := d.Candidates(name)
	if len(candidates) == 0 {
		return ""
	}
	if len(candidates) > 1 {
		logger.IncrCounter("contacts.ambiguous")
		logger.Debug("Ambiguous contact match", logger.Fields{
			"name":       name,
			"candidates": len(candidates),
			"chosen":     candidates[0].Email,
		})
	}
	return candidates[0].Email
}
