package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cyberpills/avisos/internal/render"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByName    SortOrder = "name"
	SortByEntries SortOrder = "entries"
	SortByEmail   SortOrder = "email"
)

func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case "":
		return SortByName, nil
	case SortByName, SortByEntries, SortByEmail:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be 'name', 'entries' or 'email')", s)
}

// sortRows sorts report rows based on the specified sort order. Name order is
// plain byte order, matching schedule.Index.Teachers.
func sortRows(rows []render.Row, sortOrder SortOrder) {
	switch sortOrder {
	case SortByName:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Teacher < rows[j].Teacher
		})
	case SortByEntries:
		sort.SliceStable(rows, func(i, j int) bool {
			if len(rows[i].Entries) != len(rows[j].Entries) {
				return len(rows[i].Entries) > len(rows[j].Entries)
			}
			// If counts are equal, sort by name
			return rows[i].Teacher < rows[j].Teacher
		})
	case SortByEmail:
		sort.SliceStable(rows, func(i, j int) bool {
			return compareByEmail(rows[i], rows[j])
		})
	}
}

// compareByEmail puts teachers without an email first, so that missing
// contacts stand out, then orders by name.
func compareByEmail(i, j render.Row) bool {
	iMissing := i.Email == ""
	jMissing := j.Email == ""
	if iMissing != jMissing {
		return iMissing
	}
	return i.Teacher < j.Teacher
}
