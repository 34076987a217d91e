// Package filter narrows a teacher schedule down to selected teachers and
// groups.
//
// Teacher terms match by normalized words: "gil" and "Laura Gil" both select
// "Laura Gil", while "Laura Ruiz" does not. Group terms are case-insensitive
// substrings of the entry group.
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Teachers = []string{"marta"}
//	f.Groups = []string{"ESO"}
//	narrowed := f.Apply(ix)
package filter

import (
	"fmt"
	"strings"

	"github.com/cyberpills/avisos/internal/contacts"
	"github.com/cyberpills/avisos/internal/schedule"
)

// Filter represents schedule filtering criteria
type Filter struct {
	// Every word of one term must appear in the teacher name
	Teachers []string `json:"teachers,omitempty"`

	// Case-insensitive substring of the entry group
	Groups []string `json:"groups,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
func NewFilter() *Filter {
	return &Filter{
		Teachers: []string{},
		Groups:   []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return len(f.Teachers) == 0 && len(f.Groups) == 0
}

// MatchesTeacher reports whether name is selected by one of the teacher
// terms. A term without any word never matches.
func (f *Filter) MatchesTeacher(name string) bool {
	if len(f.Teachers) == 0 {
		return true
	}

	words := contacts.Words(name)
	for _, term := range f.Teachers {
		want := contacts.Words(term)
		if len(want) > 0 && want.SubsetOf(words) {
			return true
		}
	}
	return false
}

// MatchesEntry reports whether the entry group contains one of the group terms.
func (f *Filter) MatchesEntry(e schedule.Entry) bool {
	if len(f.Groups) == 0 {
		return true
	}

	group := strings.ToLower(e.Group)
	for _, g := range f.Groups {
		if strings.Contains(group, strings.ToLower(strings.TrimSpace(g))) {
			return true
		}
	}
	return false
}

// Apply returns the entries of ix that match all active criteria. If the
// filter is empty, returns ix unchanged. Teachers left without entries are
// dropped.
func (f *Filter) Apply(ix *schedule.Index) *schedule.Index {
	if f.IsEmpty() {
		return ix
	}
	if len(f.Groups) == 0 {
		return ix.Filter(f.MatchesTeacher)
	}

	out := schedule.NewIndex()
	for _, name := range ix.Teachers() {
		if !f.MatchesTeacher(name) {
			continue
		}
		for _, e := range ix.Entries(name) {
			if f.MatchesEntry(e) {
				out.AddEntry(name, e)
			}
		}
	}
	return out
}

// String returns a human-readable description of the active filter criteria.
// Format: "Teachers: marta, gil | Groups: ESO"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if len(f.Teachers) > 0 {
		parts = append(parts, fmt.Sprintf("Teachers: %s", strings.Join(f.Teachers, ", ")))
	}

	if len(f.Groups) > 0 {
		parts = append(parts, fmt.Sprintf("Groups: %s", strings.Join(f.Groups, ", ")))
	}

	return strings.Join(parts, " | ")
}
