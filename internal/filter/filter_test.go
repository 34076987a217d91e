package filter

import (
	"testing"

	"github.com/cyberpills/avisos/internal/schedule"
)

func entry(header, group string) schedule.Entry {
	return schedule.Entry{Header: header, Group: group, Timing: schedule.TimingStart}
}

func testIndex() *schedule.Index {
	ix := schedule.NewIndex()
	ix.AddEntry("Laura Gil", entry("10/02/2026 (Martes) 09:00", "1º ESO A"))
	ix.AddEntry("Laura Gil", entry("12/02/2026 (Jueves) 11:00", "1º Bachillerato"))
	ix.AddEntry("Marta Sanz", entry("11/02/2026 (Miércoles) 10:00", "2º ESO B"))
	ix.AddEntry("José María Ruiz", entry("10/02/2026 (Martes) 09:00", "1º ESO A"))
	return ix
}

func TestFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{name: "empty filter", filter: NewFilter(), want: true},
		{name: "filter with teacher", filter: &Filter{Teachers: []string{"gil"}}, want: false},
		{name: "filter with group", filter: &Filter{Groups: []string{"ESO"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.want {
				t.Errorf("Filter.IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_MatchesTeacher(t *testing.T) {
	tests := []struct {
		name    string
		terms   []string
		teacher string
		want    bool
	}{
		{name: "no terms match all", teacher: "Laura Gil", want: true},
		{name: "single word", terms: []string{"gil"}, teacher: "Laura Gil", want: true},
		{name: "all words required", terms: []string{"Laura Ruiz"}, teacher: "Laura Gil", want: false},
		{name: "accents ignored", terms: []string{"jose maria"}, teacher: "José María Ruiz", want: true},
		{name: "any term", terms: []string{"sanz", "gil"}, teacher: "Laura Gil", want: true},
		{name: "word not substring", terms: []string{"lau"}, teacher: "Laura Gil", want: false},
		{name: "punctuation only term", terms: []string{"!!"}, teacher: "Laura Gil", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Filter{Teachers: tt.terms}
			if got := f.MatchesTeacher(tt.teacher); got != tt.want {
				t.Errorf("MatchesTeacher(%q) = %v, want %v", tt.teacher, got, tt.want)
			}
		})
	}
}

func TestFilter_MatchesEntry(t *testing.T) {
	f := &Filter{Groups: []string{" eso "}}

	if !f.MatchesEntry(entry("x", "2º ESO B")) {
		t.Error("Group match should be case-insensitive")
	}
	if f.MatchesEntry(entry("x", "1º Bachillerato")) {
		t.Error("Bachillerato should not match ESO")
	}
}

func TestFilter_Apply(t *testing.T) {
	ix := testIndex()

	t.Run("empty filter returns input", func(t *testing.T) {
		if got := NewFilter().Apply(ix); got != ix {
			t.Error("Empty filter should return the same index")
		}
	})

	t.Run("teacher and group", func(t *testing.T) {
		f := &Filter{Teachers: []string{"laura"}, Groups: []string{"ESO"}}
		got := f.Apply(ix)

		if got.Len() != 1 {
			t.Fatalf("Expected 1 teacher, got %d", got.Len())
		}
		entries := got.Entries("Laura Gil")
		if len(entries) != 1 || entries[0].Group != "1º ESO A" {
			t.Errorf("Unexpected entries: %+v", entries)
		}
	})

	t.Run("teachers without matching entries dropped", func(t *testing.T) {
		f := &Filter{Groups: []string{"Bachillerato"}}
		got := f.Apply(ix)

		if teachers := got.Teachers(); len(teachers) != 1 || teachers[0] != "Laura Gil" {
			t.Errorf("Teachers() = %v, want [Laura Gil]", teachers)
		}
	})

	t.Run("input untouched", func(t *testing.T) {
		(&Filter{Teachers: []string{"sanz"}}).Apply(ix)
		if ix.Len() != 3 || ix.EntryCount() != 4 {
			t.Errorf("Apply modified its input: %d teachers, %d entries", ix.Len(), ix.EntryCount())
		}
	})
}

func TestFilter_String(t *testing.T) {
	if got := NewFilter().String(); got != "No active filters" {
		t.Errorf("String() = %q", got)
	}

	f := &Filter{Teachers: []string{"marta", "gil"}, Groups: []string{"ESO"}}
	if got, want := f.String(), "Teachers: marta, gil | Groups: ESO"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
