package schedule

import (
	"fmt"
	"strings"
)

// Timing is the coarse position of a visit within its class period.
type Timing string

const (
	TimingStart  Timing = "Principios clase"
	TimingMiddle Timing = "Mitad clase"
	TimingEnd    Timing = "Final clase"
	TimingDuring Timing = "Durante clase"
)

// UnknownGroup is used when a visit carries no group div.
const UnknownGroup = "Desconocido"

// TimingFor maps the zero-based position of a visit inside its cell to a Timing.
func TimingFor(position int) Timing {
	switch position {
	case 0:
		return TimingStart
	case 1:
		return TimingMiddle
	case 2:
		return TimingEnd
	default:
		return TimingDuring
	}
}

// RowContext holds the date, weekday and time slot of a table row.
type RowContext struct {
	Date string `json:"date"`
	Day  string `json:"day"`
	Time string `json:"time"`
}

// Header formats the row context as "date (day) time".
func (r RowContext) Header() string {
	return fmt.Sprintf("%s (%s) %s", r.Date, r.Day, r.Time)
}

// Visit is a single CyberPill delivery extracted from the schedule.
type Visit struct {
	Row       RowContext `json:"row"`
	Group     string     `json:"group"`
	PillTitle string     `json:"pill_title,omitempty"`
	PillBody  string     `json:"pill_body,omitempty"`
	Teachers  []string   `json:"teachers"`
	Position  int        `json:"position"`
}

// Timing returns the label derived from the visit position.
func (v Visit) Timing() Timing {
	return TimingFor(v.Position)
}

// Comment combines pill title and body: "title: body" when both are present,
// otherwise whichever is set.
func (v Visit) Comment() string {
	if v.PillTitle != "" && v.PillBody != "" {
		return v.PillTitle + ": " + v.PillBody
	}
	if v.PillTitle != "" {
		return v.PillTitle
	}
	return v.PillBody
}

// Entry builds the per-teacher schedule entry for this visit.
func (v Visit) Entry() Entry {
	return Entry{
		Header:  v.Row.Header(),
		Group:   v.Group,
		Timing:  v.Timing(),
		Comment: v.Comment(),
	}
}

// Entry is one line of a teacher's aviso.
type Entry struct {
	Header  string `json:"header"`
	Group   string `json:"group"`
	Timing  Timing `json:"timing"`
	Comment string `json:"comment"`
}

// String returns the single-line formatted entry. Two entries are the same
// schedule line exactly when their strings are equal.
func (e Entry) String() string {
	return fmt.Sprintf("%s | <strong>Grupo:</strong> %s | <span class='timing'>%s</span> | <span class='comment'>%s</span>",
		e.Header, e.Group, e.Timing, e.Comment)
}

// NormalizeTeacherName trims the name and collapses inner whitespace runs
// into single spaces.
func NormalizeTeacherName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
