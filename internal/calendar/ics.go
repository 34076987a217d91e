// Package calendar exports teacher visits as iCalendar (.ics) events.
package calendar

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cyberpills/avisos/internal/logger"
	"github.com/cyberpills/avisos/internal/render"
	"github.com/cyberpills/avisos/internal/schedule"
	"github.com/google/uuid"
)

const (
	// DefaultDuration is the length of a class slot without an explicit end time.
	DefaultDuration = 55 * time.Minute
	// DefaultName is the X-WR-CALNAME of exported calendars.
	DefaultName = "CyberPills - Visitas"

	prodID = "-//CyberPills//avisos//ES"
)

// uidNamespace scopes the name-based UUIDs so that the same visit keeps its
// UID across exports.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://cyberpills.es/avisos/visits"))

// "10/02/2026 (Martes) 09:00" or "10/02/2026 (Martes) 09:00 - 09:55"
var slotPattern = regexp.MustCompile(`^\s*(\d{1,2})/(\d{1,2})/(\d{4})\s*(?:\([^)]*\))?\s*(\d{1,2})[:.](\d{2})(?:\s*-\s*(\d{1,2})[:.](\d{2}))?`)

// Event is one calendar event: a visit in the timetable of a teacher.
type Event struct {
	UID         string
	Teacher     string
	Email       string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// ParseSlot reads the start and end of a slot header. Times are floating
// (no zone), like the timetable itself.
func ParseSlot(header string) (start, end time.Time, ok bool) {
	m := slotPattern.FindStringSubmatch(header)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	start, ok = clock(year, month, day, m[4], m[5])
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	end = start.Add(DefaultDuration)
	if m[6] != "" {
		if t, ok := clock(year, month, day, m[6], m[7]); ok && t.After(start) {
			end = t
		}
	}

	return start, end, true
}

func clock(year, month, day int, hh, mm string) (time.Time, bool) {
	hour, _ := strconv.Atoi(hh)
	minute, _ := strconv.Atoi(mm)
	if hour > 23 || minute > 59 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	// time.Date normalizes 31/02 into March
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// Events converts a report into calendar events. Entries whose slot header
// has no recognizable date and time are counted in skipped.
func Events(report *render.Report) (events []Event, skipped int) {
	for _, row := range report.Rows {
		for _, e := range row.Entries {
			start, end, ok := ParseSlot(e.Header)
			if !ok {
				skipped++
				logger.Debug("Slot without date", logger.Fields{"teacher": row.Teacher, "slot": e.Header})
				continue
			}
			events = append(events, newEvent(row, e, start, end))
		}
	}
	return events, skipped
}

func newEvent(row render.Row, e schedule.Entry, start, end time.Time) Event {
	summary := fmt.Sprintf("CyberPill %s - %s", e.Group, e.Timing)

	description := fmt.Sprintf("Profesor/a: %s\nMomento: %s", row.Teacher, e.Timing)
	if e.Comment != "" {
		description = fmt.Sprintf("%s\n%s", description, e.Comment)
	}

	return Event{
		UID:         uuid.NewSHA1(uidNamespace, []byte(row.Teacher+"\x00"+e.String())).String(),
		Teacher:     row.Teacher,
		Email:       row.Email,
		Summary:     summary,
		Description: description,
		Start:       start,
		End:         end,
	}
}

// GenerateBulkICS generates one calendar holding every event. It returns ""
// when there are no events.
func GenerateBulkICS(events []Event, calendarName string, now time.Time) string {
	if len(events) == 0 {
		return ""
	}

	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString(fmt.Sprintf("PRODID:%s\r\n", prodID))
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	if calendarName != "" {
		ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(calendarName)))
	}

	for _, evt := range events {
		writeEvent(&ics, evt, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

func writeEvent(ics *strings.Builder, evt Event, now time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:%s\r\n", evt.UID))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(now)))
	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatFloating(evt.Start)))
	ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatFloating(evt.End)))
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(evt.Summary)))
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(evt.Description)))
	if evt.Email != "" {
		ics.WriteString(fmt.Sprintf("ATTENDEE;CN=%s:mailto:%s\r\n", quoteParam(evt.Teacher), evt.Email))
	}
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// Writer writes a report as an .ics file.
type Writer struct {
	Name string
	Now  func() time.Time
}

func (w *Writer) Write(path string, report *render.Report) error {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	name := w.Name
	if name == "" {
		name = DefaultName
	}

	events, skipped := Events(report)
	if skipped > 0 {
		logger.Warn("Entries without a parseable slot were left out of the calendar", logger.Fields{"skipped": skipped})
	}

	content := GenerateBulkICS(events, name, now())
	if content == "" {
		// Still a valid, empty calendar
		content = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + prodID + "\r\nEND:VCALENDAR\r\n"
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write calendar %s: %w", path, err)
	}
	return nil
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatFloating(t time.Time) string {
	return t.Format("20060102T150405")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func quoteParam(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "'") + `"`
}
