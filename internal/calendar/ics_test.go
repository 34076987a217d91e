package calendar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cyberpills/avisos/internal/render"
	"github.com/cyberpills/avisos/internal/schedule"
)

var fixedNow = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

func testReport() *render.Report {
	return &render.Report{
		Rows: []render.Row{
			{
				Teacher: "Laura Gil",
				Email:   "laura.gil@iesejemplo.es",
				Entries: []schedule.Entry{
					{Header: "10/02/2026 (Martes) 09:00", Group: "1º ESO A", Timing: schedule.TimingStart, Comment: "Contraseñas: Usa frases, no palabras"},
					{Header: "11/02/2026 (Miércoles) 10:00 - 10:50", Group: "2º ESO B", Timing: schedule.TimingMiddle},
				},
			},
			{
				Teacher: "Pedro Núñez",
				Entries: []schedule.Entry{
					{Header: "Semana cultural", Group: "3º ESO B", Timing: schedule.TimingEnd},
				},
			},
		},
	}
}

func TestParseSlot(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantOK    bool
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "date day and time",
			header:    "10/02/2026 (Martes) 09:00",
			wantOK:    true,
			wantStart: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 2, 10, 9, 55, 0, 0, time.UTC),
		},
		{
			name:      "explicit end",
			header:    "11/02/2026 (Miércoles) 10:00 - 10:50",
			wantOK:    true,
			wantStart: time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 2, 11, 10, 50, 0, 0, time.UTC),
		},
		{
			name:      "no weekday and dotted time",
			header:    "3/3/2026 8.30",
			wantOK:    true,
			wantStart: time.Date(2026, 3, 3, 8, 30, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 3, 9, 25, 0, 0, time.UTC),
		},
		{
			name:      "end before start falls back to default duration",
			header:    "10/02/2026 (Martes) 09:00 - 08:00",
			wantOK:    true,
			wantStart: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 2, 10, 9, 55, 0, 0, time.UTC),
		},
		{name: "impossible date", header: "31/02/2026 (Martes) 09:00"},
		{name: "impossible hour", header: "10/02/2026 (Martes) 25:00"},
		{name: "free text", header: "Semana cultural"},
		{name: "empty", header: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := ParseSlot(tt.header)
			if ok != tt.wantOK {
				t.Fatalf("ParseSlot(%q) ok = %v, want %v", tt.header, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestEvents(t *testing.T) {
	events, skipped := Events(testReport())

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if skipped != 1 {
		t.Errorf("Expected 1 skipped entry, got %d", skipped)
	}

	evt := events[0]
	if evt.Summary != "CyberPill 1º ESO A - Principios clase" {
		t.Errorf("Unexpected summary: %q", evt.Summary)
	}
	if !strings.Contains(evt.Description, "Contraseñas: Usa frases, no palabras") {
		t.Errorf("Description should carry the comment: %q", evt.Description)
	}
	if evt.Email != "laura.gil@iesejemplo.es" {
		t.Errorf("Unexpected email: %q", evt.Email)
	}
	if events[0].UID == events[1].UID {
		t.Error("Events should have distinct UIDs")
	}
}

func TestEvents_StableUID(t *testing.T) {
	first, _ := Events(testReport())
	second, _ := Events(testReport())

	for i := range first {
		if first[i].UID != second[i].UID {
			t.Errorf("UID changed between exports: %s vs %s", first[i].UID, second[i].UID)
		}
	}
}

func TestGenerateBulkICS(t *testing.T) {
	events, _ := Events(testReport())
	ics := GenerateBulkICS(events, "Visitas - Test", fixedNow)

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//CyberPills//avisos//ES",
		"X-WR-CALNAME:Visitas - Test",
		"DTSTAMP:20260201T080000Z",
		"DTSTART:20260210T090000",
		"DTEND:20260210T095500",
		"DTEND:20260211T105000",
		"SUMMARY:CyberPill 1º ESO A - Principios clase",
		"DESCRIPTION:Profesor/a: Laura Gil\\nMomento: Principios clase\\nContraseñas: Usa frases\\, no palabras",
		"ATTENDEE;CN=\"Laura Gil\":mailto:laura.gil@iesejemplo.es",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	for _, field := range requiredFields {
		if !strings.Contains(ics, field) {
			t.Errorf("ICS missing required field: %s", field)
		}
	}

	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("Expected 2 BEGIN:VEVENT, got %d", got)
	}
	if strings.Contains(ics, "Pedro") {
		t.Error("Entry without a parseable slot should not be exported")
	}
}

func TestGenerateBulkICS_EmptyEvents(t *testing.T) {
	if ics := GenerateBulkICS(nil, "Test Calendar", fixedNow); ics != "" {
		t.Error("Empty events array should return empty string")
	}
}

func TestEscapeICS(t *testing.T) {
	got := escapeICS("a; b, c\\d\ne")
	want := `a\; b\, c\\d\ne`
	if got != want {
		t.Errorf("escapeICS() = %q, want %q", got, want)
	}
}

func TestWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avisos.ics")
	w := &Writer{Now: func() time.Time { return fixedNow }}

	if err := w.Write(path, testReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "X-WR-CALNAME:"+DefaultName) {
		t.Error("Missing default calendar name")
	}
	if !strings.Contains(content, "\r\n") {
		t.Error("ICS should use \\r\\n line endings")
	}
}

func TestWriter_WriteEmptyReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.ics")
	w := &Writer{}

	if err := w.Write(path, &render.Report{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "BEGIN:VCALENDAR") || strings.Contains(string(data), "VEVENT") {
		t.Errorf("Unexpected empty calendar: %q", data)
	}
}
