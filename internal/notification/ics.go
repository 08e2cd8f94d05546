package notification

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BuildShiftICS renders a single-event calendar for a shift. Date is
// "YYYY-MM-DD", start and end are "HH:MM". Times are written as
// floating local time so the event lands on the wall-clock slot
// regardless of the recipient's timezone setting.
func BuildShiftICS(title, date, start, end, description string) string {
	stamp := icsDateTime(date, start)
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Zono//Shift//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:%s@zono.local", uuid.New().String()),
		fmt.Sprintf("DTSTAMP:%s", stamp),
		fmt.Sprintf("DTSTART:%s", stamp),
		fmt.Sprintf("DTEND:%s", icsDateTime(date, end)),
		fmt.Sprintf("SUMMARY:%s", escapeICS(title)),
		fmt.Sprintf("DESCRIPTION:%s", escapeICS(description)),
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n")
}

// icsDateTime turns "2026-03-01" + "09:30" into "20260301T093000".
func icsDateTime(date, clock string) string {
	d := strings.ReplaceAll(date, "-", "")
	c := strings.ReplaceAll(clock, ":", "")
	return d + "T" + c + "00"
}

func escapeICS(s string) string {
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
