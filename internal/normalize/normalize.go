// Package normalize turns raw free-text log fields into the fixed display
// strings written to the record sheets. Every function is total: malformed
// input degrades to a best-effort string instead of failing the row.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Ellipsis marks display text cut at a cap.
const Ellipsis = "…(略)"

// NotMeasured is shown when the daily log carries no temperature.
const NotMeasured = "未検温"

// Support method categories derived from the remarks column.
const (
	MethodAtHome = "利用者宅"
	MethodOffice = "事業所"
)

var (
	colonTime    = regexp.MustCompile(`^([0-9]{1,2}):([0-9]{2})(?::[0-9]{2})?$`)
	kanjiTime    = regexp.MustCompile(`^([0-9]{1,2})時([0-9]{1,2})分$`)
	embeddedTime = regexp.MustCompile(`[0-9]{1,2}:[0-9]{2}`)
)

// Date trims s and replaces hyphen separators with slashes. Calendar
// correctness is not checked.
func Date(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "-", "/")
}

type clockTime struct {
	hour   int
	minute int
}

func (t clockTime) display() string {
	return fmt.Sprintf("%d時%02d分", t.hour, t.minute)
}

func parseClock(s string) (clockTime, bool) {
	s = strings.TrimSpace(s)
	m := colonTime.FindStringSubmatch(s)
	if m == nil {
		m = kanjiTime.FindStringSubmatch(s)
	}
	if m == nil {
		return clockTime{}, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return clockTime{hour: hour, minute: minute}, true
}

// TimeRange renders a start/end pair as "9時00分～17時30分". A side that does
// not parse as "H:MM(:SS)" or "H時M分" falls back to its raw trimmed text;
// when neither parses the raw strings are joined with a full-width tilde.
func TimeRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return ""
	}

	from, okFrom := parseClock(start)
	to, okTo := parseClock(end)
	switch {
	case okFrom && okTo:
		return from.display() + "～" + to.display()
	case okFrom:
		return from.display()
	case okTo:
		return to.display()
	default:
		return start + "～" + end
	}
}

// SupportMethod classifies the remarks text as an in-home or in-office visit.
// 在宅 without 通所 means the service was delivered at the person's home.
func SupportMethod(remarks string) string {
	if strings.Contains(remarks, "在宅") && !strings.Contains(remarks, "通所") {
		return MethodAtHome
	}
	return MethodOffice
}

// ContactNote splits free text on embedded "H:MM" tokens and renders each
// segment as "{time} {message}", newline-joined in original order. Messages
// longer than limit runes are cut and suffixed with the ellipsis marker. Text
// without any time token is a single capped segment.
func ContactNote(text string, limit int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	locs := embeddedTime.FindAllStringIndex(text, -1)
	if locs == nil {
		return Truncate(text, limit)
	}

	var lines []string
	if head := strings.TrimSpace(text[:locs[0][0]]); head != "" {
		lines = append(lines, Truncate(head, limit))
	}
	for i, loc := range locs {
		token := text[loc[0]:loc[1]]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		message := strings.TrimSpace(text[loc[1]:end])
		line := token
		if message != "" {
			line += " " + Truncate(message, limit)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Temperature renders the vitals temperature, substituting the not-measured
// token for a blank value.
func Temperature(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotMeasured
	}
	return s + "℃"
}

// Truncate cuts s to limit runes, marking the cut with the ellipsis suffix.
// Text at or under the limit passes through unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + Ellipsis
}
