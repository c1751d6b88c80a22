package normalize

import (
	"strings"
	"testing"
)

func TestDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{" 2025-01-10 ", "2025/01/10"},
		{"2025/01/10", "2025/01/10"},
		{"2025-1-5", "2025/1/5"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := Date(c.in); got != c.want {
			t.Fatalf("Date(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTimeRangeBothSides(t *testing.T) {
	cases := []struct {
		start, end string
		want       string
	}{
		{"9:00", "17:30", "9時00分～17時30分"},
		{"9:00:00", "17:30:15", "9時00分～17時30分"},
		{"9時5分", "17時30分", "9時05分～17時30分"},
		{"09:00", "17:30", "9時00分～17時30分"},
	}
	for _, c := range cases {
		if got := TimeRange(c.start, c.end); got != c.want {
			t.Fatalf("TimeRange(%q, %q) = %q, want %q", c.start, c.end, got, c.want)
		}
	}
}

func TestTimeRangeOneSide(t *testing.T) {
	if got := TimeRange("9:00", ""); got != "9時00分" {
		t.Fatalf("start only = %q, want 9時00分", got)
	}
	if got := TimeRange("", "17:30"); got != "17時30分" {
		t.Fatalf("end only = %q, want 17時30分", got)
	}
	if got := TimeRange("9:00", "ごご"); got != "9時00分" {
		t.Fatalf("unparsable end = %q, want 9時00分", got)
	}
}

func TestTimeRangeFallback(t *testing.T) {
	if got := TimeRange("午前", "午後"); got != "午前～午後" {
		t.Fatalf("raw fallback = %q, want 午前～午後", got)
	}
	if got := TimeRange("", ""); got != "" {
		t.Fatalf("empty pair = %q, want empty", got)
	}
	if got := TimeRange("  ", "  "); got != "" {
		t.Fatalf("blank pair = %q, want empty", got)
	}
}

func TestSupportMethod(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"在宅での支援", MethodAtHome},
		{"在宅から通所へ変更", MethodOffice},
		{"通所", MethodOffice},
		{"", MethodOffice},
	}
	for _, c := range cases {
		if got := SupportMethod(c.in); got != c.want {
			t.Fatalf("SupportMethod(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestContactNoteUntimed(t *testing.T) {
	if got := ContactNote("元気です", 30); got != "元気です" {
		t.Fatalf("short text = %q, want unchanged", got)
	}
	long := strings.Repeat("a", 31)
	want := strings.Repeat("a", 30) + Ellipsis
	if got := ContactNote(long, 30); got != want {
		t.Fatalf("capped text = %q, want %q", got, want)
	}
	if got := ContactNote("", 30); got != "" {
		t.Fatalf("empty text = %q, want empty", got)
	}
}

func TestContactNoteTimedSegments(t *testing.T) {
	got := ContactNote("9:00 朝の会に参加 12:30 昼食を完食", 30)
	want := "9:00 朝の会に参加\n12:30 昼食を完食"
	if got != want {
		t.Fatalf("segments = %q, want %q", got, want)
	}
}

func TestContactNoteLeadingText(t *testing.T) {
	got := ContactNote("本日の連絡 9:00 送迎あり", 30)
	want := "本日の連絡\n9:00 送迎あり"
	if got != want {
		t.Fatalf("leading text = %q, want %q", got, want)
	}
}

func TestContactNoteSegmentCap(t *testing.T) {
	message := strings.Repeat("あ", 35)
	got := ContactNote("10:15 "+message, 30)
	want := "10:15 " + strings.Repeat("あ", 30) + Ellipsis
	if got != want {
		t.Fatalf("capped segment = %q, want %q", got, want)
	}
}

func TestTemperature(t *testing.T) {
	if got := Temperature(""); got != NotMeasured {
		t.Fatalf("empty temperature = %q, want %q", got, NotMeasured)
	}
	if got := Temperature("  "); got != NotMeasured {
		t.Fatalf("blank temperature = %q, want %q", got, NotMeasured)
	}
	if got := Temperature("36.5"); got != "36.5℃" {
		t.Fatalf("temperature = %q, want 36.5℃", got)
	}
}

func TestTruncate(t *testing.T) {
	exact := strings.Repeat("x", 1500)
	if got := Truncate(exact, 1500); got != exact {
		t.Fatalf("text at cap should pass through")
	}
	over := exact + "x"
	if got := Truncate(over, 1500); got != exact+Ellipsis {
		t.Fatalf("text over cap should be cut and marked")
	}
	if got := Truncate("短い", 1500); got != "短い" {
		t.Fatalf("short text = %q, want unchanged", got)
	}
}
