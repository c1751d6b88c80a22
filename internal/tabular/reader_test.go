package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/ymoriya/shienkiroku/internal/domain"
)

func writeFile(t *testing.T, name string, payload []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func encodeShiftJIS(t *testing.T, s string) []byte {
	t.Helper()
	encoded, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(s))
	if err != nil {
		t.Fatalf("encode shift_jis: %v", err)
	}
	return encoded
}

func TestReadFileShiftJIS(t *testing.T) {
	content := "氏名, 出欠等 ,体温\n 山田 ,出席,36.5\n佐藤,欠席,\n"
	path := writeFile(t, "caseMonth_202501.csv", encodeShiftJIS(t, content))

	table, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if table.Encoding != "shift_jis" {
		t.Fatalf("expected shift_jis, got %s", table.Encoding)
	}
	if len(table.Headers) != 3 || table.Headers[1] != "出欠等" {
		t.Fatalf("headers should be trimmed, got %v", table.Headers)
	}
	if len(table.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(table.Records))
	}
	if got := table.Records[0].Get("氏名"); got != "山田" {
		t.Fatalf("values should be trimmed, got %q", got)
	}
	if got := table.Records[1].Get("体温"); got != "" {
		t.Fatalf("missing value should be empty string, got %q", got)
	}
}

func TestReadFileBOM(t *testing.T) {
	payload := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name,status\nyamada,present\n")...)
	path := writeFile(t, "daily.csv", payload)

	table, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if table.Headers[0] != "name" {
		t.Fatalf("BOM should not leak into the first header, got %q", table.Headers[0])
	}
}

func TestReadFileShortRowsPad(t *testing.T) {
	path := writeFile(t, "short.csv", []byte("a,b,c\n1\n"))

	table, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	record := table.Records[0]
	if !record.Has("c") || record.Get("c") != "" {
		t.Fatalf("short row should pad missing columns with empty strings: %v", record)
	}
}

func TestReadFileSkipsBlankRows(t *testing.T) {
	path := writeFile(t, "blank.csv", []byte("a,b\n,\n1,2\n , \n"))

	table, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(table.Records) != 1 {
		t.Fatalf("blank rows should be skipped, got %d records", len(table.Records))
	}
}

func TestReadFileEmpty(t *testing.T) {
	path := writeFile(t, "header_only.csv", []byte("a,b\n"))

	_, err := ReadFile(path)
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}
