package csvutil

import (
	"bytes"
	"strings"
	"testing"
)

func TestExportWriter_BOMPrefix(t *testing.T) {
	var buf bytes.Buffer
	w := NewExportWriter(&buf)
	if err := w.WriteAll([][]string{
		{"メンバー名", "稼働時間合計(h)", "集計期間"},
		{"田中 太郎", "42.5", "2026-08-01 〜 2026-08-31"},
	}); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\ufeff") {
		t.Fatal("output is missing the UTF-8 BOM")
	}
	if strings.Count(out, "\ufeff") != 1 {
		t.Errorf("BOM written more than once:\n%s", out)
	}

	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(out, "\ufeff"), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if lines[0] != "メンバー名,稼働時間合計(h),集計期間" {
		t.Errorf("header = %q", lines[0])
	}
}

func TestExportWriter_QuotesCommas(t *testing.T) {
	var buf bytes.Buffer
	w := NewExportWriter(&buf)
	if err := w.WriteAll([][]string{{`Doe, John "JD"`, "8"}}); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	want := "\ufeff\"Doe, John \"\"JD\"\"\",8\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestExportWriter_EmptyFlush(t *testing.T) {
	var buf bytes.Buffer
	w := NewExportWriter(&buf)
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty writer produced output %q", buf.String())
	}
}
