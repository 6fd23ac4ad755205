// internal/app/system/csvutil/export.go
package csvutil

import (
	"encoding/csv"
	"io"
)

// utf8BOM keeps Excel from misreading Japanese headers as Shift_JIS.
const utf8BOM = "\ufeff"

// ExportWriter writes a BOM-prefixed UTF-8 CSV stream.
type ExportWriter struct {
	w          *csv.Writer
	dst        io.Writer
	bomWritten bool
}

// NewExportWriter wraps dst. The BOM is emitted before the first record.
func NewExportWriter(dst io.Writer) *ExportWriter {
	return &ExportWriter{w: csv.NewWriter(dst), dst: dst}
}

// Write appends one record.
func (e *ExportWriter) Write(record []string) error {
	if !e.bomWritten {
		if _, err := io.WriteString(e.dst, utf8BOM); err != nil {
			return err
		}
		e.bomWritten = true
	}
	return e.w.Write(record)
}

// WriteAll appends every record and flushes.
func (e *ExportWriter) WriteAll(records [][]string) error {
	for _, rec := range records {
		if err := e.Write(rec); err != nil {
			return err
		}
	}
	return e.Flush()
}

// Flush writes buffered records to dst and reports any write error.
func (e *ExportWriter) Flush() error {
	e.w.Flush()
	return e.w.Error()
}
