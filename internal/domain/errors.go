package domain

import (
	"errors"
	"fmt"
)

// Run-terminal errors. None of these are retried; each is surfaced to the
// invoking surface as a single message.
var (
	// ErrDecode is returned when no supported encoding decodes an input log.
	ErrDecode = errors.New("no supported text encoding matched")

	// ErrEmptyInput is returned when an input log parses to zero data rows.
	ErrEmptyInput = errors.New("input log contains no data rows")

	// ErrTemplateNotFound is returned when the template workbook is absent.
	ErrTemplateNotFound = errors.New("template workbook not found")

	// ErrMissingFormatSheet is returned when the template lacks the
	// designated format sheet.
	ErrMissingFormatSheet = errors.New("format sheet not found in template")

	// ErrCancelled is returned when the caller declines to overwrite an
	// existing output file. It terminates the run cleanly.
	ErrCancelled = errors.New("run cancelled before overwrite")

	// ErrFileInUse is returned when the output file is locked by another
	// process at save time.
	ErrFileInUse = errors.New("output file is in use by another process")

	// ErrPersistence covers save failures other than a locked target.
	ErrPersistence = errors.New("failed to persist output workbook")
)

// SchemaError reports a required attendance column missing from the header.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("attendance log is missing required column %q", e.Column)
}

// MonthMismatchError reports input file names that disagree on the period
// encoded in their _YYYYMM tokens.
type MonthMismatchError struct {
	AttendanceMonth string
	DailyMonth      string
}

func (e *MonthMismatchError) Error() string {
	return fmt.Sprintf("input logs disagree on period: attendance=%s daily=%s", e.AttendanceMonth, e.DailyMonth)
}
