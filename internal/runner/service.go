// Package runner orchestrates one generation run: load both logs, validate,
// join, assemble sheets, and commit the finished workbook.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ymoriya/shienkiroku/internal/assemble"
	"github.com/ymoriya/shienkiroku/internal/config"
	"github.com/ymoriya/shienkiroku/internal/daily"
	"github.com/ymoriya/shienkiroku/internal/domain"
	"github.com/ymoriya/shienkiroku/internal/normalize"
	"github.com/ymoriya/shienkiroku/internal/tabular"
)

// ConfirmFunc decides whether an existing output file may be overwritten.
type ConfirmFunc func(path string) bool

// monthToken matches the _YYYYMM period token embedded in input file names.
var monthToken = regexp.MustCompile(`_([0-9]{6})`)

const (
	placeholderPerson = "利用者"
	sampleToken       = "sample"
)

// Service runs the join-and-assembly pipeline. One Run per invocation; no
// state survives between runs.
type Service struct {
	cfg     config.Config
	log     *zap.Logger
	confirm ConfirmFunc
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger replaces the default no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithConfirm installs the overwrite decision hook.
func WithConfirm(confirm ConfirmFunc) Option {
	return func(s *Service) {
		if confirm != nil {
			s.confirm = confirm
		}
	}
}

// NewService creates a runner with the given configuration. Without a
// confirm hook an existing output file cancels the run.
func NewService(cfg config.Config, opts ...Option) *Service {
	service := &Service{
		cfg:     cfg,
		log:     zap.NewNop(),
		confirm: func(string) bool { return false },
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Request carries the three resolved paths and the output directory for one
// run.
type Request struct {
	AttendancePath string
	DailyPath      string
	TemplatePath   string
	OutputDir      string
}

// Result summarizes a completed run.
type Result struct {
	OutputPath    string
	RowsRead      int
	SheetsEmitted int
	RowsSkipped   int
}

// Run executes one generation run to completion. Every failure is terminal;
// nothing is retried.
func (s *Service) Run(ctx context.Context, req Request) (Result, error) {
	runID := uuid.New()
	log := s.log.With(zap.String("run_id", runID.String()))

	attendancePath, dailyPath := s.resolveRoles(req.AttendancePath, req.DailyPath, log)

	if err := checkMonthConsistency(attendancePath, dailyPath); err != nil {
		return Result{}, err
	}

	attendance, err := tabular.ReadFile(attendancePath)
	if err != nil {
		return Result{}, err
	}
	if err := checkAttendanceSchema(attendance); err != nil {
		return Result{}, err
	}
	dailyTable, err := tabular.ReadFile(dailyPath)
	if err != nil {
		return Result{}, err
	}
	log.Info("input logs loaded",
		zap.Int("attendance_rows", len(attendance.Records)),
		zap.Int("daily_rows", len(dailyTable.Records)),
		zap.String("attendance_encoding", attendance.Encoding),
		zap.String("daily_encoding", dailyTable.Encoding))

	index := daily.BuildIndex(dailyTable, s.cfg.DateColumns)
	log.Info("join index built",
		zap.String("date_column", index.DateColumn()),
		zap.Int("dates", index.Len()))

	file, err := openTemplate(req.TemplatePath, s.cfg.FormatSheet)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = file.Close() }()

	purgeSampleSheets(file, s.cfg.FormatSheet)

	result := Result{RowsRead: len(attendance.Records)}
	asm := assemble.New(file, s.cfg)
	firstEmitted := ""
	for _, record := range attendance.Records {
		row := domain.AttendanceRow{TabularRecord: record}
		day := index.Lookup(normalize.Date(row.VisitDate()))
		title, emitted, err := asm.Append(row, day)
		if err != nil {
			return Result{}, err
		}
		if !emitted {
			result.RowsSkipped++
			continue
		}
		result.SheetsEmitted++
		if firstEmitted == "" {
			firstEmitted = title
		}
	}

	purgeSampleSheets(file, s.cfg.FormatSheet)

	if err := file.SetSheetVisible(s.cfg.FormatSheet, false); err != nil {
		return Result{}, fmt.Errorf("hide format sheet: %w", err)
	}
	if firstEmitted != "" {
		if idx, err := file.GetSheetIndex(firstEmitted); err == nil && idx >= 0 {
			file.SetActiveSheet(idx)
		}
	}

	result.OutputPath = filepath.Join(req.OutputDir, s.outputFileName(attendance, attendancePath, dailyPath))
	if err := s.commit(file, result.OutputPath); err != nil {
		return Result{}, err
	}

	log.Info("run completed",
		zap.Int("rows_read", result.RowsRead),
		zap.Int("sheets_emitted", result.SheetsEmitted),
		zap.Int("rows_skipped", result.RowsSkipped),
		zap.String("output", result.OutputPath))
	return result, nil
}

// resolveRoles corrects a swapped attendance/daily pair based on the file
// name conventions of the exporting system.
func (s *Service) resolveRoles(attendancePath, dailyPath string, log *zap.Logger) (string, string) {
	if looksLikeDailyLog(attendancePath) && !looksLikeDailyLog(dailyPath) {
		log.Warn("input files appear swapped, correcting",
			zap.String("attendance", dailyPath),
			zap.String("daily", attendancePath))
		return dailyPath, attendancePath
	}
	return attendancePath, dailyPath
}

func looksLikeDailyLog(path string) bool {
	return strings.Contains(strings.ToLower(filepath.Base(path)), "daily")
}

func checkAttendanceSchema(table tabular.Table) error {
	if len(table.Records) == 0 {
		return domain.ErrEmptyInput
	}
	first := table.Records[0]
	for _, column := range domain.RequiredAttendanceColumns {
		if !first.Has(column) {
			return &domain.SchemaError{Column: column}
		}
	}
	return nil
}

func checkMonthConsistency(attendancePath, dailyPath string) error {
	attendanceMonth := extractMonthToken(attendancePath)
	dailyMonth := extractMonthToken(dailyPath)
	if attendanceMonth != "" && dailyMonth != "" && attendanceMonth != dailyMonth {
		return &domain.MonthMismatchError{AttendanceMonth: attendanceMonth, DailyMonth: dailyMonth}
	}
	return nil
}

func extractMonthToken(path string) string {
	m := monthToken.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return ""
	}
	return m[1]
}

func openTemplate(path, formatSheet string) (*excelize.File, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, path)
	}
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open template %s: %w", path, err)
	}
	idx, err := file.GetSheetIndex(formatSheet)
	if err != nil || idx < 0 {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %q", domain.ErrMissingFormatSheet, formatSheet)
	}
	return file, nil
}

// purgeSampleSheets removes every sheet whose name contains "sample",
// case-insensitively. Names are collected before deleting so the sheet list
// is never mutated mid-iteration.
func purgeSampleSheets(file *excelize.File, formatSheet string) {
	var doomed []string
	for _, name := range file.GetSheetList() {
		if name == formatSheet {
			continue
		}
		if strings.Contains(strings.ToLower(name), sampleToken) {
			doomed = append(doomed, name)
		}
	}
	for _, name := range doomed {
		_ = file.DeleteSheet(name)
	}
}

// outputFileName is {person|placeholder}_{YYYYMM}_{suffix}.xlsx. The period
// comes from either file-name token, else from the first attendance row's
// date. A period that cannot be derived at all drops out of the name.
func (s *Service) outputFileName(attendance tabular.Table, attendancePath, dailyPath string) string {
	person := placeholderPerson
	if len(attendance.Records) > 0 {
		if name := attendance.Records[0].Get(domain.ColPerson); name != "" {
			person = name
		}
	}

	month := extractMonthToken(attendancePath)
	if month == "" {
		month = extractMonthToken(dailyPath)
	}
	if month == "" && len(attendance.Records) > 0 {
		date := normalize.Date(attendance.Records[0].Get(domain.ColVisitDate))
		digits := strings.ReplaceAll(date, "/", "")
		if len(digits) >= 6 {
			month = digits[:6]
		}
	}

	parts := []string{person}
	if month != "" {
		parts = append(parts, month)
	}
	parts = append(parts, s.cfg.OutputSuffix)
	return strings.Join(parts, "_") + ".xlsx"
}

// commit persists the workbook exactly once: the caller confirms overwrites,
// the file lands via a temp file renamed into place.
func (s *Service) commit(file *excelize.File, outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		if !s.confirm(outputPath) {
			return fmt.Errorf("%w: %s", domain.ErrCancelled, outputPath)
		}
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	temp, err := os.CreateTemp(dir, ".shienkiroku-*.xlsx")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	tempPath := temp.Name()
	if err := file.Write(temp); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := os.Rename(tempPath, outputPath); err != nil {
		_ = os.Remove(tempPath)
		return classifySaveError(outputPath, err)
	}
	return nil
}

// classifySaveError separates a target held open by another process from
// other save failures.
func classifySaveError(outputPath string, cause error) error {
	if isFileLocked(cause) {
		return fmt.Errorf("%w: %s", domain.ErrFileInUse, outputPath)
	}
	return fmt.Errorf("%w: %v", domain.ErrPersistence, cause)
}

// isFileLocked matches only the busy errno classes; permission and path
// failures stay persistence errors.
func isFileLocked(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	return errno == syscall.EBUSY || errno == syscall.ETXTBSY
}
