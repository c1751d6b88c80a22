package domain

import "strings"

// Attendance ledger columns. The ledger is exported by the case management
// system with fixed Japanese headers.
const (
	ColOffice       = "事業所名"
	ColPerson       = "氏名"
	ColVisitDate    = "年月日"
	ColStatus       = "出欠等"
	ColStartTime    = "実績開始時間"
	ColEndTime      = "実績終了時間"
	ColRemarks      = "備考"
	ColDayReport    = "日報"
	ColSheetRemarks = "実績記録票備考欄"
)

// Attendance status codes found in the 出欠等 column.
const (
	StatusAttended       = "出席"
	StatusAbsenceHandled = "欠席時対応"
)

// Daily log columns.
const (
	ColTemperature = "体温"
)

// RequiredAttendanceColumns must all be present in the attendance ledger
// header before a run may proceed.
var RequiredAttendanceColumns = []string{
	ColOffice,
	ColPerson,
	ColVisitDate,
	ColStatus,
	ColStartTime,
	ColEndTime,
}

// ProgramSlot names the label/detail column pair for one time-of-day slot in
// the daily log.
type ProgramSlot struct {
	Label  string
	Detail string
}

// ProgramSlots lists the four daily log slots in display order.
var ProgramSlots = []ProgramSlot{
	{Label: "午前のプログラム", Detail: "午前のプログラム詳細"},
	{Label: "午後1のプログラム", Detail: "午後1のプログラム詳細"},
	{Label: "午後2のプログラム", Detail: "午後2のプログラム詳細"},
	{Label: "終日のプログラム", Detail: "終日のプログラム詳細"},
}

// TabularRecord is one parsed row of an input log, keyed by trimmed column
// name. Values stay text until a normalizer interprets them.
type TabularRecord map[string]string

// Get returns the trimmed value for key, or "" when the column is absent.
func (r TabularRecord) Get(key string) string {
	return r[key]
}

// Has reports whether the record carries the column at all.
func (r TabularRecord) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// FirstOf returns the first non-empty value among the candidate columns.
func (r TabularRecord) FirstOf(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(r[key]); v != "" {
			return v
		}
	}
	return ""
}

// AttendanceRow is a TabularRecord taken from the visit ledger.
type AttendanceRow struct {
	TabularRecord
}

func (a AttendanceRow) Office() string       { return a.Get(ColOffice) }
func (a AttendanceRow) Person() string       { return a.Get(ColPerson) }
func (a AttendanceRow) VisitDate() string    { return a.Get(ColVisitDate) }
func (a AttendanceRow) Status() string       { return a.Get(ColStatus) }
func (a AttendanceRow) StartTime() string    { return a.Get(ColStartTime) }
func (a AttendanceRow) EndTime() string      { return a.Get(ColEndTime) }
func (a AttendanceRow) Remarks() string      { return a.Get(ColRemarks) }
func (a AttendanceRow) DayReport() string    { return a.Get(ColDayReport) }
func (a AttendanceRow) SheetRemarks() string { return a.Get(ColSheetRemarks) }

// Attended reports whether the row produces an output sheet.
func (a AttendanceRow) Attended() bool {
	return a.Status() == StatusAttended
}

// DailyLogRecord is a TabularRecord taken from the daily activity/vitals log.
// The zero value acts as the all-empty surrogate for dates missing from the
// join index.
type DailyLogRecord struct {
	TabularRecord
}

func (d DailyLogRecord) Temperature() string { return d.Get(ColTemperature) }
