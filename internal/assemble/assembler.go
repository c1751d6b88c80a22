// Package assemble instantiates one record sheet per attended visit from the
// template's format sheet.
package assemble

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ymoriya/shienkiroku/internal/config"
	"github.com/ymoriya/shienkiroku/internal/domain"
	"github.com/ymoriya/shienkiroku/internal/normalize"
)

// maxSheetTitle is the workbook limit on sheet name length.
const maxSheetTitle = 31

var forbiddenTitleChars = []string{":", "/", "\\", "?", "*", "[", "]"}

// Assembler folds attendance rows into new sheets on a single workbook. The
// only state carried across rows is the set of titles already taken.
type Assembler struct {
	file *excelize.File
	cfg  config.Config
	used map[string]bool
}

// New prepares an assembler over an open template workbook. Existing sheet
// names are reserved so generated titles never collide with them.
func New(file *excelize.File, cfg config.Config) *Assembler {
	used := make(map[string]bool)
	for _, name := range file.GetSheetList() {
		used[strings.ToLower(name)] = true
	}
	return &Assembler{file: file, cfg: cfg, used: used}
}

// Append emits one sheet for an attendance row, or nothing when the row does
// not qualify. Returns the resolved sheet title and whether a sheet was
// emitted.
func (a *Assembler) Append(row domain.AttendanceRow, day domain.DailyLogRecord) (string, bool, error) {
	if !row.Attended() {
		return "", false, nil
	}
	date := normalize.Date(row.VisitDate())
	if date == "" {
		return "", false, nil
	}

	title := a.resolveTitle(titleBase(date, row.Person()))
	if err := a.copyFormatSheet(title); err != nil {
		return "", false, err
	}
	a.used[strings.ToLower(title)] = true

	if err := a.writeFields(title, row, day, date); err != nil {
		return "", false, err
	}
	return title, true, nil
}

func (a *Assembler) copyFormatSheet(title string) error {
	from, err := a.file.GetSheetIndex(a.cfg.FormatSheet)
	if err != nil {
		return fmt.Errorf("locate format sheet: %w", err)
	}
	if from < 0 {
		return domain.ErrMissingFormatSheet
	}
	to, err := a.file.NewSheet(title)
	if err != nil {
		return fmt.Errorf("create sheet %q: %w", title, err)
	}
	if err := a.file.CopySheet(from, to); err != nil {
		return fmt.Errorf("copy format sheet to %q: %w", title, err)
	}
	return nil
}

func (a *Assembler) writeFields(title string, row domain.AttendanceRow, day domain.DailyLogRecord, date string) error {
	cells := a.cfg.Cells
	fields := []struct {
		cell  string
		value string
	}{
		{cells.Office, row.Office()},
		{cells.Date, date},
		{cells.User, row.Person()},
		{cells.Time, normalize.TimeRange(row.StartTime(), row.EndTime())},
		{cells.Method, normalize.SupportMethod(row.SheetRemarks())},
		{cells.Program, buildProgram(day)},
		{cells.DayReport, row.DayReport()},
		{cells.Temperature, normalize.Temperature(day.Temperature())},
		{cells.Contact, a.contactNote(row, day)},
	}
	for _, f := range fields {
		if err := a.file.SetCellStr(title, f.cell, f.value); err != nil {
			return fmt.Errorf("write cell %s on %q: %w", f.cell, title, err)
		}
	}

	if err := a.shrinkFont(title, cells.Program); err != nil {
		return err
	}
	if err := a.shrinkFont(title, cells.Contact); err != nil {
		return err
	}
	return a.centerCell(title, cells.Method)
}

// contactNote picks the first populated source for the contact cell: the
// daily log's contact column, then the attendance remarks, then the record
// sheet remarks column. The remarks fallback is bounded before segmentation.
func (a *Assembler) contactNote(row domain.AttendanceRow, day domain.DailyLogRecord) string {
	text := day.FirstOf(a.cfg.ContactColumns...)
	if text == "" {
		text = normalize.Truncate(row.FirstOf(domain.ColRemarks, domain.ColSheetRemarks), a.cfg.RemarksCap)
	}
	return normalize.ContactNote(text, a.cfg.ContactNoteCap)
}

// buildProgram joins the non-empty time-of-day slot blocks. A slot with both
// a label and detail renders them on separate lines; empty slots contribute
// nothing.
func buildProgram(day domain.DailyLogRecord) string {
	var blocks []string
	for _, slot := range domain.ProgramSlots {
		label := day.Get(slot.Label)
		detail := day.Get(slot.Detail)
		switch {
		case label != "" && detail != "":
			blocks = append(blocks, label+"\n"+detail)
		case label != "":
			blocks = append(blocks, label)
		case detail != "":
			blocks = append(blocks, detail)
		}
	}
	return strings.Join(blocks, "\n")
}

// shrinkFont applies the configured override size to one cell, keeping the
// template's font family, weight and color.
func (a *Assembler) shrinkFont(sheet, cell string) error {
	style, err := a.cellStyle(sheet, cell)
	if err != nil {
		return err
	}
	if style.Font == nil {
		style.Font = &excelize.Font{}
	}
	style.Font.Size = a.cfg.OverrideFontSize
	return a.applyStyle(sheet, cell, style)
}

func (a *Assembler) centerCell(sheet, cell string) error {
	style, err := a.cellStyle(sheet, cell)
	if err != nil {
		return err
	}
	if style.Alignment == nil {
		style.Alignment = &excelize.Alignment{}
	}
	style.Alignment.Horizontal = "center"
	return a.applyStyle(sheet, cell, style)
}

func (a *Assembler) cellStyle(sheet, cell string) (*excelize.Style, error) {
	styleID, err := a.file.GetCellStyle(sheet, cell)
	if err != nil {
		return nil, fmt.Errorf("read style of %s on %q: %w", cell, sheet, err)
	}
	style, err := a.file.GetStyle(styleID)
	if err != nil {
		return nil, fmt.Errorf("resolve style %d: %w", styleID, err)
	}
	return style, nil
}

func (a *Assembler) applyStyle(sheet, cell string, style *excelize.Style) error {
	styleID, err := a.file.NewStyle(style)
	if err != nil {
		return fmt.Errorf("register style for %s on %q: %w", cell, sheet, err)
	}
	if err := a.file.SetCellStyle(sheet, cell, cell, styleID); err != nil {
		return fmt.Errorf("apply style to %s on %q: %w", cell, sheet, err)
	}
	return nil
}

// titleBase is the first 8 characters of the date with separators removed,
// joined to the person name.
func titleBase(date, person string) string {
	compact := []rune(strings.ReplaceAll(date, "/", ""))
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return string(compact) + "_" + person
}

// resolveTitle sanitizes the base title and, when taken, appends _2, _3, …
// keeping the suffix inside the length cap. Terminates because the suffix
// space is unbounded while the document is finite.
func (a *Assembler) resolveTitle(base string) string {
	title := safeSheetName(base, maxSheetTitle)
	if !a.used[strings.ToLower(title)] {
		return title
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf("_%d", n)
		candidate := safeSheetName(base, maxSheetTitle-len([]rune(suffix))) + suffix
		if !a.used[strings.ToLower(candidate)] {
			return candidate
		}
	}
}

func safeSheetName(name string, limit int) string {
	for _, c := range forbiddenTitleChars {
		name = strings.ReplaceAll(name, c, "_")
	}
	runes := []rune(name)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes)
}
