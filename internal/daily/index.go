// Package daily builds the date-keyed lookup over the daily activity log.
package daily

import (
	"github.com/ymoriya/shienkiroku/internal/domain"
	"github.com/ymoriya/shienkiroku/internal/normalize"
	"github.com/ymoriya/shienkiroku/internal/tabular"
)

// Index maps normalized dates to daily log records. Built once per run,
// read-only afterwards.
type Index struct {
	dateColumn string
	records    map[string]domain.DailyLogRecord
}

// BuildIndex selects the date column from the candidate list (first present
// in the header wins, falling back to the first column) and keys every
// record by its normalized date. Later rows for the same date overwrite
// earlier ones.
func BuildIndex(table tabular.Table, candidates []string) *Index {
	idx := &Index{
		dateColumn: pickDateColumn(table.Headers, candidates),
		records:    make(map[string]domain.DailyLogRecord, len(table.Records)),
	}
	for _, record := range table.Records {
		key := normalize.Date(record.Get(idx.dateColumn))
		idx.records[key] = domain.DailyLogRecord{TabularRecord: record}
	}
	return idx
}

// DateColumn returns the header the index was keyed on.
func (ix *Index) DateColumn() string { return ix.dateColumn }

// Len returns the number of distinct dates in the index.
func (ix *Index) Len() int { return len(ix.records) }

// Lookup returns the record for a normalized date. A miss yields the
// all-empty surrogate so downstream field reads degrade to "".
func (ix *Index) Lookup(date string) domain.DailyLogRecord {
	if record, ok := ix.records[date]; ok {
		return record
	}
	return domain.DailyLogRecord{}
}

func pickDateColumn(headers []string, candidates []string) string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	for _, candidate := range candidates {
		if present[candidate] {
			return candidate
		}
	}
	if len(headers) > 0 {
		return headers[0]
	}
	return ""
}
