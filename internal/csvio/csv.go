// Package csvio reads and writes household usage entries as CSV.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jgoulah/ecohome/pkg/models"
)

// Header is the column layout written by Export
var Header = []string{"id", "entry_type", "value", "recorded_at"}

// localLayouts carry no zone and are read as wall-clock time
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Export writes entries as CSV with a header row
func Export(w io.Writer, entries []models.UsageEntry) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, e := range entries {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			string(e.Type),
			strconv.FormatFloat(e.Value, 'f', -1, 64),
			e.RecordedAt.Format(time.RFC3339Nano),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Import parses CSV rows into entries. Columns are located by header name and
// the id column is ignored. A blank recorded_at is replaced with now, and
// zone-less timestamps are read in now's location. The first invalid row
// aborts the whole import.
func Import(r io.Reader, now time.Time) ([]models.UsageEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("CSV is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	typeCol, valueCol, recordedCol := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))) {
		case "entry_type":
			typeCol = i
		case "value":
			valueCol = i
		case "recorded_at":
			recordedCol = i
		}
	}
	if typeCol == -1 || valueCol == -1 {
		return nil, fmt.Errorf("CSV header must include entry_type and value columns, got %v", header)
	}

	var entries []models.UsageEntry
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		if isBlank(record) {
			continue
		}
		row, _ := reader.FieldPos(0)

		entry, err := parseRecord(record, typeCol, valueCol, recordedCol, now)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// minYear rejects dates no meter reading can have, including the zero time
const minYear = 1970

// ParseTimestamp parses an ISO-8601 timestamp. Values without a zone are
// wall-clock time in loc, so a date written as 2026-09-19 stays on that date.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, err = parseLocal(s, loc)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q (want ISO-8601, e.g. 2006-01-02T15:04:05)", s)
	}
	if t.Year() < minYear {
		return time.Time{}, fmt.Errorf("timestamp %q is before %d", s, minYear)
	}
	return t, nil
}

func parseLocal(s string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range localLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseRecord(record []string, typeCol, valueCol, recordedCol int, now time.Time) (models.UsageEntry, error) {
	var entry models.UsageEntry

	entryType, err := models.ParseEntryType(field(record, typeCol))
	if err != nil {
		return entry, err
	}
	entry.Type = entryType

	rawValue := field(record, valueCol)
	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return entry, fmt.Errorf("value %q is not a number", rawValue)
	}
	if err := models.ValidateValue(value); err != nil {
		return entry, err
	}
	entry.Value = value

	entry.RecordedAt = now
	if raw := field(record, recordedCol); raw != "" {
		entry.RecordedAt, err = ParseTimestamp(raw, now.Location())
		if err != nil {
			return entry, err
		}
	}

	return entry, nil
}

func field(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
