package mapper

import "testing"

// calendarRows builds a grid with the header row at 0-based index 12
// (absolute row 13), matching the standard calendar layout.
func calendarRows(header []string, data ...[]string) [][]string {
	rows := make([][]string, 12)
	rows = append(rows, header)
	rows = append(rows, data...)
	return rows
}

func TestDecodeRows_RowNumbersSurviveFiltering(t *testing.T) {
	rows := calendarRows(
		[]string{"DATE", "VILLA"},
		[]string{"2025-01-01", "A"},
		[]string{"", "  "},
		[]string{"2025-01-02", "B"},
	)

	records := DecodeRows(rows, 12)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].RowNumber != 14 {
		t.Fatalf("first record row = %d, want 14", records[0].RowNumber)
	}
	if records[1].RowNumber != 16 {
		t.Fatalf("second record row = %d, want 16 (blank row must not renumber)", records[1].RowNumber)
	}
	if records[1].Get("VILLA") != "B" {
		t.Fatalf("unexpected VILLA: %q", records[1].Get("VILLA"))
	}
}

func TestDecodeRows_ShortRowsPadEmpty(t *testing.T) {
	rows := calendarRows(
		[]string{"DATE", "VILLA", "COMMENTS"},
		[]string{"2025-01-01"},
	)

	records := DecodeRows(rows, 12)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Get("VILLA") != "" || records[0].Get("COMMENTS") != "" {
		t.Fatalf("missing trailing cells must decode as empty, got %+v", records[0].Fields)
	}
}

func TestDecodeRows_ExtraCellsDropped(t *testing.T) {
	rows := calendarRows(
		[]string{"DATE", "VILLA"},
		[]string{"2025-01-01", "A", "overflow"},
	)

	records := DecodeRows(rows, 12)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if len(records[0].Fields) != 2 {
		t.Fatalf("cells past the header set must be dropped, got %+v", records[0].Fields)
	}
}

func TestDecodeRows_SheetWithoutHeaderRow(t *testing.T) {
	rows := [][]string{{"just"}, {"a"}, {"stub"}}
	if records := DecodeRows(rows, 12); records != nil {
		t.Fatalf("expected no records for a sheet without a header row, got %v", records)
	}
}

func TestDecodeRows_DuplicateHeadersKeepAllColumns(t *testing.T) {
	rows := calendarRows(
		[]string{"DATE", "DATE"},
		[]string{"2025-01-01", "2025-01-02"},
	)

	records := DecodeRows(rows, 12)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Get("DATE") != "2025-01-01" || records[0].Get("DATE_1") != "2025-01-02" {
		t.Fatalf("duplicate header columns lost: %+v", records[0].Fields)
	}
}
