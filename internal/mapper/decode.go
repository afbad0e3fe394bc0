package mapper

import "strings"

// DecodeRows turns the full cell grid of a calendar sheet into booking
// records. headerRowIndex is the 0-based position of the header row; data
// starts on the next row.
//
// Rows shorter than the header set are padded with empty fields; cells beyond
// the last header are dropped. Rows whose every cell trims to "" are not
// records and are skipped, but skipping never renumbers later rows: write-back
// addresses cells by absolute position, so RowNumber always reflects the
// original 1-based row in the sheet.
//
// A sheet too short to contain the header row decodes to no records.
func DecodeRows(rows [][]string, headerRowIndex int) []BookingRecord {
	if headerRowIndex < 0 || len(rows) <= headerRowIndex {
		return nil
	}
	headers := NormalizeHeaders(rows[headerRowIndex])

	var records []BookingRecord
	for i, row := range rows[headerRowIndex+1:] {
		if blankRow(row) {
			continue
		}
		fields := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(row) {
				fields[h] = row[j]
			} else {
				fields[h] = ""
			}
		}
		records = append(records, BookingRecord{
			RowNumber: headerRowIndex + 1 + i + 1,
			Headers:   headers,
			Fields:    fields,
		})
	}
	return records
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
