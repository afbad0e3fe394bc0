// Package mapper converts raw calendar sheet grids into booking records and
// encodes edited records back into targeted cell writes. Values stay raw
// strings end to end; interpretation of DATE, STATUS and friends belongs to
// the callers.
package mapper

// BookingRecord is one decoded row of a monthly calendar sheet.
type BookingRecord struct {
	// RowNumber is the 1-based absolute row position in the backing sheet.
	// It is the identity key for updates and deletes and always reflects the
	// original position, even when blank rows before it were filtered out.
	RowNumber int

	// Headers is the deduplicated column-name set of the sheet, in sheet
	// order. Shared by every record decoded from the same sheet.
	Headers []string

	// Fields maps each deduplicated header to the raw cell value.
	Fields map[string]string
}

// Get returns the raw value for a column, or "" when absent.
func (r BookingRecord) Get(col string) string {
	return r.Fields[col]
}

// Values returns the record's cell values in sheet column order.
func (r BookingRecord) Values() []string {
	out := make([]string, len(r.Headers))
	for i, h := range r.Headers {
		out[i] = r.Fields[h]
	}
	return out
}
