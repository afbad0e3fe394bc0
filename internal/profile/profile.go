// Package profile extracts the read-only client profile from a workbook's
// first sheet. The layout is purely positional; the offsets below are the
// schema.
package profile

import "fmt"

// Property is one managed property row of the profile sheet.
type Property struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Hours         string `json:"hours"`
	StayOverHours string `json:"stay_over_hours"`
}

// ClientProfile is the decoded first sheet of a client workbook.
type ClientProfile struct {
	Name            string     `json:"name"`
	CheckOutTime    string     `json:"check_out_time"`
	CheckInTime     string     `json:"check_in_time"`
	Amenities       string     `json:"amenities"`
	LaundryServices string     `json:"laundry_services"`
	Keys            string     `json:"keys"`
	Codes           string     `json:"codes"`
	Properties      []Property `json:"properties"`
}

// fieldOffsets is the positional schema of the profile sheet: one (row, col)
// per scalar field, 0-based.
var fieldOffsets = []struct {
	row, col int
	assign   func(*ClientProfile, string)
}{
	{0, 0, func(p *ClientProfile, v string) { p.Name = v }},
	{8, 1, func(p *ClientProfile, v string) { p.CheckOutTime = v }},
	{9, 1, func(p *ClientProfile, v string) { p.CheckInTime = v }},
	{10, 1, func(p *ClientProfile, v string) { p.Amenities = v }},
	{11, 1, func(p *ClientProfile, v string) { p.LaundryServices = v }},
	{12, 1, func(p *ClientProfile, v string) { p.Keys = v }},
	{13, 1, func(p *ClientProfile, v string) { p.Codes = v }},
}

const (
	// Scalar fields occupy rows 0-13; anything shorter cannot be a profile
	// sheet and is rejected instead of silently decoding to blanks.
	minRows = 14

	propertyRowFirst = 17
	propertyRowLast  = 29
)

// SchemaError reports a first sheet that does not match the profile layout.
type SchemaError struct {
	Sheet   string
	Rows    int
	MinRows int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheet %q has %d rows, profile layout needs at least %d", e.Sheet, e.Rows, e.MinRows)
}

// Extract decodes a profile from the raw cell grid of a workbook's first
// sheet. Property rows with an empty first column are skipped; rows past the
// end of a short sheet are simply absent.
func Extract(sheetTitle string, rows [][]string) (*ClientProfile, error) {
	if len(rows) < minRows {
		return nil, &SchemaError{Sheet: sheetTitle, Rows: len(rows), MinRows: minRows}
	}

	var p ClientProfile
	for _, f := range fieldOffsets {
		f.assign(&p, cell(rows, f.row, f.col))
	}

	for r := propertyRowFirst; r <= propertyRowLast && r < len(rows); r++ {
		name := cell(rows, r, 0)
		if name == "" {
			continue
		}
		p.Properties = append(p.Properties, Property{
			Name:          name,
			Address:       cell(rows, r, 1),
			Hours:         cell(rows, r, 2),
			StayOverHours: cell(rows, r, 3),
		})
	}
	return &p, nil
}

func cell(rows [][]string, r, c int) string {
	if r >= len(rows) || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}
