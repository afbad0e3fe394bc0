package profile

import (
	"errors"
	"testing"
)

func profileRows() [][]string {
	rows := make([][]string, 30)
	rows[0] = []string{"Sunset Villas Ltd"}
	rows[8] = []string{"Check-out", "10:00"}
	rows[9] = []string{"Check-in", "16:00"}
	rows[10] = []string{"Amenities", "pool, sauna"}
	rows[11] = []string{"Laundry", "on-site"}
	rows[12] = []string{"Keys", "lockbox"}
	rows[13] = []string{"Codes", "4711"}
	rows[17] = []string{"Villa Sol", "1 Beach Rd", "4h", "2h"}
	rows[19] = []string{"Casa Azul", "2 Cliff Way", "3h", ""}
	return rows
}

func TestExtract(t *testing.T) {
	p, err := Extract("Profile", profileRows())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if p.Name != "Sunset Villas Ltd" {
		t.Fatalf("name = %q", p.Name)
	}
	if p.CheckOutTime != "10:00" || p.CheckInTime != "16:00" {
		t.Fatalf("check times = %q / %q", p.CheckOutTime, p.CheckInTime)
	}
	if p.Keys != "lockbox" || p.Codes != "4711" {
		t.Fatalf("keys/codes = %q / %q", p.Keys, p.Codes)
	}
	if len(p.Properties) != 2 {
		t.Fatalf("expected 2 properties (blank name rows skipped), got %d", len(p.Properties))
	}
	if p.Properties[1].Name != "Casa Azul" || p.Properties[1].Address != "2 Cliff Way" {
		t.Fatalf("unexpected property: %+v", p.Properties[1])
	}
}

func TestExtract_ShortSheetRejected(t *testing.T) {
	_, err := Extract("Profile", [][]string{{"Sunset Villas Ltd"}})
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestExtract_NoPropertyRows(t *testing.T) {
	rows := profileRows()[:14]
	p, err := Extract("Profile", rows)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(p.Properties) != 0 {
		t.Fatalf("expected no properties, got %v", p.Properties)
	}
}
