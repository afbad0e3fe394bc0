package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dverano/villadesk/internal/gridstore"
)

func TestMonthlyBucketsAcrossCalendars(t *testing.T) {
	header := []string{"DATE", "VILLA", "TYPE_CLEAN", "PAX", "START_TIME", "RESERVATION_STATUS", "LAUNDRY", "COMMENTS"}
	may := gridstore.NewMemSheet("MAY 2025", [][]string{
		{"title"},
		header,
		{"03/05/2025", "Villa Aurora", "full", "4", "", "CO", "", ""},
		{"28/05/2025", "Villa Marina", "refresh", "2", "", "CI", "", ""},
		{"not a date", "Villa Sol", "", "", "", "", "", ""},
	})
	june := gridstore.NewMemSheet("JUNE 2025", [][]string{
		{"title"},
		header,
		{"2025-06-14", "Villa Aurora", "full", "4", "", "CO", "", ""},
	})
	store := gridstore.NewMemStore()
	store.AddWorkbook("folder-1",
		gridstore.WorkbookInfo{ID: "wb-1", Name: "Villa Aurora"},
		gridstore.NewMemWorkbook("wb-1", gridstore.NewMemSheet("Client", profileRows()), may, june))

	h := NewAnalyticsHandler(store, testHeaderRowIndex, testLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/monthly?workbook=wb-1", nil)
	rec := httptest.NewRecorder()
	h.Monthly(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Months []struct {
			Month    string         `json:"month"`
			Bookings int            `json:"bookings"`
			Statuses map[string]int `json:"statuses"`
		} `json:"months"`
		Unparsed int `json:"unparsed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}

	if len(resp.Months) != 2 {
		t.Fatalf("months = %+v, want 2 buckets", resp.Months)
	}
	if resp.Months[0].Month != "2025-05" || resp.Months[0].Bookings != 2 {
		t.Fatalf("may bucket = %+v", resp.Months[0])
	}
	if resp.Months[0].Statuses["CO"] != 1 || resp.Months[0].Statuses["CI"] != 1 {
		t.Fatalf("may statuses = %+v", resp.Months[0].Statuses)
	}
	if resp.Months[1].Month != "2025-06" || resp.Months[1].Bookings != 1 {
		t.Fatalf("june bucket = %+v", resp.Months[1])
	}
	if resp.Unparsed != 1 {
		t.Fatalf("unparsed = %d, want 1", resp.Unparsed)
	}
}

func TestMonthlyRequiresWorkbook(t *testing.T) {
	store, _ := calendarFixture()
	h := NewAnalyticsHandler(store, testHeaderRowIndex, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/monthly", nil)
	rec := httptest.NewRecorder()
	h.Monthly(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
