package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/dverano/villadesk/internal/audit"
	"github.com/dverano/villadesk/internal/gridstore"
)

func newCalendarFixture() (*CalendarHandler, *gridstore.MemSheet, *audit.MemRecorder) {
	store, cal := calendarFixture()
	recorder := audit.NewMemRecorder()
	return NewCalendarHandler(store, testHeaderRowIndex, recorder, testLogger()), cal, recorder
}

func TestRowsKeepAbsoluteRowNumbers(t *testing.T) {
	h, _, _ := newCalendarFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/rows?workbook=wb-1&sheet=MAY+2025", nil)
	rec := httptest.NewRecorder()
	h.Rows(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	// The blank sheet row between the two bookings is dropped, but the second
	// booking keeps its original position.
	if !strings.Contains(body, `"row_number":3`) || !strings.Contains(body, `"row_number":5`) {
		t.Fatalf("row numbers not preserved: %s", body)
	}
	if strings.Contains(body, `"row_number":4`) {
		t.Fatalf("blank row should not decode: %s", body)
	}
	if !strings.Contains(body, `"DATE"`) || !strings.Contains(body, `"RESERVATION_STATUS"`) {
		t.Fatalf("headers missing: %s", body)
	}
}

func TestRowsRejectsProfileSheet(t *testing.T) {
	h, _, _ := newCalendarFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/rows?workbook=wb-1&sheet=Client", nil)
	rec := httptest.NewRecorder()
	h.Rows(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: the first sheet is never a calendar", rec.Code)
	}
}

func TestCreateAppendsBasicRow(t *testing.T) {
	h, cal, recorder := newCalendarFixture()

	body := `{"workbook":"wb-1","sheet":"MAY 2025","fields":{"date":"07/05/2025","property":"Villa Sol","clean_type":"full","pax":"6"}}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/calendar/rows/create", strings.NewReader(body)), newTestSession(t))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}

	rows := cal.Rows()
	last := rows[len(rows)-1]
	want := []string{"07/05/2025", "Villa Sol", "full", "6", "", "", "", ""}
	if len(last) != len(want) {
		t.Fatalf("appended row has %d cells, want %d: %v", len(last), len(want), last)
	}
	for i := range want {
		if last[i] != want[i] {
			t.Fatalf("cell %d = %q, want %q", i, last[i], want[i])
		}
	}

	events := recorder.Events()
	if len(events) != 1 || events[0].Type != audit.TypeRowCreated {
		t.Fatalf("events = %+v, want one row-created event", events)
	}
	if events[0].Actor != "ana" {
		t.Fatalf("event actor = %q, want ana", events[0].Actor)
	}
}

func TestCreateFullFormatUsesLiveHeaders(t *testing.T) {
	h, cal, _ := newCalendarFixture()

	body := `{"workbook":"wb-1","sheet":"MAY 2025","format":"full","fields":{"time":"09:00","status":"CI","notes":"ground floor"}}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/calendar/rows/create", strings.NewReader(body)), newTestSession(t))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}

	rows := cal.Rows()
	last := rows[len(rows)-1]
	// Keyword matching binds START_TIME, RESERVATION_STATUS and COMMENTS of
	// the fixture header to the time, status and notes inputs.
	if last[4] != "09:00" {
		t.Fatalf("time column = %q, want 09:00 (%v)", last[4], last)
	}
	if last[5] != "CI" {
		t.Fatalf("status column = %q, want CI (%v)", last[5], last)
	}
	if last[7] != "ground floor" {
		t.Fatalf("comments column = %q, want the note (%v)", last[7], last)
	}
}

func TestUpdateGuardsHeaderArea(t *testing.T) {
	h, _, _ := newCalendarFixture()

	for _, row := range []int{0, 1, 2} {
		body := `{"workbook":"wb-1","sheet":"MAY 2025","row":` + strconv.Itoa(row) + `,"fields":{"date":"x"}}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/calendar/rows/update", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Update(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("row %d status = %d, want 400", row, rec.Code)
		}
	}
}

func TestUpdateWritesRowAndAudits(t *testing.T) {
	h, cal, recorder := newCalendarFixture()

	body := `{"workbook":"wb-1","sheet":"MAY 2025","row":3,"fields":{"date":"04/05/2025","property":"Villa Aurora","reservation_status":"CI/CO"}}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/calendar/rows/update", strings.NewReader(body)), newTestSession(t))
	rec := httptest.NewRecorder()
	h.Update(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}

	rows := cal.Rows()
	if rows[2][0] != "04/05/2025" || rows[2][5] != "CI/CO" {
		t.Fatalf("row 3 not rewritten: %v", rows[2])
	}

	var sawBatch, sawUpdate bool
	for _, e := range recorder.Events() {
		switch e.Type {
		case audit.TypeBatchApplied:
			sawBatch = true
			if e.Cells != 8 {
				t.Fatalf("batch cells = %d, want 8", e.Cells)
			}
		case audit.TypeRowUpdated:
			sawUpdate = true
		}
	}
	if !sawBatch || !sawUpdate {
		t.Fatalf("events = %+v, want batch-applied and row-updated", recorder.Events())
	}
}

func TestUpdateFailureIsReportedNotRolledBack(t *testing.T) {
	h, cal, recorder := newCalendarFixture()
	cal.FailWritesWith(&gridstore.TransientError{Err: errors.New("backend hiccup")})

	body := `{"workbook":"wb-1","sheet":"MAY 2025","row":3,"fields":{"date":"04/05/2025"}}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/calendar/rows/update", strings.NewReader(body)), newTestSession(t))
	rec := httptest.NewRecorder()
	h.Update(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	for _, e := range recorder.Events() {
		if e.Type == audit.TypeBatchApplied || e.Type == audit.TypeRowUpdated {
			t.Fatalf("no audit event should fire for a failed batch, got %+v", e)
		}
	}
}

func TestDeleteRow(t *testing.T) {
	h, cal, recorder := newCalendarFixture()

	body := `{"workbook":"wb-1","sheet":"MAY 2025","row":3}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/calendar/rows/delete", strings.NewReader(body)), newTestSession(t))
	rec := httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	rows := cal.Rows()
	if len(rows) != 4 {
		t.Fatalf("sheet has %d rows after delete, want 4", len(rows))
	}
	// Row 4 of the fixture was blank; it shifts up into position 3.
	if len(rows[2]) != 0 {
		t.Fatalf("unexpected row content after delete: %v", rows[2])
	}
	events := recorder.Events()
	if len(events) != 1 || events[0].Type != audit.TypeRowDeleted {
		t.Fatalf("events = %+v, want one row-deleted event", events)
	}
}

func TestBulkPaste(t *testing.T) {
	h, cal, recorder := newCalendarFixture()

	body := `{"workbook":"wb-1","sheet":"MAY 2025","top_row":6,"rows":[["08/05/2025","Villa Sol"],["09/05/2025","Villa Marina"]]}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/calendar/bulk", strings.NewReader(body)), newTestSession(t))
	rec := httptest.NewRecorder()
	h.Bulk(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	rows := cal.Rows()
	if rows[5][0] != "08/05/2025" || rows[6][1] != "Villa Marina" {
		t.Fatalf("pasted grid not applied: %v", rows[5:])
	}

	events := recorder.Events()
	if len(events) != 1 || events[0].Type != audit.TypeBatchApplied || events[0].Cells != 4 {
		t.Fatalf("events = %+v, want one batch event covering 4 cells", events)
	}
}

func TestBulkGuardsHeaderArea(t *testing.T) {
	h, _, _ := newCalendarFixture()

	body := `{"workbook":"wb-1","sheet":"MAY 2025","top_row":2,"rows":[["x"]]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calendar/bulk", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Bulk(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestExportCSV(t *testing.T) {
	h, _, _ := newCalendarFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/export.csv?workbook=wb-1&sheet=MAY+2025", nil)
	rec := httptest.NewRecorder()
	h.ExportCSV(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type = %q, want text/csv", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv has %d lines, want header plus 2 records: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "DATE,VILLA") {
		t.Fatalf("csv header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "03/05/2025") || !strings.HasPrefix(lines[2], "05/05/2025") {
		t.Fatalf("csv records out of order: %q", lines)
	}
}
