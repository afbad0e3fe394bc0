package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dverano/villadesk/internal/audit"
)

func TestTemplateLifecycle(t *testing.T) {
	store, cal := calendarFixture()
	recorder := audit.NewMemRecorder()
	h := NewTemplatesHandler(store, recorder, testLogger())
	sess := newTestSession(t)

	save := `{"name":"weekly full","description":"friday turnover","fields":{"property":"Villa Aurora","type_clean":"full","laundry":"yes"}}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/templates", strings.NewReader(save)), sess)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d (%s)", rec.Code, rec.Body.String())
	}

	req = withSession(httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil), sess)
	rec = httptest.NewRecorder()
	h.List(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "weekly full") {
		t.Fatalf("list = %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"use_count":0`) {
		t.Fatalf("fresh template should have zero uses: %s", rec.Body.String())
	}

	apply := `{"name":"weekly full","workbook":"wb-1","sheet":"MAY 2025","overrides":{"date":"09/05/2025","pax":"2"}}`
	req = withSession(httptest.NewRequest(http.MethodPost, "/api/v1/templates/apply", strings.NewReader(apply)), sess)
	rec = httptest.NewRecorder()
	h.Apply(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("apply status = %d (%s)", rec.Code, rec.Body.String())
	}

	rows := cal.Rows()
	last := rows[len(rows)-1]
	want := []string{"09/05/2025", "Villa Aurora", "full", "2", "", "", "yes", ""}
	for i := range want {
		if last[i] != want[i] {
			t.Fatalf("cell %d = %q, want %q (%v)", i, last[i], want[i], last)
		}
	}

	req = withSession(httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil), sess)
	rec = httptest.NewRecorder()
	h.List(rec, req)
	if !strings.Contains(rec.Body.String(), `"use_count":1`) {
		t.Fatalf("usage counter not bumped: %s", rec.Body.String())
	}

	events := recorder.Events()
	if len(events) != 1 || events[0].Type != audit.TypeRowCreated || events[0].Details["template"] != "weekly full" {
		t.Fatalf("events = %+v, want a row-created event naming the template", events)
	}
}

func TestApplyUnknownTemplate(t *testing.T) {
	store, _ := calendarFixture()
	h := NewTemplatesHandler(store, audit.NewMemRecorder(), testLogger())

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/templates/apply",
		strings.NewReader(`{"name":"nope","workbook":"wb-1","sheet":"MAY 2025"}`)), newTestSession(t))
	rec := httptest.NewRecorder()
	h.Apply(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteTemplate(t *testing.T) {
	store, _ := calendarFixture()
	h := NewTemplatesHandler(store, audit.NewMemRecorder(), testLogger())
	sess := newTestSession(t)

	save := `{"name":"once","fields":{"property":"Villa Sol"}}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/templates", strings.NewReader(save)), sess)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d", rec.Code)
	}

	req = withSession(httptest.NewRequest(http.MethodPost, "/api/v1/templates/delete",
		strings.NewReader(`{"name":"once"}`)), sess)
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	req = withSession(httptest.NewRequest(http.MethodPost, "/api/v1/templates/delete",
		strings.NewReader(`{"name":"once"}`)), sess)
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}
