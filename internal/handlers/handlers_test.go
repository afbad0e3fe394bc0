package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/dverano/villadesk/internal/gridstore"
	"github.com/dverano/villadesk/internal/session"
)

// testHeaderRowIndex keeps fixtures small: a title row, then the header row,
// then data.
const testHeaderRowIndex = 1

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	return session.New("sess-1", "ana", session.DefaultCaps())
}

func withSession(r *http.Request, sess *session.Session) *http.Request {
	return r.WithContext(ContextWithSession(r.Context(), sess))
}

// calendarFixture builds one client workbook: the profile sheet first, then a
// single monthly calendar with a blank row between two bookings.
func calendarFixture() (*gridstore.MemStore, *gridstore.MemSheet) {
	cal := gridstore.NewMemSheet("MAY 2025", [][]string{
		{"Cleaning calendar"},
		{"DATE", "VILLA", "TYPE_CLEAN", "PAX", "START_TIME", "RESERVATION_STATUS", "LAUNDRY", "COMMENTS"},
		{"03/05/2025", "Villa Aurora", "full", "4", "11:00", "CO", "yes", ""},
		{},
		{"05/05/2025", "Villa Marina", "refresh", "2", "12:30", "CI", "no", "late checkout"},
	})
	store := gridstore.NewMemStore()
	store.AddWorkbook("folder-1",
		gridstore.WorkbookInfo{ID: "wb-1", Name: "Villa Aurora"},
		gridstore.NewMemWorkbook("wb-1", gridstore.NewMemSheet("Client", profileRows()), cal))
	return store, cal
}

func profileRows() [][]string {
	rows := make([][]string, 20)
	rows[0] = []string{"Aurora Rentals"}
	rows[8] = []string{"Check-out", "11:00"}
	rows[9] = []string{"Check-in", "15:00"}
	rows[10] = []string{"Amenities", "towels, linen"}
	rows[11] = []string{"Laundry", "external"}
	rows[12] = []string{"Keys", "lockbox"}
	rows[13] = []string{"Codes", "4821"}
	rows[17] = []string{"Villa Aurora", "1 Cliff Road", "10:00-16:00", "2"}
	return rows
}
