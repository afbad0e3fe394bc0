package handlers

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/dverano/villadesk/internal/gridstore"
	"github.com/dverano/villadesk/internal/mapper"
)

// AnalyticsHandler aggregates decoded calendars into the data series the
// dashboard charts from. Rendering is the UI's business; this endpoint only
// buckets and counts.
type AnalyticsHandler struct {
	store          gridstore.Store
	headerRowIndex int
	logger         *slog.Logger
}

func NewAnalyticsHandler(store gridstore.Store, headerRowIndex int, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{store: store, headerRowIndex: headerRowIndex, logger: logger}
}

type monthBucket struct {
	Month    string         `json:"month"`
	Bookings int            `json:"bookings"`
	Statuses map[string]int `json:"statuses,omitempty"`
}

type monthlyResponse struct {
	Months []monthBucket `json:"months"`
	// Unparsed counts rows whose date matched no known pattern. They stay
	// visible in table views but cannot be bucketed by month.
	Unparsed int `json:"unparsed"`
}

func (h *AnalyticsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	workbookID := strings.TrimSpace(r.URL.Query().Get("workbook"))
	if workbookID == "" {
		writeError(w, http.StatusBadRequest, "workbook required")
		return
	}

	ctx := r.Context()
	book, err := h.store.OpenWorkbook(ctx, workbookID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	defer func() { _ = book.Close() }()

	sheets, err := book.ListSheets(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	buckets := make(map[string]*monthBucket)
	unparsed := 0
	for i, sheet := range sheets {
		if i == 0 {
			continue
		}
		rows, err := sheet.ReadAll(ctx)
		if err != nil {
			h.logger.Warn("skipping unreadable calendar", "sheet", sheet.Title(), "err", err)
			continue
		}
		records := mapper.DecodeRows(rows, h.headerRowIndex)
		if len(records) == 0 {
			continue
		}

		dateCol := findHeader(records[0].Headers, "date")
		statusCol := findHeader(records[0].Headers, "status")
		for _, rec := range records {
			if dateCol == "" {
				unparsed++
				continue
			}
			t, ok := mapper.ResolveDate(strings.TrimSpace(rec.Get(dateCol)))
			if !ok {
				unparsed++
				continue
			}
			month := t.Format("2006-01")
			b := buckets[month]
			if b == nil {
				b = &monthBucket{Month: month, Statuses: make(map[string]int)}
				buckets[month] = b
			}
			b.Bookings++
			if statusCol != "" {
				if status := strings.TrimSpace(rec.Get(statusCol)); status != "" {
					b.Statuses[status]++
				}
			}
		}
	}

	resp := monthlyResponse{Months: make([]monthBucket, 0, len(buckets)), Unparsed: unparsed}
	for _, b := range buckets {
		resp.Months = append(resp.Months, *b)
	}
	sort.Slice(resp.Months, func(i, j int) bool { return resp.Months[i].Month < resp.Months[j].Month })
	writeJSON(w, http.StatusOK, resp)
}

// findHeader returns the first header whose lowercased text contains the
// keyword, or "".
func findHeader(headers []string, keyword string) string {
	for _, h := range headers {
		if strings.Contains(strings.ToLower(h), keyword) {
			return h
		}
	}
	return ""
}
