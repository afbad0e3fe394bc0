package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dverano/villadesk/internal/cache"
	"github.com/dverano/villadesk/internal/gridstore"
	"github.com/dverano/villadesk/internal/profile"
)

// ClientsHandler serves the workbook folder: one workbook per client, first
// sheet the profile, remaining sheets the monthly calendars.
type ClientsHandler struct {
	store    gridstore.Store
	cache    cache.FolderCache
	folderID string
	logger   *slog.Logger
}

func NewClientsHandler(store gridstore.Store, folderCache cache.FolderCache, folderID string, logger *slog.Logger) *ClientsHandler {
	return &ClientsHandler{store: store, cache: folderCache, folderID: folderID, logger: logger}
}

type clientItem struct {
	gridstore.WorkbookInfo
	Cached bool `json:"cached"`
}

func (h *ClientsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx := r.Context()
	cached := true
	items, ok := h.cache.Get(ctx, h.folderID)
	if !ok {
		cached = false
		var err error
		items, err = h.store.ListWorkbooks(ctx, h.folderID)
		if err != nil {
			h.logger.Error("workbook listing failed", "folder_id", h.folderID, "err", err)
			writeStoreError(w, err)
			return
		}
		h.cache.Put(ctx, h.folderID, items)
	}

	if sess, ok := SessionFromContext(ctx); ok {
		sess.LogActivity("info", "listed client workbooks")
	}
	out := make([]clientItem, 0, len(items))
	for _, item := range items {
		out = append(out, clientItem{WorkbookInfo: item, Cached: cached})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ClientsHandler) Profile(w http.ResponseWriter, r *http.Request) {
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
	if len(sheets) == 0 {
		writeError(w, http.StatusNotFound, "workbook has no sheets")
		return
	}

	rows, err := sheets[0].ReadAll(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	p, err := profile.Extract(sheets[0].Title(), rows)
	if err != nil {
		var schemaErr *profile.SchemaError
		if errors.As(err, &schemaErr) {
			writeError(w, http.StatusUnprocessableEntity, schemaErr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type calendarItem struct {
	Title string `json:"title"`
	Index int    `json:"index"`
}

// Calendars lists the monthly calendar sheets of a workbook. The first sheet
// is the client profile and is excluded.
func (h *ClientsHandler) Calendars(w http.ResponseWriter, r *http.Request) {
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

	items := make([]calendarItem, 0)
	for i, sheet := range sheets {
		if i == 0 {
			continue
		}
		items = append(items, calendarItem{Title: sheet.Title(), Index: i})
	}
	writeJSON(w, http.StatusOK, items)
}

func writeStoreError(w http.ResponseWriter, err error) {
	var permErr *gridstore.PermissionError
	var authErr *gridstore.AuthError
	switch {
	case errors.Is(err, gridstore.ErrNotFound):
		writeError(w, http.StatusNotFound, "workbook not found")
	case errors.As(err, &permErr):
		writeError(w, http.StatusForbidden, "folder not shared with the service identity")
	case errors.As(err, &authErr):
		writeError(w, http.StatusUnauthorized, authErr.Error())
	case gridstore.IsTransient(err):
		writeError(w, http.StatusBadGateway, "spreadsheet backend unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "spreadsheet backend error")
	}
}
