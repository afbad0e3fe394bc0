package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dverano/villadesk/internal/audit"
	"github.com/dverano/villadesk/internal/gridstore"
)

// BackupHandler snapshots and restores whole calendar sheets. A restore is a
// clear followed by a bulk rewrite of the snapshot grid; between those two
// steps the sheet is empty, which mirrors the backing service's lack of
// transactions.
type BackupHandler struct {
	store    gridstore.Store
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewBackupHandler(store gridstore.Store, recorder audit.Recorder, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{store: store, recorder: recorder, logger: logger}
}

type snapshotRequest struct {
	Workbook string `json:"workbook"`
	Sheet    string `json:"sheet"`
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sess, ok := SessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "no session")
			return
		}
		writeJSON(w, http.StatusOK, sess.Backups())
	case http.MethodPost:
		h.snapshot(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *BackupHandler) snapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	sheet, cleanup, ok := openCalendarSheet(w, r, h.store, req.Workbook, req.Sheet)
	if !ok {
		return
	}
	defer cleanup()

	rows, err := sheet.ReadAll(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	b := sess.AddBackup(req.Workbook, req.Sheet, rows)
	sess.LogActivity("info", "backup taken of "+req.Sheet)
	writeJSON(w, http.StatusCreated, b)
}

type restoreRequest struct {
	BackupID string `json:"backup_id"`
}

func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req restoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	b, ok := sess.Backup(strings.TrimSpace(req.BackupID))
	if !ok {
		writeError(w, http.StatusNotFound, "backup not found")
		return
	}
	sheet, cleanup, ok := openCalendarSheet(w, r, h.store, b.WorkbookID, b.SheetTitle)
	if !ok {
		return
	}
	defer cleanup()

	ctx := r.Context()
	if err := sheet.Clear(ctx); err != nil {
		writeStoreError(w, err)
		return
	}
	if len(b.Rows) > 0 {
		if err := sheet.BulkWrite(ctx, b.Rows, 1, 1); err != nil {
			h.logger.Error("restore rewrite failed; sheet may be partially restored",
				"sheet", b.SheetTitle, "backup_id", b.ID, "err", err)
			writeError(w, http.StatusBadGateway, "restore failed after clearing the sheet")
			return
		}
	}

	cells := 0
	for _, row := range b.Rows {
		cells += len(row)
	}
	sess.RecordEdit("sheet_restore", map[string]string{
		"workbook":  b.WorkbookID,
		"sheet":     b.SheetTitle,
		"backup_id": b.ID,
	})
	h.recorder.Record(ctx, audit.Event{
		Type:  audit.TypeSheetRestored,
		Actor: sess.Actor,
		Sheet: b.SheetTitle,
		Cells: cells,
	})
	writeJSON(w, http.StatusOK, map[string]any{"restored_rows": len(b.Rows)})
}
