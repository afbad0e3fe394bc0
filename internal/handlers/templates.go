package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dverano/villadesk/internal/audit"
	"github.com/dverano/villadesk/internal/gridstore"
	"github.com/dverano/villadesk/internal/mapper"
	"github.com/dverano/villadesk/internal/session"
)

// TemplatesHandler manages per-session booking templates and applies them as
// new calendar rows.
type TemplatesHandler struct {
	store    gridstore.Store
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewTemplatesHandler(store gridstore.Store, recorder audit.Recorder, logger *slog.Logger) *TemplatesHandler {
	return &TemplatesHandler{store: store, recorder: recorder, logger: logger}
}

type saveTemplateRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Fields      map[string]string `json:"fields"`
}

func (h *TemplatesHandler) List(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sess, ok := SessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "no session")
			return
		}
		writeJSON(w, http.StatusOK, sess.Templates())
	case http.MethodPost:
		h.save(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *TemplatesHandler) save(w http.ResponseWriter, r *http.Request) {
	var req saveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Fields) == 0 {
		writeError(w, http.StatusBadRequest, "name and fields required")
		return
	}
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	sess.SaveTemplate(session.Template{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Fields:      req.Fields,
	})
	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

type deleteTemplateRequest struct {
	Name string `json:"name"`
}

func (h *TemplatesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req deleteTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	if !sess.DeleteTemplate(strings.TrimSpace(req.Name)) {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type applyTemplateRequest struct {
	Name      string            `json:"name"`
	Workbook  string            `json:"workbook"`
	Sheet     string            `json:"sheet"`
	Overrides map[string]string `json:"overrides"`
}

// Apply appends a new booking row built from a template's fields, with
// per-request overrides layered on top, and bumps the usage counter.
func (h *TemplatesHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req applyTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	fields, ok := sess.UseTemplate(strings.TrimSpace(req.Name))
	if !ok {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	for k, v := range req.Overrides {
		fields[k] = v
	}

	sheet, cleanup, ok := openCalendarSheet(w, r, h.store, req.Workbook, req.Sheet)
	if !ok {
		return
	}
	defer cleanup()

	ctx := r.Context()
	values := mapper.EncodeBasicRow(fields)
	if err := sheet.AppendRow(ctx, values); err != nil {
		writeStoreError(w, err)
		return
	}

	sess.RecordEdit("template_apply", map[string]string{
		"template": req.Name,
		"workbook": req.Workbook,
		"sheet":    req.Sheet,
	})
	h.recorder.Record(ctx, audit.Event{
		Type:  audit.TypeRowCreated,
		Actor: sess.Actor,
		Sheet: req.Sheet,
		Cells: len(values),
		Details: map[string]string{
			"template": req.Name,
		},
	})
	writeJSON(w, http.StatusCreated, map[string]any{"values": values})
}
