package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dverano/villadesk/internal/audit"
	"github.com/dverano/villadesk/internal/gridstore"
	"github.com/dverano/villadesk/internal/mapper"
)

// CalendarHandler is the CRUD surface over monthly calendar sheets. All row
// addressing is by 1-based absolute sheet position, exactly as decoded.
type CalendarHandler struct {
	store gridstore.Store
	// headerRowIndex is the 0-based position of the calendar header row.
	// Varies per deployment (historically row 13, some folders use 12), so
	// it is configuration, not code.
	headerRowIndex int
	recorder       audit.Recorder
	logger         *slog.Logger
}

func NewCalendarHandler(store gridstore.Store, headerRowIndex int, recorder audit.Recorder, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{
		store:          store,
		headerRowIndex: headerRowIndex,
		recorder:       recorder,
		logger:         logger,
	}
}

type rowItem struct {
	RowNumber int               `json:"row_number"`
	Fields    map[string]string `json:"fields"`
}

type rowsResponse struct {
	Headers []string  `json:"headers"`
	Rows    []rowItem `json:"rows"`
}

func (h *CalendarHandler) Rows(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sheet, cleanup, ok := h.openSheet(w, r, r.URL.Query().Get("workbook"), r.URL.Query().Get("sheet"))
	if !ok {
		return
	}
	defer cleanup()

	rows, err := sheet.ReadAll(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	records := mapper.DecodeRows(rows, h.headerRowIndex)

	resp := rowsResponse{Rows: make([]rowItem, 0, len(records))}
	if len(records) > 0 {
		resp.Headers = records[0].Headers
	} else if len(rows) > h.headerRowIndex {
		resp.Headers = mapper.NormalizeHeaders(rows[h.headerRowIndex])
	}
	for _, rec := range records {
		resp.Rows = append(resp.Rows, rowItem{RowNumber: rec.RowNumber, Fields: rec.Fields})
	}
	writeJSON(w, http.StatusOK, resp)
}

type createRowRequest struct {
	Workbook string            `json:"workbook"`
	Sheet    string            `json:"sheet"`
	Format   string            `json:"format"`
	Fields   map[string]string `json:"fields"`
}

func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req createRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	sheet, cleanup, ok := h.openSheet(w, r, req.Workbook, req.Sheet)
	if !ok {
		return
	}
	defer cleanup()

	ctx := r.Context()
	values, err := h.encodeRow(ctx, sheet, req.Format, req.Fields)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := sheet.AppendRow(ctx, values); err != nil {
		writeStoreError(w, err)
		return
	}

	actor := h.recordEdit(ctx, "row_create", req.Workbook, req.Sheet, "")
	h.recorder.Record(ctx, audit.Event{
		Type:  audit.TypeRowCreated,
		Actor: actor,
		Sheet: req.Sheet,
		Cells: len(values),
	})
	writeJSON(w, http.StatusCreated, map[string]any{"values": values})
}

type updateRowRequest struct {
	Workbook string            `json:"workbook"`
	Sheet    string            `json:"sheet"`
	Row      int               `json:"row"`
	Format   string            `json:"format"`
	Fields   map[string]string `json:"fields"`
}

func (h *CalendarHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req updateRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Row <= h.headerRowIndex+1 {
		writeError(w, http.StatusBadRequest, "row addresses the header area")
		return
	}
	sheet, cleanup, ok := h.openSheet(w, r, req.Workbook, req.Sheet)
	if !ok {
		return
	}
	defer cleanup()

	ctx := r.Context()
	values, err := h.encodeRow(ctx, sheet, req.Format, req.Fields)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	actor := ""
	if sess, ok := SessionFromContext(ctx); ok {
		actor = sess.Actor
	}
	writes := mapper.RowWrites(req.Row, values)
	auditor := audit.BatchAuditor{Recorder: h.recorder, Actor: actor}
	if err := mapper.ApplyWrites(ctx, sheet.Title(), sheet, writes, auditor); err != nil {
		h.logger.Error("row update failed", "sheet", req.Sheet, "row", req.Row, "err", err)
		writeError(w, http.StatusBadGateway, "row update failed; some cells may have been written")
		return
	}

	h.recordEdit(ctx, "row_update", req.Workbook, req.Sheet, strconv.Itoa(req.Row))
	h.recorder.Record(ctx, audit.Event{
		Type:  audit.TypeRowUpdated,
		Actor: actor,
		Sheet: req.Sheet,
		Cells: len(writes),
	})
	writeJSON(w, http.StatusOK, map[string]any{"row": req.Row, "values": values})
}

type deleteRowRequest struct {
	Workbook string `json:"workbook"`
	Sheet    string `json:"sheet"`
	Row      int    `json:"row"`
}

func (h *CalendarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req deleteRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Row <= h.headerRowIndex+1 {
		writeError(w, http.StatusBadRequest, "row addresses the header area")
		return
	}
	sheet, cleanup, ok := h.openSheet(w, r, req.Workbook, req.Sheet)
	if !ok {
		return
	}
	defer cleanup()

	ctx := r.Context()
	if err := sheet.DeleteRow(ctx, req.Row); err != nil {
		writeStoreError(w, err)
		return
	}

	actor := h.recordEdit(ctx, "row_delete", req.Workbook, req.Sheet, strconv.Itoa(req.Row))
	h.recorder.Record(ctx, audit.Event{
		Type:  audit.TypeRowDeleted,
		Actor: actor,
		Sheet: req.Sheet,
	})
	writeJSON(w, http.StatusOK, map[string]any{"row": req.Row, "deleted": true})
}

type bulkRequest struct {
	Workbook string     `json:"workbook"`
	Sheet    string     `json:"sheet"`
	TopRow   int        `json:"top_row"`
	LeftCol  int        `json:"left_col"`
	Rows     [][]string `json:"rows"`
}

// Bulk applies a pasted grid of cells in one block write.
func (h *CalendarHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "rows required")
		return
	}
	if req.LeftCol <= 0 {
		req.LeftCol = 1
	}
	if req.TopRow <= h.headerRowIndex+1 {
		writeError(w, http.StatusBadRequest, "top_row addresses the header area")
		return
	}
	sheet, cleanup, ok := h.openSheet(w, r, req.Workbook, req.Sheet)
	if !ok {
		return
	}
	defer cleanup()

	ctx := r.Context()
	if err := sheet.BulkWrite(ctx, req.Rows, req.TopRow, req.LeftCol); err != nil {
		writeStoreError(w, err)
		return
	}

	cells := 0
	for _, row := range req.Rows {
		cells += len(row)
	}
	actor := h.recordEdit(ctx, "bulk_paste", req.Workbook, req.Sheet, strconv.Itoa(req.TopRow))
	h.recorder.Record(ctx, audit.Event{
		Type:  audit.TypeBatchApplied,
		Actor: actor,
		Sheet: req.Sheet,
		Cells: cells,
	})
	writeJSON(w, http.StatusOK, map[string]any{"rows": len(req.Rows), "cells": cells})
}

// ExportCSV streams the decoded calendar as CSV: header set first, then each
// record's values in sheet column order.
func (h *CalendarHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sheet, cleanup, ok := h.openSheet(w, r, r.URL.Query().Get("workbook"), r.URL.Query().Get("sheet"))
	if !ok {
		return
	}
	defer cleanup()

	rows, err := sheet.ReadAll(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	records := mapper.DecodeRows(rows, h.headerRowIndex)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.csv"`)
	cw := csv.NewWriter(w)
	if len(records) > 0 {
		_ = cw.Write(records[0].Headers)
		for _, rec := range records {
			_ = cw.Write(rec.Values())
		}
	}
	cw.Flush()
}

// encodeRow resolves input fields to a physical row for the requested
// calendar format. The full format needs the sheet's live header set.
func (h *CalendarHandler) encodeRow(ctx context.Context, sheet gridstore.Sheet, format string, fields map[string]string) ([]string, error) {
	if format == "" || format == "basic" {
		return mapper.EncodeBasicRow(fields), nil
	}
	rows, err := sheet.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	var headers []string
	if len(rows) > h.headerRowIndex {
		headers = mapper.NormalizeHeaders(rows[h.headerRowIndex])
	}
	return mapper.EncodeFullRow(headers, fields), nil
}

func (h *CalendarHandler) openSheet(w http.ResponseWriter, r *http.Request, workbookID, sheetTitle string) (gridstore.Sheet, func(), bool) {
	return openCalendarSheet(w, r, h.store, workbookID, sheetTitle)
}

// openCalendarSheet resolves a calendar sheet by workbook id and title. The
// first sheet of a workbook is the client profile and is never addressable as
// a calendar. The returned cleanup closes the workbook.
func openCalendarSheet(w http.ResponseWriter, r *http.Request, store gridstore.Store, workbookID, sheetTitle string) (gridstore.Sheet, func(), bool) {
	workbookID = strings.TrimSpace(workbookID)
	sheetTitle = strings.TrimSpace(sheetTitle)
	if workbookID == "" || sheetTitle == "" {
		writeError(w, http.StatusBadRequest, "workbook and sheet required")
		return nil, nil, false
	}

	ctx := r.Context()
	book, err := store.OpenWorkbook(ctx, workbookID)
	if err != nil {
		writeStoreError(w, err)
		return nil, nil, false
	}
	sheets, err := book.ListSheets(ctx)
	if err != nil {
		_ = book.Close()
		writeStoreError(w, err)
		return nil, nil, false
	}
	for i, sheet := range sheets {
		if i == 0 || sheet.Title() != sheetTitle {
			continue
		}
		return sheet, func() { _ = book.Close() }, true
	}
	_ = book.Close()
	writeError(w, http.StatusNotFound, "calendar sheet not found")
	return nil, nil, false
}

// recordEdit appends to the session's edit history and returns the acting
// identity for audit events.
func (h *CalendarHandler) recordEdit(ctx context.Context, action, workbookID, sheetTitle, row string) string {
	sess, ok := SessionFromContext(ctx)
	if !ok {
		return ""
	}
	details := map[string]string{
		"workbook": workbookID,
		"sheet":    sheetTitle,
	}
	if row != "" {
		details["row"] = row
	}
	sess.RecordEdit(action, details)
	sess.LogActivity("info", action+" on "+sheetTitle)
	return sess.Actor
}
