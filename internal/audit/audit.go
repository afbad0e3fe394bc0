// Package audit publishes booking and cell-write audit events. Recording is
// best-effort by contract: a publish failure is logged and never fails the
// operation that produced the event.
package audit

import (
	"context"
	"time"
)

// Event is one audit entry. Type follows the versioned dotted taxonomy, e.g.
// villadesk.batch.applied.v1.
type Event struct {
	ID      string            `json:"id"`
	Type    string            `json:"type"`
	Actor   string            `json:"actor,omitempty"`
	Sheet   string            `json:"sheet,omitempty"`
	Cells   int               `json:"cells,omitempty"`
	Details map[string]string `json:"details,omitempty"`
	Time    time.Time         `json:"time"`
}

const (
	TypeBatchApplied   = "villadesk.batch.applied.v1"
	TypeRowCreated     = "villadesk.booking.row.created.v1"
	TypeRowUpdated     = "villadesk.booking.row.updated.v1"
	TypeRowDeleted     = "villadesk.booking.row.deleted.v1"
	TypeSheetRestored  = "villadesk.sheet.restored.v1"
	TypeEmailDelivered = "villadesk.notification.email.sent.v1"
)

type Recorder interface {
	Record(ctx context.Context, e Event)
}

// BatchAuditor adapts a Recorder to the mapper's batch-auditor contract,
// stamping the acting identity on each batch event.
type BatchAuditor struct {
	Recorder Recorder
	Actor    string
}

func (a BatchAuditor) BatchApplied(ctx context.Context, sheet string, cells int) {
	a.Recorder.Record(ctx, Event{
		Type:  TypeBatchApplied,
		Actor: a.Actor,
		Sheet: sheet,
		Cells: cells,
	})
}
