package mapper

import (
	"context"
	"fmt"
)

// CellWrite is one targeted cell mutation. Row and Col are 1-based absolute
// sheet coordinates.
type CellWrite struct {
	Row   int
	Col   int
	Value string
}

// CellWriter is the slice of the grid store a write batch needs.
type CellWriter interface {
	WriteCell(ctx context.Context, row, col int, value string) error
}

// BatchAuditor observes successfully applied write batches. Implementations
// must be best-effort: an audit failure never fails the batch.
type BatchAuditor interface {
	BatchApplied(ctx context.Context, sheet string, cells int)
}

// ApplyWrites applies each write individually, in input order, with no
// transactionality. The first failing write aborts the remainder and is
// returned; completed writes stay applied, there is no rollback. A fully
// applied batch is reported to the auditor with the sheet name and cell
// count.
func ApplyWrites(ctx context.Context, sheetTitle string, w CellWriter, writes []CellWrite, auditor BatchAuditor) error {
	for i, cw := range writes {
		if err := w.WriteCell(ctx, cw.Row, cw.Col, cw.Value); err != nil {
			return fmt.Errorf("write %d of %d (row %d, col %d): %w", i+1, len(writes), cw.Row, cw.Col, err)
		}
	}
	if auditor != nil && len(writes) > 0 {
		auditor.BatchApplied(ctx, sheetTitle, len(writes))
	}
	return nil
}

// RowWrites expands a fully encoded row into per-cell writes at the given
// 1-based absolute row.
func RowWrites(rowNumber int, values []string) []CellWrite {
	writes := make([]CellWrite, len(values))
	for i, v := range values {
		writes[i] = CellWrite{Row: rowNumber, Col: i + 1, Value: v}
	}
	return writes
}
