package gridstore

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store used by tests and local development. It
// counts listing calls so cache behavior can be asserted, and can be primed
// with errors to exercise failure paths.
type MemStore struct {
	mu        sync.Mutex
	folders   map[string][]WorkbookInfo
	books     map[string]*MemWorkbook
	listCalls int
	listErr   error
}

func NewMemStore() *MemStore {
	return &MemStore{
		folders: make(map[string][]WorkbookInfo),
		books:   make(map[string]*MemWorkbook),
	}
}

func (s *MemStore) AddWorkbook(folderID string, info WorkbookInfo, book *MemWorkbook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders[folderID] = append(s.folders[folderID], info)
	s.books[info.ID] = book
}

// FailListWith makes every subsequent ListWorkbooks call return err. Pass nil
// to clear.
func (s *MemStore) FailListWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr = err
}

func (s *MemStore) ListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

func (s *MemStore) ListWorkbooks(_ context.Context, folderID string) ([]WorkbookInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]WorkbookInfo(nil), s.folders[folderID]...), nil
}

func (s *MemStore) OpenWorkbook(_ context.Context, id string) (Workbook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	book, ok := s.books[id]
	if !ok {
		return nil, ErrNotFound
	}
	return book, nil
}

type MemWorkbook struct {
	id     string
	sheets []*MemSheet
}

func NewMemWorkbook(id string, sheets ...*MemSheet) *MemWorkbook {
	return &MemWorkbook{id: id, sheets: sheets}
}

func (w *MemWorkbook) ID() string { return w.id }

func (w *MemWorkbook) ListSheets(_ context.Context) ([]Sheet, error) {
	out := make([]Sheet, len(w.sheets))
	for i, s := range w.sheets {
		out[i] = s
	}
	return out, nil
}

func (w *MemWorkbook) Close() error { return nil }

type MemSheet struct {
	mu   sync.Mutex
	name string
	rows [][]string

	// writeErr, when non-nil, is returned by every mutation.
	writeErr error
}

func NewMemSheet(name string, rows [][]string) *MemSheet {
	return &MemSheet{name: name, rows: copyRows(rows)}
}

func (s *MemSheet) FailWritesWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

func (s *MemSheet) Title() string { return s.name }

func (s *MemSheet) ReadAll(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRows(s.rows), nil
}

// Rows returns a snapshot of the current grid, for assertions.
func (s *MemSheet) Rows() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRows(s.rows)
}

func (s *MemSheet) WriteCell(_ context.Context, row, col int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.grow(row, col)
	s.rows[row-1][col-1] = value
	return nil
}

func (s *MemSheet) AppendRow(_ context.Context, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.rows = append(s.rows, append([]string(nil), values...))
	return nil
}

func (s *MemSheet) DeleteRow(_ context.Context, row int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if row < 1 || row > len(s.rows) {
		return nil
	}
	s.rows = append(s.rows[:row-1], s.rows[row:]...)
	return nil
}

func (s *MemSheet) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.rows = nil
	return nil
}

func (s *MemSheet) BulkWrite(_ context.Context, rows [][]string, topRow, leftCol int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	for i, row := range rows {
		for j, v := range row {
			s.grow(topRow+i, leftCol+j)
			s.rows[topRow+i-1][leftCol+j-1] = v
		}
	}
	return nil
}

func (s *MemSheet) grow(row, col int) {
	for len(s.rows) < row {
		s.rows = append(s.rows, nil)
	}
	for len(s.rows[row-1]) < col {
		s.rows[row-1] = append(s.rows[row-1], "")
	}
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
