package gridstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// XLSXStore serves workbooks from a directory tree of .xlsx files. A folder
// id is a subdirectory relative to the root ("" means the root itself) and a
// workbook id is the file path relative to the root. It is the self-hosted
// stand-in for the hosted spreadsheet service and shares its semantics:
// immediate per-cell writes, no transactions.
type XLSXStore struct {
	root string
}

func NewXLSXStore(root string) *XLSXStore {
	return &XLSXStore{root: filepath.Clean(root)}
}

func (s *XLSXStore) ListWorkbooks(ctx context.Context, folderID string) ([]WorkbookInfo, error) {
	dir, err := s.resolve(folderID)
	if err != nil {
		return nil, &PermissionError{FolderID: folderID, Err: err}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil, &PermissionError{FolderID: folderID, Err: err}
		}
		return nil, &TransientError{Err: err}
	}

	var items []WorkbookInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".xlsx") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		id := filepath.ToSlash(filepath.Join(folderID, entry.Name()))
		items = append(items, WorkbookInfo{
			ID:           id,
			Name:         strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			URL:          "file://" + filepath.Join(dir, entry.Name()),
			ModifiedTime: info.ModTime().UTC(),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *XLSXStore) OpenWorkbook(ctx context.Context, id string) (Workbook, error) {
	path, err := s.resolve(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, &TransientError{Err: err}
	}
	return &xlsxWorkbook{id: id, file: f}, nil
}

// resolve joins a relative id onto the root, refusing escapes.
func (s *XLSXStore) resolve(rel string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(rel))
	if path != s.root && !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("id %q escapes the store root", rel)
	}
	return path, nil
}

type xlsxWorkbook struct {
	id   string
	file *excelize.File
	mu   sync.Mutex
}

func (w *xlsxWorkbook) ID() string { return w.id }

func (w *xlsxWorkbook) ListSheets(_ context.Context) ([]Sheet, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := w.file.GetSheetList()
	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		sheets = append(sheets, &xlsxSheet{book: w, name: name})
	}
	return sheets, nil
}

func (w *xlsxWorkbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

type xlsxSheet struct {
	book *xlsxWorkbook
	name string
}

func (s *xlsxSheet) Title() string { return s.name }

func (s *xlsxSheet) ReadAll(_ context.Context) ([][]string, error) {
	s.book.mu.Lock()
	defer s.book.mu.Unlock()
	rows, err := s.book.file.GetRows(s.name)
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	return rows, nil
}

func (s *xlsxSheet) WriteCell(_ context.Context, row, col int, value string) error {
	s.book.mu.Lock()
	defer s.book.mu.Unlock()
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := s.book.file.SetCellStr(s.name, cell, value); err != nil {
		return &TransientError{Err: err}
	}
	return s.save()
}

func (s *xlsxSheet) AppendRow(_ context.Context, values []string) error {
	s.book.mu.Lock()
	defer s.book.mu.Unlock()
	rows, err := s.book.file.GetRows(s.name)
	if err != nil {
		return &TransientError{Err: err}
	}
	if err := s.setRow(len(rows)+1, 1, values); err != nil {
		return err
	}
	return s.save()
}

func (s *xlsxSheet) DeleteRow(_ context.Context, row int) error {
	s.book.mu.Lock()
	defer s.book.mu.Unlock()
	if err := s.book.file.RemoveRow(s.name, row); err != nil {
		return &TransientError{Err: err}
	}
	return s.save()
}

func (s *xlsxSheet) Clear(_ context.Context) error {
	s.book.mu.Lock()
	defer s.book.mu.Unlock()
	rows, err := s.book.file.GetRows(s.name)
	if err != nil {
		return &TransientError{Err: err}
	}
	for i := len(rows); i >= 1; i-- {
		if err := s.book.file.RemoveRow(s.name, i); err != nil {
			return &TransientError{Err: err}
		}
	}
	return s.save()
}

func (s *xlsxSheet) BulkWrite(_ context.Context, rows [][]string, topRow, leftCol int) error {
	s.book.mu.Lock()
	defer s.book.mu.Unlock()
	for i, row := range rows {
		if err := s.setRow(topRow+i, leftCol, row); err != nil {
			return err
		}
	}
	return s.save()
}

func (s *xlsxSheet) setRow(row, leftCol int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(leftCol, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := s.book.file.SetSheetRow(s.name, cell, &cells); err != nil {
		return &TransientError{Err: err}
	}
	return nil
}

func (s *xlsxSheet) save() error {
	if err := s.book.file.Save(); err != nil {
		return &TransientError{Err: err}
	}
	return nil
}
