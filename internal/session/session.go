// Package session holds the per-session mutable state of the dashboard:
// activity log, edit-history audit trail, backup snapshots and booking
// templates. State lives in memory only; the grid store is the single store
// of record.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Caps bound the in-memory collections. Oldest entries are evicted first.
type Caps struct {
	ActivityLog int
	EditHistory int
	Backups     int
}

func DefaultCaps() Caps {
	return Caps{ActivityLog: 200, EditHistory: 1000, Backups: 50}
}

type ActivityEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

type HistoryEntry struct {
	ID      string            `json:"id"`
	Action  string            `json:"action"`
	Details map[string]string `json:"details"`
	Time    time.Time         `json:"time"`
	Actor   string            `json:"actor"`
}

// Backup is a full cell-grid copy of one sheet at one point in time.
type Backup struct {
	ID         string     `json:"id"`
	WorkbookID string     `json:"workbook_id"`
	SheetTitle string     `json:"sheet_title"`
	TakenAt    time.Time  `json:"taken_at"`
	Rows       [][]string `json:"-"`
	RowCount   int        `json:"row_count"`
}

type Template struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Fields      map[string]string `json:"fields"`
	UseCount    int               `json:"use_count"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Session is the explicit per-session state object passed to every handler.
type Session struct {
	ID    string
	Actor string

	mu        sync.Mutex
	caps      Caps
	activity  []ActivityEntry
	history   []HistoryEntry
	backups   []Backup
	templates map[string]*Template
	createdAt time.Time
}

func New(id, actor string, caps Caps) *Session {
	return &Session{
		ID:        id,
		Actor:     actor,
		caps:      caps,
		templates: make(map[string]*Template),
		createdAt: time.Now().UTC(),
	}
}

func (s *Session) LogActivity(level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = append(s.activity, ActivityEntry{Time: time.Now().UTC(), Level: level, Message: message})
	if n := len(s.activity) - s.caps.ActivityLog; n > 0 {
		s.activity = s.activity[n:]
	}
}

func (s *Session) Activity() []ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ActivityEntry(nil), s.activity...)
}

// RecordEdit appends one audit-trail entry and returns its id.
func (s *Session) RecordEdit(action string, details map[string]string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := HistoryEntry{
		ID:      uuid.NewString(),
		Action:  action,
		Details: details,
		Time:    time.Now().UTC(),
		Actor:   s.Actor,
	}
	s.history = append(s.history, entry)
	if n := len(s.history) - s.caps.EditHistory; n > 0 {
		s.history = s.history[n:]
	}
	return entry.ID
}

func (s *Session) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]HistoryEntry(nil), s.history...)
}

// AddBackup stores a snapshot of a sheet's full grid and returns it.
func (s *Session) AddBackup(workbookID, sheetTitle string, rows [][]string) Backup {
	copied := make([][]string, len(rows))
	for i, r := range rows {
		copied[i] = append([]string(nil), r...)
	}
	b := Backup{
		ID:         uuid.NewString(),
		WorkbookID: workbookID,
		SheetTitle: sheetTitle,
		TakenAt:    time.Now().UTC(),
		Rows:       copied,
		RowCount:   len(copied),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.backups = append(s.backups, b)
	if n := len(s.backups) - s.caps.Backups; n > 0 {
		s.backups = s.backups[n:]
	}
	return b
}

func (s *Session) Backups() []Backup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Backup(nil), s.backups...)
}

func (s *Session) Backup(id string) (Backup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.backups {
		if b.ID == id {
			return b, true
		}
	}
	return Backup{}, false
}

func (s *Session) SaveTemplate(t Template) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.templates[t.Name]; ok {
		t.UseCount = existing.UseCount
		t.CreatedAt = existing.CreatedAt
	}
	s.templates[t.Name] = &t
}

func (s *Session) DeleteTemplate(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[name]; !ok {
		return false
	}
	delete(s.templates, name)
	return true
}

// UseTemplate increments the template's usage counter and returns a copy of
// its field mapping.
func (s *Session) UseTemplate(name string) (map[string]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[name]
	if !ok {
		return nil, false
	}
	t.UseCount++
	fields := make(map[string]string, len(t.Fields))
	for k, v := range t.Fields {
		fields[k] = v
	}
	return fields, true
}

func (s *Session) Templates() []Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Template, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
