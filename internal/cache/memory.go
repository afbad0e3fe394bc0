package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dverano/villadesk/internal/gridstore"
)

type memoryEntry struct {
	items     []gridstore.WorkbookInfo
	fetchedAt time.Time
}

// Memory is the in-process FolderCache.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *Memory) Get(_ context.Context, folderID string) ([]gridstore.WorkbookInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[folderID]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetchedAt) >= c.ttl {
		delete(c.entries, folderID)
		return nil, false
	}
	return append([]gridstore.WorkbookInfo(nil), entry.items...), true
}

func (c *Memory) Put(_ context.Context, folderID string, items []gridstore.WorkbookInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[folderID] = memoryEntry{
		items:     append([]gridstore.WorkbookInfo(nil), items...),
		fetchedAt: c.now(),
	}
}

func (c *Memory) Invalidate(_ context.Context, folderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, folderID)
}
