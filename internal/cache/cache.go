// Package cache provides the TTL-bounded folder-listing cache. The in-memory
// implementation is per process; the Redis implementation shares one cache
// across instances.
package cache

import (
	"context"

	"github.com/dverano/villadesk/internal/gridstore"
)

// FolderCache caches folder listings keyed by folder id. Get reports a miss
// for entries at or past the TTL; the caller then performs exactly one
// re-fetch and Puts the result back.
type FolderCache interface {
	Get(ctx context.Context, folderID string) ([]gridstore.WorkbookInfo, bool)
	Put(ctx context.Context, folderID string, items []gridstore.WorkbookInfo)
	Invalidate(ctx context.Context, folderID string)
}
