package gridstore

import (
	"context"
	"errors"
	"testing"
	"time"
)

type flakyStore struct {
	*MemStore
	failures int
	calls    int
}

func (s *flakyStore) ListWorkbooks(ctx context.Context, folderID string) ([]WorkbookInfo, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, &TransientError{Err: errors.New("rate limited")}
	}
	return s.MemStore.ListWorkbooks(ctx, folderID)
}

func testPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond}
}

func TestRetryingLister_RecoversFromTransientFailures(t *testing.T) {
	mem := NewMemStore()
	mem.AddWorkbook("villas", WorkbookInfo{ID: "villas/casa.xlsx", Name: "casa"}, NewMemWorkbook("villas/casa.xlsx"))
	flaky := &flakyStore{MemStore: mem, failures: 2}

	lister := NewRetryingLister(flaky, testPolicy(), nil)
	items, err := lister.ListWorkbooks(context.Background(), "villas")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Name != "casa" {
		t.Fatalf("unexpected listing: %v", items)
	}
	if flaky.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", flaky.calls)
	}
}

func TestRetryingLister_GivesUpAfterMaxRetries(t *testing.T) {
	flaky := &flakyStore{MemStore: NewMemStore(), failures: 10}
	lister := NewRetryingLister(flaky, testPolicy(), nil)

	_, err := lister.ListWorkbooks(context.Background(), "villas")
	if !IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if flaky.calls != 4 {
		t.Fatalf("expected initial attempt plus 3 retries, got %d calls", flaky.calls)
	}
}

func TestRetryingLister_DoesNotRetryPermissionErrors(t *testing.T) {
	mem := NewMemStore()
	mem.FailListWith(&PermissionError{FolderID: "villas", Err: errors.New("HTTP 403: folder not shared")})
	lister := NewRetryingLister(mem, testPolicy(), nil)

	_, err := lister.ListWorkbooks(context.Background(), "villas")
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
	if mem.ListCalls() != 1 {
		t.Fatalf("permission errors must not be retried, got %d calls", mem.ListCalls())
	}
}

func TestClassifyListError(t *testing.T) {
	err := ClassifyListError("villas", errors.New("googleapi: Error 403: forbidden"))
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("expected PermissionError for 403, got %v", err)
	}

	err = ClassifyListError("villas", errors.New("connection reset"))
	if !IsTransient(err) {
		t.Fatalf("expected TransientError, got %v", err)
	}
}
