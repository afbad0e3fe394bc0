package gridstore

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy describes the backoff applied to idempotent listing calls.
// After a failed attempt the delay starts at BaseDelay and doubles, so the
// default schedule is 2s, 4s, 8s before the final error propagates.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseDelay: 2 * time.Second}
}

// RetryingLister wraps a Store and retries ListWorkbooks on transient
// failures. Mutating operations are passed through untouched: retrying a
// write or append could duplicate its side effects.
type RetryingLister struct {
	Store
	policy RetryPolicy
	logger *slog.Logger
}

func NewRetryingLister(store Store, policy RetryPolicy, logger *slog.Logger) *RetryingLister {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = 2 * time.Second
	}
	return &RetryingLister{Store: store, policy: policy, logger: logger}
}

func (r *RetryingLister) ListWorkbooks(ctx context.Context, folderID string) ([]WorkbookInfo, error) {
	delay := r.policy.BaseDelay
	var lastErr error
	for attempt := 0; attempt <= r.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			if r.logger != nil {
				r.logger.Warn("retrying workbook listing",
					"folder_id", folderID,
					"attempt", attempt,
					"delay", delay.String(),
					"err", lastErr,
				)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		items, err := r.Store.ListWorkbooks(ctx, folderID)
		if err == nil {
			return items, nil
		}
		lastErr = err
		if !IsTransient(err) {
			return nil, err
		}
	}
	return nil, lastErr
}
