package journal

import (
	"context"
	"time"
)

// Record statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Record is the journal entry for one completion attempt.
type Record struct {
	ID          string        `json:"id"`
	RequestID   string        `json:"request_id,omitempty"`
	Time        time.Time     `json:"time"`
	Provider    string        `json:"provider"`
	Model       string        `json:"model"`
	Messages    int           `json:"messages"`
	RequestHash string        `json:"request_hash"`
	Prompt      string        `json:"prompt"`
	Response    string        `json:"response,omitempty"`
	Latency     time.Duration `json:"latency"`
	Status      string        `json:"status"`
	Error       string        `json:"error,omitempty"`
	ErrorKind   string        `json:"error_kind,omitempty"`
}

// Query filters journal records. Zero values match everything.
type Query struct {
	Since    *time.Time `json:"since,omitempty"`
	Until    *time.Time `json:"until,omitempty"`
	Provider string     `json:"provider,omitempty"`
	Status   string     `json:"status,omitempty"`

	// Limit caps the number of records returned, newest first. Default 100.
	Limit int `json:"limit,omitempty"`
}

// DefaultQueryLimit is applied when Query.Limit is zero.
const DefaultQueryLimit = 100

// Storage persists journal records.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Query returns records matching q, newest first.
	Query(ctx context.Context, q *Query) ([]*Record, error)

	// Count returns the number of records matching q, ignoring Limit.
	Count(ctx context.Context, q *Query) (int64, error)

	// DeleteBefore removes records older than cutoff.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteOldest removes the oldest records so that at most keep remain.
	DeleteOldest(ctx context.Context, keep int64) (int64, error)

	// Close releases resources held by the backend.
	Close() error
}

func (q *Query) limit() int {
	if q == nil || q.Limit <= 0 {
		return DefaultQueryLimit
	}
	return q.Limit
}

func (q *Query) matches(r *Record) bool {
	if q == nil {
		return true
	}
	if q.Since != nil && r.Time.Before(*q.Since) {
		return false
	}
	if q.Until != nil && r.Time.After(*q.Until) {
		return false
	}
	if q.Provider != "" && r.Provider != q.Provider {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	return true
}
