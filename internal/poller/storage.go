package poller

import (
	"context"
	"fmt"

	"github.com/edvin/mailwatch/internal/model"
)

// ErrRecordNotFound is returned by Storage.UpdateRecord for a missing row.
var ErrRecordNotFound = model.ErrNotFound

// Storage is the persistence contract the poller needs. UpdateRecord must
// return an error wrapping ErrRecordNotFound when the record no longer exists.
type Storage interface {
	ListDomains(ctx context.Context) ([]model.Domain, error)
	GetActiveRecords(ctx context.Context, domainID string, kind model.RecordKind) ([]model.Record, error)
	CreateRecord(ctx context.Context, rec model.Record) (model.Record, error)
	UpdateRecord(ctx context.Context, rec model.Record) (model.Record, error)
}

// StorageError wraps any persistence failure during a poll.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
