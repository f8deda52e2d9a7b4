package handler

import (
	"context"

	"github.com/edvin/mailwatch/internal/model"
)

// Store is the persistence surface the HTTP handlers need. It is satisfied
// by store.Postgres.
type Store interface {
	ListDomains(ctx context.Context) ([]model.Domain, error)
	GetDomain(ctx context.Context, id string) (*model.Domain, error)
	GetDomainByName(ctx context.Context, name string) (*model.Domain, error)
	CreateDomain(ctx context.Context, d *model.Domain) error
	UpdateDomain(ctx context.Context, d *model.Domain) error
	DeleteDomain(ctx context.Context, id string) error
	GetActiveRecords(ctx context.Context, domainID string, kind model.RecordKind) ([]model.Record, error)
	ListRecords(ctx context.Context, domainID string, activeOnly bool) ([]model.Record, error)
}
