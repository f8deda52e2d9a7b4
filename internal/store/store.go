package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edvin/mailwatch/internal/model"
)

// ErrNotFound is wrapped by every lookup or update that matches no row.
var ErrNotFound = model.ErrNotFound

// DB is the subset of pgxpool.Pool used by the store.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres persists domains and record observations.
type Postgres struct {
	db DB
}

func New(db DB) *Postgres {
	return &Postgres{db: db}
}
