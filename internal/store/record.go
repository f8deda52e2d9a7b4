package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/edvin/mailwatch/internal/model"
)

const recordColumns = `id, domain_id, kind, name, value, priority, ttl, first_observed, last_observed, active, resolvers`

func scanRecord(row pgx.Row, r *model.Record) error {
	var resolvers []byte
	if err := row.Scan(&r.ID, &r.DomainID, &r.Kind, &r.Name, &r.Value, &r.Priority, &r.TTL,
		&r.FirstObserved, &r.LastObserved, &r.Active, &resolvers); err != nil {
		return err
	}
	if len(resolvers) == 0 {
		r.Resolvers = []string{}
		return nil
	}
	if err := json.Unmarshal(resolvers, &r.Resolvers); err != nil {
		return fmt.Errorf("decode resolvers: %w", err)
	}
	return nil
}

func (s *Postgres) queryRecords(ctx context.Context, op, query string, args ...any) ([]model.Record, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var r model.Record
		if err := scanRecord(rows, &r); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// GetActiveRecords returns the active records of one kind for a domain.
func (s *Postgres) GetActiveRecords(ctx context.Context, domainID string, kind model.RecordKind) ([]model.Record, error) {
	return s.queryRecords(ctx, fmt.Sprintf("get active %s records for domain %s", kind, domainID),
		`SELECT `+recordColumns+` FROM dns_records
		 WHERE domain_id = $1 AND kind = $2 AND active
		 ORDER BY priority NULLS LAST, name, value`,
		domainID, kind,
	)
}

// ListRecords returns all records of a domain, newest observations first.
func (s *Postgres) ListRecords(ctx context.Context, domainID string, activeOnly bool) ([]model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM dns_records WHERE domain_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY kind, name, last_observed DESC`
	return s.queryRecords(ctx, fmt.Sprintf("list records for domain %s", domainID), query, domainID)
}

func (s *Postgres) CreateRecord(ctx context.Context, rec model.Record) (model.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	resolvers, err := encodeResolvers(rec.Resolvers)
	if err != nil {
		return model.Record{}, err
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO dns_records (`+recordColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.DomainID, rec.Kind, rec.Name, rec.Value, rec.Priority, rec.TTL,
		rec.FirstObserved, rec.LastObserved, rec.Active, resolvers,
	)
	if err != nil {
		return model.Record{}, fmt.Errorf("create %s record %s: %w", rec.Kind, rec.Value, err)
	}
	return rec, nil
}

// UpdateRecord writes the mutable observation fields of rec.
func (s *Postgres) UpdateRecord(ctx context.Context, rec model.Record) (model.Record, error) {
	resolvers, err := encodeResolvers(rec.Resolvers)
	if err != nil {
		return model.Record{}, err
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE dns_records SET ttl = $2, last_observed = $3, active = $4, resolvers = $5
		 WHERE id = $1`,
		rec.ID, rec.TTL, rec.LastObserved, rec.Active, resolvers,
	)
	if err != nil {
		return model.Record{}, fmt.Errorf("update record %s: %w", rec.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return model.Record{}, fmt.Errorf("update record %s: %w", rec.ID, ErrNotFound)
	}
	return rec, nil
}

func encodeResolvers(resolvers []string) ([]byte, error) {
	if resolvers == nil {
		resolvers = []string{}
	}
	b, err := json.Marshal(resolvers)
	if err != nil {
		return nil, fmt.Errorf("encode resolvers: %w", err)
	}
	return b, nil
}
