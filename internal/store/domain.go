package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/edvin/mailwatch/internal/model"
)

const domainColumns = `id, name, added, modified, spf_policy, dmarc_policy, mta_sts_mode, mta_sts_age,
	dkim_selectors, tlsrpt_enabled, tlsa_enabled, bimi_enabled, dnssec_enabled, monitoring, retention_days`

func scanDomain(row pgx.Row, d *model.Domain) error {
	return row.Scan(&d.ID, &d.Name, &d.Added, &d.Modified, &d.SpfPolicy, &d.DmarcPolicy,
		&d.MtaStsMode, &d.MtaStsAge, &d.DkimSelectors, &d.TLSRPTEnabled, &d.TLSAEnabled,
		&d.BIMIEnabled, &d.DNSSECEnabled, &d.Monitoring, &d.RetentionPolicy)
}

func (s *Postgres) ListDomains(ctx context.Context) ([]model.Domain, error) {
	rows, err := s.db.Query(ctx, `SELECT `+domainColumns+` FROM domains ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	defer rows.Close()

	var domains []model.Domain
	for rows.Next() {
		var d model.Domain
		if err := scanDomain(rows, &d); err != nil {
			return nil, fmt.Errorf("scan domain: %w", err)
		}
		domains = append(domains, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate domains: %w", err)
	}
	return domains, nil
}

func (s *Postgres) GetDomain(ctx context.Context, id string) (*model.Domain, error) {
	var d model.Domain
	err := scanDomain(s.db.QueryRow(ctx, `SELECT `+domainColumns+` FROM domains WHERE id = $1`, id), &d)
	if err != nil {
		return nil, fmt.Errorf("get domain %s: %w", id, notFound(err))
	}
	return &d, nil
}

// GetDomainByName looks a domain up by its case-insensitive name.
func (s *Postgres) GetDomainByName(ctx context.Context, name string) (*model.Domain, error) {
	name = strings.ToLower(strings.TrimSuffix(name, "."))
	var d model.Domain
	err := scanDomain(s.db.QueryRow(ctx, `SELECT `+domainColumns+` FROM domains WHERE name = $1`, name), &d)
	if err != nil {
		return nil, fmt.Errorf("get domain %s: %w", name, notFound(err))
	}
	return &d, nil
}

// CreateDomain inserts d, filling in the id, timestamps and defaults.
func (s *Postgres) CreateDomain(ctx context.Context, d *model.Domain) error {
	now := time.Now().UTC()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.Name = strings.ToLower(strings.TrimSuffix(d.Name, "."))
	d.Added, d.Modified = now, now
	if d.MtaStsAge == 0 {
		d.MtaStsAge = model.DefaultMtaStsAge
	}
	if d.RetentionPolicy == 0 {
		d.RetentionPolicy = model.DefaultRetentionPolicy
	}
	if d.DkimSelectors == nil {
		d.DkimSelectors = []string{}
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO domains (`+domainColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		d.ID, d.Name, d.Added, d.Modified, d.SpfPolicy, d.DmarcPolicy, d.MtaStsMode, d.MtaStsAge,
		d.DkimSelectors, d.TLSRPTEnabled, d.TLSAEnabled, d.BIMIEnabled, d.DNSSECEnabled,
		d.Monitoring, d.RetentionPolicy,
	)
	if err != nil {
		return fmt.Errorf("create domain %s: %w", d.Name, err)
	}
	return nil
}

func (s *Postgres) UpdateDomain(ctx context.Context, d *model.Domain) error {
	d.Modified = time.Now().UTC()
	tag, err := s.db.Exec(ctx,
		`UPDATE domains SET modified = $2, spf_policy = $3, dmarc_policy = $4, mta_sts_mode = $5,
		 mta_sts_age = $6, dkim_selectors = $7, tlsrpt_enabled = $8, tlsa_enabled = $9,
		 bimi_enabled = $10, dnssec_enabled = $11, monitoring = $12, retention_days = $13
		 WHERE id = $1`,
		d.ID, d.Modified, d.SpfPolicy, d.DmarcPolicy, d.MtaStsMode, d.MtaStsAge, d.DkimSelectors,
		d.TLSRPTEnabled, d.TLSAEnabled, d.BIMIEnabled, d.DNSSECEnabled, d.Monitoring, d.RetentionPolicy,
	)
	if err != nil {
		return fmt.Errorf("update domain %s: %w", d.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update domain %s: %w", d.ID, ErrNotFound)
	}
	return nil
}

// DeleteDomain removes a domain and, through the foreign key, its records.
func (s *Postgres) DeleteDomain(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM domains WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete domain %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete domain %s: %w", id, ErrNotFound)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
