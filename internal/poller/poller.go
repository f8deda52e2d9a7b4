package poller

import (
	"context"
	"fmt"
	"strings"

	"github.com/edvin/mailwatch/internal/consensus"
	"github.com/edvin/mailwatch/internal/model"
	"github.com/edvin/mailwatch/internal/resolver"
)

// RecordSource produces consensus records for a name.
type RecordSource interface {
	GetRecord(ctx context.Context, field, domain string, kind model.RecordKind) ([]model.ConsensusRecord, error)
}

// Config holds poller settings.
type Config struct {
	// MinimumQuorum is the number of successful resolver responses required
	// before consensus is attempted. Defaults to consensus.DefaultMinimumQuorum.
	MinimumQuorum int
	Observer      Observer
}

// Poller resolves records through every resolver of a pool and reduces the
// answers to the majority-agreed set.
type Poller struct {
	pool      *resolver.Pool
	minQuorum int
	observer  Observer
}

// New creates a poller over pool.
func New(pool *resolver.Pool, cfg Config) *Poller {
	if cfg.MinimumQuorum <= 0 {
		cfg.MinimumQuorum = consensus.DefaultMinimumQuorum
	}
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}
	return &Poller{pool: pool, minQuorum: cfg.MinimumQuorum, observer: cfg.Observer}
}

// FQDN joins a record field with its domain. An empty field or "@" means
// the domain apex; a field ending in "." is already absolute.
func FQDN(field, domain string) string {
	domain = strings.ToLower(strings.TrimSuffix(domain, "."))
	if strings.HasSuffix(field, ".") && field != "." {
		return strings.ToLower(strings.TrimSuffix(field, "."))
	}
	field = strings.ToLower(field)
	if field == "" || field == "@" {
		return domain
	}
	return field + "." + domain
}

// GetRecord resolves field.domain for kind across all resolvers and returns
// the consensus records. It fails with *consensus.InsufficientResponsesError
// or *consensus.NoConsensusError when no trustworthy answer exists.
func (p *Poller) GetRecord(ctx context.Context, field, domain string, kind model.RecordKind) ([]model.ConsensusRecord, error) {
	wire, err := resolver.WireTypeFor(kind)
	if err != nil {
		return nil, err
	}

	fqdn := FQDN(field, domain)
	responses := p.pool.Resolve(ctx, fqdn, wire)

	winners, err := consensus.Compute(responses, p.minQuorum)
	p.observer.Consensus(ConsensusOutcome{
		CycleID:   CycleIDFrom(ctx),
		FQDN:      fqdn,
		Kind:      kind,
		Responses: len(responses),
		Winners:   len(winners),
		Err:       err,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve %s %s: %w", kind, fqdn, err)
	}

	records := make([]model.ConsensusRecord, 0, len(winners))
	for _, w := range winners {
		records = append(records, toConsensusRecord(kind, fqdn, w))
	}
	return records, nil
}

func toConsensusRecord(kind model.RecordKind, fqdn string, c consensus.Candidate) model.ConsensusRecord {
	rec := model.ConsensusRecord{
		Kind:      kind,
		Name:      fqdn,
		Value:     c.Sample.Value(),
		TTL:       int(c.Sample.TTL()),
		Observed:  c.Observed,
		Resolvers: c.Resolvers,
	}

	switch a := c.Sample.(type) {
	case resolver.MXAnswer:
		priority := int(a.Priority)
		rec.Kind = model.KindMx
		rec.Priority = &priority
	case resolver.TLSAAnswer:
		rec.Kind = model.KindTlsa
	case resolver.TXTAnswer:
	}
	return rec
}
