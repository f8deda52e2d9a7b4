package resolver

import (
	"context"
	"sync"
	"time"
)

// DefaultQueryTimeout bounds a single resolver query when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

// Response is one resolver's successful answer to one query.
type Response struct {
	Resolver string
	Observed time.Time
	Elapsed  time.Duration
	Answers  []Answer
}

// QueryOutcome describes a finished query, successful or not.
type QueryOutcome struct {
	Resolver string
	FQDN     string
	Wire     WireType
	Elapsed  time.Duration
	Answers  int
	Err      error
}

// Observer receives query outcomes. Implementations must not block.
type Observer interface {
	Queried(QueryOutcome)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) Queried(QueryOutcome) {}

// PoolConfig holds the fan-out settings shared by all pool members.
type PoolConfig struct {
	// Timeout bounds each individual query. Defaults to DefaultQueryTimeout.
	Timeout  time.Duration
	Observer Observer
}

// Pool holds one independent client per configured resolver. It is never
// mutated after construction and is safe for concurrent use.
type Pool struct {
	clients  []Client
	timeout  time.Duration
	observer Observer
}

// NewPool creates a DNSClient for every address.
func NewPool(addrs []string, cfg PoolConfig) (*Pool, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	clients := make([]Client, 0, len(addrs))
	for _, addr := range addrs {
		clients = append(clients, NewDNSClient(addr, timeout))
	}
	return NewPoolWithClients(clients, cfg)
}

// NewPoolWithClients builds a pool from existing clients. It fails when no
// clients are given or when two clients share an address, since every
// resolver must count as exactly one vote.
func NewPoolWithClients(clients []Client, cfg PoolConfig) (*Pool, error) {
	if len(clients) == 0 {
		return nil, &ConfigurationError{Reason: "no dns resolvers configured"}
	}

	seen := make(map[string]struct{}, len(clients))
	for _, c := range clients {
		if _, dup := seen[c.Address()]; dup {
			return nil, &ConfigurationError{Reason: "duplicate dns resolver " + c.Address()}
		}
		seen[c.Address()] = struct{}{}
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultQueryTimeout
	}
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}

	owned := make([]Client, len(clients))
	copy(owned, clients)

	return &Pool{clients: owned, timeout: cfg.Timeout, observer: cfg.Observer}, nil
}

// Clients returns the pool members in configuration order. The returned
// slice is a copy.
func (p *Pool) Clients() []Client {
	out := make([]Client, len(p.clients))
	copy(out, p.clients)
	return out
}

// Size returns the number of resolvers in the pool.
func (p *Pool) Size() int { return len(p.clients) }

// Resolve queries every resolver concurrently and returns the responses
// that succeeded, in pool order. Failed or timed out resolvers are reported
// to the observer and left out; they never fail the fan-out.
func (p *Pool) Resolve(ctx context.Context, fqdn string, wire WireType) []Response {
	results := make([]*Response, len(p.clients))

	var wg sync.WaitGroup
	for i, c := range p.clients {
		wg.Go(func() {
			results[i] = p.query(ctx, c, fqdn, wire)
		})
	}
	wg.Wait()

	responses := make([]Response, 0, len(results))
	for _, r := range results {
		if r != nil {
			responses = append(responses, *r)
		}
	}
	return responses
}

func (p *Pool) query(ctx context.Context, c Client, fqdn string, wire WireType) *Response {
	qctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	answers, err := c.Query(qctx, fqdn, wire)
	elapsed := time.Since(start)

	outcome := QueryOutcome{
		Resolver: c.Address(),
		FQDN:     fqdn,
		Wire:     wire,
		Elapsed:  elapsed,
		Answers:  len(answers),
	}
	if err != nil {
		outcome.Answers = 0
		outcome.Err = &ResolverQueryError{Resolver: c.Address(), FQDN: fqdn, Wire: wire, Err: err}
		p.observer.Queried(outcome)
		return nil
	}
	p.observer.Queried(outcome)

	return &Response{
		Resolver: c.Address(),
		Observed: time.Now(),
		Elapsed:  elapsed,
		Answers:  answers,
	}
}
