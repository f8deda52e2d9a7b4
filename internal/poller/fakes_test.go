package poller

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edvin/mailwatch/internal/model"
	"github.com/edvin/mailwatch/internal/resolver"
)

// ---------- Fake DNS ----------

type fakeDNS struct {
	mu      sync.Mutex
	addr    string
	answers map[string][]resolver.Answer
	failing map[string]bool
}

func newFakeDNS(addr string) *fakeDNS {
	return &fakeDNS{addr: addr, answers: map[string][]resolver.Answer{}, failing: map[string]bool{}}
}

func dnsKey(fqdn string, wire resolver.WireType) string {
	return fqdn + "/" + wire.String()
}

func (f *fakeDNS) set(fqdn string, wire resolver.WireType, answers ...resolver.Answer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers[dnsKey(fqdn, wire)] = answers
}

func (f *fakeDNS) fail(fqdn string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[fqdn] = true
}

func (f *fakeDNS) Address() string { return f.addr }

func (f *fakeDNS) Query(_ context.Context, fqdn string, wire resolver.WireType) ([]resolver.Answer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[fqdn] {
		return nil, resolver.ErrDNSServFail
	}
	return f.answers[dnsKey(fqdn, wire)], nil
}

// fakeResolvers builds n fake resolvers with addresses r1..rn.
func fakeResolvers(n int) []*fakeDNS {
	out := make([]*fakeDNS, n)
	for i := range out {
		out[i] = newFakeDNS(fmt.Sprintf("r%d", i+1))
	}
	return out
}

// setAll publishes the same answers on every resolver.
func setAll(resolvers []*fakeDNS, fqdn string, wire resolver.WireType, answers ...resolver.Answer) {
	for _, r := range resolvers {
		r.set(fqdn, wire, answers...)
	}
}

func newTestPoller(t *testing.T, resolvers []*fakeDNS, obs Observer) *Poller {
	t.Helper()
	clients := make([]resolver.Client, len(resolvers))
	for i, r := range resolvers {
		clients[i] = r
	}
	pool, err := resolver.NewPoolWithClients(clients, resolver.PoolConfig{Timeout: time.Second, Observer: obs})
	require.NoError(t, err)
	return New(pool, Config{Observer: obs})
}

func mx(host string, priority uint16) resolver.MXAnswer {
	return resolver.MXAnswer{Exchange: host + ".", Priority: priority, TTLValue: 300}
}

func txt(segments ...string) resolver.TXTAnswer {
	return resolver.TXTAnswer{Segments: segments, TTLValue: 300}
}

// ---------- Fake storage ----------

type memStore struct {
	mu        sync.Mutex
	domains   []model.Domain
	records   []model.Record
	nextID    int
	listErr   error
	getErr    error
	createErr error
	updateErr error
	writes    int
}

func (m *memStore) ListDomains(context.Context) ([]model.Domain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]model.Domain(nil), m.domains...), nil
}

func (m *memStore) GetActiveRecords(_ context.Context, domainID string, kind model.RecordKind) ([]model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []model.Record
	for _, r := range m.records {
		if r.DomainID == domainID && r.Kind == kind && r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) CreateRecord(_ context.Context, rec model.Record) (model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return model.Record{}, m.createErr
	}
	m.nextID++
	m.writes++
	rec.ID = fmt.Sprintf("rec-%d", m.nextID)
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *memStore) UpdateRecord(_ context.Context, rec model.Record) (model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return model.Record{}, m.updateErr
	}
	for i, r := range m.records {
		if r.ID == rec.ID {
			m.writes++
			m.records[i] = rec
			return rec, nil
		}
	}
	return model.Record{}, fmt.Errorf("update record %s: %w", rec.ID, ErrRecordNotFound)
}

func (m *memStore) byKind(kind model.RecordKind) []model.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Record
	for _, r := range m.records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func (m *memStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// ---------- Recording observer ----------

type recordingObserver struct {
	NopObserver
	mu         sync.Mutex
	reconciled []ReconcileOutcome
	consensus  []ConsensusOutcome
	cycles     []CycleReport
}

func (r *recordingObserver) Consensus(o ConsensusOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consensus = append(r.consensus, o)
}

func (r *recordingObserver) Reconciled(o ReconcileOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reconciled = append(r.reconciled, o)
}

func (r *recordingObserver) CycleFinished(c CycleReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cycles = append(r.cycles, c)
}
