package poller

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/edvin/mailwatch/internal/model"
	"github.com/edvin/mailwatch/internal/resolver"
)

type cycleIDKey struct{}

// WithCycleID tags ctx with the id of the running poll cycle.
func WithCycleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, cycleIDKey{}, id)
}

// CycleIDFrom returns the cycle id carried by ctx, or "".
func CycleIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(cycleIDKey{}).(string)
	return id
}

// ConsensusOutcome describes one consensus computation.
type ConsensusOutcome struct {
	CycleID   string
	FQDN      string
	Kind      model.RecordKind
	Responses int
	Winners   int
	Err       error
}

// ReconcileOutcome describes one (domain, target) reconciliation.
type ReconcileOutcome struct {
	CycleID string
	Domain  string
	Target  Target
	FQDN    string
	Summary Summary
	Err     error
}

// Observer receives structured events from every stage of a poll.
type Observer interface {
	resolver.Observer
	Consensus(ConsensusOutcome)
	Reconciled(ReconcileOutcome)
	CycleFinished(CycleReport)
}

// NopObserver discards all events.
type NopObserver struct{ resolver.NopObserver }

func (NopObserver) Consensus(ConsensusOutcome)  {}
func (NopObserver) Reconciled(ReconcileOutcome) {}
func (NopObserver) CycleFinished(CycleReport)   {}

// MultiObserver fans every event out to each observer in order.
type MultiObserver []Observer

func (m MultiObserver) Queried(o resolver.QueryOutcome) {
	for _, obs := range m {
		obs.Queried(o)
	}
}

func (m MultiObserver) Consensus(o ConsensusOutcome) {
	for _, obs := range m {
		obs.Consensus(o)
	}
}

func (m MultiObserver) Reconciled(o ReconcileOutcome) {
	for _, obs := range m {
		obs.Reconciled(o)
	}
}

func (m MultiObserver) CycleFinished(r CycleReport) {
	for _, obs := range m {
		obs.CycleFinished(r)
	}
}

// LogObserver writes poll events to a zerolog logger. Resolver failures are
// warnings, consensus and storage failures are errors.
type LogObserver struct {
	logger zerolog.Logger
}

// NewLogObserver creates a LogObserver tagged with component=poller.
func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger.With().Str("component", "poller").Logger()}
}

func (l *LogObserver) Queried(o resolver.QueryOutcome) {
	if o.Err != nil {
		l.logger.Warn().Err(o.Err).
			Str("resolver", o.Resolver).
			Str("fqdn", o.FQDN).
			Str("type", o.Wire.String()).
			Dur("elapsed", o.Elapsed).
			Msg("dns resolver failed")
		return
	}
	l.logger.Debug().
		Str("resolver", o.Resolver).
		Str("fqdn", o.FQDN).
		Str("type", o.Wire.String()).
		Int("answers", o.Answers).
		Dur("elapsed", o.Elapsed).
		Msg("dns resolver answered")
}

func (l *LogObserver) Consensus(o ConsensusOutcome) {
	if o.Err != nil {
		l.logger.Error().Err(o.Err).
			Str("cycle_id", o.CycleID).
			Str("fqdn", o.FQDN).
			Str("kind", o.Kind.String()).
			Int("responses", o.Responses).
			Msg("no dns consensus")
		return
	}
	l.logger.Debug().
		Str("cycle_id", o.CycleID).
		Str("fqdn", o.FQDN).
		Str("kind", o.Kind.String()).
		Int("responses", o.Responses).
		Int("winners", o.Winners).
		Msg("dns consensus reached")
}

func (l *LogObserver) Reconciled(o ReconcileOutcome) {
	if o.Err != nil {
		l.logger.Error().Err(o.Err).
			Str("cycle_id", o.CycleID).
			Str("domain", o.Domain).
			Str("kind", o.Target.Kind.String()).
			Str("fqdn", o.FQDN).
			Msg("reconcile failed")
		return
	}
	l.logger.Info().
		Str("cycle_id", o.CycleID).
		Str("domain", o.Domain).
		Str("kind", o.Target.Kind.String()).
		Str("fqdn", o.FQDN).
		Int("created", o.Summary.Created).
		Int("refreshed", o.Summary.Refreshed).
		Int("deactivated", o.Summary.Deactivated).
		Msg("records reconciled")
}

func (l *LogObserver) CycleFinished(r CycleReport) {
	ev := l.logger.Info()
	if r.Failed > 0 {
		ev = l.logger.Warn()
	}
	ev.Str("cycle_id", r.CycleID).
		Int("domains", len(r.Domains)).
		Int("skipped", r.Skipped).
		Int("failed_units", r.Failed).
		Dur("elapsed", r.Finished.Sub(r.Started)).
		Msg("poll cycle finished")
}
