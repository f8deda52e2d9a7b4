package poller

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/edvin/mailwatch/internal/model"
)

// UnitResult is the outcome of one (domain, target) unit.
type UnitResult struct {
	Target  Target  `json:"target"`
	FQDN    string  `json:"fqdn"`
	Summary Summary `json:"summary"`
	Error   string  `json:"error,omitempty"`
}

// DomainReport collects the unit results of one domain.
type DomainReport struct {
	DomainID string       `json:"domain_id"`
	Domain   string       `json:"domain"`
	Units    []UnitResult `json:"units"`
	Summary  Summary      `json:"summary"`
	Failed   int          `json:"failed"`
}

// CycleReport summarizes one poll cycle.
type CycleReport struct {
	CycleID  string         `json:"cycle_id"`
	Started  time.Time      `json:"started"`
	Finished time.Time      `json:"finished"`
	Domains  []DomainReport `json:"domains"`
	Skipped  int            `json:"skipped"`
	Failed   int            `json:"failed"`
}

// Cycle runs poll cycles over every monitored domain.
type Cycle struct {
	store      Storage
	reconciler *Reconciler
	observer   Observer
	now        func() time.Time
}

// NewCycle creates a Cycle. A nil observer discards events.
func NewCycle(store Storage, source RecordSource, observer Observer) *Cycle {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Cycle{
		store:      store,
		reconciler: NewReconciler(source, store, observer),
		observer:   observer,
		now:        time.Now,
	}
}

// NewCycleID returns a sortable id for a poll cycle.
func NewCycleID() string {
	return ulid.Make().String()
}

// Run executes one cycle. Domains are processed sequentially and a failing
// unit never aborts the cycle. Only a failure to list domains is returned.
func (c *Cycle) Run(ctx context.Context) (CycleReport, error) {
	id := CycleIDFrom(ctx)
	if id == "" {
		id = NewCycleID()
		ctx = WithCycleID(ctx, id)
	}
	report := CycleReport{CycleID: id, Started: c.now()}

	domains, err := c.store.ListDomains(ctx)
	if err != nil {
		report.Finished = c.now()
		return report, &StorageError{Op: "list domains", Err: err}
	}

	for _, d := range domains {
		if ctx.Err() != nil {
			break
		}
		if !d.Monitoring {
			report.Skipped++
			continue
		}
		dr := c.ReconcileDomain(ctx, d)
		report.Failed += dr.Failed
		report.Domains = append(report.Domains, dr)
	}

	report.Finished = c.now()
	c.observer.CycleFinished(report)
	return report, ctx.Err()
}

// ReconcileDomain reconciles every target of d. MX runs first so TLSA
// targets can be derived from the freshly stored exchanges. Afterwards,
// active records whose names are no longer targets are deactivated.
func (c *Cycle) ReconcileDomain(ctx context.Context, d model.Domain) DomainReport {
	report := DomainReport{DomainID: d.ID, Domain: d.Name}
	keep := make(map[model.RecordKind]map[string]bool, len(polledKinds))

	run := func(t Target) {
		c.runUnit(ctx, d, t, &report)
		if keep[t.Kind] == nil {
			keep[t.Kind] = make(map[string]bool)
		}
		keep[t.Kind][FQDN(t.Field, d.Name)] = true
	}

	for _, t := range DomainTargets(d) {
		run(t)
	}

	tlsaKnown := true
	if d.TLSAEnabled {
		mx, err := c.store.GetActiveRecords(ctx, d.ID, model.KindMx)
		if err != nil {
			tlsaKnown = false
			report.Failed++
			report.Units = append(report.Units, UnitResult{
				Target: Target{Kind: model.KindTlsa},
				Error:  (&StorageError{Op: "get active mx records", Err: err}).Error(),
			})
		} else {
			for _, t := range TLSATargets(d, mx) {
				run(t)
			}
		}
	}

	for _, kind := range polledKinds {
		if kind == model.KindTlsa && !tlsaKnown {
			continue
		}
		c.sweepKind(ctx, d, kind, keep[kind], &report)
	}
	return report
}

func (c *Cycle) runUnit(ctx context.Context, d model.Domain, t Target, report *DomainReport) {
	summary, err := c.reconciler.Reconcile(ctx, d, t)
	unit := UnitResult{Target: t, FQDN: FQDN(t.Field, d.Name), Summary: summary}
	if err != nil {
		unit.Error = err.Error()
		report.Failed++
	}
	report.Summary.add(summary)
	report.Units = append(report.Units, unit)
}

// sweepKind only reports a unit when it deactivated something or failed.
func (c *Cycle) sweepKind(ctx context.Context, d model.Domain, kind model.RecordKind, keep map[string]bool, report *DomainReport) {
	summary, err := c.reconciler.Sweep(ctx, d, kind, keep)
	if err == nil && summary.Deactivated == 0 {
		return
	}
	unit := UnitResult{Target: Target{Kind: kind}, Summary: summary}
	if err != nil {
		unit.Error = err.Error()
		report.Failed++
	}
	report.Summary.add(summary)
	report.Units = append(report.Units, unit)
}
