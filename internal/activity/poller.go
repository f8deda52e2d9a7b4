package activity

import (
	"context"
	"fmt"

	"github.com/edvin/mailwatch/internal/model"
	"github.com/edvin/mailwatch/internal/poller"
)

// DomainStore is the domain lookup surface the poll activities need.
type DomainStore interface {
	ListDomains(ctx context.Context) ([]model.Domain, error)
	GetDomain(ctx context.Context, id string) (*model.Domain, error)
}

// DomainRef identifies a domain scheduled for polling.
type DomainRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MonitoredDomains is the result of ListMonitoredDomains.
type MonitoredDomains struct {
	Domains []DomainRef `json:"domains"`
	Skipped int         `json:"skipped"`
}

// ReconcileDomainParams are the inputs of ReconcileDomain.
type ReconcileDomainParams struct {
	DomainID string `json:"domain_id"`
	CycleID  string `json:"cycle_id"`
}

// Poller contains the activities of a poll cycle. Each domain is one
// activity so a slow or failing domain only costs its own execution.
type Poller struct {
	store    DomainStore
	cycle    *poller.Cycle
	observer poller.Observer
}

func NewPoller(store DomainStore, cycle *poller.Cycle, observer poller.Observer) *Poller {
	if observer == nil {
		observer = poller.NopObserver{}
	}
	return &Poller{store: store, cycle: cycle, observer: observer}
}

// ListMonitoredDomains returns every domain with monitoring enabled.
func (a *Poller) ListMonitoredDomains(ctx context.Context) (*MonitoredDomains, error) {
	domains, err := a.store.ListDomains(ctx)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}

	out := &MonitoredDomains{Domains: []DomainRef{}}
	for _, d := range domains {
		if !d.Monitoring {
			out.Skipped++
			continue
		}
		out.Domains = append(out.Domains, DomainRef{ID: d.ID, Name: d.Name})
	}
	return out, nil
}

// ReconcileDomain polls and reconciles every target of one domain. Unit
// failures are reported in the result; only a failed domain lookup is an
// activity error.
func (a *Poller) ReconcileDomain(ctx context.Context, params ReconcileDomainParams) (*poller.DomainReport, error) {
	d, err := a.store.GetDomain(ctx, params.DomainID)
	if err != nil {
		return nil, fmt.Errorf("get domain %s: %w", params.DomainID, err)
	}
	if params.CycleID != "" {
		ctx = poller.WithCycleID(ctx, params.CycleID)
	}
	report := a.cycle.ReconcileDomain(ctx, *d)
	return &report, nil
}

// FinishCycle publishes the cycle summary to the observers.
func (a *Poller) FinishCycle(_ context.Context, report poller.CycleReport) error {
	a.observer.CycleFinished(report)
	return nil
}
