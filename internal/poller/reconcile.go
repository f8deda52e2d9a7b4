package poller

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/edvin/mailwatch/internal/model"
)

// Op is the storage operation a change applies.
type Op int

const (
	OpCreate Op = iota
	OpRefresh
	OpDeactivate
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpRefresh:
		return "refresh"
	case OpDeactivate:
		return "deactivate"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Change is one pending storage write.
type Change struct {
	Op     Op
	Record model.Record
}

// Summary counts the writes of one reconciliation.
type Summary struct {
	Created     int `json:"created"`
	Refreshed   int `json:"refreshed"`
	Deactivated int `json:"deactivated"`
}

func (s *Summary) add(o Summary) {
	s.Created += o.Created
	s.Refreshed += o.Refreshed
	s.Deactivated += o.Deactivated
}

// Diff computes the writes that bring the stored active records of one name
// in line with the consensus set. Consensus records that store as the same
// row are merged first. Each stored record is claimed by at most one
// consensus record; unclaimed stored records are deactivated.
func Diff(domainID string, fresh []model.ConsensusRecord, stored []model.Record) []Change {
	fresh = mergeByValue(fresh)
	changes := make([]Change, 0, len(fresh)+len(stored))
	claimed := make([]bool, len(stored))

	for _, c := range fresh {
		idx := -1
		for i, s := range stored {
			if !claimed[i] && c.Matches(s) {
				idx = i
				break
			}
		}
		if idx < 0 {
			changes = append(changes, Change{Op: OpCreate, Record: newRecord(domainID, c)})
			continue
		}
		claimed[idx] = true
		rec := stored[idx]
		rec.LastObserved = c.Observed
		rec.Resolvers = c.Resolvers
		rec.TTL = c.TTL
		rec.Active = true
		changes = append(changes, Change{Op: OpRefresh, Record: rec})
	}

	for i, s := range stored {
		if claimed[i] {
			continue
		}
		s.Active = false
		changes = append(changes, Change{Op: OpDeactivate, Record: s})
	}
	return changes
}

// mergeByValue folds consensus records with the same stored value, such as
// one TXT record chunked differently by different resolvers. Resolvers are
// unioned and the latest observation is kept.
func mergeByValue(fresh []model.ConsensusRecord) []model.ConsensusRecord {
	out := make([]model.ConsensusRecord, 0, len(fresh))
	for _, c := range fresh {
		idx := slices.IndexFunc(out, func(o model.ConsensusRecord) bool {
			return o.Matches(model.Record{Value: c.Value, Priority: c.Priority})
		})
		if idx < 0 {
			c.Resolvers = slices.Clone(c.Resolvers)
			out = append(out, c)
			continue
		}
		m := &out[idx]
		for _, r := range c.Resolvers {
			if !slices.Contains(m.Resolvers, r) {
				m.Resolvers = append(m.Resolvers, r)
			}
		}
		if c.Observed.After(m.Observed) {
			m.Observed = c.Observed
		}
	}
	return out
}

func newRecord(domainID string, c model.ConsensusRecord) model.Record {
	return model.Record{
		DomainID:      domainID,
		Kind:          c.Kind,
		Name:          c.Name,
		Value:         c.Value,
		Priority:      c.Priority,
		TTL:           c.TTL,
		FirstObserved: c.Observed,
		LastObserved:  c.Observed,
		Active:        true,
		Resolvers:     c.Resolvers,
	}
}

// Reconciler applies consensus results to storage.
type Reconciler struct {
	source   RecordSource
	store    Storage
	observer Observer
}

// NewReconciler creates a Reconciler. A nil observer discards events.
func NewReconciler(source RecordSource, store Storage, observer Observer) *Reconciler {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Reconciler{source: source, store: store, observer: observer}
}

// Reconcile resolves target for domain and brings its stored records in
// line with the result. When consensus fails nothing is written.
func (r *Reconciler) Reconcile(ctx context.Context, domain model.Domain, target Target) (Summary, error) {
	fqdn := FQDN(target.Field, domain.Name)
	summary, err := r.reconcile(ctx, domain, target, fqdn)
	r.observer.Reconciled(ReconcileOutcome{
		CycleID: CycleIDFrom(ctx),
		Domain:  domain.Name,
		Target:  target,
		FQDN:    fqdn,
		Summary: summary,
		Err:     err,
	})
	return summary, err
}

func (r *Reconciler) reconcile(ctx context.Context, domain model.Domain, target Target, fqdn string) (Summary, error) {
	var (
		fresh  []model.ConsensusRecord
		stored []model.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := r.source.GetRecord(gctx, target.Field, domain.Name, target.Kind)
		if err != nil {
			return err
		}
		fresh = target.Filter(records)
		return nil
	})
	g.Go(func() error {
		records, err := r.store.GetActiveRecords(gctx, domain.ID, target.Kind)
		if err != nil {
			return &StorageError{Op: "get active records", Err: err}
		}
		for _, rec := range records {
			if rec.Name == fqdn {
				stored = append(stored, rec)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	return r.apply(ctx, Diff(domain.ID, fresh, stored))
}

// Sweep deactivates the active records of kind whose names are not in keep.
// Names leave the target set when a DKIM selector is removed, an MX host is
// replaced or a check is turned off; their records would otherwise stay
// active forever.
func (r *Reconciler) Sweep(ctx context.Context, domain model.Domain, kind model.RecordKind, keep map[string]bool) (Summary, error) {
	summary, err := r.sweep(ctx, domain, kind, keep)
	if err != nil || summary.Deactivated > 0 {
		r.observer.Reconciled(ReconcileOutcome{
			CycleID: CycleIDFrom(ctx),
			Domain:  domain.Name,
			Target:  Target{Kind: kind},
			Summary: summary,
			Err:     err,
		})
	}
	return summary, err
}

func (r *Reconciler) sweep(ctx context.Context, domain model.Domain, kind model.RecordKind, keep map[string]bool) (Summary, error) {
	stored, err := r.store.GetActiveRecords(ctx, domain.ID, kind)
	if err != nil {
		return Summary{}, &StorageError{Op: "get active records", Err: err}
	}

	var changes []Change
	for _, rec := range stored {
		if keep[rec.Name] {
			continue
		}
		rec.Active = false
		changes = append(changes, Change{Op: OpDeactivate, Record: rec})
	}
	if len(changes) == 0 {
		return Summary{}, nil
	}
	return r.apply(ctx, changes)
}

// apply issues every change concurrently. All writes are attempted; the
// first failure is returned.
func (r *Reconciler) apply(ctx context.Context, changes []Change) (Summary, error) {
	var g errgroup.Group
	for _, ch := range changes {
		g.Go(func() error {
			var err error
			if ch.Op == OpCreate {
				_, err = r.store.CreateRecord(ctx, ch.Record)
			} else {
				_, err = r.store.UpdateRecord(ctx, ch.Record)
			}
			if err != nil {
				return &StorageError{Op: fmt.Sprintf("%s %s record %s", ch.Op, ch.Record.Kind, ch.Record.Value), Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	var s Summary
	for _, ch := range changes {
		switch ch.Op {
		case OpCreate:
			s.Created++
		case OpRefresh:
			s.Refreshed++
		case OpDeactivate:
			s.Deactivated++
		}
	}
	return s, nil
}

// IsStorageError reports whether err came from the storage adapter.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
