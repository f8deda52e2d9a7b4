package poller

import (
	"strings"

	"github.com/edvin/mailwatch/internal/model"
)

// Target is one reconciliation unit: a record kind at a name relative to
// the domain.
type Target struct {
	Kind  model.RecordKind `json:"kind"`
	Field string           `json:"field"`
}

func (t Target) String() string {
	return t.Kind.String() + " " + t.Field
}

// valuePrefixes selects TXT values that belong to a kind when a name can
// carry unrelated TXT records.
var valuePrefixes = map[model.RecordKind]string{
	model.KindSpf:    "v=spf1",
	model.KindDmarc:  "v=DMARC1",
	model.KindMtaSts: "v=STSv1",
	model.KindTlsRpt: "v=TLSRPTv1",
}

// Filter drops consensus records whose value does not belong to the target's kind.
func (t Target) Filter(records []model.ConsensusRecord) []model.ConsensusRecord {
	prefix, ok := valuePrefixes[t.Kind]
	if !ok {
		return records
	}
	out := make([]model.ConsensusRecord, 0, len(records))
	for _, r := range records {
		if hasPrefixFold(r.Value, prefix) {
			out = append(out, r)
		}
	}
	return out
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// polledKinds are the kinds a cycle can produce for a domain.
var polledKinds = []model.RecordKind{
	model.KindMx, model.KindSpf, model.KindDmarc, model.KindMtaSts,
	model.KindTlsRpt, model.KindDkim, model.KindTlsa,
}

var defaultFields = map[model.RecordKind]string{
	model.KindDmarc:  "_dmarc",
	model.KindMtaSts: "_mta-sts",
	model.KindTlsRpt: "_smtp._tls",
}

// DefaultField is the conventional name of kind relative to the domain.
// Kinds without a fixed name (DKIM, TLSA) and apex kinds return "@".
func DefaultField(kind model.RecordKind) string {
	if f, ok := defaultFields[kind]; ok {
		return f
	}
	return "@"
}

// DomainTargets returns the name-based targets of a domain, MX first.
func DomainTargets(d model.Domain) []Target {
	targets := []Target{
		{Kind: model.KindMx, Field: "@"},
		{Kind: model.KindSpf, Field: "@"},
		{Kind: model.KindDmarc, Field: DefaultField(model.KindDmarc)},
	}
	if d.MtaStsMode != model.MtaStsNone {
		targets = append(targets, Target{Kind: model.KindMtaSts, Field: DefaultField(model.KindMtaSts)})
	}
	if d.TLSRPTEnabled {
		targets = append(targets, Target{Kind: model.KindTlsRpt, Field: DefaultField(model.KindTlsRpt)})
	}
	for _, selector := range d.DkimSelectors {
		selector = strings.TrimSpace(selector)
		if selector == "" {
			continue
		}
		targets = append(targets, Target{Kind: model.KindDkim, Field: selector + "._domainkey"})
	}
	return targets
}

// TLSATargets returns one SMTP TLSA target per MX host. MX hosts may live
// outside the domain so the fields are absolute.
func TLSATargets(d model.Domain, mx []model.Record) []Target {
	if !d.TLSAEnabled {
		return nil
	}
	seen := make(map[string]bool, len(mx))
	var targets []Target
	for _, r := range mx {
		host := strings.ToLower(strings.TrimSuffix(r.Value, "."))
		if host == "" || host == "." || seen[host] {
			continue
		}
		seen[host] = true
		targets = append(targets, Target{Kind: model.KindTlsa, Field: "_25._tcp." + host + "."})
	}
	return targets
}
