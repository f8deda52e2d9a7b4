package model

import (
	"fmt"
	"strings"
	"time"
)

// RecordKind is the domain-level classification of a monitored DNS record.
// Several kinds share a single wire type (all text-encoded kinds are TXT).
// The numeric values are persisted and must not be reordered.
type RecordKind int

const (
	KindTxt RecordKind = iota
	KindMx
	KindDmarc
	KindSpf
	KindDkim
	KindMtaSts
	KindTlsa
	KindTlsRpt
)

// AllRecordKinds lists every kind in persisted order.
var AllRecordKinds = []RecordKind{
	KindTxt, KindMx, KindDmarc, KindSpf, KindDkim, KindMtaSts, KindTlsa, KindTlsRpt,
}

var kindNames = map[RecordKind]string{
	KindTxt:    "txt",
	KindMx:     "mx",
	KindDmarc:  "dmarc",
	KindSpf:    "spf",
	KindDkim:   "dkim",
	KindMtaSts: "mta-sts",
	KindTlsa:   "tlsa",
	KindTlsRpt: "tls-rpt",
}

func (k RecordKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the known kinds.
func (k RecordKind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseRecordKind accepts the names returned by RecordKind.String, case-insensitively.
func ParseRecordKind(s string) (RecordKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown record kind %q", s)
}

// Record is a persisted DNS record observation. Records are never deleted;
// a record that disappears from DNS is deactivated to keep its history.
type Record struct {
	ID            string     `json:"id" db:"id"`
	DomainID      string     `json:"domain_id" db:"domain_id"`
	Kind          RecordKind `json:"kind" db:"kind"`
	Name          string     `json:"name" db:"name"`
	Value         string     `json:"value" db:"value"`
	Priority      *int       `json:"priority,omitempty" db:"priority"`
	TTL           int        `json:"ttl" db:"ttl"`
	FirstObserved time.Time  `json:"first_observed" db:"first_observed"`
	LastObserved  time.Time  `json:"last_observed" db:"last_observed"`
	Active        bool       `json:"active" db:"active"`
	Resolvers     []string   `json:"resolvers" db:"resolvers"`
}

// ConsensusRecord is a record value accepted by majority agreement across
// resolvers, before it is matched against stored state.
type ConsensusRecord struct {
	Kind     RecordKind `json:"kind"`
	Name     string     `json:"name"`
	Value    string     `json:"value"`
	Priority *int       `json:"priority,omitempty"`
	TTL      int        `json:"ttl"`
	// Observed is the most recent instant at which an agreeing resolver
	// reported the record.
	Observed  time.Time `json:"observed"`
	Resolvers []string  `json:"resolvers"`
}

// Matches reports whether the stored record describes the same DNS value.
// MX records additionally compare priority.
func (c ConsensusRecord) Matches(r Record) bool {
	if c.Value != r.Value {
		return false
	}
	if c.Kind != KindMx {
		return true
	}
	return intPtrEqual(c.Priority, r.Priority)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
