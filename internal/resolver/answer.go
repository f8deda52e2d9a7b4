package resolver

import (
	"fmt"
	"strings"
)

// Answer is one resource record returned by a resolver. The concrete type
// is determined by the wire type that was queried.
type Answer interface {
	// Raw returns the structural shape used for comparison across resolvers:
	// a []string for text records, a map[string]any for structured records.
	Raw() any
	// Value returns the record value as it is stored.
	Value() string
	// TTL returns the remaining time-to-live reported by the resolver.
	TTL() uint32

	answer()
}

// TXTAnswer holds the ordered character-strings of a single TXT record.
type TXTAnswer struct {
	Segments []string
	TTLValue uint32
}

func (a TXTAnswer) Raw() any {
	segments := make([]string, len(a.Segments))
	copy(segments, a.Segments)
	return segments
}

// Value joins the segments without separator, as RFC 7208 section 3.3 requires.
func (a TXTAnswer) Value() string { return strings.Join(a.Segments, "") }
func (a TXTAnswer) TTL() uint32   { return a.TTLValue }
func (TXTAnswer) answer()         {}

// MXAnswer is a mail exchanger with its preference.
type MXAnswer struct {
	Exchange string
	Priority uint16
	TTLValue uint32
}

func (a MXAnswer) Raw() any {
	return map[string]any{
		"exchange": a.Exchange,
		"priority": a.Priority,
	}
}

// Value returns the exchange host without the root label.
func (a MXAnswer) Value() string { return strings.TrimSuffix(a.Exchange, ".") }
func (a MXAnswer) TTL() uint32   { return a.TTLValue }
func (MXAnswer) answer()         {}

// TLSAAnswer is a DANE TLSA association.
type TLSAAnswer struct {
	Usage        uint8
	Selector     uint8
	MatchingType uint8
	Certificate  string
	TTLValue     uint32
}

func (a TLSAAnswer) Raw() any {
	return map[string]any{
		"usage":        a.Usage,
		"selector":     a.Selector,
		"matchingType": a.MatchingType,
		"certificate":  strings.ToLower(a.Certificate),
	}
}

// Value renders the record in zone file presentation order.
func (a TLSAAnswer) Value() string {
	return fmt.Sprintf("%d %d %d %s", a.Usage, a.Selector, a.MatchingType, strings.ToLower(a.Certificate))
}

func (a TLSAAnswer) TTL() uint32 { return a.TTLValue }
func (TLSAAnswer) answer()       {}
