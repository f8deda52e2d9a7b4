package resolver

import (
	mdns "github.com/miekg/dns"

	"github.com/edvin/mailwatch/internal/model"
)

// WireType is the DNS query type sent on the network.
type WireType uint16

const (
	WireTXT  = WireType(mdns.TypeTXT)
	WireMX   = WireType(mdns.TypeMX)
	WireTLSA = WireType(mdns.TypeTLSA)
)

func (w WireType) String() string { return mdns.Type(w).String() }

// WireTypeFor maps a record kind to the query type a resolver understands.
// Every kind in model.AllRecordKinds must have a case here.
func WireTypeFor(kind model.RecordKind) (WireType, error) {
	//exhaustive:enforce
	switch kind {
	case model.KindTxt, model.KindDmarc, model.KindSpf, model.KindDkim, model.KindMtaSts, model.KindTlsRpt:
		return WireTXT, nil
	case model.KindMx:
		return WireMX, nil
	case model.KindTlsa:
		return WireTLSA, nil
	}
	return 0, &ConfigurationError{Reason: "no wire type for record kind " + kind.String()}
}
