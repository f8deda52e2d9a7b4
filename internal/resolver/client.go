package resolver

import (
	"context"
	"fmt"
	"net"
	"time"

	mdns "github.com/miekg/dns"
)

// Client queries a single upstream resolver.
type Client interface {
	// Address identifies the resolver in votes and in stored records.
	Address() string
	Query(ctx context.Context, fqdn string, wire WireType) ([]Answer, error)
}

// DNSClient is a Client backed by github.com/miekg/dns. Each instance owns
// its own transport clients so no network state is shared between resolvers.
type DNSClient struct {
	addr string
	udp  *mdns.Client
	tcp  *mdns.Client
}

// NewDNSClient creates a client for addr. A missing port defaults to 53.
func NewDNSClient(addr string, timeout time.Duration) *DNSClient {
	return &DNSClient{
		addr: NormalizeAddress(addr),
		udp:  &mdns.Client{Net: "udp", Timeout: timeout},
		tcp:  &mdns.Client{Net: "tcp", Timeout: timeout},
	}
}

// NormalizeAddress returns addr as host:port, adding port 53 when absent.
func NormalizeAddress(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, "53")
}

func (c *DNSClient) Address() string { return c.addr }

// Query sends a recursive query for fqdn. Truncated UDP answers are retried
// over TCP, which large DKIM keys regularly need.
func (c *DNSClient) Query(ctx context.Context, fqdn string, wire WireType) ([]Answer, error) {
	m := new(mdns.Msg)
	m.SetQuestion(mdns.Fqdn(fqdn), uint16(wire))
	m.RecursionDesired = true
	m.SetEdns0(4096, false)

	resp, _, err := c.udp.ExchangeContext(ctx, m, c.addr)
	if err == nil && resp.Truncated {
		resp, _, err = c.tcp.ExchangeContext(ctx, m, c.addr)
	}
	if err != nil {
		return nil, fmt.Errorf("exchange: %w", err)
	}

	switch resp.Rcode {
	case mdns.RcodeSuccess:
	case mdns.RcodeNameError:
		return nil, ErrDNSNotFound
	case mdns.RcodeServerFailure:
		return nil, ErrDNSServFail
	case mdns.RcodeRefused:
		return nil, ErrDNSRefused
	default:
		return nil, fmt.Errorf("dns: unexpected rcode %s", mdns.RcodeToString[resp.Rcode])
	}

	return answersFromMsg(resp, wire), nil
}

// answersFromMsg keeps the answer RRs of the queried type. CNAMEs and other
// records that recursive resolvers include alongside are dropped.
func answersFromMsg(resp *mdns.Msg, wire WireType) []Answer {
	answers := make([]Answer, 0, len(resp.Answer))
	for _, rr := range resp.Answer {
		switch v := rr.(type) {
		case *mdns.TXT:
			if wire == WireTXT {
				answers = append(answers, TXTAnswer{Segments: v.Txt, TTLValue: v.Hdr.Ttl})
			}
		case *mdns.MX:
			if wire == WireMX {
				answers = append(answers, MXAnswer{Exchange: v.Mx, Priority: v.Preference, TTLValue: v.Hdr.Ttl})
			}
		case *mdns.TLSA:
			if wire == WireTLSA {
				answers = append(answers, TLSAAnswer{
					Usage:        v.Usage,
					Selector:     v.Selector,
					MatchingType: v.MatchingType,
					Certificate:  v.Certificate,
					TTLValue:     v.Hdr.Ttl,
				})
			}
		}
	}
	return answers
}
