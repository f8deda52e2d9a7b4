package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrDNSNotFound is returned for NXDOMAIN responses.
	ErrDNSNotFound = errors.New("dns: name not found")
	// ErrDNSServFail is returned for SERVFAIL responses.
	ErrDNSServFail = errors.New("dns: server failure")
	// ErrDNSRefused is returned when the server refuses the query.
	ErrDNSRefused = errors.New("dns: query refused")
)

// ConfigurationError reports invalid static setup, such as an empty resolver
// list or a record kind without a wire mapping. It is fatal at startup.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ResolverQueryError reports that a single resolver failed to answer. The
// fan-out absorbs it; it only reaches observers.
type ResolverQueryError struct {
	Resolver string
	FQDN     string
	Wire     WireType
	Err      error
}

func (e *ResolverQueryError) Error() string {
	return fmt.Sprintf("resolver %s: query %s %s: %v", e.Resolver, e.Wire, e.FQDN, e.Err)
}

func (e *ResolverQueryError) Unwrap() error { return e.Err }
