package model

import (
	"fmt"
	"strings"
)

// SpfPolicy is the qualifier applied by the domain's SPF "all" mechanism.
type SpfPolicy int

const (
	SpfNeutral SpfPolicy = iota
	SpfSoftFail
	SpfHardFail
)

func (p SpfPolicy) String() string {
	switch p {
	case SpfNeutral:
		return "neutral"
	case SpfSoftFail:
		return "softfail"
	case SpfHardFail:
		return "hardfail"
	}
	return fmt.Sprintf("spf(%d)", int(p))
}

// ParseSpfPolicy parses the names returned by SpfPolicy.String.
func ParseSpfPolicy(s string) (SpfPolicy, error) {
	switch strings.ToLower(s) {
	case "", "neutral":
		return SpfNeutral, nil
	case "softfail":
		return SpfSoftFail, nil
	case "hardfail":
		return SpfHardFail, nil
	}
	return 0, fmt.Errorf("unknown spf policy %q", s)
}

// DmarcPolicy is the p= tag of a DMARC record.
type DmarcPolicy int

const (
	DmarcNone DmarcPolicy = iota
	DmarcQuarantine
	DmarcReject
)

func (p DmarcPolicy) String() string {
	switch p {
	case DmarcNone:
		return "none"
	case DmarcQuarantine:
		return "quarantine"
	case DmarcReject:
		return "reject"
	}
	return fmt.Sprintf("dmarc(%d)", int(p))
}

// ParseDmarcPolicy parses the names returned by DmarcPolicy.String.
func ParseDmarcPolicy(s string) (DmarcPolicy, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return DmarcNone, nil
	case "quarantine":
		return DmarcQuarantine, nil
	case "reject":
		return DmarcReject, nil
	}
	return 0, fmt.Errorf("unknown dmarc policy %q", s)
}

// MtaStsMode is the mode published in the MTA-STS policy document.
type MtaStsMode int

const (
	MtaStsNone MtaStsMode = iota
	MtaStsTesting
	MtaStsEnforce
)

func (m MtaStsMode) String() string {
	switch m {
	case MtaStsNone:
		return "none"
	case MtaStsTesting:
		return "testing"
	case MtaStsEnforce:
		return "enforce"
	}
	return fmt.Sprintf("mta-sts(%d)", int(m))
}

// ParseMtaStsMode parses the lowercase names returned by MtaStsMode.String.
func ParseMtaStsMode(s string) (MtaStsMode, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return MtaStsNone, nil
	case "testing":
		return MtaStsTesting, nil
	case "enforce":
		return MtaStsEnforce, nil
	}
	return 0, fmt.Errorf("unknown mta-sts mode %q", s)
}
