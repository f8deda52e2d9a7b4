package model

import "time"

const (
	DefaultMtaStsAge       = 86400
	MaxMtaStsAge           = 31557600
	DefaultRetentionPolicy = 3650
)

// Domain is a monitored mail domain and the checks enabled for it.
// MtaStsAge is the policy max_age in seconds, RetentionPolicy is in days.
type Domain struct {
	ID              string      `json:"id" db:"id"`
	Name            string      `json:"name" db:"name"`
	Added           time.Time   `json:"added" db:"added"`
	Modified        time.Time   `json:"modified" db:"modified"`
	SpfPolicy       SpfPolicy   `json:"spf_policy" db:"spf_policy"`
	DmarcPolicy     DmarcPolicy `json:"dmarc_policy" db:"dmarc_policy"`
	MtaStsMode      MtaStsMode  `json:"mta_sts_mode" db:"mta_sts_mode"`
	MtaStsAge       int         `json:"mta_sts_age" db:"mta_sts_age"`
	DkimSelectors   []string    `json:"dkim_selectors" db:"dkim_selectors"`
	TLSRPTEnabled   bool        `json:"tlsrpt_enabled" db:"tlsrpt_enabled"`
	TLSAEnabled     bool        `json:"tlsa_enabled" db:"tlsa_enabled"`
	BIMIEnabled     bool        `json:"bimi_enabled" db:"bimi_enabled"`
	DNSSECEnabled   bool        `json:"dnssec_enabled" db:"dnssec_enabled"`
	Monitoring      bool        `json:"monitoring" db:"monitoring"`
	RetentionPolicy int         `json:"retention_policy" db:"retention_policy"`
}
