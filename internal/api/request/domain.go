package request

import (
	"fmt"
	"strings"

	"github.com/edvin/mailwatch/internal/model"
)

// Domain is the body of domain create and update requests. Omitted fields
// take the model defaults.
type Domain struct {
	Name          string   `json:"name" yaml:"name" validate:"required,fqdn"`
	SpfPolicy     string   `json:"spf_policy" yaml:"spf_policy" validate:"omitempty,oneof=neutral softfail hardfail"`
	DmarcPolicy   string   `json:"dmarc_policy" yaml:"dmarc_policy" validate:"omitempty,oneof=none quarantine reject"`
	MtaStsMode    string   `json:"mta_sts_mode" yaml:"mta_sts_mode" validate:"omitempty,oneof=none testing enforce"`
	MtaStsAge     *int     `json:"mta_sts_age" yaml:"mta_sts_age" validate:"omitempty,min=0,max=31557600"`
	DkimSelectors []string `json:"dkim_selectors" yaml:"dkim_selectors" validate:"omitempty,dive,dkimselector"`
	TLSRPT        bool     `json:"tlsrpt" yaml:"tlsrpt"`
	TLSA          bool     `json:"tlsa" yaml:"tlsa"`
	BIMI          bool     `json:"bimi" yaml:"bimi"`
	DNSSEC        bool     `json:"dnssec" yaml:"dnssec"`
	Monitoring    *bool    `json:"monitoring" yaml:"monitoring"`
	RetentionDays *int     `json:"retention_days" yaml:"retention_days" validate:"omitempty,min=1"`
}

// ToModel converts a validated request into a domain. Monitoring defaults
// to on.
func (d Domain) ToModel() (*model.Domain, error) {
	spf, err := model.ParseSpfPolicy(d.SpfPolicy)
	if err != nil {
		return nil, err
	}
	dmarc, err := model.ParseDmarcPolicy(d.DmarcPolicy)
	if err != nil {
		return nil, err
	}
	mode, err := model.ParseMtaStsMode(d.MtaStsMode)
	if err != nil {
		return nil, err
	}

	out := &model.Domain{
		Name:            strings.ToLower(strings.TrimSuffix(d.Name, ".")),
		SpfPolicy:       spf,
		DmarcPolicy:     dmarc,
		MtaStsMode:      mode,
		MtaStsAge:       model.DefaultMtaStsAge,
		DkimSelectors:   d.DkimSelectors,
		TLSRPTEnabled:   d.TLSRPT,
		TLSAEnabled:     d.TLSA,
		BIMIEnabled:     d.BIMI,
		DNSSECEnabled:   d.DNSSEC,
		Monitoring:      true,
		RetentionPolicy: model.DefaultRetentionPolicy,
	}
	if out.DkimSelectors == nil {
		out.DkimSelectors = []string{}
	}
	if d.MtaStsAge != nil {
		if *d.MtaStsAge > model.MaxMtaStsAge {
			return nil, fmt.Errorf("mta_sts_age %d exceeds %d", *d.MtaStsAge, model.MaxMtaStsAge)
		}
		out.MtaStsAge = *d.MtaStsAge
	}
	if d.Monitoring != nil {
		out.Monitoring = *d.Monitoring
	}
	if d.RetentionDays != nil {
		out.RetentionPolicy = *d.RetentionDays
	}
	return out, nil
}
