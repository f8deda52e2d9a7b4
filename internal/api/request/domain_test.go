package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/mailwatch/internal/model"
)

func decodeDomain(t *testing.T, body string) (Domain, error) {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/domains", strings.NewReader(body))
	var d Domain
	err := Decode(r, &d)
	return d, err
}

func TestDecodeDomain_Valid(t *testing.T) {
	d, err := decodeDomain(t, `{"name":"example.com","dmarc_policy":"reject","mta_sts_mode":"enforce","mta_sts_age":604800,"dkim_selectors":["google","s1.mail"],"tlsa":true}`)
	require.NoError(t, err)

	m, err := d.ToModel()
	require.NoError(t, err)
	assert.Equal(t, "example.com", m.Name)
	assert.Equal(t, model.DmarcReject, m.DmarcPolicy)
	assert.Equal(t, model.MtaStsEnforce, m.MtaStsMode)
	assert.Equal(t, 604800, m.MtaStsAge)
	assert.Equal(t, []string{"google", "s1.mail"}, m.DkimSelectors)
	assert.True(t, m.TLSAEnabled)
	assert.True(t, m.Monitoring)
	assert.Equal(t, model.DefaultRetentionPolicy, m.RetentionPolicy)
}

func TestDecodeDomain_Defaults(t *testing.T) {
	d, err := decodeDomain(t, `{"name":"Example.com","monitoring":false}`)
	require.NoError(t, err)

	m, err := d.ToModel()
	require.NoError(t, err)
	assert.Equal(t, "example.com", m.Name)
	assert.Equal(t, model.MtaStsNone, m.MtaStsMode)
	assert.Equal(t, model.DefaultMtaStsAge, m.MtaStsAge)
	assert.Equal(t, []string{}, m.DkimSelectors)
	assert.False(t, m.Monitoring)
}

func TestDecodeDomain_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"missing name", `{}`},
		{"not a hostname", `{"name":"not a domain"}`},
		{"unknown policy", `{"name":"example.com","dmarc_policy":"block"}`},
		{"age too large", `{"name":"example.com","mta_sts_age":31557601}`},
		{"negative age", `{"name":"example.com","mta_sts_age":-1}`},
		{"bad selector", `{"name":"example.com","dkim_selectors":["has space"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeDomain(t, tt.body)
			assert.Error(t, err)
		})
	}
}

func TestRequireID(t *testing.T) {
	_, err := RequireID("")
	assert.Error(t, err)
	id, err := RequireID("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
}
