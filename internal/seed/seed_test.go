package seed

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/mailwatch/internal/model"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetDomainByName(ctx context.Context, name string) (*model.Domain, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Domain), args.Error(1)
}

func (m *mockStore) CreateDomain(ctx context.Context, d *model.Domain) error {
	args := m.Called(ctx, d)
	if args.Error(0) == nil {
		d.ID = "generated-" + d.Name
	}
	return args.Error(0)
}

const sample = `
domains:
  - name: Example.com
    dmarc_policy: reject
    mta_sts_mode: enforce
    dkim_selectors: [s1, s2]
    tlsa: true
  - name: quiet.example
    monitoring: false
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, cfg.Domains, 2)
	assert.Equal(t, "reject", cfg.Domains[0].DmarcPolicy)
	assert.Equal(t, []string{"s1", "s2"}, cfg.Domains[0].DkimSelectors)
	require.NotNil(t, cfg.Domains[1].Monitoring)
	assert.False(t, *cfg.Domains[1].Monitoring)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("domains:\n  - name: ok.example\n    dmarc_policy: maybe\n"))
	assert.ErrorContains(t, err, "ok.example")

	_, err = Parse([]byte("domains: [:"))
	assert.ErrorContains(t, err, "parse seed file")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domains.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Domains, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read seed file")
}

func TestApply(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	st := &mockStore{}
	st.On("GetDomainByName", mock.Anything, "example.com").Return(nil, model.ErrNotFound)
	st.On("CreateDomain", mock.Anything, mock.MatchedBy(func(d *model.Domain) bool {
		return d.Name == "example.com" && d.DmarcPolicy == model.DmarcReject &&
			d.MtaStsMode == model.MtaStsEnforce && d.TLSAEnabled && d.Monitoring
	})).Return(nil)
	st.On("GetDomainByName", mock.Anything, "quiet.example").Return(&model.Domain{ID: "d2", Name: "quiet.example"}, nil)

	var out bytes.Buffer
	res, err := Apply(context.Background(), st, cfg, &out)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1, Skipped: 1}, res)
	assert.Contains(t, out.String(), `Domain "example.com": generated-example.com created`)
	assert.Contains(t, out.String(), `Domain "quiet.example": exists (d2, skipping)`)
	st.AssertExpectations(t)
}

func TestApply_LookupError(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	st := &mockStore{}
	st.On("GetDomainByName", mock.Anything, "example.com").Return(nil, errors.New("db down"))

	_, err = Apply(context.Background(), st, cfg, &bytes.Buffer{})
	assert.ErrorContains(t, err, "look up domain")
	st.AssertNotCalled(t, "CreateDomain", mock.Anything, mock.Anything)
}
