package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/edvin/mailwatch/internal/model"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListDomains(ctx context.Context) ([]model.Domain, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Domain), args.Error(1)
}

func (m *mockStore) GetDomain(ctx context.Context, id string) (*model.Domain, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Domain), args.Error(1)
}

func (m *mockStore) GetDomainByName(ctx context.Context, name string) (*model.Domain, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Domain), args.Error(1)
}

func (m *mockStore) CreateDomain(ctx context.Context, d *model.Domain) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockStore) UpdateDomain(ctx context.Context, d *model.Domain) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockStore) DeleteDomain(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) GetActiveRecords(ctx context.Context, domainID string, kind model.RecordKind) ([]model.Record, error) {
	args := m.Called(ctx, domainID, kind)
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *mockStore) ListRecords(ctx context.Context, domainID string, activeOnly bool) ([]model.Record, error) {
	args := m.Called(ctx, domainID, activeOnly)
	return args.Get(0).([]model.Record), args.Error(1)
}

// newRequest creates a new HTTP request with an optional JSON body.
func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

func newRequestRaw(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withChiURLParam adds a chi URL parameter to the request context.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeErrorResponse(rec *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}
