package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/mailwatch/internal/model"
)

// --- List ---

func TestDomainList(t *testing.T) {
	st := &mockStore{}
	st.On("ListDomains", mock.Anything).Return([]model.Domain{{ID: "d1", Name: "example.com"}}, nil)
	h := NewDomain(st)

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/domains", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []model.Domain `json:"items"`
		Count int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "example.com", body.Items[0].Name)
}

func TestDomainList_StoreError(t *testing.T) {
	st := &mockStore{}
	st.On("ListDomains", mock.Anything).Return([]model.Domain(nil), errors.New("db down"))
	h := NewDomain(st)

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/domains", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// --- Create ---

func TestDomainCreate_InvalidJSON(t *testing.T) {
	h := NewDomain(nil)
	rec := httptest.NewRecorder()

	h.Create(rec, newRequestRaw(http.MethodPost, "/domains", "{bad json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "invalid JSON")
}

func TestDomainCreate_ValidationError(t *testing.T) {
	h := NewDomain(nil)
	rec := httptest.NewRecorder()

	h.Create(rec, newRequest(http.MethodPost, "/domains", map[string]any{"name": "example.com", "mta_sts_mode": "strict"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "validation error")
}

func TestDomainCreate_Success(t *testing.T) {
	st := &mockStore{}
	st.On("CreateDomain", mock.Anything, mock.MatchedBy(func(d *model.Domain) bool {
		return d.Name == "example.com" && d.MtaStsMode == model.MtaStsTesting && d.Monitoring
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Domain).ID = "new-id"
	}).Return(nil)
	h := NewDomain(st)

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/domains", map[string]any{"name": "Example.com.", "mta_sts_mode": "testing"}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var d model.Domain
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, "new-id", d.ID)
	st.AssertExpectations(t)
}

// --- Get ---

func TestDomainGet_MissingID(t *testing.T) {
	h := NewDomain(nil)
	rec := httptest.NewRecorder()

	h.Get(rec, withChiURLParam(newRequest(http.MethodGet, "/domains/", nil), "id", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDomainGet_NotFound(t *testing.T) {
	st := &mockStore{}
	st.On("GetDomain", mock.Anything, "nope").Return(nil, fmt.Errorf("get domain nope: %w", model.ErrNotFound))
	h := NewDomain(st)

	rec := httptest.NewRecorder()
	h.Get(rec, withChiURLParam(newRequest(http.MethodGet, "/domains/nope", nil), "id", "nope"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDomainGet_StoreError(t *testing.T) {
	st := &mockStore{}
	st.On("GetDomain", mock.Anything, "d1").Return(nil, errors.New("timeout"))
	h := NewDomain(st)

	rec := httptest.NewRecorder()
	h.Get(rec, withChiURLParam(newRequest(http.MethodGet, "/domains/d1", nil), "id", "d1"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// --- Update ---

func TestDomainUpdate_RejectsRename(t *testing.T) {
	st := &mockStore{}
	st.On("GetDomain", mock.Anything, "d1").Return(&model.Domain{ID: "d1", Name: "example.com"}, nil)
	h := NewDomain(st)

	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodPut, "/domains/d1", map[string]any{"name": "other.com"}), "id", "d1")
	h.Update(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	st.AssertNotCalled(t, "UpdateDomain", mock.Anything, mock.Anything)
}

func TestDomainUpdate_Success(t *testing.T) {
	st := &mockStore{}
	st.On("GetDomain", mock.Anything, "d1").Return(&model.Domain{ID: "d1", Name: "example.com"}, nil)
	st.On("UpdateDomain", mock.Anything, mock.MatchedBy(func(d *model.Domain) bool {
		return d.ID == "d1" && !d.Monitoring && d.TLSAEnabled
	})).Return(nil)
	h := NewDomain(st)

	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodPut, "/domains/d1",
		map[string]any{"name": "example.com", "monitoring": false, "tlsa": true}), "id", "d1")
	h.Update(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	st.AssertExpectations(t)
}

// --- Delete ---

func TestDomainDelete(t *testing.T) {
	st := &mockStore{}
	st.On("DeleteDomain", mock.Anything, "d1").Return(nil)
	st.On("DeleteDomain", mock.Anything, "d2").Return(model.ErrNotFound)
	h := NewDomain(st)

	rec := httptest.NewRecorder()
	h.Delete(rec, withChiURLParam(newRequest(http.MethodDelete, "/domains/d1", nil), "id", "d1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.Delete(rec, withChiURLParam(newRequest(http.MethodDelete, "/domains/d2", nil), "id", "d2"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
