package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/mailwatch/internal/api/request"
	"github.com/edvin/mailwatch/internal/api/response"
)

type Domain struct {
	store Store
}

func NewDomain(store Store) *Domain {
	return &Domain{store: store}
}

func (h *Domain) List(w http.ResponseWriter, r *http.Request) {
	domains, err := h.store.ListDomains(r.Context())
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.WriteList(w, domains)
}

func (h *Domain) Create(w http.ResponseWriter, r *http.Request) {
	var req request.Domain
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	domain, err := req.ToModel()
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.CreateDomain(r.Context(), domain); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.WriteJSON(w, http.StatusCreated, domain)
}

func (h *Domain) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	domain, err := h.store.GetDomain(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, domain)
}

// Update replaces the monitoring settings of a domain. The name is immutable.
func (h *Domain) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req request.Domain
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := req.ToModel()
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.store.GetDomain(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if existing.Name != updated.Name {
		response.WriteError(w, http.StatusBadRequest, "domain name cannot be changed")
		return
	}
	updated.ID = existing.ID
	updated.Added = existing.Added

	if err := h.store.UpdateDomain(r.Context(), updated); err != nil {
		writeStoreError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, updated)
}

func (h *Domain) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.DeleteDomain(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
