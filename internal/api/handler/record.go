package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/mailwatch/internal/api/request"
	"github.com/edvin/mailwatch/internal/api/response"
)

type Record struct {
	store Store
}

func NewRecord(store Store) *Record {
	return &Record{store: store}
}

// List returns the observed records of a domain. ?active=true limits the
// result to records currently published.
func (h *Record) List(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	activeOnly := false
	if v := r.URL.Query().Get("active"); v != "" {
		activeOnly, err = strconv.ParseBool(v)
		if err != nil {
			response.WriteError(w, http.StatusBadRequest, "invalid active parameter: "+v)
			return
		}
	}

	if _, err := h.store.GetDomain(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	records, err := h.store.ListRecords(r.Context(), id, activeOnly)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.WriteList(w, records)
}
