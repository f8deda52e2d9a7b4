package handler

import (
	"errors"
	"net/http"

	"github.com/edvin/mailwatch/internal/api/response"
	"github.com/edvin/mailwatch/internal/model"
)

// writeStoreError maps missing rows to 404 and everything else to 500.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, model.ErrNotFound) {
		response.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	response.WriteError(w, http.StatusInternalServerError, err.Error())
}
