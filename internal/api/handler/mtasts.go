package handler

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/mailwatch/internal/api/response"
	"github.com/edvin/mailwatch/internal/model"
)

const mtaStsHostPrefix = "mta-sts."

// MtaSts serves RFC 8461 policy documents on mta-sts.<domain>.
type MtaSts struct {
	store Store
}

func NewMtaSts(store Store) *MtaSts {
	return &MtaSts{store: store}
}

// Policy renders the policy for the domain named by the request host from
// the currently active MX records.
func (h *MtaSts) Policy(w http.ResponseWriter, r *http.Request) {
	host := r.Host
	if hostname, _, err := net.SplitHostPort(host); err == nil {
		host = hostname
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	name, ok := strings.CutPrefix(host, mtaStsHostPrefix)
	if !ok || name == "" {
		response.WriteText(w, http.StatusNotFound, "not found")
		return
	}

	logger := zerolog.Ctx(r.Context()).With().Str("domain", name).Logger()

	domain, err := h.store.GetDomainByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.WriteText(w, http.StatusNotFound, "not found")
			return
		}
		logger.Error().Err(err).Msg("load domain for mta-sts policy")
		response.WriteText(w, http.StatusInternalServerError, "internal error")
		return
	}

	mx, err := h.store.GetActiveRecords(r.Context(), domain.ID, model.KindMx)
	if err != nil {
		logger.Error().Err(err).Msg("load mx records for mta-sts policy")
		response.WriteText(w, http.StatusInternalServerError, "internal error")
		return
	}

	response.WriteText(w, http.StatusOK, RenderPolicy(domain, mx))
}

// RenderPolicy builds the policy body. MX hosts are listed by ascending
// priority.
func RenderPolicy(d *model.Domain, mx []model.Record) string {
	sorted := make([]model.Record, len(mx))
	copy(sorted, mx)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priority(sorted[i]) < priority(sorted[j])
	})

	lines := []string{
		"version: STSv1",
		"mode: " + d.MtaStsMode.String(),
	}
	for _, r := range sorted {
		lines = append(lines, "mx: "+strings.TrimSuffix(r.Value, "."))
	}
	lines = append(lines, fmt.Sprintf("max_age: %d", d.MtaStsAge))
	return strings.Join(lines, "\n")
}

func priority(r model.Record) int {
	if r.Priority == nil {
		return int(^uint(0) >> 1)
	}
	return *r.Priority
}
