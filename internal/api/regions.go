package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Bellwether/internal/estimator"
)

type RegionsHandler struct {
	est *estimator.Estimator
}

func NewRegionsHandler(est *estimator.Estimator) *RegionsHandler {
	return &RegionsHandler{est: est}
}

// Periods lists the preset periods, years ascending first.
// GET /api/v1/periods
func (h *RegionsHandler) Periods(w http.ResponseWriter, r *http.Request) {
	presets := h.est.Dataset().Presets
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"periods": presets.OrderedPeriods(),
	})
}

// List returns region names sorted alphabetically.
// GET /api/v1/regions
func (h *RegionsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"regions": h.est.Dataset().RegionNames(),
	})
}

// Population returns each category's population share in a region.
// GET /api/v1/regions/{name}/population
func (h *RegionsHandler) Population(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	labels, err := h.est.Population(name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"region":     name,
		"categories": labels,
	})
}
