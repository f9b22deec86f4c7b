package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/MikeSquared-Agency/Bellwether/internal/estimator"
	"github.com/MikeSquared-Agency/Bellwether/internal/render"
	"github.com/MikeSquared-Agency/Bellwether/internal/scoring"
	"github.com/MikeSquared-Agency/Bellwether/internal/session"
)

type EstimateHandler struct {
	sess     *session.Session
	est      *estimator.Estimator
	renderer render.Renderer
}

func NewEstimateHandler(sess *session.Session, est *estimator.Estimator, renderer render.Renderer) *EstimateHandler {
	return &EstimateHandler{sess: sess, est: est, renderer: renderer}
}

type EstimateResponse struct {
	Result scoring.Result `json:"result"`
	Chart  render.Chart   `json:"chart"`
}

// request builds a computation from the session, with ?region= and
// ?period= taking precedence. A period other than the session's uses that
// period's presets rather than the session overrides.
func (h *EstimateHandler) request(r *http.Request) (estimator.Request, error) {
	st := h.sess.Snapshot()
	req := estimator.Request{
		SessionID: st.ID.String(),
		Region:    st.Region,
		Period:    st.Period,
		Overrides: st.Overrides,
	}
	q := r.URL.Query()
	if v := q.Get("region"); v != "" {
		req.Region = v
	}
	if v := q.Get("period"); v != "" && v != st.Period {
		if !h.est.Dataset().Presets.Has(v) {
			return req, fmt.Errorf("%w: %s", session.ErrUnknownPeriod, v)
		}
		req.Period = v
		req.Overrides = h.est.PresetOverrides(v)
	}
	return req, nil
}

// Estimate returns the share and its full breakdown.
// GET /api/v1/estimate
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	req, err := h.request(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	res, err := h.est.Estimate(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EstimateResponse{
		Result: res,
		Chart:  render.NewChart(res.Share, res.Region, res.Period),
	})
}

// Chart draws the estimate as an SVG pie chart.
// GET /api/v1/chart.svg
func (h *EstimateHandler) Chart(w http.ResponseWriter, r *http.Request) {
	req, err := h.request(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	res, err := h.est.Estimate(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, res.Share, res.Region, res.Period); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
