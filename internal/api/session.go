package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/Bellwether/internal/estimator"
	"github.com/MikeSquared-Agency/Bellwether/internal/hermes"
	"github.com/MikeSquared-Agency/Bellwether/internal/metrics"
	"github.com/MikeSquared-Agency/Bellwether/internal/render"
	"github.com/MikeSquared-Agency/Bellwether/internal/session"
)

type SessionHandler struct {
	sess    *session.Session
	est     *estimator.Estimator
	hermes  hermes.Client
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewSessionHandler(sess *session.Session, est *estimator.Estimator, h hermes.Client, m *metrics.Metrics, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sess: sess, est: est, hermes: h, metrics: m, logger: logger}
}

// Control is one override slider as the front end draws it.
type Control struct {
	Dimension string             `json:"dimension"`
	Label     string             `json:"label"`
	Display   string             `json:"display"`
	Style     render.SliderStyle `json:"style"`
}

type SessionResponse struct {
	session.State
	Controls []Control `json:"controls"`
}

func (h *SessionHandler) response(st session.State) SessionResponse {
	display := make(map[[2]string]string)
	if labels, err := h.est.Population(st.Region); err == nil {
		for _, l := range labels {
			display[[2]string{l.Dimension, l.Label}] = l.Display
		}
	}

	resp := SessionResponse{State: st}
	for _, dim := range h.est.Dimensions() {
		for _, c := range dim.Categories {
			v, _ := st.Overrides.Get(dim.Name, c.Label)
			label, ok := display[[2]string{dim.Name, c.Label}]
			if !ok {
				label = c.Label
			}
			resp.Controls = append(resp.Controls, Control{
				Dimension: dim.Name,
				Label:     c.Label,
				Display:   label,
				Style:     render.NewSliderStyle(v),
			})
		}
	}
	return resp
}

// Get returns the session state with one control per category.
// GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.response(h.sess.Snapshot()))
}

type SelectPeriodRequest struct {
	Period string `json:"period"`
}

// SelectPeriod switches period and re-seeds every override.
// PUT /api/v1/session/period
func (h *SessionHandler) SelectPeriod(w http.ResponseWriter, r *http.Request) {
	var req SelectPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.sess.SelectPeriod(req.Period); err != nil {
		writeDomainError(w, err)
		return
	}
	h.publish(hermes.SubjectPeriodSelected, hermes.PeriodSelectedEvent{
		SessionID: h.sess.ID().String(),
		Period:    req.Period,
		Timestamp: time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, h.response(h.sess.Snapshot()))
}

type SelectRegionRequest struct {
	Region string `json:"region"`
}

// SelectRegion switches the active region.
// PUT /api/v1/session/region
func (h *SessionHandler) SelectRegion(w http.ResponseWriter, r *http.Request) {
	var req SelectRegionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Region == "" {
		writeDomainError(w, estimator.ErrNoRegion)
		return
	}
	if err := h.sess.SelectRegion(req.Region); err != nil {
		writeDomainError(w, err)
		return
	}
	h.publish(hermes.SubjectRegionSelected, hermes.RegionSelectedEvent{
		SessionID: h.sess.ID().String(),
		Region:    req.Region,
		Timestamp: time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, h.response(h.sess.Snapshot()))
}

type SetOverrideRequest struct {
	Value *float64 `json:"value"`
}

type SetOverrideResponse struct {
	Dimension string             `json:"dimension"`
	Category  string             `json:"category"`
	Value     float64            `json:"value"`
	Style     render.SliderStyle `json:"style"`
}

// SetOverride stores one category's preference, snapped to the slider step.
// PUT /api/v1/session/overrides/{dimension}/{category}
func (h *SessionHandler) SetOverride(w http.ResponseWriter, r *http.Request) {
	dimension := pathParam(r, "dimension")
	category := pathParam(r, "category")

	var req SetOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		writeError(w, http.StatusBadRequest, "value required")
		return
	}
	v, err := h.sess.SetOverride(dimension, category, *req.Value)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.OverrideChanges.WithLabelValues(dimension).Inc()
	}
	h.publish(hermes.SubjectOverrideChanged(dimension), hermes.OverrideChangedEvent{
		SessionID: h.sess.ID().String(),
		Dimension: dimension,
		Category:  category,
		Value:     v,
		Timestamp: time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, SetOverrideResponse{
		Dimension: dimension,
		Category:  category,
		Value:     v,
		Style:     render.NewSliderStyle(v),
	})
}

func (h *SessionHandler) publish(subject string, evt interface{}) {
	if h.hermes == nil {
		return
	}
	if err := h.hermes.Publish(subject, evt); err != nil {
		h.logger.Warn("failed to publish session event", "subject", subject, "error", err)
	}
}
