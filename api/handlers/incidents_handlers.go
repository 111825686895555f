package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/gorilla/schema"

	"opsassist-dashboard/core/dashboard"
	"opsassist-dashboard/core/incidents"
	"opsassist-dashboard/core/utils"
)

type IncidentsHandler struct {
	sessions *dashboard.Manager
	decoder  *schema.Decoder
	logger   *utils.Logger
}

func NewIncidentsHandler(sessions *dashboard.Manager, logger *utils.Logger) *IncidentsHandler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &IncidentsHandler{sessions: sessions, decoder: decoder, logger: logger}
}

type listIncidentsQuery struct {
	Status  string `schema:"status"`
	Refresh bool   `schema:"refresh"`
}

type statusChangeRequest struct {
	Status string `json:"status"`
}

// List serves the incident list for the caller's session. The store is queried on the
// first call of a session and whenever refresh=true is passed.
func (h *IncidentsHandler) List(w http.ResponseWriter, r *http.Request) {
	var q listIncidentsQuery
	if err := h.decoder.Decode(&q, r.URL.Query()); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	filter, err := incidents.ParseStatusFilter(q.Status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	sess := sessionFor(r, h.sessions)
	if q.Refresh || !sess.Loaded() {
		if err := sess.Refresh(r.Context()); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}
	writeJSON(w, r, http.StatusOK, sess.List(filter))
}

func (h *IncidentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIncidentID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	view, err := sessionFor(r, h.sessions).Detail(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (h *IncidentsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIncidentID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var payload statusChangeRequest
	if err := render.DecodeJSON(r.Body, &payload); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	target, err := incidents.ParseStatus(payload.Status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	view, err := sessionFor(r, h.sessions).RequestTransition(r.Context(), id, target)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if h.logger != nil {
		h.logger.Printf("incident %d moved to %s", id, target)
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (h *IncidentsHandler) PerformAction(w http.ResponseWriter, r *http.Request) {
	id, err := parseIncidentID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	action, err := incidents.ParseAction(urlParam(r, "action"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	view, err := sessionFor(r, h.sessions).Perform(r.Context(), id, action)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if h.logger != nil {
		h.logger.Printf("incident %d: %s -> %s", id, action, view.Incident.Status)
	}
	writeJSON(w, r, http.StatusOK, view)
}
