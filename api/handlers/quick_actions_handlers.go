package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"opsassist-dashboard/core/quickactions"
	"opsassist-dashboard/core/utils"
)

type QuickActionsHandler struct {
	svc    *quickactions.Service
	logger *utils.Logger
}

func NewQuickActionsHandler(svc *quickactions.Service, logger *utils.Logger) *QuickActionsHandler {
	return &QuickActionsHandler{svc: svc, logger: logger}
}

type metaResponse struct {
	DocsURL      string                `json:"docs_url"`
	QuickActions quickactions.Defaults `json:"quick_actions"`
}

type simulatePayload struct {
	Service string `json:"service"`
	Message string `json:"message"`
	Count   *int   `json:"count"`
}

type simulateFailure struct {
	Error  errorBody                   `json:"error"`
	Result quickactions.SimulateResult `json:"result"`
}

func (h *QuickActionsHandler) Meta(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, metaResponse{
		DocsURL:      h.svc.DocsURL(),
		QuickActions: h.svc.Defaults(),
	})
}

func (h *QuickActionsHandler) SendEvent(w http.ResponseWriter, r *http.Request) {
	var req quickactions.SendRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Level) == "" {
		req.Level = h.svc.Defaults().Level
	}
	ack, err := h.svc.SendEvent(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, ack)
}

func (h *QuickActionsHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var payload simulatePayload
	if err := render.DecodeJSON(r.Body, &payload); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	req := quickactions.SimulateRequest{
		Service: payload.Service,
		Message: payload.Message,
		Count:   h.svc.Defaults().Count,
	}
	if payload.Count != nil {
		req.Count = *payload.Count
	}
	res, err := h.svc.Simulate(r.Context(), req)
	if err != nil {
		if errors.Is(err, quickactions.ErrPartialFailure) {
			status, code := classifyError(err)
			writeJSON(w, r, status, simulateFailure{
				Error:  errorBody{Code: code, Message: err.Error()},
				Result: res,
			})
			return
		}
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, res)
}
