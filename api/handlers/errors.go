package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"opsassist-dashboard/core/incidents"
	"opsassist-dashboard/core/lifecycle"
	"opsassist-dashboard/core/quickactions"
	"opsassist-dashboard/core/storeclient"
	"opsassist-dashboard/core/utils"
)

var errBadRequest = errors.New("bad request")

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// classifyError maps domain and store failures onto an HTTP status and a stable code.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, lifecycle.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, "invalid_transition"
	case errors.Is(err, lifecycle.ErrTransitionTimeout):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, errBadRequest),
		errors.Is(err, incidents.ErrInvalidFilter),
		errors.Is(err, incidents.ErrUnknownStatus),
		errors.Is(err, incidents.ErrUnknownAction),
		errors.Is(err, quickactions.ErrInvalidRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, storeclient.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, storeclient.ErrUnreachable):
		return http.StatusServiceUnavailable, "store_unreachable"
	case errors.Is(err, storeclient.ErrRejected),
		errors.Is(err, storeclient.ErrMalformed),
		errors.Is(err, quickactions.ErrPartialFailure):
		return http.StatusBadGateway, "store_rejected"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	}
	return http.StatusInternalServerError, "internal"
}

func writeError(w http.ResponseWriter, r *http.Request, logger *utils.Logger, err error) {
	status, code := classifyError(err)
	if logger != nil && status >= http.StatusInternalServerError {
		logger.Errorf("API %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, r, status, errorResponse{Error: errorBody{Code: code, Message: err.Error()}})
}
