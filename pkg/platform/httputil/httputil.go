// Package httputil holds the JSON response helpers shared by HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "consentsync/pkg/domain-errors"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

type httpError struct {
	status int
	code   string
}

var errorMappings = map[dErrors.Code]httpError{
	dErrors.CodeNotFound:       {http.StatusNotFound, "not_found"},
	dErrors.CodeBadRequest:     {http.StatusBadRequest, "bad_request"},
	dErrors.CodeInvalidInput:   {http.StatusBadRequest, "bad_request"},
	dErrors.CodeValidation:     {http.StatusBadRequest, "validation_error"},
	dErrors.CodeInvalidConsent: {http.StatusBadRequest, "invalid_consent"},
	dErrors.CodeNotReady:       {http.StatusServiceUnavailable, "sdk_not_ready"},
	dErrors.CodeSDKUnavailable: {http.StatusBadGateway, "sdk_unavailable"},
	dErrors.CodeTimeout:        {http.StatusGatewayTimeout, "sdk_timeout"},
}

var internalError = httpError{http.StatusInternalServerError, "internal_error"}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// the status is already sent, so an encoding failure cannot be reported
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError translates err into a JSON error body. Errors without a domain
// code become 500 internal_error and their text is not exposed.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		WriteJSON(w, internalError.status, ErrorResponse{Error: internalError.code})
		return
	}
	mapping := lookup(domainErr.Code)
	WriteJSON(w, mapping.status, ErrorResponse{
		Error:            mapping.code,
		ErrorDescription: domainErr.Message,
	})
}

func lookup(code dErrors.Code) httpError {
	if m, ok := errorMappings[code]; ok {
		return m
	}
	return internalError
}
