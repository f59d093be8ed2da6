package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	dErrors "consentsync/pkg/domain-errors"
	"consentsync/pkg/validation"
)

// DecodeAndValidate decodes a JSON request body into T and runs struct validation.
// Bodies larger than validation.MaxBodySize are rejected as bad requests.
// On failure it writes the error response and returns nil, false.
//
// Usage:
//
//	req, ok := httputil.DecodeAndValidate[SetConsentRequest](ctx, w, r, h.logger, requestID)
//	if !ok {
//	    return
//	}
func DecodeAndValidate[T any](ctx context.Context, w http.ResponseWriter, r *http.Request, logger *slog.Logger, requestID string) (*T, bool) {
	var req T
	body := http.MaxBytesReader(w, r.Body, validation.MaxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestID,
		)
		msg := "invalid request body"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, msg))
		return nil, false
	}
	if err := validation.Validate(&req); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, err)
		return nil, false
	}
	return &req, true
}
