package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"brandgate/internal/autherr"

	"go.uber.org/zap"
)

// writeError maps the pipeline error taxonomy to HTTP. Responses carry only
// the generic category; the full error is logged server-side.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var rl *autherr.RateLimitedError
	switch {
	case errors.Is(err, autherr.ErrTenantRequired):
		writeJSON(w, http.StatusBadRequest, Fail("tenant required"))
	case errors.Is(err, autherr.ErrTenantNotFound):
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	case errors.Is(err, autherr.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, Fail("unauthorized"))
	case errors.Is(err, autherr.ErrForbidden):
		writeJSON(w, http.StatusForbidden, Fail("forbidden"))
	case errors.Is(err, autherr.ErrConflict):
		writeJSON(w, http.StatusConflict, Fail("conflict"))
	case errors.As(err, &rl):
		retry := int(rl.RetryAfter.Seconds())
		if retry < 1 {
			retry = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		writeJSON(w, http.StatusTooManyRequests, Result[map[string]any]{
			Code:    ResultError,
			Type:    "error",
			Message: "too many attempts",
			Result:  map[string]any{"retry_after": retry},
		})
	default:
		logger.Error("Request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
	}
}
