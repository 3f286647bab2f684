// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ManuGH/tvmosaic-bridge/internal/config"
	"github.com/ManuGH/tvmosaic-bridge/internal/log"
	"github.com/ManuGH/tvmosaic-bridge/internal/tvserver"
)

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

type errorBody struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	Status    string `json:"backendStatus,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// classify maps an error onto an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, config.ErrUnknownTuner):
		return http.StatusNotFound, "unknown_tuner"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "backend_timeout"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request_cancelled"
	case errors.Is(err, tvserver.ErrTransport):
		return http.StatusBadGateway, "backend_unreachable"
	case errors.Is(err, tvserver.ErrOperationFailed):
		return http.StatusBadGateway, "backend_operation_failed"
	case errors.Is(err, tvserver.ErrNullResult):
		return http.StatusBadGateway, "backend_null_result"
	case errors.Is(err, tvserver.ErrDecode):
		return http.StatusBadGateway, "backend_decode_failed"
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, kind := classify(err)
	body := errorBody{Error: kind, Detail: err.Error(), RequestID: log.RequestIDFromContext(r.Context())}
	if status, ok := tvserver.StatusOf(err); ok {
		body.Status = status.String()
	}

	logger := log.WithContext(r.Context(), s.logger)
	evt := logger.Warn()
	if code >= http.StatusInternalServerError {
		evt = logger.Error()
	}
	evt.Err(err).Str(log.FieldEvent, "api.request_failed").Int(log.FieldHTTPStatus, code).Msg(kind)

	writeJSON(w, code, body)
}
