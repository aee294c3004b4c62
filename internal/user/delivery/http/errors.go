package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tair/user-favorites/internal/user/domain"
	"github.com/tair/user-favorites/pkg/logger"
)

// StatusFor maps a use case error to an HTTP status
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindInvalidOperation:
		return http.StatusUnprocessableEntity
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	case domain.KindInvalid:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError writes err with its mapped status. Only the message
// of a domain error reaches the client; causes and server-side failures
// go to the log.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)

	if status >= http.StatusInternalServerError {
		logger.Error(r.Context()).
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg("Request failed")
	}

	message := http.StatusText(status)
	var e *domain.Error
	if errors.As(err, &e) && e.Message != "" {
		message = e.Message
	}

	respondJSON(w, status, map[string]string{"error": message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
