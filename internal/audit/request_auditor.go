// filepath: internal/audit/request_auditor.go
// Package audit records mutating API requests in the application log.
package audit

import (
	"net/http"
	"time"

	"photovault/internal/logging"

	"github.com/sirupsen/logrus"
)

// RequestAuditor logs every non-GET request with its outcome.
type RequestAuditor struct {
	enabled bool
}

// NewRequestAuditor creates a new instance of RequestAuditor.
func NewRequestAuditor(enabled bool) *RequestAuditor {
	return &RequestAuditor{enabled: enabled}
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware wraps next. Read-only requests pass through unrecorded.
func (a *RequestAuditor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.enabled || r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		fields := logrus.Fields{
			"audit_action":   r.Method,
			"audit_resource": r.URL.Path,
			"audit_remote":   r.RemoteAddr,
			"status":         rec.status,
			"duration_ms":    time.Since(start).Milliseconds(),
		}
		if r.URL.RawQuery != "" {
			fields["detail.query"] = r.URL.RawQuery
		}
		logging.Log.WithFields(fields).Info("AUDIT EVENT")
	})
}
