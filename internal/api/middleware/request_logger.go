package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger логирует каждый запрос и проставляет X-Request-ID, если клиент его не передал
func RequestLogger(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get(HeaderRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
				r.Header.Set(HeaderRequestID, reqID)
			}
			w.Header().Set(HeaderRequestID, reqID)

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			logger.Info("%s %s - status=%d, duration_ms=%d, request_id=%s, remote=%s",
				r.Method, r.URL.Path, rec.status, time.Since(start).Milliseconds(), reqID, r.RemoteAddr)
		})
	}
}
