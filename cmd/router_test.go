package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	healthHandler "github.com/m04kA/SMC-CalendarBridge/internal/api/handlers/health"
)

func named(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(name))
	}
}

func TestNewRouter(t *testing.T) {
	r := newRouter(healthHandler.NewHandler().Handle, named("free-slots"), named("book"))

	cases := []struct {
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{http.MethodGet, "/health", http.StatusOK, "ok"},
		{http.MethodPost, "/get-free-slots", http.StatusOK, "free-slots"},
		{http.MethodPost, "/retell/get-free-slots", http.StatusOK, "free-slots"},
		{http.MethodPost, "/book-appointment", http.StatusOK, "book"},
		{http.MethodPost, "/retell/book-appointment", http.StatusOK, "book"},
		{http.MethodGet, "/get-free-slots", http.StatusMethodNotAllowed, ""},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/retell/health", http.StatusNotFound, ""},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, rec.Body.String())
			}
		})
	}
}
