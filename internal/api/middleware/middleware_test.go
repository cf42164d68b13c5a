package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarBridge/pkg/logger"
)

type observation struct {
	method string
	route  string
	status int
}

type fakeMetrics struct{ seen []observation }

func (f *fakeMetrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.seen = append(f.seen, observation{method: method, route: route, status: status})
}

func okHandler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := &fakeMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/retell/{op}", okHandler(http.StatusTeapot)).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/retell/get-free-slots", nil))

	require.Len(t, m.seen, 1)
	assert.Equal(t, observation{method: http.MethodPost, route: "/retell/{op}", status: http.StatusTeapot}, m.seen[0])
}

func TestMetricsMiddleware_DefaultStatus(t *testing.T) {
	m := &fakeMetrics{}
	h := MetricsMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Len(t, m.seen, 1)
	assert.Equal(t, http.StatusOK, m.seen[0].status)
	assert.Equal(t, unmatchedRoute, m.seen[0].route)
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	var seenID string
	h := RequestLogger(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get(HeaderRequestID)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, seenID)
	assert.Equal(t, seenID, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestCORS(t *testing.T) {
	t.Run("listed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/get-free-slots", nil)
		req.Header.Set("Origin", "https://agent.example")
		rec := httptest.NewRecorder()

		CORS([]string{"https://agent.example"})(okHandler(http.StatusOK)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://agent.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/get-free-slots", nil)
		req.Header.Set("Origin", "https://other.example")
		rec := httptest.NewRecorder()

		CORS([]string{"https://agent.example"})(okHandler(http.StatusOK)).ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard preflight", func(t *testing.T) {
		called := false
		req := httptest.NewRequest(http.MethodOptions, "/book-appointment", nil)
		req.Header.Set("Origin", "https://any.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()

		CORS([]string{"*"})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })).ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://any.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func limitedRequest(remote, xff string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/get-free-slots", nil)
	req.RemoteAddr = remote
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	return req
}

func TestRateLimiter(t *testing.T) {
	rl, err := NewRateLimiter(0.001, 2, nil, 0)
	require.NoError(t, err)
	h := rl.Middleware(logger.NewNop())(okHandler(http.StatusOK))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, limitedRequest("10.0.0.1:5555", ""))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, limitedRequest("10.0.0.2:5555", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_SpoofedForwardedForIsIgnored(t *testing.T) {
	rl, err := NewRateLimiter(0.001, 1, nil, 0)
	require.NoError(t, err)
	h := rl.Middleware(logger.NewNop())(okHandler(http.StatusOK))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, limitedRequest("198.51.100.9:4000", "203.0.113.1"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, limitedRequest("198.51.100.9:4000", "203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimiter_ClientIP(t *testing.T) {
	rl, err := NewRateLimiter(1, 1, []string{"10.0.0.0/8", "192.168.1.1"}, 0)
	require.NoError(t, err)

	assert.Equal(t, "198.51.100.9", rl.clientIP(limitedRequest("198.51.100.9:4000", "203.0.113.7")))
	assert.Equal(t, "192.168.1.10", rl.clientIP(limitedRequest("192.168.1.10:4321", "")))
	assert.Equal(t, "203.0.113.7", rl.clientIP(limitedRequest("10.1.2.3:80", "203.0.113.7")))
	assert.Equal(t, "203.0.113.7", rl.clientIP(limitedRequest("10.1.2.3:80", "1.1.1.1, 203.0.113.7, 192.168.1.1")))
	assert.Equal(t, "10.1.2.3", rl.clientIP(limitedRequest("10.1.2.3:80", "")))

	_, err = NewRateLimiter(1, 1, []string{"not-an-ip"}, 0)
	assert.Error(t, err)
}

func TestRateLimiter_CleanupEvictsIdle(t *testing.T) {
	rl, err := NewRateLimiter(1, 1, nil, time.Minute)
	require.NoError(t, err)

	now := time.Date(2025, 10, 6, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("203.0.113.1")
	rl.Allow("203.0.113.2")
	require.Equal(t, 2, rl.Size())

	now = now.Add(45 * time.Second)
	rl.Allow("203.0.113.2")

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, rl.Cleanup())
	assert.Equal(t, 1, rl.Size())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, rl.Cleanup())
	assert.Equal(t, 0, rl.Size())
}
