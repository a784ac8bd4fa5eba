package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func rateLimitedHandler(capacity, refillRate int) http.Handler {
	return RateLimitMiddleware(capacity, refillRate)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doRequest(h http.Handler, path, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitSharedAcrossPorts(t *testing.T) {
	h := rateLimitedHandler(5, 0)

	// one client IP over many fresh source ports shares a single bucket
	passed := 0
	for i := 0; i < 50; i++ {
		addr := fmt.Sprintf("10.0.0.1:%d", 40000+i)
		if doRequest(h, "/api/v1/analyze", addr) == http.StatusOK {
			passed++
		}
	}
	assert.Equal(t, 5, passed)
}

func TestRateLimitPerClientBuckets(t *testing.T) {
	h := rateLimitedHandler(1, 0)

	assert.Equal(t, http.StatusOK, doRequest(h, "/api/v1/analyze", "10.0.0.1:40000"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "/api/v1/analyze", "10.0.0.1:40001"))

	// a different client still has its own capacity
	assert.Equal(t, http.StatusOK, doRequest(h, "/api/v1/analyze", "10.0.0.2:40000"))
}

func TestRateLimitSkipsHealth(t *testing.T) {
	h := rateLimitedHandler(1, 0)

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, doRequest(h, "/health", "10.0.0.1:40000"))
	}
}
