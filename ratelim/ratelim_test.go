package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func ok(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
}

func hit(h httprouter.Handle, addr string) int {
	r := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", nil)
	r.RemoteAddr = addr
	rec := httptest.NewRecorder()
	h(rec, r, nil)
	return rec.Code
}

func TestLimitPerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Limit(ok)

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:3333"))

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2:1111"))
}

func TestCleanupDropsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.getLimiter("10.0.0.1")
	rl.getLimiter("10.0.0.2")
	rl.visitors["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)

	rl.Cleanup(time.Now())
	assert.NotContains(t, rl.visitors, "10.0.0.1")
	assert.Contains(t, rl.visitors, "10.0.0.2")
}
