package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/boolmaze-server/internal/config"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestWrapOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.NotFoundHandler(), tag("inner"), tag("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestRateLimit(t *testing.T) {
	h := Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		RateLimit(0, 2),
	)

	codes := make([]int, 0)
	for range 3 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitForgetsIdleAddresses(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiters(0, 1)
	l.now = func() time.Time { return now }
	l.lastSweep = now

	require.True(t, l.get("10.0.0.1").Allow())
	require.False(t, l.get("10.0.0.1").Allow())

	now = now.Add(5 * time.Minute)
	l.get("10.0.0.2")
	assert.Equal(t, 2, l.len())

	now = now.Add(limiterIdle)
	l.get("10.0.0.2")
	assert.Equal(t, 1, l.len())

	// the forgotten address starts over with a full bucket
	assert.True(t, l.get("10.0.0.1").Allow())
}

func TestWrapFunc(t *testing.T) {
	called := false
	h := WrapFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, RateLimit(0, 1))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(rec, req)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)

	called = false
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.False(t, called)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAuth(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	cookies, err := config.NewCookies(config.NewJWTWithKeys(key, &key.PublicKey, time.Hour))
	require.NoError(t, err)

	var (
		claims *config.TicketClaims
		ok     bool
	)
	h := Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok = TicketClaims(r.Context())
		}),
		Auth(testLogger(), cookies),
		Logging(testLogger()),
	)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)

	token, err := cookies.Issue(httptest.NewRecorder(), "abc")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, ok)
	assert.Equal(t, "abc", claims.SessionID)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.False(t, ok)
	assert.NotEmpty(t, rec.Result().Cookies())
}
