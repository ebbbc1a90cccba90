package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contractor-booking/config"
	"contractor-booking/internal/domain/entity"
	"contractor-booking/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func actorEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActorFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		io.WriteString(w, string(actor.Role)+":"+actor.ID.String())
	})
}

func TestAuthenticate(t *testing.T) {
	svc := jwt.NewJWTService(config.JWTConfig{Secret: "secret", AccessExpiry: time.Minute})
	actor := entity.Actor{ID: uuid.New(), Role: entity.RoleUser}
	token, err := svc.GenerateAccessToken(actor)
	require.NoError(t, err)

	handler := NewAuthMiddleware(svc).Authenticate(actorEcho())

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "user:"+actor.ID.String(), rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(entity.RoleAdmin, entity.RoleContractor)(actorEcho())

	t.Run("no actor", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("role not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithActor(req.Context(), entity.Actor{ID: uuid.New(), Role: entity.RoleUser}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("role allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithActor(req.Context(), entity.Actor{ID: uuid.New(), Role: entity.RoleContractor}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:1000"))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1002"))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.2:1000"))
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.getLimiter("a")
	now = now.Add(visitorIdleTimeout + time.Second)
	rl.getLimiter("b")

	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
}

func TestRateLimiter_SweepsAtMostOncePerTimeout(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	start := time.Now()
	now := start
	rl.now = func() time.Time { return now }

	rl.getLimiter("a")
	assert.Equal(t, start, rl.lastSweep)

	// stale entry that a sweep would drop
	rl.visitors["stale"] = &visitor{limiter: rate.NewLimiter(1, 1), lastSeen: start.Add(-2 * visitorIdleTimeout)}

	now = start.Add(visitorIdleTimeout / 2)
	rl.getLimiter("b")
	assert.Contains(t, rl.visitors, "stale")
	assert.Equal(t, start, rl.lastSweep)

	now = start.Add(visitorIdleTimeout)
	rl.getLimiter("c")
	assert.NotContains(t, rl.visitors, "stale")
	assert.Contains(t, rl.visitors, "a")
	assert.Equal(t, now, rl.lastSweep)
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	handler := NewCORSMiddleware([]string{"https://app.example"}).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/appointments", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggingMiddleware_PassesThrough(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	handler := NewLoggingMiddleware(log).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
}
