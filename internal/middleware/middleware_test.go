package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ration-be/internal/auth"
	"ration-be/internal/logger"
	"ration-be/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCors(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := CORS("http://localhost:3000")(nextHandler)

	t.Run("OPTIONS request", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Normal request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuth(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Hour)

	t.Run("Missing Token", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := transport.SessionFrom(r.Context())
			assert.False(t, ok, "Context should not contain a session")
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/protected", nil)
		w := httptest.NewRecorder()

		AuthMiddleware(issuer)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		AuthMiddleware(issuer)(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Valid Customer Token", func(t *testing.T) {
		token, err := issuer.IssueCustomerToken("cust-1")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := transport.SessionFrom(r.Context())
			assert.True(t, ok)
			assert.Equal(t, "cust-1", s.CustomerID)
			assert.Equal(t, "customer:cust-1", logger.ActorFrom(r.Context()))
			w.WriteHeader(http.StatusOK)
		})

		AuthMiddleware(issuer)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Token From Cookie", func(t *testing.T) {
		token, err := issuer.IssueAdminToken(1, "admin@pds.test")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: token})
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := transport.SessionFrom(r.Context())
			assert.True(t, ok)
			assert.True(t, s.Admin)
			w.WriteHeader(http.StatusOK)
		})

		AuthMiddleware(issuer)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Malformed Header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Basic user:pass")
		w := httptest.NewRecorder()

		// Non-Bearer headers are treated as anonymous.
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := transport.SessionFrom(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		})

		AuthMiddleware(issuer)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRoleGuards(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	admin := &transport.Session{Subject: "1", Admin: true}
	customer := &transport.Session{Subject: "c-1", CustomerID: "c-1"}

	tests := []struct {
		name    string
		guard   func(http.Handler) http.Handler
		session *transport.Session
		want    int
	}{
		{"admin guard anonymous", RequireAdmin, nil, http.StatusUnauthorized},
		{"admin guard customer", RequireAdmin, customer, http.StatusForbidden},
		{"admin guard admin", RequireAdmin, admin, http.StatusOK},
		{"customer guard anonymous", RequireCustomer, nil, http.StatusUnauthorized},
		{"customer guard admin", RequireCustomer, admin, http.StatusForbidden},
		{"customer guard customer", RequireCustomer, customer, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/x", nil)
			if tt.session != nil {
				req = req.WithContext(transport.WithSession(req.Context(), tt.session))
			}
			w := httptest.NewRecorder()

			tt.guard(ok).ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Strict tier on token endpoint", func(t *testing.T) {
		handler := NewRateLimiter("").Middleware(ok)

		codes := make([]int, 0, burstStrict+1)
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest("POST", "/api/auth/customer-token", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}

		assert.Equal(t, http.StatusOK, codes[0])
		assert.Equal(t, http.StatusTooManyRequests, codes[burstStrict])
	})

	t.Run("Internal key bypasses strict tier", func(t *testing.T) {
		l := NewRateLimiter("svc-key")
		req := httptest.NewRequest("POST", "/api/admin/login", nil)
		req.Header.Set("X-Service-Auth", "svc-key")

		_, burst, tier := l.resolveRateTier(req)
		assert.Equal(t, "internal", tier)
		assert.Equal(t, burstInternal, burst)
	})

	t.Run("Idle visitors are swept", func(t *testing.T) {
		l := NewRateLimiter("")
		now := time.Now()
		l.now = func() time.Time { return now }

		l.getVisitor("ip:1:general", limitGeneral, burstGeneral)
		assert.Len(t, l.visitors, 1)

		now = now.Add(visitorTTL + sweepInterval + time.Second)
		l.getVisitor("ip:2:general", limitGeneral, burstGeneral)

		_, stillThere := l.visitors["ip:1:general"]
		assert.False(t, stillThere)
		assert.Len(t, l.visitors, 1)
	})
}

func TestLoggingMiddleware(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	defer logger.Replace(zap.New(core))()

	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest("POST", "/api/orders", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	logs := observed.TakeAll()
	require.Len(t, logs, 1)
	assert.Equal(t, "incoming request", logs[0].Message)
	assert.Equal(t, "/api/orders", logs[0].ContextMap()["path"])
	assert.EqualValues(t, http.StatusCreated, logs[0].ContextMap()["status"])
}
