package middleware

import (
	"net/http"

	"ration-be/internal/auth"
	"ration-be/internal/logger"
	"ration-be/internal/transport"
	"ration-be/internal/utils"

	"go.uber.org/zap"
)

// AuthMiddleware attaches a session to requests carrying a valid token.
// Anonymous requests pass through; a token that fails verification is
// rejected with 401.
func AuthMiddleware(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := issuer.Parse(tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("rejecting token", zap.Error(err))
				utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			session := claims.Session()
			ctx := transport.WithSession(r.Context(), session)
			ctx = logger.WithActor(ctx, session.Actor())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin only lets sessions carrying the admin claim through.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := transport.SessionFrom(r.Context())
		if !ok {
			utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !s.Admin {
			utils.WriteJSONError(w, "forbidden: admin only", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCustomer only lets customer-scoped sessions through.
func RequireCustomer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := transport.SessionFrom(r.Context())
		if !ok {
			utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !s.IsCustomer() {
			utils.WriteJSONError(w, "forbidden: customer only", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
