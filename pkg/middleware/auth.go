package middleware

import (
	"net/http"

	"github.com/shashiranjanraj/shopadmin/pkg/auth"
	"github.com/shashiranjanraj/shopadmin/pkg/logger"
	"github.com/shashiranjanraj/shopadmin/pkg/response"
)

// RequireAdmin rejects requests without a valid admin bearer token and
// puts the token's claims in the request context (auth.FromCtx).
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.BearerToken(r.Header.Get("Authorization"))
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ParseToken(token)
		if err != nil {
			logger.WithCtx(r.Context()).Info("rejected admin token", "error", err)
			response.Unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}

// Optional returns mw when enabled, otherwise a pass-through.
func Optional(enabled bool, mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if enabled {
		return mw
	}
	return func(next http.Handler) http.Handler { return next }
}
