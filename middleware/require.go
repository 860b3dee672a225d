package middleware

import (
	"context"
	"net/http"
	"strings"

	webguard "github.com/arinellipar/webguard"
)

// RequireUser returns per-handler middleware enforcing the USER tier. It
// accepts a bearer Authorization header or the access token cookie.
func RequireUser(engine *webguard.Engine) func(http.Handler) http.Handler {
	return require(engine, webguard.LevelUser)
}

// RequireAdmin returns per-handler middleware enforcing the ADMIN tier.
func RequireAdmin(engine *webguard.Engine) func(http.Handler) http.Handler {
	return require(engine, webguard.LevelAdmin)
}

func require(engine *webguard.Engine, level webguard.PrivilegeLevel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := requestToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized,
					webguard.CodeAuthenticationRequired, "Authentication required",
					denialCorrelationID(nil), nil)
				return
			}

			ctx := webguard.WithClientIP(r.Context(), clientIP(r))
			result := engine.Authorize(ctx, token, level)
			if !result.Authorized {
				writeError(w, statusForCode(result.Code),
					result.Code, result.Message, result.CorrelationID, nil)
				return
			}

			ctx = context.WithValue(ctx, authzResultContextKey{}, result)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestToken prefers the Authorization header over the cookie so API
// clients can override a stale browser session.
func requestToken(r *http.Request) string {
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token
	}
	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
