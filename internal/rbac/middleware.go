package rbac

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/easybiz-pos/easybiz-pos/internal/platform/httpx"
	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

// TokenVerifier validates a capability token string and returns the
// principal it encodes.
type TokenVerifier interface {
	VerifyToken(token string) (*shared.Principal, error)
}

// Middleware wires token decoding and feature gating for HTTP handlers.
// Authorization decisions trust the token's embedded feature set; no
// database round-trip happens here.
type Middleware struct {
	Tokens     TokenVerifier
	CookieName string
	Logger     *slog.Logger
}

// Authenticate decodes the bearer or cookie token and stores the principal
// in the request context. Missing or invalid tokens get a uniform 401; the
// failure kind is never leaked to the client.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			httpx.Error(w, http.StatusUnauthorized, "Unauthorized.")
			return
		}
		principal, err := m.Tokens.VerifyToken(token)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Debug("token rejected", slog.String("path", r.URL.Path), slog.Any("error", err))
			}
			httpx.Error(w, http.StatusUnauthorized, "Unauthorized.")
			return
		}
		ctx := shared.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAny allows the request through when the principal holds at least
// one of the listed features.
func (m Middleware) RequireAny(features ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := shared.PrincipalFromContext(r.Context())
			if principal == nil {
				httpx.Error(w, http.StatusUnauthorized, "Unauthorized.")
				return
			}
			for _, f := range features {
				if principal.HasFeature(f) {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.Error(w, http.StatusForbidden, "Forbidden.")
		})
	}
}

// RequireAll allows the request through only when the principal holds every
// listed feature.
func (m Middleware) RequireAll(features ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := shared.PrincipalFromContext(r.Context())
			if principal == nil {
				httpx.Error(w, http.StatusUnauthorized, "Unauthorized.")
				return
			}
			for _, f := range features {
				if !principal.HasFeature(f) {
					httpx.Error(w, http.StatusForbidden, "Forbidden.")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if m.CookieName != "" {
		if cookie, err := r.Cookie(m.CookieName); err == nil {
			return cookie.Value
		}
	}
	return ""
}
