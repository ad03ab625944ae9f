package auth

import (
	"net/http"
	"strings"

	"github.com/zedcars/zedcars/internal/platform/httpx"
	"github.com/zedcars/zedcars/internal/shared"
)

// Cookie names mirrored by the SPA.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// Middleware authenticates requests and enforces role guards.
type Middleware struct {
	tokens *TokenProvider
}

// NewMiddleware constructs the auth middleware.
func NewMiddleware(tokens *TokenProvider) *Middleware {
	return &Middleware{tokens: tokens}
}

// Authenticate resolves the caller identity from a bearer header or the
// access cookie and stores it in the request context. Anonymous requests pass
// through untouched; route guards decide what needs identity.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			if cookie, err := r.Cookie(AccessCookie); err == nil {
				token = cookie.Value
			}
		}
		if token != "" {
			if claims, err := m.tokens.ParseAccess(token); err == nil {
				r = r.WithContext(shared.ContextWithClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects requests whose caller is anonymous (401) or holds none
// of the listed roles (403).
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := shared.ClaimsFromContext(r.Context())
			if claims == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
