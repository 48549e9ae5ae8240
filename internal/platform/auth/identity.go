package auth

import (
	"net/http"
	"strings"

	"github.com/docfield/api/internal/platform/httpx"
	"github.com/docfield/api/internal/platform/requestctx"
)

// Identity headers populated by the upstream API gateway after session
// verification. The service trusts the gateway and does not re-validate
// credentials itself.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
)

// IdentityMiddleware extracts the authenticated user from gateway headers and
// stores it on the request context. Requests without a user identity are
// rejected with 401.
func IdentityMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := requestctx.Identity{
				UserID: strings.TrimSpace(r.Header.Get(HeaderUserID)),
				Email:  strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
			}
			if !identity.Valid() {
				httpx.WriteError(r.Context(), w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
				return
			}

			ctx := requestctx.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
