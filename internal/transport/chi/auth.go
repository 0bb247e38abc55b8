package chi

import (
	"net/http"
	"strings"
)

// publicPaths are the customer-facing routes that bypass authentication.
// Everything else (product/aisle CRUD, config, seed, export) is admin-only.
var publicPaths = map[string]struct{}{
	"/health":     {},
	"/metrics":    {},
	"/chat":       {},
	"/voice":      {},
	"/search":     {},
	"/stats":      {},
	"/categories": {},
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens
// on admin routes. If adminKeys is empty, authentication is disabled
// (pass-through).
func BearerAuthMiddleware(adminKeys []string) func(http.Handler) http.Handler {
	validKeys := make(map[string]struct{}, len(adminKeys))
	for _, k := range adminKeys {
		if k != "" {
			validKeys[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		// Auth disabled, pass everything through
		if len(validKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					"unauthorized", "authorization header must use Bearer scheme")
				return
			}

			token := auth[len(bearerPrefix):]
			if _, ok := validKeys[token]; !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid admin key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
