package identity

import (
	"encoding/json"
	"net/http"
	"strings"
)

// NewAuthMiddleware verifies the Authorization header once per request and
// stores the resulting Principal in the request context. Handlers behind it
// never re-verify.
func NewAuthMiddleware(verifier Verifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeUnauthorized(w, "Missing or invalid token")

				return
			}

			token := strings.TrimPrefix(header, "Bearer ")

			principal, err := verifier.VerifyIdentity(r.Context(), token)
			if err != nil {
				writeUnauthorized(w, "Invalid token")

				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
