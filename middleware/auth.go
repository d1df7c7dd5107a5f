package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrymomot/rollcall/pkg/jwt"
)

type presenterContextKey struct{}

// PresenterAuth guards presenter-only endpoints with bearer token
// verification. The token subject is stored in the request context as the
// authenticated presenter identifier.
func PresenterAuth(tokens *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), presenterContextKey{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPresenter returns the authenticated presenter ID from the context.
// Returns an empty string outside the PresenterAuth middleware.
func GetPresenter(ctx context.Context) string {
	id, _ := ctx.Value(presenterContextKey{}).(string)
	return id
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="rollcall"`)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"reason":"unauthorized","error":"unauthorized"}`))
}
