package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/grossitech/FlyChain/internal/auth"
)

type callerKey struct{}

// Verifier validates bearer tokens and resolves the caller they name.
type Verifier interface {
	Verify(token string) (auth.Caller, error)
}

// Authenticate resolves the caller from a Bearer token and stores it in
// the request context. Requests without a token pass through anonymous;
// handlers that need an identity reject those with 401. A present but
// invalid token is rejected here.
func Authenticate(verifier Verifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "malformed authorization header")
			return
		}

		caller, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), callerKey{}, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerFromContext returns the authenticated caller, if any.
func CallerFromContext(ctx context.Context) (auth.Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(auth.Caller)
	return c, ok
}

// requireCaller fetches the caller or writes a 401.
func requireCaller(w http.ResponseWriter, r *http.Request) (auth.Caller, bool) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required")
		return auth.Caller{}, false
	}
	return caller, true
}
