package httpadapter

import (
	"context"
	"net/http"
	"strings"
)

type contextKeyCaller struct{}

// callerFrom returns the authenticated account address stored by
// requireAuth.
func callerFrom(ctx context.Context) string {
	caller, _ := ctx.Value(contextKeyCaller{}).(string)
	return caller
}

// requireAuth validates the Authorization bearer token and stores the
// caller's account address in the request context. Requests without a valid
// token are rejected with 401 before any handler runs.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		caller, err := h.verifier.Verify(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), contextKeyCaller{}, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
