package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"medledger/internal/domain"
	"medledger/pkg/requestcontext"
)

// SessionResolver validates a bearer token and returns the live session it
// references. The identity service implements this.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (domain.Session, error)
}

// RequireAuth rejects requests without a valid bearer token and places the
// resolved session in the request context for handlers.
func RequireAuth(resolver SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access, missing bearer token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "missing or malformed Authorization header")
				return
			}

			sess, err := resolver.ResolveSession(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access, token rejected",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithSession(ctx, sess)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"` + message + `"}`))
}
