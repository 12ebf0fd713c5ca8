package middleware

import (
	"context"
	"net/http"
	"strings"

	"communityportal/pkg/logger"
)

const (
	UserIDKey   contextKey = "user_id"
	UserNameKey contextKey = "user_name"

	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"
)

// Identity lifts the authenticated caller off the trusted headers set by the
// portal's session gateway. The identity provider itself terminates upstream;
// this service takes the id as given.
func Identity(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if userID != "" {
				ctx := context.WithValue(r.Context(), UserIDKey, userID)
				if name := strings.TrimSpace(r.Header.Get(HeaderUserName)); name != "" {
					ctx = context.WithValue(ctx, UserNameKey, name)
				}
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext returns the authenticated user id, or "" for anonymous
// requests. Handlers that require identity reject the empty case themselves.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}
