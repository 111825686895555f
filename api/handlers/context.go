package handlers

import (
	"context"
	"net/http"

	"opsassist-dashboard/core/dashboard"
)

type contextKey string

const sessionContextKey contextKey = "dashboard_session"

func WithSession(ctx context.Context, sess *dashboard.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

func SessionFromContext(ctx context.Context) (*dashboard.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*dashboard.Session)
	return sess, ok && sess != nil
}

// sessionFor falls back to an anonymous session when the request bypassed the session middleware.
func sessionFor(r *http.Request, sessions *dashboard.Manager) *dashboard.Session {
	if sess, ok := SessionFromContext(r.Context()); ok {
		return sess
	}
	sess, _ := sessions.GetOrCreate("")
	return sess
}
