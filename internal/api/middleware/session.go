package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/colebaker/ytfetch/internal/domain"
)

// SessionCookie is the name of the cookie carrying the opaque session id.
const SessionCookie = "ytfetch_session"

type contextKey struct{}

var sessionKey contextKey

// Session assigns each client an opaque identifier, persisted in an
// HttpOnly cookie, and injects it into the request context. A session is
// created on first contact and never expires server-side; possession of
// the cookie is the only access control over a session's jobs.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := sessionFromCookie(r)
		if sid == "" {
			sid = domain.SessionID(uuid.New().String())
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sid.String(),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sid)))
	})
}

// WithSession returns a context carrying sid.
func WithSession(ctx context.Context, sid domain.SessionID) context.Context {
	return context.WithValue(ctx, sessionKey, sid)
}

// SessionFromContext returns the session id the Session middleware stored.
func SessionFromContext(ctx context.Context) domain.SessionID {
	sid, _ := ctx.Value(sessionKey).(domain.SessionID)
	return sid
}

func sessionFromCookie(r *http.Request) domain.SessionID {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	// Reject values we did not mint; a malformed cookie gets a fresh session.
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return domain.SessionID(cookie.Value)
}
