package auth

import (
	"context"
	"net/http"

	"github.com/mani-shailesh/focus/server/database"
)

type sessionKey struct{}

var sessionContextKey = &sessionKey{}

func SetSession(ctx context.Context, session database.SessionWithUser) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// GetSession returns the session attached to the request by the session
// middleware. It panics when called on an unauthenticated route.
func GetSession(r *http.Request) database.SessionWithUser {
	return r.Context().Value(sessionContextKey).(database.SessionWithUser)
}
