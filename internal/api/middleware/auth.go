package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/reversigame-go/internal/api/apierr"
	"github.com/mcoot/reversigame-go/internal/model"
	"github.com/mcoot/reversigame-go/internal/services/auth"
)

type sessionKey struct{}

// Auth rejects requests without a valid session token
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return authenticate(authService, true)
}

// OptionalAuth attaches the session when a valid token is sent and
// otherwise lets the request through anonymously
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return authenticate(authService, false)
}

func authenticate(authService *auth.Service, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				if required {
					apierr.WriteError(w, apierr.NewUnauthorizedError())
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			session, err := authService.ValidateSession(r.Context(), token)
			switch {
			case err == nil:
				r = r.WithContext(context.WithValue(r.Context(), sessionKey{}, session))
			case required:
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken reads a bearer token, falling back to the token query
// parameter because EventSource clients cannot set headers
func extractToken(r *http.Request) string {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return r.URL.Query().Get("token")
}

// GetSession returns the request's session, or nil when unauthenticated
func GetSession(ctx context.Context) *model.Session {
	session, _ := ctx.Value(sessionKey{}).(*model.Session)
	return session
}

// GetPlayer returns the authenticated player, or nil
func GetPlayer(ctx context.Context) *model.Player {
	if session := GetSession(ctx); session != nil {
		return &session.Player
	}
	return nil
}

// MustGetPlayer returns the authenticated player. Routes using it must be
// behind Auth.
func MustGetPlayer(ctx context.Context) *model.Player {
	player := GetPlayer(ctx)
	if player == nil {
		panic("no player in context: route is missing Auth middleware")
	}
	return player
}
