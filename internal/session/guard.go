package session

import (
	"atm-simulator/internal/utils"
	"context"
)

type handlerFunc func(ctx context.Context, s Session) (Session, error)

const loginRequiredStatus = "please insert your card and log in first"

// requireAuth sends an unauthenticated session back to the login screen
// instead of running next.
func requireAuth(next handlerFunc) handlerFunc {
	return func(ctx context.Context, s Session) (Session, error) {
		if !s.Authenticated() {
			utils.LogWarning("Session", "session %s: %s needs an authenticated account", s.ID, s.Screen)
			return s.loggedOut(loginRequiredStatus), nil
		}
		return next(ctx, s)
	}
}
