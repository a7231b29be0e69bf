package middleware

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/config"
)

type ctxKey int

const ctxPlayerClaims ctxKey = iota

// Auth attaches the player claims carried by the auth cookies to the request
// context. Requests with missing or invalid cookies pass through anonymously
// and have the stale cookies cleared.
func Auth(logger *logrus.Logger, cookies *config.Cookies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParsePlayerClaims(r)
			if err != nil {
				if _, noCookie := r.Cookie("auth"); noCookie == nil {
					logger.WithError(err).Debug("dropping invalid auth cookies")
					cookies.Clear(w)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPlayerClaims(r.Context(), claims)))
		})
	}
}

func WithPlayerClaims(ctx context.Context, claims *config.PlayerClaims) context.Context {
	return context.WithValue(ctx, ctxPlayerClaims, claims)
}

func PlayerClaims(ctx context.Context) (*config.PlayerClaims, bool) {
	claims, ok := ctx.Value(ctxPlayerClaims).(*config.PlayerClaims)
	return claims, ok
}

// PlayerID is nil for anonymous requests.
func PlayerID(ctx context.Context) *int64 {
	claims, ok := PlayerClaims(ctx)
	if !ok {
		return nil
	}
	id := claims.PlayerID
	return &id
}
