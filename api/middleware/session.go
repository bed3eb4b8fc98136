package middleware

import (
	"net/http"
	"time"

	"github.com/isdl/storefront-gateway/pkg/auth"
	"github.com/isdl/storefront-gateway/pkg/config"
	"github.com/isdl/storefront-gateway/pkg/logger"
)

// Session attaches a gateway session id to every request. A valid session
// cookie is reused; anything else gets a fresh id and a newly minted cookie.
func Session(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil {
				if claims, err := auth.ParseSessionToken(cfg, cookie.Value); err == nil {
					sessionID = claims.SessionID
				}
			}

			if sessionID == "" {
				sessionID = auth.NewSessionID()
				token, err := auth.MintSessionToken(cfg, time.Now(), sessionID)
				if err != nil {
					if logg != nil {
						logg.Error(r.Context(), "session.mint", err)
					}
				} else {
					http.SetCookie(w, SessionCookie(cfg, token))
				}
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionCookie builds the gateway session cookie for the given token.
func SessionCookie(cfg config.SessionConfig, token string) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.TTL() / time.Second),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
