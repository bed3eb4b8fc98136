package controllers

import (
	"net/http"

	"github.com/isdl/storefront-gateway/api/responses"
	"github.com/isdl/storefront-gateway/api/validators"
	ordersvc "github.com/isdl/storefront-gateway/internal/orders"
	"github.com/isdl/storefront-gateway/internal/state"
	"github.com/isdl/storefront-gateway/internal/upstream"
	"github.com/isdl/storefront-gateway/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func sessionUser(u *upstream.User) state.UserSession {
	return state.UserSession{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
}

// Login exchanges credentials with the upstream and binds the returned
// identity plus credential cookie to the gateway session.
func Login(registry *state.Registry, client *upstream.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, cookie, err := client.Login(r.Context(), upstream.Credentials{
			Email:    validators.SanitizeString(payload.Email, 254),
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		_, sess := currentSession(r, registry)
		sess.SetUser(sessionUser(user))
		sess.SetUpstreamCookie(cookie)

		if logg != nil {
			logg.Info(logg.WithUserID(r.Context(), user.ID), "session signed in")
		}

		responses.WriteSuccess(w, sessionUser(user))
	}
}

// Register creates an account upstream and signs the session in.
func Register(registry *state.Registry, client *upstream.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, cookie, err := client.Register(r.Context(), upstream.Credentials{
			Name:     validators.SanitizeString(payload.Name, 100),
			Email:    validators.SanitizeString(payload.Email, 254),
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		_, sess := currentSession(r, registry)
		sess.SetUser(sessionUser(user))
		sess.SetUpstreamCookie(cookie)

		if logg != nil {
			logg.Info(logg.WithUserID(r.Context(), user.ID), "account registered")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sessionUser(user))
	}
}

// Me returns the signed-in identity, bootstrapping it from the stored
// upstream cookie when the local session has none yet.
func Me(registry *state.Registry, client *upstream.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sess := currentSession(r, registry)

		if user := sess.User(); !user.IsAnonymous() {
			responses.WriteSuccess(w, user)
			return
		}

		fetched, err := client.GetUser(r.Context(), upstreamSession(sess))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sess.SetUser(sessionUser(fetched))

		if logg != nil {
			logg.Info(logg.WithUserID(r.Context(), fetched.ID), "session identity restored")
		}

		responses.WriteSuccess(w, sessionUser(fetched))
	}
}

// SignOut invalidates the upstream session and clears all gateway state for
// the session. Upstream failures are logged but never block the local reset.
func SignOut(registry *state.Registry, client *upstream.Client, orders *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, sess := currentSession(r, registry)

		if err := client.SignOut(r.Context(), upstreamSession(sess)); err != nil && logg != nil {
			logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "upstream signout failed")
		}

		sess.ClearUser()
		sess.SetUpstreamCookie("")
		registry.Drop(r.Context(), sid)
		if orders != nil {
			orders.Drop(sid)
		}

		responses.WriteSuccess(w, map[string]bool{"signedOut": true})
	}
}
