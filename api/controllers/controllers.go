// Package controllers holds the gateway's HTTP handlers. Each handler is a
// closure over its dependencies, reads the gateway session attached by the
// middleware, and answers with the shared response envelopes.
package controllers

import (
	"net/http"

	"github.com/isdl/storefront-gateway/api/middleware"
	"github.com/isdl/storefront-gateway/internal/state"
	"github.com/isdl/storefront-gateway/internal/upstream"
	pkgerrors "github.com/isdl/storefront-gateway/pkg/errors"
)

func currentSession(r *http.Request, registry *state.Registry) (string, *state.Session) {
	sid := middleware.SessionIDFromContext(r.Context())
	return sid, registry.GetOrCreate(r.Context(), sid)
}

func upstreamSession(sess *state.Session) upstream.Session {
	return upstream.Session{Cookie: sess.UpstreamCookie()}
}

func requireUser(sess *state.Session) (state.UserSession, error) {
	user := sess.User()
	if user.IsAnonymous() {
		return state.UserSession{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required")
	}
	return user, nil
}

func requireAdmin(sess *state.Session) (state.UserSession, error) {
	user, err := requireUser(sess)
	if err != nil {
		return state.UserSession{}, err
	}
	if !user.IsAdmin {
		return state.UserSession{}, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	return user, nil
}
