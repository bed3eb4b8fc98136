package upstream

import (
	"context"
	"net/http"

	pkgerrors "github.com/isdl/storefront-gateway/pkg/errors"
)

type userEnvelope struct {
	Success bool  `json:"success"`
	User    *User `json:"user"`
}

// Login exchanges credentials for a user object and the upstream's credential
// cookie.
func (c *Client) Login(ctx context.Context, creds Credentials) (*User, string, error) {
	var envelope userEnvelope
	cookie, err := c.doJSONCapture(ctx, http.MethodPost, "/auth/login", Session{}, creds, &envelope)
	if err != nil {
		return nil, "", err
	}
	if envelope.User == nil || envelope.User.ID == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeUpstream, "login response missing user")
	}
	return envelope.User, cookie, nil
}

// Register creates an account and returns the signed-in user plus credential
// cookie.
func (c *Client) Register(ctx context.Context, creds Credentials) (*User, string, error) {
	var envelope userEnvelope
	cookie, err := c.doJSONCapture(ctx, http.MethodPost, "/auth/register", Session{}, creds, &envelope)
	if err != nil {
		return nil, "", err
	}
	if envelope.User == nil || envelope.User.ID == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeUpstream, "register response missing user")
	}
	return envelope.User, cookie, nil
}

// GetUser bootstraps the session from the stored credential cookie.
func (c *Client) GetUser(ctx context.Context, sess Session) (*User, error) {
	var envelope userEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/auth/getUser", sess, nil, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success || envelope.User == nil || envelope.User.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active upstream session")
	}
	return envelope.User, nil
}

// SignOut invalidates the upstream session.
func (c *Client) SignOut(ctx context.Context, sess Session) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/signout", sess, map[string]any{}, nil)
}
