// Package upstream is the typed client for the remote storefront API. Every
// call takes the session's credential cookie explicitly; the client itself
// holds no per-user state.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/isdl/storefront-gateway/pkg/config"
	pkgerrors "github.com/isdl/storefront-gateway/pkg/errors"
	"github.com/isdl/storefront-gateway/pkg/logger"
)

const errorBodyReadLimit int64 = 2048

var errBaseURLRequired = errors.New("upstream base url is required")

// Client wraps the remote storefront API with centralized credential
// forwarding, logging, and error mapping.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the upstream client from configuration.
func NewClient(cfg config.UpstreamConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Session is the credential cookie header replayed on authenticated calls.
// The zero value means anonymous.
type Session struct {
	Cookie string
}

func (c *Client) doJSON(ctx context.Context, method, path string, sess Session, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding upstream request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building upstream request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	_, err = c.do(req, sess, path, out)
	return err
}

// doJSONCapture behaves like doJSON and additionally returns the upstream's
// Set-Cookie headers flattened into a replayable Cookie value.
func (c *Client) doJSONCapture(ctx context.Context, method, path string, sess Session, body any, out any) (string, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding upstream request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building upstream request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, sess, path, out)
}

func (c *Client) do(req *http.Request, sess Session, operation string, out any) (string, error) {
	if sess.Cookie != "" {
		req.Header.Set("Cookie", sess.Cookie)
	}

	c.log(req.Context(), "request", operation, map[string]any{"method": req.Method})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log(req.Context(), "error", operation, map[string]any{"error": err.Error()})
		return "", pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "calling storefront api")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log(req.Context(), "error", operation, map[string]any{"status": resp.StatusCode})
		return "", mapStatus(resp)
	}

	c.log(req.Context(), "response", operation, map[string]any{"status": resp.StatusCode})

	cookie := joinedCookies(resp)
	if out == nil {
		return cookie, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return cookie, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decoding storefront response")
	}
	return cookie, nil
}

func mapStatus(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	detail := strings.TrimSpace(string(snippet))

	var code pkgerrors.Code
	switch resp.StatusCode {
	case http.StatusBadRequest:
		code = pkgerrors.CodeValidation
	case http.StatusUnauthorized:
		code = pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		code = pkgerrors.CodeForbidden
	case http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	case http.StatusConflict:
		code = pkgerrors.CodeConflict
	default:
		code = pkgerrors.CodeUpstream
	}

	err := pkgerrors.New(code, fmt.Sprintf("storefront api returned %d", resp.StatusCode))
	if detail != "" {
		err = err.WithDetails(map[string]any{"body": detail})
	}
	return err
}

// joinedCookies flattens Set-Cookie headers into one replayable Cookie value.
func joinedCookies(resp *http.Response) string {
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return ""
	}
	parts := make([]string, 0, len(cookies))
	for _, cookie := range cookies {
		parts = append(parts, cookie.Name+"="+cookie.Value)
	}
	return strings.Join(parts, "; ")
}

func (c *Client) log(ctx context.Context, phase, operation string, fields map[string]any) {
	if c.logger == nil {
		return
	}
	merged := map[string]any{"upstream_op": operation, "phase": phase}
	for k, v := range fields {
		merged[k] = v
	}
	c.logger.Info(c.logger.WithFields(ctx, merged), "upstream."+phase)
}
