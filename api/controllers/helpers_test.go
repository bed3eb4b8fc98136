package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/isdl/storefront-gateway/api/middleware"
	"github.com/isdl/storefront-gateway/internal/state"
	"github.com/isdl/storefront-gateway/internal/upstream"
	"github.com/isdl/storefront-gateway/pkg/config"
)

func newRegistry() *state.Registry {
	return state.NewRegistry(state.NoopSnapshotStore{}, nil)
}

func withSession(req *http.Request, sid string) *http.Request {
	return req.WithContext(middleware.WithSessionID(req.Context(), sid))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func newUpstreamClient(t *testing.T, handler http.Handler) *upstream.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := upstream.NewClient(config.UpstreamConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, nil)
	if err != nil {
		t.Fatalf("new upstream client: %v", err)
	}
	return client
}

func signIn(registry *state.Registry, sid string, user state.UserSession) {
	sess := registry.GetOrCreate(context.Background(), sid)
	sess.SetUser(user)
	sess.SetUpstreamCookie("token=test")
}

func bodyOf(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}
