package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/isdl/storefront-gateway/internal/state"
	"github.com/isdl/storefront-gateway/pkg/logger"
)

func TestLoginBindsIdentityToSession(t *testing.T) {
	client := newUpstreamClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "abc"})
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"_id": "u1", "name": "Asha", "email": "asha@example.com", "isAdmin": false},
		})
	}))

	registry := newRegistry()
	handler := Login(registry, client, nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"asha@example.com","password":"secret1"}`)), "sid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, bodyOf(t, resp))
	}

	sess := registry.GetOrCreate(context.Background(), "sid")
	if user := sess.User(); user.ID != "u1" || user.Name != "Asha" {
		t.Fatalf("identity not bound to session: %+v", user)
	}
	if sess.UpstreamCookie() != "token=abc" {
		t.Fatalf("upstream cookie not stored: %q", sess.UpstreamCookie())
	}
}

func TestLoginTagsLogEntriesWithUserID(t *testing.T) {
	client := newUpstreamClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "abc"})
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"_id": "u1", "name": "Asha", "email": "asha@example.com"},
		})
	}))

	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})

	handler := Login(newRegistry(), client, logg)
	req := withSession(httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"asha@example.com","password":"secret1"}`)), "sid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, bodyOf(t, resp))
	}
	if !strings.Contains(buf.String(), `"user_id":"u1"`) {
		t.Fatalf("expected sign-in log entry tagged with the user id; entries=%s", buf.String())
	}
}

func TestLoginValidatesBody(t *testing.T) {
	handler := Login(newRegistry(), nil, nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"not-an-email","password":"short"}`)), "sid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRegisterRequiresName(t *testing.T) {
	handler := Register(newRegistry(), nil, nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"name":"ab","email":"asha@example.com","password":"secret1"}`)), "sid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestMeReturnsLocalIdentityWithoutUpstreamCall(t *testing.T) {
	var calls int
	client := newUpstreamClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	registry := newRegistry()
	signIn(registry, "sid", state.UserSession{ID: "u1", Name: "Asha"})

	handler := Me(registry, client, nil)
	req := withSession(httptest.NewRequest(http.MethodGet, "/auth/me", nil), "sid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if calls != 0 {
		t.Fatalf("local identity should not hit the upstream, got %d calls", calls)
	}
}

func TestMeBootstrapsFromUpstreamCookie(t *testing.T) {
	client := newUpstreamClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Cookie"); got != "token=test" {
			t.Fatalf("expected replayed cookie, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user":    map[string]any{"_id": "u1", "name": "Asha", "email": "asha@example.com"},
		})
	}))

	registry := newRegistry()
	sess := registry.GetOrCreate(context.Background(), "sid")
	sess.SetUpstreamCookie("token=test")

	handler := Me(registry, client, nil)
	req := withSession(httptest.NewRequest(http.MethodGet, "/auth/me", nil), "sid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, bodyOf(t, resp))
	}
	if user := sess.User(); user.ID != "u1" {
		t.Fatalf("bootstrap did not bind identity: %+v", user)
	}
}

func TestSignOutClearsSessionEvenWhenUpstreamFails(t *testing.T) {
	client := newUpstreamClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	registry := newRegistry()
	signIn(registry, "sid", state.UserSession{ID: "u1", Name: "Asha"})

	handler := SignOut(registry, client, nil, nil)
	req := withSession(httptest.NewRequest(http.MethodPost, "/auth/signout", nil), "sid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if _, ok := registry.Lookup("sid"); ok {
		t.Fatal("session should be dropped after sign-out")
	}
}
