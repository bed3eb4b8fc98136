package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	catalogsvc "github.com/isdl/storefront-gateway/internal/catalog"
	"github.com/isdl/storefront-gateway/internal/state"
)

func itemForm(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if withImage {
		part, err := writer.CreateFormFile("image", "photo.jpg")
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		part.Write([]byte("fake-image"))
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestItemCreateRequiresAdmin(t *testing.T) {
	registry := newRegistry()
	signIn(registry, "sid", state.UserSession{ID: "u1"})

	svc := catalogsvc.NewService(newUpstreamClient(t, http.NotFoundHandler()), nil)
	handler := ItemCreate(registry, svc, nil)

	body, contentType := itemForm(t, map[string]string{"item_name": "Chips", "price": "2.5", "category": "snacks"}, false)
	req := withSession(httptest.NewRequest(http.MethodPost, "/admin/items", body), "sid")
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestItemCreateValidatesForm(t *testing.T) {
	registry := newRegistry()
	signIn(registry, "sid", state.UserSession{ID: "a1", IsAdmin: true})

	svc := catalogsvc.NewService(newUpstreamClient(t, http.NotFoundHandler()), nil)
	handler := ItemCreate(registry, svc, nil)

	cases := []struct {
		name   string
		fields map[string]string
	}{
		{"missing name", map[string]string{"price": "2.5", "category": "snacks"}},
		{"bad price", map[string]string{"item_name": "Chips", "price": "cheap", "category": "snacks"}},
		{"negative price", map[string]string{"item_name": "Chips", "price": "-1", "category": "snacks"}},
		{"unknown category", map[string]string{"item_name": "Chips", "price": "2.5", "category": "gadgets"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, contentType := itemForm(t, tc.fields, false)
			req := withSession(httptest.NewRequest(http.MethodPost, "/admin/items", body), "sid")
			req.Header.Set("Content-Type", contentType)
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d: %s", resp.Code, bodyOf(t, resp))
			}
		})
	}
}

func TestItemCreateForwardsFormAndImage(t *testing.T) {
	client := newUpstreamClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/addItem" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.FormValue("item_name"); got != "Chips" {
			t.Fatalf("unexpected item_name %q", got)
		}
		if _, header, err := r.FormFile("image"); err != nil || header.Filename != "photo.jpg" {
			t.Fatalf("image part not forwarded: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"item": map[string]any{
			"_id": "i3", "item_name": "Chips", "price": 2.5, "category": "snacks", "in_stock": true,
		}})
	}))

	registry := newRegistry()
	signIn(registry, "sid", state.UserSession{ID: "a1", IsAdmin: true})

	handler := ItemCreate(registry, catalogsvc.NewService(client, nil), nil)
	body, contentType := itemForm(t, map[string]string{"item_name": "Chips", "price": "2.5", "category": "snacks"}, true)
	req := withSession(httptest.NewRequest(http.MethodPost, "/admin/items", body), "sid")
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, bodyOf(t, resp))
	}
}

func TestItemStockFlipsFlag(t *testing.T) {
	var gotBody map[string]any
	client := newUpstreamClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/toggleStock/i1" || r.Method != http.MethodPut {
			t.Fatalf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	registry := newRegistry()
	signIn(registry, "sid", state.UserSession{ID: "a1", IsAdmin: true})

	handler := ItemStock(registry, catalogsvc.NewService(client, nil), nil)
	req := withURLParam(withSession(httptest.NewRequest(http.MethodPut, "/admin/items/i1/stock", strings.NewReader(`{"inStock":false}`)), "sid"), "id", "i1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, bodyOf(t, resp))
	}
	if got, ok := gotBody["negation"].(bool); !ok || got {
		t.Fatalf("expected negation=false, got %v", gotBody)
	}
}

func TestItemDeleteRemovesUpstream(t *testing.T) {
	var gotPath string
	client := newUpstreamClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))

	registry := newRegistry()
	signIn(registry, "sid", state.UserSession{ID: "a1", IsAdmin: true})

	handler := ItemDelete(registry, catalogsvc.NewService(client, nil), nil)
	req := withURLParam(withSession(httptest.NewRequest(http.MethodDelete, "/admin/items/i1", nil), "sid"), "id", "i1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotPath != "/admin/deleteItem/i1" {
		t.Fatalf("unexpected upstream path %q", gotPath)
	}
}
