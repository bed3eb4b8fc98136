package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/isdl/storefront-gateway/internal/upstream"
	"github.com/isdl/storefront-gateway/pkg/config"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := upstream.NewClient(config.UpstreamConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return NewService(client, nil)
}

func writeItems(w http.ResponseWriter, items ...map[string]any) {
	json.NewEncoder(w).Encode(map[string]any{"items": items})
}

func TestRefreshUsesPreferenceEndpoint(t *testing.T) {
	var paths []string
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeItems(w, map[string]any{"_id": "i1", "item_name": "Apple", "price": 1.2, "category": "fruits", "in_stock": true})
	}))

	items, err := service.Refresh(context.Background(), upstream.Session{}, "all")
	if err != nil {
		t.Fatalf("refresh all: %v", err)
	}
	if len(items) != 1 || items[0].ID != "i1" {
		t.Fatalf("unexpected items %+v", items)
	}

	if _, err := service.Refresh(context.Background(), upstream.Session{}, "fruits"); err != nil {
		t.Fatalf("refresh fruits: %v", err)
	}

	if paths[0] != "/admin/inventory/" || paths[1] != "/admin/inventory/fruits" {
		t.Fatalf("unexpected paths %v", paths)
	}
	if got := service.Items(); len(got) != 1 {
		t.Fatalf("mirror not updated: %+v", got)
	}
}

func TestStaleFetchDoesNotOverwriteMirror(t *testing.T) {
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})
	var requests int

	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			close(firstArrived)
			<-releaseFirst
			writeItems(w, map[string]any{"_id": "stale", "item_name": "Old", "price": 1, "category": "snacks", "in_stock": true})
			return
		}
		writeItems(w, map[string]any{"_id": "fresh", "item_name": "New", "price": 2, "category": "snacks", "in_stock": true})
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		service.Refresh(context.Background(), upstream.Session{}, "all")
	}()

	<-firstArrived
	if _, err := service.Refresh(context.Background(), upstream.Session{}, "all"); err != nil {
		t.Fatalf("fresh refresh: %v", err)
	}
	close(releaseFirst)
	<-done

	items := service.Items()
	if len(items) != 1 || items[0].ID != "fresh" {
		t.Fatalf("stale fetch overwrote mirror: %+v", items)
	}
}

func TestAdminMutationsPatchMirror(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/admin/inventory/":
			writeItems(w,
				map[string]any{"_id": "i1", "item_name": "Apple", "price": 1.2, "category": "fruits", "in_stock": true},
				map[string]any{"_id": "i2", "item_name": "Soap", "price": 3, "category": "personal", "in_stock": true},
			)
		case r.URL.Path == "/admin/addItem":
			json.NewEncoder(w).Encode(map[string]any{"item": map[string]any{
				"_id": "i3", "item_name": "Chips", "price": 2.5, "category": "snacks", "in_stock": true,
			}})
		default:
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("{}"))
		}
	}))

	ctx := context.Background()
	if _, err := service.Refresh(ctx, upstream.Session{}, "all"); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	added, err := service.AddItem(ctx, upstream.Session{}, upstream.ItemInput{ItemName: "Chips", Price: decimal.NewFromFloat(2.5), Category: "snacks"})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if added == nil || added.ID != "i3" {
		t.Fatalf("unexpected added item %+v", added)
	}
	if got := service.Items(); len(got) != 3 {
		t.Fatalf("expected 3 mirrored items, got %d", len(got))
	}

	if _, err := service.UpdateItem(ctx, upstream.Session{}, "i1", upstream.ItemInput{ItemName: "Green Apple", Price: decimal.NewFromFloat(1.5), Category: "fruits"}); err != nil {
		t.Fatalf("update item: %v", err)
	}
	items := service.Items()
	if items[0].ItemName != "Green Apple" || !items[0].Price.Equal(decimal.NewFromFloat(1.5)) {
		t.Fatalf("update not mirrored: %+v", items[0])
	}

	if err := service.ToggleStock(ctx, upstream.Session{}, "i2", false); err != nil {
		t.Fatalf("toggle stock: %v", err)
	}
	if items := service.Items(); items[1].InStock {
		t.Fatalf("stock flag not mirrored: %+v", items[1])
	}

	if err := service.DeleteItem(ctx, upstream.Session{}, "i1"); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	items = service.Items()
	if len(items) != 2 || items[0].ID != "i2" {
		t.Fatalf("delete not mirrored: %+v", items)
	}
}
