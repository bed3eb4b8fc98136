// Package catalog is the inventory view service. It owns a local mirror of
// the remote catalog that admin mutations patch optimistically after the
// upstream call succeeds.
package catalog

import (
	"context"
	"sync"

	"github.com/isdl/storefront-gateway/internal/upstream"
	"github.com/isdl/storefront-gateway/pkg/enums"
	"github.com/isdl/storefront-gateway/pkg/logger"
)

// Service fetches and mirrors the remote inventory. A generation counter
// guards the mirror so a slow fetch can never overwrite a newer one.
type Service struct {
	client *upstream.Client
	logg   *logger.Logger

	mu    sync.Mutex
	items []upstream.InventoryItem
	gen   uint64
}

func NewService(client *upstream.Client, logg *logger.Logger) *Service {
	return &Service{client: client, logg: logg}
}

// Refresh fetches the inventory for the given category preference. The "all"
// sentinel (and blank) selects the unfiltered endpoint. The fetched list is
// returned to the caller unconditionally; the shared mirror is only updated
// when no newer fetch has started in the meantime.
func (s *Service) Refresh(ctx context.Context, sess upstream.Session, preference string) ([]upstream.InventoryItem, error) {
	category := preference
	if category == "" || category == enums.CategoryAll {
		category = ""
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	items, err := s.client.ListInventory(ctx, sess, category)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if gen == s.gen {
		s.items = cloneItems(items)
	} else if s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "category", preference), "discarding superseded inventory fetch")
	}
	s.mu.Unlock()

	return items, nil
}

// Items returns a copy of the current mirror.
func (s *Service) Items() []upstream.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// AddItem creates the item upstream and appends it to the mirror on success.
func (s *Service) AddItem(ctx context.Context, sess upstream.Session, input upstream.ItemInput) (*upstream.InventoryItem, error) {
	item, err := s.client.AddItem(ctx, sess, input)
	if err != nil {
		return nil, err
	}
	if item != nil {
		s.mu.Lock()
		s.items = append(s.items, *item)
		s.mu.Unlock()
	}
	return item, nil
}

// UpdateItem patches the item upstream and mirrors the change on success.
// When the upstream response omits the updated record, the input fields are
// applied to the mirrored line instead.
func (s *Service) UpdateItem(ctx context.Context, sess upstream.Session, id string, input upstream.ItemInput) (*upstream.InventoryItem, error) {
	item, err := s.client.UpdateItem(ctx, sess, id, input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if item != nil {
			s.items[i] = *item
		} else {
			s.items[i].ItemName = input.ItemName
			s.items[i].Price = input.Price
			s.items[i].Description = input.Description
			s.items[i].Category = input.Category
		}
		break
	}
	return item, nil
}

// DeleteItem removes the item upstream and from the mirror on success.
func (s *Service) DeleteItem(ctx context.Context, sess upstream.Session, id string) error {
	if err := s.client.DeleteItem(ctx, sess, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return nil
}

// ToggleStock sets the item's stock flag upstream and mirrors it on success.
func (s *Service) ToggleStock(ctx context.Context, sess upstream.Session, id string, inStock bool) error {
	if err := s.client.ToggleStock(ctx, sess, id, inStock); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].InStock = inStock
			break
		}
	}
	return nil
}

func cloneItems(items []upstream.InventoryItem) []upstream.InventoryItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]upstream.InventoryItem, len(items))
	copy(out, items)
	return out
}
