// Package orders is the order history view service. It fetches role-scoped
// order lists from the upstream, caches them per gateway session, and serves
// filtered views over the cache without re-fetching.
package orders

import (
	"context"
	"sync"
	"time"

	"github.com/isdl/storefront-gateway/internal/state"
	"github.com/isdl/storefront-gateway/internal/upstream"
	"github.com/isdl/storefront-gateway/pkg/enums"
	pkgerrors "github.com/isdl/storefront-gateway/pkg/errors"
	"github.com/isdl/storefront-gateway/pkg/logger"
	"github.com/isdl/storefront-gateway/pkg/ordertoken"
)

// View is one order prepared for display: the raw record plus the derived
// status and the short display token.
type View struct {
	upstream.Order
	DisplayStatus enums.OrderStatus `json:"displayStatus"`
	Token         string            `json:"token,omitempty"`
}

// Service caches each session's last order fetch. A per-history generation
// counter makes sure only the latest fetch result lands in the cache.
type Service struct {
	client *upstream.Client
	logg   *logger.Logger
	now    func() time.Time

	mu        sync.Mutex
	histories map[string]*history
}

type history struct {
	orders []upstream.Order
	gen    uint64
}

// Option configures optional service behavior.
type Option func(*Service)

// WithClock overrides the time source, used by the time filters.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(client *upstream.Client, logg *logger.Logger, opts ...Option) *Service {
	service := &Service{
		client:    client,
		logg:      logg,
		now:       time.Now,
		histories: make(map[string]*history),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(service)
		}
	}
	return service
}

// Refresh fetches the caller's order list. Admins see every order, everyone
// else only their own. The result is reversed so the most recent order comes
// first, then cached for the session unless a newer fetch started meanwhile.
func (s *Service) Refresh(ctx context.Context, sess upstream.Session, sid string, user state.UserSession) ([]View, error) {
	if user.IsAnonymous() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view orders")
	}

	s.mu.Lock()
	hist := s.histories[sid]
	if hist == nil {
		hist = &history{}
		s.histories[sid] = hist
	}
	hist.gen++
	gen := hist.gen
	s.mu.Unlock()

	var (
		fetched []upstream.Order
		err     error
	)
	if user.IsAdmin {
		fetched, err = s.client.ListAllOrders(ctx, sess)
	} else {
		fetched, err = s.client.ListOrdersForUser(ctx, sess, user.ID)
	}
	if err != nil {
		return nil, err
	}

	reversed := make([]upstream.Order, len(fetched))
	for i, order := range fetched {
		reversed[len(fetched)-1-i] = order
	}

	s.mu.Lock()
	if gen == hist.gen {
		hist.orders = reversed
	} else if s.logg != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sid), "discarding superseded order fetch")
	}
	s.mu.Unlock()

	return s.present(reversed), nil
}

// Filtered serves a view over the session's cached fetch. Both filters apply
// in sequence; neither triggers a re-fetch. The second return is false when
// the session has no cached fetch yet, so the caller can tell "no fetch"
// apart from "no matches".
func (s *Service) Filtered(sid string, status enums.StatusFilter, window enums.TimeFilter) ([]View, bool) {
	now := s.now()

	s.mu.Lock()
	hist := s.histories[sid]
	if hist == nil {
		s.mu.Unlock()
		return nil, false
	}
	cached := make([]upstream.Order, len(hist.orders))
	copy(cached, hist.orders)
	s.mu.Unlock()

	kept := cached[:0]
	for _, order := range cached {
		if matchesStatus(order, status) && matchesWindow(order, window, now) {
			kept = append(kept, order)
		}
	}
	return s.present(kept), true
}

// Cancel flips the order to cancelled upstream, then patches the cached
// record in place.
func (s *Service) Cancel(ctx context.Context, sess upstream.Session, sid, orderID string) error {
	return s.setStatus(ctx, sess, sid, orderID, enums.OrderStatusCancelled)
}

// Confirm flips the order to complete upstream, then patches the cached
// record in place.
func (s *Service) Confirm(ctx context.Context, sess upstream.Session, sid, orderID string) error {
	return s.setStatus(ctx, sess, sid, orderID, enums.OrderStatusComplete)
}

func (s *Service) setStatus(ctx context.Context, sess upstream.Session, sid, orderID string, status enums.OrderStatus) error {
	if err := s.client.SetOrderStatus(ctx, sess, orderID, status); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	hist := s.histories[sid]
	if hist == nil {
		return nil
	}
	for i := range hist.orders {
		if hist.orders[i].ID == orderID {
			hist.orders[i].Status = status.String()
			break
		}
	}
	return nil
}

// Checkout places an order built from the cart snapshot, stamping the order
// date with the current time.
func (s *Service) Checkout(ctx context.Context, sess upstream.Session, user state.UserSession, snap state.CartSnapshot) error {
	if user.IsAnonymous() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to check out")
	}
	if len(snap.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	products := make([]upstream.OrderProduct, 0, len(snap.Items))
	for _, line := range snap.Items {
		products = append(products, upstream.OrderProduct{
			ID:           line.ID,
			ItemName:     line.Name,
			ItemQuantity: line.Quantity,
			Price:        line.Price,
		})
	}

	input := upstream.PlaceOrderInput{
		UserID:    user.ID,
		UserName:  user.Name,
		Products:  products,
		Quantity:  snap.TotalCount,
		Total:     snap.TotalPrice,
		OrderDate: s.now().UTC().Format(time.RFC3339),
	}
	return s.client.PlaceOrder(ctx, sess, input)
}

// Drop evicts the session's cached history, used on sign-out.
func (s *Service) Drop(sid string) {
	s.mu.Lock()
	delete(s.histories, sid)
	s.mu.Unlock()
}

func (s *Service) present(orders []upstream.Order) []View {
	views := make([]View, 0, len(orders))
	for _, order := range orders {
		view := View{Order: order, DisplayStatus: DisplayStatus(order)}
		if token, err := ordertoken.Encode(order.ID); err == nil {
			view.Token = token
		}
		views = append(views, view)
	}
	return views
}

// DisplayStatus derives the status shown for an order: the explicit override
// wins, otherwise verified orders read complete and the rest pending.
func DisplayStatus(order upstream.Order) enums.OrderStatus {
	if order.Status != "" {
		return enums.OrderStatus(order.Status)
	}
	if order.Verified {
		return enums.OrderStatusComplete
	}
	return enums.OrderStatusPending
}
