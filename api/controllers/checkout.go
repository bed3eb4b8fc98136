package controllers

import (
	"net/http"

	"github.com/isdl/storefront-gateway/api/responses"
	ordersvc "github.com/isdl/storefront-gateway/internal/orders"
	"github.com/isdl/storefront-gateway/internal/state"
	"github.com/isdl/storefront-gateway/pkg/logger"
)

// Checkout places an order from the current cart and empties the cart once
// the upstream accepts it.
func Checkout(registry *state.Registry, orders *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, sess := currentSession(r, registry)

		user, err := requireUser(sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := orders.Checkout(r.Context(), upstreamSession(sess), user, sess.Cart()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap := sess.EmptyCart()
		registry.PersistCart(r.Context(), sid, snap)

		responses.WriteSuccessStatus(w, http.StatusCreated, snap)
	}
}
