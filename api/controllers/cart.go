package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/isdl/storefront-gateway/api/responses"
	"github.com/isdl/storefront-gateway/api/validators"
	"github.com/isdl/storefront-gateway/internal/state"
	"github.com/isdl/storefront-gateway/pkg/logger"
)

// CartGet returns the session's cart snapshot.
func CartGet(registry *state.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sess := currentSession(r, registry)
		responses.WriteSuccess(w, sess.Cart())
	}
}

type addCartItemRequest struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name"`
	Price    float64 `json:"price" validate:"min=0"`
	Quantity int     `json:"quantity" validate:"min=0"`
	ImageURL string  `json:"imageUrl"`
	Category string  `json:"category"`
}

// CartAdd merges a line into the cart. A missing quantity defaults to one add.
func CartAdd(registry *state.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quantity := payload.Quantity
		if quantity == 0 {
			quantity = 1
		}

		sid, sess := currentSession(r, registry)
		snap := sess.AddItem(state.LineItem{
			ID:       payload.ID,
			Name:     validators.SanitizeString(payload.Name, 200),
			Price:    decimal.NewFromFloat(payload.Price),
			Quantity: quantity,
			ImageURL: payload.ImageURL,
			Category: payload.Category,
		})
		registry.PersistCart(r.Context(), sid, snap)

		responses.WriteSuccess(w, snap)
	}
}

// CartDecrement steps a line's quantity down by one. An absent id is a benign
// no-op on the line itself.
func CartDecrement(registry *state.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, sess := currentSession(r, registry)
		snap := sess.DecrementQuantity(chi.URLParam(r, "id"))
		registry.PersistCart(r.Context(), sid, snap)
		responses.WriteSuccess(w, snap)
	}
}

// CartRemove drops a line entirely regardless of its quantity.
func CartRemove(registry *state.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, sess := currentSession(r, registry)
		snap := sess.RemoveItem(chi.URLParam(r, "id"))
		registry.PersistCart(r.Context(), sid, snap)
		responses.WriteSuccess(w, snap)
	}
}

// CartEmpty resets the cart to its initial state.
func CartEmpty(registry *state.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, sess := currentSession(r, registry)
		snap := sess.EmptyCart()
		registry.PersistCart(r.Context(), sid, snap)
		responses.WriteSuccess(w, snap)
	}
}
