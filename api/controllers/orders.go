package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/isdl/storefront-gateway/api/responses"
	"github.com/isdl/storefront-gateway/api/validators"
	ordersvc "github.com/isdl/storefront-gateway/internal/orders"
	"github.com/isdl/storefront-gateway/internal/state"
	"github.com/isdl/storefront-gateway/pkg/enums"
	pkgerrors "github.com/isdl/storefront-gateway/pkg/errors"
	"github.com/isdl/storefront-gateway/pkg/logger"
)

// OrdersList serves the order history. An unfiltered request re-fetches from
// the upstream; filtered requests apply both filters in sequence over the
// session's cached fetch, going back to the upstream only when no fetch has
// seeded the cache yet.
func OrdersList(registry *state.Registry, orders *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, sess := currentSession(r, registry)

		user, err := requireUser(sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := enums.StatusFilterAll
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err = enums.ParseStatusFilter(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
		}

		window := enums.TimeFilterAll
		if raw := r.URL.Query().Get("time"); raw != "" {
			window, err = enums.ParseTimeFilter(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid time filter"))
				return
			}
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var views []ordersvc.View
		if status == enums.StatusFilterAll && window == enums.TimeFilterAll {
			views, err = orders.Refresh(r.Context(), upstreamSession(sess), sid, user)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else {
			cached := false
			views, cached = orders.Filtered(sid, status, window)
			if !cached {
				if _, err = orders.Refresh(r.Context(), upstreamSession(sess), sid, user); err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				views, _ = orders.Filtered(sid, status, window)
			}
		}

		if limit > 0 && len(views) > limit {
			views = views[:limit]
		}
		responses.WriteSuccess(w, views)
	}
}

// OrderCancel flips the order to cancelled; the upstream enforces ownership.
func OrderCancel(registry *state.Registry, orders *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, sess := currentSession(r, registry)

		if _, err := requireUser(sess); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID := chi.URLParam(r, "id")
		if err := orders.Cancel(r.Context(), upstreamSession(sess), sid, orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"id": orderID, "status": enums.OrderStatusCancelled.String()})
	}
}

// OrderConfirm flips the order to complete; operator action, admins only.
func OrderConfirm(registry *state.Registry, orders *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, sess := currentSession(r, registry)

		if _, err := requireAdmin(sess); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID := chi.URLParam(r, "id")
		if err := orders.Confirm(r.Context(), upstreamSession(sess), sid, orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"id": orderID, "status": enums.OrderStatusComplete.String()})
	}
}
