package controllers

import (
	"net/http"

	"github.com/isdl/storefront-gateway/api/responses"
	"github.com/isdl/storefront-gateway/api/validators"
	catalogsvc "github.com/isdl/storefront-gateway/internal/catalog"
	"github.com/isdl/storefront-gateway/internal/state"
	"github.com/isdl/storefront-gateway/pkg/logger"
)

// CatalogList fetches the inventory selected by the session's category
// preference.
func CatalogList(registry *state.Registry, svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sess := currentSession(r, registry)

		items, err := svc.Refresh(r.Context(), upstreamSession(sess), sess.ProductType())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"preference": sess.ProductType(),
			"items":      items,
		})
	}
}

type preferenceRequest struct {
	ShowProductTypes string `json:"showProductTypes" validate:"required"`
}

// SetPreference replaces the active category filter wholesale. The value is
// accepted without validation against the category set; unknown categories
// simply select an endpoint the upstream answers with an empty list.
func SetPreference(registry *state.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload preferenceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		_, sess := currentSession(r, registry)
		sess.SetProductType(payload.ShowProductTypes)

		responses.WriteSuccess(w, map[string]string{"showProductTypes": sess.ProductType()})
	}
}
