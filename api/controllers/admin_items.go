package controllers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/isdl/storefront-gateway/api/responses"
	"github.com/isdl/storefront-gateway/api/validators"
	catalogsvc "github.com/isdl/storefront-gateway/internal/catalog"
	"github.com/isdl/storefront-gateway/internal/state"
	"github.com/isdl/storefront-gateway/internal/upstream"
	"github.com/isdl/storefront-gateway/pkg/enums"
	pkgerrors "github.com/isdl/storefront-gateway/pkg/errors"
	"github.com/isdl/storefront-gateway/pkg/logger"
)

const maxItemFormSize = 10 << 20

// ItemCreate creates an inventory item from a multipart form, forwarding the
// optional image part untouched.
func ItemCreate(registry *state.Registry, svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sess := currentSession(r, registry)

		if _, err := requireAdmin(sess); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := parseItemForm(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.AddItem(r.Context(), upstreamSession(sess), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// ItemUpdate patches an inventory item from a multipart form.
func ItemUpdate(registry *state.Registry, svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sess := currentSession(r, registry)

		if _, err := requireAdmin(sess); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := parseItemForm(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), upstreamSession(sess), chi.URLParam(r, "id"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// ItemDelete removes an inventory item.
func ItemDelete(registry *state.Registry, svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sess := currentSession(r, registry)

		if _, err := requireAdmin(sess); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := chi.URLParam(r, "id")
		if err := svc.DeleteItem(r.Context(), upstreamSession(sess), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"id": id})
	}
}

type stockRequest struct {
	InStock *bool `json:"inStock" validate:"required"`
}

// ItemStock sets the item's stock flag.
func ItemStock(registry *state.Registry, svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sess := currentSession(r, registry)

		if _, err := requireAdmin(sess); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload stockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := chi.URLParam(r, "id")
		if err := svc.ToggleStock(r.Context(), upstreamSession(sess), id, *payload.InStock); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": id, "inStock": *payload.InStock})
	}
}

func parseItemForm(r *http.Request) (upstream.ItemInput, error) {
	if err := r.ParseMultipartForm(maxItemFormSize); err != nil {
		return upstream.ItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	name := validators.SanitizeString(r.FormValue("item_name"), 200)
	if name == "" {
		return upstream.ItemInput{}, pkgerrors.New(pkgerrors.CodeValidation, "item_name is required")
	}

	price, err := decimal.NewFromString(validators.SanitizeString(r.FormValue("price"), 32))
	if err != nil {
		return upstream.ItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price must be a number")
	}
	if price.IsNegative() {
		return upstream.ItemInput{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	category, err := enums.ParseCategory(r.FormValue("category"))
	if err != nil {
		return upstream.ItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}

	input := upstream.ItemInput{
		ItemName:    name,
		Price:       price,
		Description: validators.SanitizeString(r.FormValue("item_description"), 2000),
		Category:    category.String(),
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(io.LimitReader(file, maxItemFormSize))
		if readErr != nil {
			return upstream.ItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, readErr, "reading image upload")
		}
		input.Image = &upstream.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	} else if err != http.ErrMissingFile {
		return upstream.ItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading image upload")
	}

	return input, nil
}
