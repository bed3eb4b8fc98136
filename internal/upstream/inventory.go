package upstream

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	pkgerrors "github.com/isdl/storefront-gateway/pkg/errors"
)

type inventoryEnvelope struct {
	Items []InventoryItem `json:"items"`
}

// ListInventory fetches the catalog, optionally narrowed to one category. An
// empty category hits the unfiltered endpoint.
func (c *Client) ListInventory(ctx context.Context, sess Session, category string) ([]InventoryItem, error) {
	path := "/admin/inventory/"
	if category != "" {
		path += url.PathEscape(category)
	}
	var envelope inventoryEnvelope
	if err := c.doJSON(ctx, http.MethodGet, path, sess, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Items, nil
}

// AddItem creates an inventory item, forwarding the optional image part.
func (c *Client) AddItem(ctx context.Context, sess Session, input ItemInput) (*InventoryItem, error) {
	return c.sendItemForm(ctx, sess, http.MethodPost, "/admin/addItem", input)
}

// UpdateItem patches an inventory item, forwarding the optional image part.
func (c *Client) UpdateItem(ctx context.Context, sess Session, id string, input ItemInput) (*InventoryItem, error) {
	return c.sendItemForm(ctx, sess, http.MethodPatch, "/admin/updateItem/"+url.PathEscape(id), input)
}

// DeleteItem removes an inventory item.
func (c *Client) DeleteItem(ctx context.Context, sess Session, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/admin/deleteItem/"+url.PathEscape(id), sess, nil, nil)
}

// ToggleStock flips the item's stock flag to the provided value.
func (c *Client) ToggleStock(ctx context.Context, sess Session, id string, inStock bool) error {
	body := map[string]any{"negation": inStock}
	return c.doJSON(ctx, http.MethodPut, "/admin/toggleStock/"+url.PathEscape(id), sess, body, nil)
}

func (c *Client) sendItemForm(ctx context.Context, sess Session, method, path string, input ItemInput) (*InventoryItem, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"item_name":        input.ItemName,
		"price":            input.Price.String(),
		"item_description": input.Description,
		"category":         input.Category,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building item form")
		}
	}

	if input.Image != nil {
		part, err := writer.CreateFormFile("image", input.Image.Filename)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building image part")
		}
		if _, err := io.Copy(part, bytes.NewReader(input.Image.Data)); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing image part")
		}
	}

	if err := writer.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "closing item form")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building upstream request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var envelope struct {
		Item *InventoryItem `json:"item"`
	}
	if _, err := c.do(req, sess, path, &envelope); err != nil {
		return nil, err
	}
	return envelope.Item, nil
}
