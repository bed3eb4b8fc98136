package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/isdl/storefront-gateway/pkg/enums"
	pkgerrors "github.com/isdl/storefront-gateway/pkg/errors"
)

type ordersEnvelope struct {
	Orders []Order `json:"orders"`
}

// ListOrdersForUser fetches the caller's own orders.
func (c *Client) ListOrdersForUser(ctx context.Context, sess Session, userID string) ([]Order, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	var envelope ordersEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/order/"+url.PathEscape(userID), sess, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Orders, nil
}

// ListAllOrders fetches every order; the upstream enforces the admin role.
func (c *Client) ListAllOrders(ctx context.Context, sess Session) ([]Order, error) {
	var envelope ordersEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/order/all", sess, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Orders, nil
}

// PlaceOrder posts a checkout payload built from the current cart.
func (c *Client) PlaceOrder(ctx context.Context, sess Session, input PlaceOrderInput) error {
	if len(input.Products) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one product")
	}
	return c.doJSON(ctx, http.MethodPost, "/order", sess, input, nil)
}

// SetOrderStatus flips an order to cancelled or complete.
func (c *Client) SetOrderStatus(ctx context.Context, sess Session, orderID string, status enums.OrderStatus) error {
	if orderID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if status != enums.OrderStatusCancelled && status != enums.OrderStatusComplete {
		return pkgerrors.New(pkgerrors.CodeValidation, "status must be cancelled or complete")
	}
	path := "/order/order/" + url.PathEscape(orderID) + "/" + status.String()
	return c.doJSON(ctx, http.MethodPost, path, sess, nil, nil)
}
