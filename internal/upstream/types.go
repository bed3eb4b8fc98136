package upstream

import "github.com/shopspring/decimal"

// User is the identity object returned by the auth endpoints.
type User struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// InventoryItem mirrors a catalog record owned by the remote storefront.
type InventoryItem struct {
	ID          string          `json:"_id"`
	ItemName    string          `json:"item_name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"item_description,omitempty"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	InStock     bool            `json:"in_stock"`
}

// OrderProduct is one purchased line inside an order.
type OrderProduct struct {
	ID           string          `json:"_id"`
	ItemName     string          `json:"item_name"`
	ItemQuantity int             `json:"itemQuantity"`
	Price        decimal.Decimal `json:"price"`
}

// Order is the remote order record. Status is an optional override; when
// blank the display status is derived from IsVerified.
type Order struct {
	ID        string          `json:"_id"`
	OrderDate string          `json:"order_date"`
	Products  []OrderProduct  `json:"products"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
	UserID    string          `json:"user_id"`
	UserName  string          `json:"user_name,omitempty"`
	Verified  bool            `json:"isVerified"`
	Status    string          `json:"status,omitempty"`
}

// PlaceOrderInput is the checkout payload posted to /order.
type PlaceOrderInput struct {
	UserID    string          `json:"user_id"`
	UserName  string          `json:"user_name"`
	Products  []OrderProduct  `json:"products"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
	OrderDate string          `json:"order_date"`
}

// Credentials carry the user's login payload through to the upstream.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ItemInput is the create/update payload for an inventory item. Image is an
// optional file part forwarded as-is.
type ItemInput struct {
	ItemName    string
	Price       decimal.Decimal
	Description string
	Category    string
	Image       *ImageUpload
}

// ImageUpload is an opaque file part; validation of the content is the
// upstream's concern.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
