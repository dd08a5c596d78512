package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

// Carts always answers with the whole cart after a change.
type Carts struct{ c *Client }

func (c *Client) Carts() Carts { return Carts{c} }

func (k Carts) Get(ctx context.Context) (marketplace.Cart, error) {
	var out marketplace.Cart
	err := k.c.do(ctx, call{resource: "carts", method: http.MethodGet, path: "/carts", role: Patient, fallback: "Failed to fetch cart"}, &out)
	return out, err
}

func (k Carts) Add(ctx context.Context, productID string, quantity int) (marketplace.Cart, error) {
	body := map[string]any{"product": productID, "quantity": quantity}
	var out marketplace.Cart
	err := k.c.do(ctx, call{resource: "carts", method: http.MethodPost, path: "/carts", role: Patient, body: body, fallback: "Failed to add to cart"}, &out)
	return out, err
}

func (k Carts) UpdateQuantity(ctx context.Context, productID string, quantity int) (marketplace.Cart, error) {
	body := map[string]int{"quantity": quantity}
	var out marketplace.Cart
	err := k.c.do(ctx, call{resource: "carts", method: http.MethodPut, path: "/carts/" + url.PathEscape(productID), role: Patient, body: body, fallback: "Failed to update cart"}, &out)
	return out, err
}

func (k Carts) Remove(ctx context.Context, productID string) (marketplace.Cart, error) {
	var out marketplace.Cart
	err := k.c.do(ctx, call{resource: "carts", method: http.MethodDelete, path: "/carts/" + url.PathEscape(productID), role: Patient, fallback: "Failed to remove from cart"}, &out)
	return out, err
}

func (k Carts) Clear(ctx context.Context) (marketplace.Cart, error) {
	var out marketplace.Cart
	err := k.c.do(ctx, call{resource: "carts", method: http.MethodDelete, path: "/carts", role: Patient, fallback: "Failed to clear cart"}, &out)
	return out, err
}
