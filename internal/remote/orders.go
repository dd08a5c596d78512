package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

type Orders struct{ c *Client }

func (c *Client) Orders() Orders { return Orders{c} }

func (o Orders) Create(ctx context.Context, req marketplace.CreateOrderRequest) (marketplace.Order, error) {
	var out marketplace.Order
	err := o.c.do(ctx, call{resource: "orders", method: http.MethodPost, path: "/orders", role: Patient, body: req, fallback: "Failed to place order"}, &out)
	return out, err
}

func (o Orders) Mine(ctx context.Context) ([]marketplace.Order, error) {
	var out []marketplace.Order
	err := o.c.do(ctx, call{resource: "orders", method: http.MethodGet, path: "/orders/my", role: Patient, fallback: "Failed to fetch orders"}, &out)
	return out, err
}

func (o Orders) All(ctx context.Context) ([]marketplace.Order, error) {
	var out []marketplace.Order
	err := o.c.do(ctx, call{resource: "orders", method: http.MethodGet, path: "/orders", role: Patient, fallback: "Failed to fetch orders"}, &out)
	return out, err
}

func (o Orders) UpdateStatus(ctx context.Context, id, status string) (marketplace.Order, error) {
	var out marketplace.Order
	err := o.c.do(ctx, call{resource: "orders", method: http.MethodPut, path: "/orders/" + url.PathEscape(id) + "/status", role: Patient, body: map[string]string{"status": status}, fallback: "Failed to update order"}, &out)
	return out, err
}
