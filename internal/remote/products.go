package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

type Products struct{ c *Client }

func (c *Client) Products() Products { return Products{c} }

func (p Products) List(ctx context.Context) ([]marketplace.Product, error) {
	var out []marketplace.Product
	err := p.c.do(ctx, call{resource: "products", method: http.MethodGet, path: "/products", fallback: "Failed to fetch products"}, &out)
	return out, err
}

func (p Products) Get(ctx context.Context, id string) (marketplace.Product, error) {
	var out marketplace.Product
	err := p.c.do(ctx, call{resource: "products", method: http.MethodGet, path: "/products/" + url.PathEscape(id), fallback: "Failed to fetch product"}, &out)
	return out, err
}

func (p Products) Create(ctx context.Context, product marketplace.Product) (marketplace.Product, error) {
	var out marketplace.Product
	err := p.c.do(ctx, call{resource: "products", method: http.MethodPost, path: "/products", role: Patient, body: product, fallback: "Failed to create product"}, &out)
	return out, err
}

func (p Products) Update(ctx context.Context, product marketplace.Product) (marketplace.Product, error) {
	var out marketplace.Product
	err := p.c.do(ctx, call{resource: "products", method: http.MethodPut, path: "/products/" + url.PathEscape(product.ID), role: Patient, body: product, fallback: "Failed to update product"}, &out)
	return out, err
}

func (p Products) Delete(ctx context.Context, id string) error {
	return p.c.do(ctx, call{resource: "products", method: http.MethodDelete, path: "/products/" + url.PathEscape(id), role: Patient, fallback: "Failed to delete product"}, nil)
}
