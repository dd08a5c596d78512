package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

type Clinics struct{ c *Client }

func (c *Client) Clinics() Clinics { return Clinics{c} }

func (k Clinics) List(ctx context.Context) ([]marketplace.Clinic, error) {
	var out []marketplace.Clinic
	err := k.c.do(ctx, call{resource: "clinics", method: http.MethodGet, path: "/clinics", fallback: "Failed to fetch clinics"}, &out)
	return out, err
}

func (k Clinics) Get(ctx context.Context, id string) (marketplace.Clinic, error) {
	var out marketplace.Clinic
	err := k.c.do(ctx, call{resource: "clinics", method: http.MethodGet, path: "/clinics/" + url.PathEscape(id), fallback: "Failed to fetch clinic"}, &out)
	return out, err
}

func (k Clinics) Create(ctx context.Context, clinic marketplace.Clinic) (marketplace.Clinic, error) {
	var out marketplace.Clinic
	err := k.c.do(ctx, call{resource: "clinics", method: http.MethodPost, path: "/clinics", role: Patient, body: clinic, fallback: "Failed to create clinic"}, &out)
	return out, err
}

func (k Clinics) Update(ctx context.Context, clinic marketplace.Clinic) (marketplace.Clinic, error) {
	var out marketplace.Clinic
	err := k.c.do(ctx, call{resource: "clinics", method: http.MethodPut, path: "/clinics/" + url.PathEscape(clinic.ID), role: Patient, body: clinic, fallback: "Failed to update clinic"}, &out)
	return out, err
}

func (k Clinics) Delete(ctx context.Context, id string) error {
	return k.c.do(ctx, call{resource: "clinics", method: http.MethodDelete, path: "/clinics/" + url.PathEscape(id), role: Patient, fallback: "Failed to delete clinic"}, nil)
}
