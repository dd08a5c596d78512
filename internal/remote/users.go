package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

// Users covers patient accounts and the admin user list.
type Users struct{ c *Client }

func (c *Client) Users() Users { return Users{c} }

func (u Users) Register(ctx context.Context, reg marketplace.UserRegistration) (marketplace.UserSession, error) {
	var out marketplace.UserSession
	err := u.c.do(ctx, call{resource: "users", method: http.MethodPost, path: "/users/register", body: reg, fallback: "Registration failed"}, &out)
	return out, err
}

func (u Users) Login(ctx context.Context, creds marketplace.Credentials) (marketplace.UserSession, error) {
	var out marketplace.UserSession
	err := u.c.do(ctx, call{resource: "users", method: http.MethodPost, path: "/users/login", body: creds, fallback: "Login failed"}, &out)
	return out, err
}

func (u Users) Profile(ctx context.Context) (marketplace.User, error) {
	var out marketplace.User
	err := u.c.do(ctx, call{resource: "users", method: http.MethodGet, path: "/users/profile", role: Patient, fallback: "Failed to fetch profile"}, &out)
	return out, err
}

func (u Users) UpdateProfile(ctx context.Context, user marketplace.User) (marketplace.User, error) {
	var out marketplace.User
	err := u.c.do(ctx, call{resource: "users", method: http.MethodPut, path: "/users/profile", role: Patient, body: user, fallback: "Failed to update profile"}, &out)
	return out, err
}

func (u Users) List(ctx context.Context) ([]marketplace.User, error) {
	var out []marketplace.User
	err := u.c.do(ctx, call{resource: "users", method: http.MethodGet, path: "/users", role: Patient, fallback: "Failed to fetch users"}, &out)
	return out, err
}

func (u Users) Delete(ctx context.Context, id string) error {
	return u.c.do(ctx, call{resource: "users", method: http.MethodDelete, path: "/users/" + url.PathEscape(id), role: Patient, fallback: "Failed to delete user"}, nil)
}
