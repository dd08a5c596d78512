package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

type Doctors struct{ c *Client }

func (c *Client) Doctors() Doctors { return Doctors{c} }

// Register sends the doctor's details and optional photo as multipart form data.
func (d Doctors) Register(ctx context.Context, reg marketplace.DoctorRegistration) (marketplace.DoctorSession, error) {
	form := newForm().
		field("name", reg.Name).
		field("email", reg.Email).
		field("password", reg.Password).
		field("specialization", reg.Specialization).
		field("clinic", reg.ClinicID).
		file(named(reg.Photo, "image"))
	if reg.Experience > 0 {
		form.field("experience", strconv.Itoa(reg.Experience))
	}
	if reg.Fees > 0 {
		form.field("fees", strconv.FormatFloat(reg.Fees, 'f', 2, 64))
	}

	var out marketplace.DoctorSession
	err := d.c.do(ctx, call{resource: "doctors", method: http.MethodPost, path: "/doctors/register", form: form, fallback: "Doctor registration failed"}, &out)
	return out, err
}

func (d Doctors) Login(ctx context.Context, creds marketplace.Credentials) (marketplace.DoctorSession, error) {
	var out marketplace.DoctorSession
	err := d.c.do(ctx, call{resource: "doctors", method: http.MethodPost, path: "/doctors/login", body: creds, fallback: "Login failed"}, &out)
	return out, err
}

func (d Doctors) List(ctx context.Context) ([]marketplace.Doctor, error) {
	var out []marketplace.Doctor
	err := d.c.do(ctx, call{resource: "doctors", method: http.MethodGet, path: "/doctors", fallback: "Failed to fetch doctors"}, &out)
	return out, err
}

func (d Doctors) Get(ctx context.Context, id string) (marketplace.Doctor, error) {
	var out marketplace.Doctor
	err := d.c.do(ctx, call{resource: "doctors", method: http.MethodGet, path: "/doctors/" + url.PathEscape(id), fallback: "Failed to fetch doctor"}, &out)
	return out, err
}

func (d Doctors) UpdateProfile(ctx context.Context, doc marketplace.Doctor) (marketplace.Doctor, error) {
	var out marketplace.Doctor
	err := d.c.do(ctx, call{resource: "doctors", method: http.MethodPut, path: "/doctors/profile", role: Doctor, body: doc, fallback: "Failed to update profile"}, &out)
	return out, err
}

func (d Doctors) Delete(ctx context.Context, id string) error {
	return d.c.do(ctx, call{resource: "doctors", method: http.MethodDelete, path: "/doctors/" + url.PathEscape(id), role: Patient, fallback: "Failed to delete doctor"}, nil)
}
