package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

type Appointments struct{ c *Client }

func (c *Client) Appointments() Appointments { return Appointments{c} }

func (a Appointments) ListForPatient(ctx context.Context) ([]marketplace.Appointment, error) {
	var out []marketplace.Appointment
	err := a.c.do(ctx, call{resource: "appointments", method: http.MethodGet, path: "/appointments/patient", role: Patient, fallback: "Failed to fetch appointments"}, &out)
	return out, err
}

func (a Appointments) ListForDoctor(ctx context.Context) ([]marketplace.Appointment, error) {
	var out []marketplace.Appointment
	err := a.c.do(ctx, call{resource: "appointments", method: http.MethodGet, path: "/appointments/doctor", role: Doctor, fallback: "Failed to fetch appointments"}, &out)
	return out, err
}

func (a Appointments) CheckAvailability(ctx context.Context, req marketplace.AvailabilityRequest) (marketplace.Availability, error) {
	var out marketplace.Availability
	err := a.c.do(ctx, call{resource: "appointments", method: http.MethodPost, path: "/appointments/check-availability", role: Patient, body: req, fallback: "Failed to check availability"}, &out)
	return out, err
}

func (a Appointments) Book(ctx context.Context, req marketplace.BookAppointmentRequest) (marketplace.Appointment, error) {
	var out marketplace.Appointment
	err := a.c.do(ctx, call{resource: "appointments", method: http.MethodPost, path: "/appointments", role: Patient, body: req, fallback: "Failed to book appointment"}, &out)
	return out, err
}

func (a Appointments) UpdateStatus(ctx context.Context, id string, status marketplace.AppointmentStatus) (marketplace.Appointment, error) {
	var out marketplace.Appointment
	body := map[string]marketplace.AppointmentStatus{"status": status}
	err := a.c.do(ctx, call{resource: "appointments", method: http.MethodPut, path: "/appointments/" + url.PathEscape(id) + "/status", role: Doctor, body: body, fallback: "Failed to update appointment"}, &out)
	return out, err
}

func (a Appointments) Cancel(ctx context.Context, id string) error {
	return a.c.do(ctx, call{resource: "appointments", method: http.MethodDelete, path: "/appointments/" + url.PathEscape(id), role: Patient, fallback: "Failed to cancel appointment"}, nil)
}
