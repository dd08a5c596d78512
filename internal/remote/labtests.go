package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

// LabTests covers the test catalogue and patient lab bookings.
type LabTests struct{ c *Client }

func (c *Client) LabTests() LabTests { return LabTests{c} }

func (l LabTests) List(ctx context.Context) ([]marketplace.LabTest, error) {
	var out []marketplace.LabTest
	err := l.c.do(ctx, call{resource: "tests", method: http.MethodGet, path: "/tests", fallback: "Failed to fetch lab tests"}, &out)
	return out, err
}

func (l LabTests) Get(ctx context.Context, id string) (marketplace.LabTest, error) {
	var out marketplace.LabTest
	err := l.c.do(ctx, call{resource: "tests", method: http.MethodGet, path: "/tests/" + url.PathEscape(id), fallback: "Failed to fetch lab test"}, &out)
	return out, err
}

func (l LabTests) Book(ctx context.Context, req marketplace.LabBookingRequest) (marketplace.LabBooking, error) {
	var out marketplace.LabBooking
	err := l.c.do(ctx, call{resource: "lab-tests", method: http.MethodPost, path: "/lab-tests/book", role: Patient, body: req, fallback: "Failed to book lab test"}, &out)
	return out, err
}

func (l LabTests) Bookings(ctx context.Context) ([]marketplace.LabBooking, error) {
	var out []marketplace.LabBooking
	err := l.c.do(ctx, call{resource: "lab-tests", method: http.MethodGet, path: "/lab-tests/bookings", role: Patient, fallback: "Failed to fetch lab bookings"}, &out)
	return out, err
}

// UploadReport attaches a PDF report to a booking.
func (l LabTests) UploadReport(ctx context.Context, bookingID string, report marketplace.Upload) (marketplace.LabBooking, error) {
	if report.Field == "" {
		report.Field = "report"
	}
	if report.ContentType == "" {
		report.ContentType = "application/pdf"
	}
	var out marketplace.LabBooking
	err := l.c.do(ctx, call{resource: "lab-tests", method: http.MethodPost, path: "/lab-tests/bookings/" + url.PathEscape(bookingID) + "/report", role: Patient, form: newForm().file(&report), fallback: "Failed to upload report"}, &out)
	return out, err
}
