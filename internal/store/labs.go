package store

import (
	"context"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
	"github.com/hackgods/healthcare-marketplace/internal/state"
)

const (
	OpFetchLabTests = KeyLabTests + "/fetchAll"
	OpFetchLabTest  = KeyLabTests + "/fetchOne"

	OpBookLabTest      = KeyLabBookings + "/book"
	OpFetchLabBookings = KeyLabBookings + "/fetchAll"
	OpUploadLabReport  = KeyLabBookings + "/uploadReport"
)

var labTestMerges = map[string]state.Merge{
	OpFetchLabTests: state.MergeReplaceAll,
	OpFetchLabTest:  state.MergeSelect,
}

var labBookingMerges = map[string]state.Merge{
	OpBookLabTest:      state.MergeAppend,
	OpFetchLabBookings: state.MergeReplaceAll,
	OpUploadLabReport:  state.MergeReplace,
}

func (s *Store) FetchLabTests(ctx context.Context) ([]marketplace.LabTest, error) {
	return run[[]marketplace.LabTest](ctx, s, operation(OpFetchLabTests, nil, s.client.LabTests().List))
}

func (s *Store) FetchLabTest(ctx context.Context, id string) (marketplace.LabTest, error) {
	op := operation(OpFetchLabTest, id, func(ctx context.Context) (marketplace.LabTest, error) {
		return s.client.LabTests().Get(ctx, id)
	})
	return run[marketplace.LabTest](ctx, s, op)
}

func (s *Store) BookLabTest(ctx context.Context, req marketplace.LabBookingRequest) (marketplace.LabBooking, error) {
	op := operation(OpBookLabTest, req, func(ctx context.Context) (marketplace.LabBooking, error) {
		return s.client.LabTests().Book(ctx, req)
	}).notifying("Lab test booked successfully")
	return run[marketplace.LabBooking](ctx, s, op)
}

func (s *Store) FetchLabBookings(ctx context.Context) ([]marketplace.LabBooking, error) {
	return run[[]marketplace.LabBooking](ctx, s, operation(OpFetchLabBookings, nil, s.client.LabTests().Bookings))
}

func (s *Store) UploadLabReport(ctx context.Context, bookingID string, report marketplace.Upload) (marketplace.LabBooking, error) {
	op := operation(OpUploadLabReport, bookingID, func(ctx context.Context) (marketplace.LabBooking, error) {
		return s.client.LabTests().UploadReport(ctx, bookingID, report)
	}).notifying("Report uploaded")
	return run[marketplace.LabBooking](ctx, s, op)
}
