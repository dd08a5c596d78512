package store

import (
	"context"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
	"github.com/hackgods/healthcare-marketplace/internal/state"
)

const (
	OpFetchPatientAppointments = KeyAppointments + "/fetchPatient"
	OpFetchDoctorAppointments  = KeyAppointments + "/fetchDoctor"
	OpCheckAvailability        = KeyAppointments + "/checkAvailability"
	OpBookAppointment          = KeyAppointments + "/book"
	OpUpdateAppointmentStatus  = KeyAppointments + "/updateStatus"
	OpCancelAppointment        = KeyAppointments + "/cancel"
	OpClearAvailability        = KeyAppointments + "/clearAvailability"
)

var appointmentMerges = map[string]state.Merge{
	OpFetchPatientAppointments: state.MergeReplaceAll,
	OpFetchDoctorAppointments:  state.MergeReplaceAll,
	OpCheckAvailability:        state.MergeNone,
	OpBookAppointment:          state.MergeAppend,
	OpUpdateAppointmentStatus:  state.MergeReplace,
	OpCancelAppointment:        state.MergeReplace,
}

func (s *Store) FetchPatientAppointments(ctx context.Context) ([]marketplace.Appointment, error) {
	op := operation(OpFetchPatientAppointments, nil, s.client.Appointments().ListForPatient)
	return run[[]marketplace.Appointment](ctx, s, op)
}

func (s *Store) FetchDoctorAppointments(ctx context.Context) ([]marketplace.Appointment, error) {
	op := operation(OpFetchDoctorAppointments, nil, s.client.Appointments().ListForDoctor)
	return run[[]marketplace.Appointment](ctx, s, op)
}

// CheckAvailability asks the backend whether the slot in req is free. An
// unavailable slot is a successful check; the answer lands in
// State().Appointments.Availability.
func (s *Store) CheckAvailability(ctx context.Context, req marketplace.AvailabilityRequest) (marketplace.Availability, error) {
	op := operation(OpCheckAvailability, req, func(ctx context.Context) (marketplace.Availability, error) {
		return s.client.Appointments().CheckAvailability(ctx, req)
	})
	return run[marketplace.Availability](ctx, s, op)
}

// ClearAvailability forgets the last availability answer. The booking flow
// calls it whenever the selected date or slot changes.
func (s *Store) ClearAvailability() {
	s.Dispatch(state.Action{Type: OpClearAvailability})
}

func (s *Store) BookAppointment(ctx context.Context, req marketplace.BookAppointmentRequest) (marketplace.Appointment, error) {
	op := operation(OpBookAppointment, req, func(ctx context.Context) (marketplace.Appointment, error) {
		return s.client.Appointments().Book(ctx, req)
	}).notifying("Appointment booked successfully")
	return run[marketplace.Appointment](ctx, s, op)
}

func (s *Store) UpdateAppointmentStatus(ctx context.Context, id string, status marketplace.AppointmentStatus) (marketplace.Appointment, error) {
	op := operation(OpUpdateAppointmentStatus, id, func(ctx context.Context) (marketplace.Appointment, error) {
		return s.client.Appointments().UpdateStatus(ctx, id, status)
	}).notifying("Appointment updated")
	return run[marketplace.Appointment](ctx, s, op)
}

// CancelAppointment deletes the appointment on the backend and marks the
// local copy cancelled.
func (s *Store) CancelAppointment(ctx context.Context, id string) error {
	op := operation(OpCancelAppointment, id, func(ctx context.Context) (marketplace.Appointment, error) {
		if err := s.client.Appointments().Cancel(ctx, id); err != nil {
			return marketplace.Appointment{}, err
		}
		appt, ok := s.State().Appointments.Find(id)
		if !ok {
			appt = marketplace.Appointment{ID: id}
		}
		appt.Status = marketplace.StatusCancelled
		return appt, nil
	}).notifying("Appointment cancelled")
	_, err := run[marketplace.Appointment](ctx, s, op)
	return err
}

func reduceAppointments(s AppointmentsState, a state.Action) AppointmentsState {
	switch opName(a) {
	case opReset:
		s.Slice = s.Slice.Reset()
		return s.clearAvailability()
	}

	s.Slice = reduceSlice(s.Slice, a, appointmentMerges)

	switch a.Type {
	case OpClearAvailability:
		return s.clearAvailability()
	case OpCheckAvailability:
		switch a.Phase {
		case state.Pending, state.Rejected:
			return s.clearAvailability()
		case state.Fulfilled:
			av, ok := a.Payload.(marketplace.Availability)
			req, okReq := a.Arg.(marketplace.AvailabilityRequest)
			if !ok || !okReq {
				return s.clearAvailability()
			}
			s.Availability = &av
			s.CheckedFor = &req
		}
	case OpBookAppointment:
		if a.Phase == state.Fulfilled {
			return s.clearAvailability()
		}
	}
	return s
}

func (s AppointmentsState) clearAvailability() AppointmentsState {
	s.Availability = nil
	s.CheckedFor = nil
	return s
}
