package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
	"github.com/hackgods/healthcare-marketplace/internal/notify"
)

type fakeBackend struct {
	available bool
	checkErr  error
	bookErr   error
	checks    []marketplace.AvailabilityRequest
	bookings  []marketplace.BookAppointmentRequest
}

func (f *fakeBackend) CheckAvailability(_ context.Context, req marketplace.AvailabilityRequest) (marketplace.Availability, error) {
	f.checks = append(f.checks, req)
	if f.checkErr != nil {
		return marketplace.Availability{}, f.checkErr
	}
	return marketplace.Availability{Available: f.available}, nil
}

func (f *fakeBackend) BookAppointment(_ context.Context, req marketplace.BookAppointmentRequest) (marketplace.Appointment, error) {
	f.bookings = append(f.bookings, req)
	if f.bookErr != nil {
		return marketplace.Appointment{}, f.bookErr
	}
	return marketplace.Appointment{
		ID:        "appt-1",
		DoctorID:  req.DoctorID,
		ClinicID:  req.ClinicID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    marketplace.StatusPending,
	}, nil
}

// cachingBackend remembers the last answer the way the store does.
type cachingBackend struct {
	fakeBackend
	cleared int
}

func (c *cachingBackend) ClearAvailability() { c.cleared++ }

func newTestFlow(backend *fakeBackend, rec *notify.Recorder) *Flow {
	return NewFlow(FlowConfig{
		Clinic:   marketplace.Clinic{ID: "clinic-1", OperatingHours: nineToFive(), SlotDuration: 30},
		DoctorID: "doc-1",
		Checker:  backend,
		Booker:   backend,
		Notifier: rec,
	})
}

func TestFlowHappyPath(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{available: true}
	flow := newTestFlow(backend, &notify.Recorder{})

	slots, err := flow.SelectDate(monday)
	require.NoError(t, err)
	require.Len(t, slots, 16)
	assert.Equal(t, SelectingTime, flow.Step())

	require.NoError(t, flow.SelectSlot("10:00"))
	_, err = flow.CheckAvailability(ctx)
	require.NoError(t, err)
	assert.Equal(t, DetailsForm, flow.Step())

	require.NoError(t, flow.SetDetails("Annual checkup", marketplace.TypeInPerson))
	appt, err := flow.Submit(ctx)
	require.NoError(t, err)

	assert.Equal(t, Submitted, flow.Step())
	assert.Equal(t, "appt-1", appt.ID)
	require.Len(t, backend.bookings, 1)
	assert.Equal(t, marketplace.BookAppointmentRequest{
		AvailabilityRequest: marketplace.AvailabilityRequest{
			DoctorID: "doc-1", ClinicID: "clinic-1", Date: "2026-03-02", StartTime: "10:00", EndTime: "10:30",
		},
		Reason: "Annual checkup",
		Type:   marketplace.TypeInPerson,
	}, backend.bookings[0])
}

func TestFlowUnavailableReturnsToSelection(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{available: false}
	rec := &notify.Recorder{}
	flow := newTestFlow(backend, rec)

	_, _ = flow.SelectDate(monday)
	require.NoError(t, flow.SelectSlot("09:30"))

	avail, err := flow.CheckAvailability(ctx)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.False(t, avail.Available)
	assert.Equal(t, SelectingTime, flow.Step())

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.Warning, last.Level)

	assert.ErrorIs(t, flow.SetDetails("x", marketplace.TypeVideo), ErrAvailabilityNeeded)
	_, err = flow.Submit(ctx)
	assert.ErrorIs(t, err, ErrAvailabilityNeeded)
	assert.Empty(t, backend.bookings)
}

func TestFlowChangingSlotRequiresRecheck(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{available: true}
	flow := newTestFlow(backend, &notify.Recorder{})

	_, _ = flow.SelectDate(monday)
	require.NoError(t, flow.SelectSlot("09:00"))
	_, err := flow.CheckAvailability(ctx)
	require.NoError(t, err)
	require.Equal(t, DetailsForm, flow.Step())

	require.NoError(t, flow.SelectSlot("11:00"))
	assert.Equal(t, SelectingTime, flow.Step())
	_, err = flow.Submit(ctx)
	assert.ErrorIs(t, err, ErrAvailabilityNeeded)

	_, err = flow.CheckAvailability(ctx)
	require.NoError(t, err)
	require.Len(t, backend.checks, 2)
	assert.Equal(t, "11:00", backend.checks[1].StartTime)
}

func TestFlowChangingDateRequiresRecheck(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{available: true}
	flow := newTestFlow(backend, &notify.Recorder{})

	_, _ = flow.SelectDate(monday)
	require.NoError(t, flow.SelectSlot("09:00"))
	_, err := flow.CheckAvailability(ctx)
	require.NoError(t, err)

	slots, err := flow.SelectDate(saturday)
	require.NoError(t, err)
	assert.Len(t, slots, 8)
	assert.Nil(t, flow.Selected())
	assert.Equal(t, SelectingTime, flow.Step())

	_, err = flow.CheckAvailability(ctx)
	assert.ErrorIs(t, err, ErrNoSlot)
}

func TestFlowRejectsUnknownSlot(t *testing.T) {
	flow := newTestFlow(&fakeBackend{}, &notify.Recorder{})

	assert.ErrorIs(t, flow.SelectSlot("09:00"), ErrNoDate)

	_, _ = flow.SelectDate(monday)
	assert.ErrorIs(t, flow.SelectSlot("08:00"), ErrUnknownSlot)
	assert.ErrorIs(t, flow.SelectSlot("09:15"), ErrUnknownSlot)
}

func TestFlowCheckFailureStaysInSelection(t *testing.T) {
	backend := &fakeBackend{checkErr: errors.New("Failed to check availability")}
	flow := newTestFlow(backend, &notify.Recorder{})

	_, _ = flow.SelectDate(monday)
	require.NoError(t, flow.SelectSlot("09:00"))

	_, err := flow.CheckAvailability(context.Background())
	require.Error(t, err)
	assert.Equal(t, SelectingTime, flow.Step())
}

func TestFlowBookingFailureKeepsDetailsForm(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{available: true, bookErr: errors.New("Failed to book appointment")}
	flow := newTestFlow(backend, &notify.Recorder{})

	_, _ = flow.SelectDate(monday)
	require.NoError(t, flow.SelectSlot("09:00"))
	_, err := flow.CheckAvailability(ctx)
	require.NoError(t, err)

	_, err = flow.Submit(ctx)
	assert.ErrorIs(t, err, ErrMissingDetails)

	require.NoError(t, flow.SetDetails("Rash", marketplace.TypeVideo))
	_, err = flow.Submit(ctx)
	require.Error(t, err)
	assert.Equal(t, DetailsForm, flow.Step())
	assert.Nil(t, flow.Booked())
}

func TestFlowSubmittedIsTerminal(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{available: true}
	flow := newTestFlow(backend, &notify.Recorder{})

	_, _ = flow.SelectDate(monday)
	require.NoError(t, flow.SelectSlot("09:00"))
	_, _ = flow.CheckAvailability(ctx)
	require.NoError(t, flow.SetDetails("Follow-up", marketplace.TypeInPerson))
	_, err := flow.Submit(ctx)
	require.NoError(t, err)

	_, err = flow.Submit(ctx)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	_, err = flow.SelectDate(saturday)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Len(t, backend.bookings, 1)
}

func TestFlowClearsCachedAvailabilityOnChange(t *testing.T) {
	ctx := context.Background()
	backend := &cachingBackend{fakeBackend: fakeBackend{available: true}}
	flow := NewFlow(FlowConfig{
		Clinic:   marketplace.Clinic{ID: "clinic-1", OperatingHours: nineToFive()},
		DoctorID: "doc-1",
		Checker:  backend,
		Booker:   backend,
	})

	_, err := flow.SelectDate(monday)
	require.NoError(t, err)
	require.NoError(t, flow.SelectSlot("09:00"))
	_, err = flow.CheckAvailability(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.cleared)

	require.NoError(t, flow.SelectSlot("09:30"))
	assert.Equal(t, 3, backend.cleared)
	_, err = flow.SelectDate(saturday)
	require.NoError(t, err)
	assert.Equal(t, 4, backend.cleared)
}

func TestFlowDefaultsSlotLength(t *testing.T) {
	flow := NewFlow(FlowConfig{Clinic: marketplace.Clinic{OperatingHours: nineToFive()}})
	slots, err := flow.SelectDate(monday)
	require.NoError(t, err)
	assert.Len(t, slots, 16)
}
