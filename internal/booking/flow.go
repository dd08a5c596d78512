package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
	"github.com/hackgods/healthcare-marketplace/internal/notify"
)

type Step int

const (
	SelectingTime Step = iota
	CheckingAvailability
	DetailsForm
	Submitted
)

func (s Step) String() string {
	switch s {
	case CheckingAvailability:
		return "checking_availability"
	case DetailsForm:
		return "details_form"
	case Submitted:
		return "submitted"
	default:
		return "selecting_time"
	}
}

var (
	ErrNoDate             = errors.New("pick a date first")
	ErrNoSlot             = errors.New("pick a time slot first")
	ErrUnknownSlot        = errors.New("slot is not offered on the selected date")
	ErrAvailabilityNeeded = errors.New("check availability before submitting")
	ErrSlotUnavailable    = errors.New("selected slot is not available")
	ErrAlreadySubmitted   = errors.New("booking already submitted")
	ErrMissingDetails     = errors.New("visit reason and appointment type are required")
)

// AvailabilityChecker asks the backend whether a window is still free.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, req marketplace.AvailabilityRequest) (marketplace.Availability, error)
}

// AvailabilityClearer is implemented by checkers that cache the last answer.
// The flow clears it whenever the date or slot changes.
type AvailabilityClearer interface {
	ClearAvailability()
}

// Booker fires the booking call.
type Booker interface {
	BookAppointment(ctx context.Context, req marketplace.BookAppointmentRequest) (marketplace.Appointment, error)
}

type FlowConfig struct {
	Clinic      marketplace.Clinic
	DoctorID    string
	SlotMinutes int // see SlotMinutes for the fallback order
	Checker     AvailabilityChecker
	Booker      Booker
	Notifier    notify.Notifier
}

// Flow walks one booking from slot selection to submission.
// It is meant to be driven from a single goroutine.
type Flow struct {
	cfg FlowConfig

	step   Step
	date   time.Time
	slots  []TimeSlot
	slot   *TimeSlot
	reason string
	kind   marketplace.AppointmentType
	booked *marketplace.Appointment
}

func NewFlow(cfg FlowConfig) *Flow {
	cfg.SlotMinutes = SlotMinutes(cfg.Clinic, cfg.SlotMinutes)
	if cfg.Notifier == nil {
		cfg.Notifier = &notify.Recorder{}
	}
	return &Flow{cfg: cfg}
}

func (f *Flow) Step() Step          { return f.step }
func (f *Flow) Slots() []TimeSlot   { return f.slots }
func (f *Flow) Date() time.Time     { return f.date }
func (f *Flow) Selected() *TimeSlot { return f.slot }

// Booked returns the appointment created by Submit.
func (f *Flow) Booked() *marketplace.Appointment { return f.booked }

// SelectDate plans the slots for date and drops any previous slot choice,
// so availability has to be checked again.
func (f *Flow) SelectDate(date time.Time) ([]TimeSlot, error) {
	if f.step == Submitted {
		return nil, ErrAlreadySubmitted
	}
	f.date = date
	f.slots = Plan(f.cfg.Clinic.OperatingHours, f.cfg.SlotMinutes, date)
	f.slot = nil
	f.step = SelectingTime
	f.clearAvailability()
	return f.slots, nil
}

// SelectSlot picks the slot starting at start. Any earlier availability
// result is discarded.
func (f *Flow) SelectSlot(start string) error {
	if f.step == Submitted {
		return ErrAlreadySubmitted
	}
	if f.date.IsZero() {
		return ErrNoDate
	}
	for i := range f.slots {
		if f.slots[i].Start == start {
			s := f.slots[i]
			f.slot = &s
			f.step = SelectingTime
			f.clearAvailability()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownSlot, start)
}

// CheckAvailability asks the backend about the selected slot. Available moves
// the flow to the details form; unavailable sends it back to slot selection
// with a warning.
func (f *Flow) CheckAvailability(ctx context.Context) (marketplace.Availability, error) {
	switch {
	case f.step == Submitted:
		return marketplace.Availability{}, ErrAlreadySubmitted
	case f.slot == nil:
		return marketplace.Availability{}, ErrNoSlot
	}

	f.step = CheckingAvailability
	avail, err := f.cfg.Checker.CheckAvailability(ctx, f.availabilityRequest())
	if err != nil {
		f.step = SelectingTime
		return marketplace.Availability{}, fmt.Errorf("check availability: %w", err)
	}

	if !avail.Available {
		f.step = SelectingTime
		msg := avail.Message
		if msg == "" {
			msg = "Selected time slot is not available. Please choose another."
		}
		f.cfg.Notifier.Notify(notify.Warning, msg)
		return avail, ErrSlotUnavailable
	}

	f.step = DetailsForm
	return avail, nil
}

// SetDetails records the visit reason and appointment type.
func (f *Flow) SetDetails(reason string, kind marketplace.AppointmentType) error {
	if f.step != DetailsForm {
		return ErrAvailabilityNeeded
	}
	f.reason = reason
	f.kind = kind
	return nil
}

// Submit books the checked slot. It is only reachable from the details form.
func (f *Flow) Submit(ctx context.Context) (marketplace.Appointment, error) {
	switch f.step {
	case Submitted:
		return marketplace.Appointment{}, ErrAlreadySubmitted
	case DetailsForm:
	default:
		return marketplace.Appointment{}, ErrAvailabilityNeeded
	}
	if f.reason == "" || f.kind == "" {
		return marketplace.Appointment{}, ErrMissingDetails
	}

	appt, err := f.cfg.Booker.BookAppointment(ctx, marketplace.BookAppointmentRequest{
		AvailabilityRequest: f.availabilityRequest(),
		Reason:              f.reason,
		Type:                f.kind,
	})
	if err != nil {
		return marketplace.Appointment{}, fmt.Errorf("book appointment: %w", err)
	}

	f.step = Submitted
	f.booked = &appt
	return appt, nil
}

func (f *Flow) clearAvailability() {
	if c, ok := f.cfg.Checker.(AvailabilityClearer); ok {
		c.ClearAvailability()
	}
}

func (f *Flow) availabilityRequest() marketplace.AvailabilityRequest {
	req := marketplace.AvailabilityRequest{
		DoctorID: f.cfg.DoctorID,
		ClinicID: f.cfg.Clinic.ID,
		Date:     f.date.Format(DateLayout),
	}
	if f.slot != nil {
		req.StartTime = f.slot.Start
		req.EndTime = f.slot.End
	}
	return req
}
