package devbackend

import (
	"fmt"
	"time"

	"github.com/hackgods/healthcare-marketplace/internal/booking"
	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

func validateSlot(req marketplace.AvailabilityRequest) error {
	if req.DoctorID == "" || req.ClinicID == "" {
		return fmt.Errorf("%w: doctor and clinic are required", ErrInvalidInput)
	}
	if _, err := time.Parse(booking.DateLayout, req.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	start, err := booking.ParseClock(req.StartTime)
	if err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidInput, err)
	}
	end, err := booking.ParseClock(req.EndTime)
	if err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidInput, err)
	}
	if end <= start {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
	}
	return nil
}

func active(a marketplace.Appointment) bool {
	return a.Status == marketplace.StatusPending || a.Status == marketplace.StatusConfirmed
}

// holds reports whether an active appointment of the doctor overlaps the
// requested window on the same date. Windows that only touch do not overlap.
// Callers hold b.mu and have validated req.
func (b *Backend) holds(req marketplace.AvailabilityRequest) bool {
	start, _ := booking.ParseClock(req.StartTime)
	end, _ := booking.ParseClock(req.EndTime)
	for _, a := range b.appointments.list(active) {
		if a.DoctorID != req.DoctorID || a.Date != req.Date {
			continue
		}
		aStart, err := booking.ParseClock(a.StartTime)
		if err != nil {
			continue
		}
		aEnd, err := booking.ParseClock(a.EndTime)
		if err != nil {
			continue
		}
		if start < aEnd && aStart < end {
			return true
		}
	}
	return false
}

func (b *Backend) CheckAvailability(req marketplace.AvailabilityRequest) (marketplace.Availability, error) {
	if err := validateSlot(req); err != nil {
		return marketplace.Availability{}, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if _, ok := b.doctors.get(req.DoctorID); !ok {
		return marketplace.Availability{}, fmt.Errorf("%w: doctor", ErrNotFound)
	}
	if b.holds(req) {
		return marketplace.Availability{Available: false, Message: SlotTakenMessage}, nil
	}
	return marketplace.Availability{Available: true, Message: "Time slot is available"}, nil
}

// BookAppointment re-checks the slot under the write lock, so two patients
// racing for one slot cannot both win.
func (b *Backend) BookAppointment(patientID string, req marketplace.BookAppointmentRequest) (marketplace.Appointment, error) {
	if err := validateSlot(req.AvailabilityRequest); err != nil {
		return marketplace.Appointment{}, err
	}
	if req.Type == "" {
		req.Type = marketplace.TypeInPerson
	}
	if req.Type != marketplace.TypeInPerson && req.Type != marketplace.TypeVideo {
		return marketplace.Appointment{}, fmt.Errorf("%w: unknown appointment type %q", ErrInvalidInput, req.Type)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.doctors.get(req.DoctorID); !ok {
		return marketplace.Appointment{}, fmt.Errorf("%w: doctor", ErrNotFound)
	}
	if _, ok := b.clinics.get(req.ClinicID); !ok {
		return marketplace.Appointment{}, fmt.Errorf("%w: clinic", ErrNotFound)
	}
	if b.holds(req.AvailabilityRequest) {
		return marketplace.Appointment{}, ErrSlotTaken
	}

	appt := marketplace.Appointment{
		ID:        newID(),
		DoctorID:  req.DoctorID,
		ClinicID:  req.ClinicID,
		PatientID: patientID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
		Type:      req.Type,
		Status:    marketplace.StatusPending,
		CreatedAt: b.now().UTC(),
	}
	b.appointments.put(appt)
	return appt, nil
}

func (b *Backend) PatientAppointments(patientID string) []marketplace.Appointment {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.appointments.list(func(a marketplace.Appointment) bool { return a.PatientID == patientID })
}

func (b *Backend) DoctorAppointments(doctorID string) []marketplace.Appointment {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.appointments.list(func(a marketplace.Appointment) bool { return a.DoctorID == doctorID })
}

var statusTransitions = map[marketplace.AppointmentStatus][]marketplace.AppointmentStatus{
	marketplace.StatusPending:   {marketplace.StatusConfirmed, marketplace.StatusCancelled},
	marketplace.StatusConfirmed: {marketplace.StatusCompleted, marketplace.StatusCancelled},
}

func canTransition(from, to marketplace.AppointmentStatus) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// UpdateAppointmentStatus is the doctor's side of the lifecycle.
func (b *Backend) UpdateAppointmentStatus(doctorID, id string, status marketplace.AppointmentStatus) (marketplace.Appointment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	appt, ok := b.appointments.get(id)
	if !ok {
		return appt, ErrNotFound
	}
	if appt.DoctorID != doctorID {
		return appt, ErrForbidden
	}
	if !canTransition(appt.Status, status) {
		return appt, fmt.Errorf("%w: cannot move appointment from %s to %s", ErrInvalidInput, appt.Status, status)
	}
	appt.Status = status
	b.appointments.put(appt)
	return appt, nil
}

// CancelAppointment frees the slot held by one of the patient's appointments.
func (b *Backend) CancelAppointment(patientID, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	appt, ok := b.appointments.get(id)
	if !ok {
		return ErrNotFound
	}
	if appt.PatientID != patientID {
		return ErrForbidden
	}
	if !active(appt) {
		return fmt.Errorf("%w: appointment is already %s", ErrInvalidInput, appt.Status)
	}
	appt.Status = marketplace.StatusCancelled
	b.appointments.put(appt)
	return nil
}
