package devbackend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

func seededBackend(t *testing.T) *Backend {
	t.Helper()
	b := New()
	_, err := Seed(b, 3)
	require.NoError(t, err)
	return b
}

func slotFor(t *testing.T, b *Backend) marketplace.AvailabilityRequest {
	t.Helper()
	doc, err := b.LoginDoctor(DevDoctor)
	require.NoError(t, err)
	return marketplace.AvailabilityRequest{
		DoctorID:  doc.Doctor.ID,
		ClinicID:  doc.Doctor.ClinicID,
		Date:      "2026-03-02",
		StartTime: "09:00",
		EndTime:   "09:30",
	}
}

func TestSeedCreatesCatalogue(t *testing.T) {
	b := New()
	sum, err := Seed(b, 4)
	require.NoError(t, err)

	assert.Equal(t, SeedSummary{Clinics: 4, Doctors: 4, Products: 4, Blogs: 4, LabTests: len(labTestNames)}, sum)
	assert.Len(t, b.Clinics(), 4)
	assert.Len(t, b.Doctors(), 4)
	assert.Len(t, b.Users(), 2)

	_, err = Seed(New(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoginIssuesTokenForRole(t *testing.T) {
	b := seededBackend(t)

	sess, err := b.LoginUser(DevPatient)
	require.NoError(t, err)
	p, ok := b.Authenticate(sess.Token)
	require.True(t, ok)
	assert.Equal(t, Principal{Role: marketplace.RolePatient, ID: sess.User.ID}, p)
	assert.False(t, b.IsAdmin(p))

	admin, err := b.LoginUser(DevAdmin)
	require.NoError(t, err)
	ap, _ := b.Authenticate(admin.Token)
	assert.True(t, b.IsAdmin(ap))

	_, err = b.LoginUser(marketplace.Credentials{Email: DevPatient.Email, Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = b.LoginUser(DevDoctor)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "doctor accounts cannot log in as patients")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	b := seededBackend(t)
	_, err := b.RegisterUser(marketplace.UserRegistration{Name: "Again", Email: " Patient@Marketplace.dev ", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAvailabilityReportsHeldSlot(t *testing.T) {
	b := seededBackend(t)
	patient, err := b.LoginUser(DevPatient)
	require.NoError(t, err)
	req := slotFor(t, b)

	av, err := b.CheckAvailability(req)
	require.NoError(t, err)
	assert.True(t, av.Available)

	appt, err := b.BookAppointment(patient.User.ID, marketplace.BookAppointmentRequest{AvailabilityRequest: req, Reason: "checkup"})
	require.NoError(t, err)
	assert.Equal(t, marketplace.StatusPending, appt.Status)
	assert.Equal(t, marketplace.TypeInPerson, appt.Type)

	av, err = b.CheckAvailability(req)
	require.NoError(t, err)
	assert.False(t, av.Available)
	assert.Equal(t, SlotTakenMessage, av.Message)

	_, err = b.BookAppointment(patient.User.ID, marketplace.BookAppointmentRequest{AvailabilityRequest: req})
	assert.ErrorIs(t, err, ErrSlotTaken)

	require.NoError(t, b.CancelAppointment(patient.User.ID, appt.ID))
	av, err = b.CheckAvailability(req)
	require.NoError(t, err)
	assert.True(t, av.Available, "a cancelled appointment frees its slot")
}

func TestAvailabilityDetectsOverlap(t *testing.T) {
	b := seededBackend(t)
	patient, err := b.LoginUser(DevPatient)
	require.NoError(t, err)
	base := slotFor(t, b)

	long := base
	long.StartTime, long.EndTime = "09:00", "09:45"
	_, err = b.BookAppointment(patient.User.ID, marketplace.BookAppointmentRequest{AvailabilityRequest: long})
	require.NoError(t, err)

	tests := []struct {
		start, end string
		available  bool
	}{
		{"09:30", "10:00", false},
		{"08:30", "09:15", false},
		{"09:10", "09:20", false},
		{"09:45", "10:15", true},
		{"08:30", "09:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.start+"-"+tt.end, func(t *testing.T) {
			req := base
			req.StartTime, req.EndTime = tt.start, tt.end
			av, err := b.CheckAvailability(req)
			require.NoError(t, err)
			assert.Equal(t, tt.available, av.Available)
		})
	}

	overlapping := base
	overlapping.StartTime, overlapping.EndTime = "09:30", "10:00"
	_, err = b.BookAppointment(patient.User.ID, marketplace.BookAppointmentRequest{AvailabilityRequest: overlapping})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestAvailabilityValidation(t *testing.T) {
	b := seededBackend(t)
	base := slotFor(t, b)

	tests := []struct {
		name   string
		mutate func(*marketplace.AvailabilityRequest)
	}{
		{"missing doctor", func(r *marketplace.AvailabilityRequest) { r.DoctorID = "" }},
		{"bad date", func(r *marketplace.AvailabilityRequest) { r.Date = "02/03/2026" }},
		{"bad start", func(r *marketplace.AvailabilityRequest) { r.StartTime = "9am" }},
		{"end before start", func(r *marketplace.AvailabilityRequest) { r.EndTime = "08:30" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := b.CheckAvailability(req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAppointmentStatusTransitions(t *testing.T) {
	b := seededBackend(t)
	patient, _ := b.LoginUser(DevPatient)
	doctor, _ := b.LoginDoctor(DevDoctor)
	req := slotFor(t, b)

	appt, err := b.BookAppointment(patient.User.ID, marketplace.BookAppointmentRequest{AvailabilityRequest: req})
	require.NoError(t, err)

	_, err = b.UpdateAppointmentStatus(doctor.Doctor.ID, appt.ID, marketplace.StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidInput)

	updated, err := b.UpdateAppointmentStatus(doctor.Doctor.ID, appt.ID, marketplace.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, marketplace.StatusConfirmed, updated.Status)

	_, err = b.UpdateAppointmentStatus("someone-else", appt.ID, marketplace.StatusCompleted)
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Len(t, b.DoctorAppointments(doctor.Doctor.ID), 1)
	assert.Len(t, b.PatientAppointments(patient.User.ID), 1)
}

func TestCartAndOrder(t *testing.T) {
	b := seededBackend(t)
	patient, _ := b.LoginUser(DevPatient)
	owner := patient.User.ID
	products := b.Products()
	require.NotEmpty(t, products)
	p := products[0]

	c, err := b.AddToCart(owner, p.ID, 2)
	require.NoError(t, err)
	c, err = b.AddToCart(owner, p.ID, 1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.InDelta(t, p.Price*3, c.Total, 0.001)

	c, err = b.UpdateCartQuantity(owner, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Items[0].Quantity)

	order, err := b.CreateOrder(owner, marketplace.CreateOrderRequest{Address: "1 Main St"})
	require.NoError(t, err)
	assert.InDelta(t, p.Price, order.Total, 0.001)
	assert.Empty(t, b.Cart(owner).Items)
	assert.Len(t, b.OrdersFor(owner), 1)

	_, err = b.CreateOrder(owner, marketplace.CreateOrderRequest{})
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = b.AddToCart(owner, "missing", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessagesOpenConversation(t *testing.T) {
	b := seededBackend(t)
	patient, _ := b.LoginUser(DevPatient)
	doctor, _ := b.LoginDoctor(DevDoctor)
	pp := Principal{Role: marketplace.RolePatient, ID: patient.User.ID}
	dp := Principal{Role: marketplace.RoleDoctor, ID: doctor.Doctor.ID}

	first, err := b.Send(pp, marketplace.SendMessageRequest{RecipientID: doctor.Doctor.ID, Body: "Hello"})
	require.NoError(t, err)
	reply, err := b.Send(dp, marketplace.SendMessageRequest{ConversationID: first.ConversationID, Body: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, reply.ConversationID)

	convs := b.Conversations(dp)
	require.Len(t, convs, 1)
	assert.Empty(t, convs[0].Messages)

	conv, err := b.Conversation(pp, first.ConversationID)
	require.NoError(t, err)
	assert.Len(t, conv.Messages, 2)

	other, err := b.RegisterUser(marketplace.UserRegistration{Name: "Other", Email: "other@example.com", Password: "x"})
	require.NoError(t, err)
	_, err = b.Conversation(Principal{Role: marketplace.RolePatient, ID: other.User.ID}, first.ConversationID)
	assert.ErrorIs(t, err, ErrForbidden)
}
