package store

import (
	"strings"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
	"github.com/hackgods/healthcare-marketplace/internal/state"
)

// Top-level keys of the state tree. Every action type starts with one of them.
const (
	KeyAuth         = "auth"
	KeyDoctorAuth   = "doctorAuth"
	KeyAppointments = "appointments"
	KeyBlogs        = "blogs"
	KeyCart         = "cart"
	KeyClinics      = "clinics"
	KeyDoctors      = "doctors"
	KeyLabTests     = "labTests"
	KeyLabBookings  = "labBookings"
	KeyMessages     = "messages"
	KeyOrders       = "orders"
	KeyProducts     = "products"
	KeyUsers        = "users"
)

// Synchronous operations shared by every container.
const (
	opReset         = "reset"
	opClearSelected = "clearSelected"
)

type AppointmentsState struct {
	state.Slice[marketplace.Appointment]
	// Availability is the answer to the latest availability check and
	// CheckedFor the slot it was asked about. Both are cleared together.
	Availability *marketplace.Availability
	CheckedFor   *marketplace.AvailabilityRequest
}

// AvailabilityFor returns the stored answer only when it was checked for req.
func (s AppointmentsState) AvailabilityFor(req marketplace.AvailabilityRequest) (marketplace.Availability, bool) {
	if s.Availability == nil || s.CheckedFor == nil || *s.CheckedFor != req {
		return marketplace.Availability{}, false
	}
	return *s.Availability, true
}

type State struct {
	Auth         state.Identity[marketplace.User]
	DoctorAuth   state.Identity[marketplace.Doctor]
	Appointments AppointmentsState
	Blogs        state.Slice[marketplace.Blog]
	Cart         state.Item[marketplace.Cart]
	Clinics      state.Slice[marketplace.Clinic]
	Doctors      state.Slice[marketplace.Doctor]
	LabTests     state.Slice[marketplace.LabTest]
	LabBookings  state.Slice[marketplace.LabBooking]
	Messages     state.Slice[marketplace.Conversation]
	Orders       state.Slice[marketplace.Order]
	Products     state.Slice[marketplace.Product]
	Users        state.Slice[marketplace.User]
}

// Reduce is the root reducer. It routes a to the container named by the
// action's domain and leaves every other container untouched.
func Reduce(s State, a state.Action) State {
	switch a.Domain() {
	case KeyAuth:
		s.Auth = reduceUserIdentity(s.Auth, a)
	case KeyDoctorAuth:
		s.DoctorAuth = reduceDoctorIdentity(s.DoctorAuth, a)
	case KeyAppointments:
		s.Appointments = reduceAppointments(s.Appointments, a)
	case KeyBlogs:
		s.Blogs = reduceSlice(s.Blogs, a, blogMerges)
	case KeyCart:
		s.Cart = reduceCart(s.Cart, a)
	case KeyClinics:
		s.Clinics = reduceSlice(s.Clinics, a, clinicMerges)
	case KeyDoctors:
		s.Doctors = reduceSlice(s.Doctors, a, doctorMerges)
	case KeyLabTests:
		s.LabTests = reduceSlice(s.LabTests, a, labTestMerges)
	case KeyLabBookings:
		s.LabBookings = reduceSlice(s.LabBookings, a, labBookingMerges)
	case KeyMessages:
		s.Messages = reduceMessages(s.Messages, a)
	case KeyOrders:
		s.Orders = reduceSlice(s.Orders, a, orderMerges)
	case KeyProducts:
		s.Products = reduceSlice(s.Products, a, productMerges)
	case KeyUsers:
		s.Users = reduceSlice(s.Users, a, userMerges)
	}
	return s
}

func opName(a state.Action) string {
	_, name, _ := strings.Cut(a.Type, "/")
	return name
}

// reduceSlice handles the shared synchronous operations and otherwise folds a
// with the merge policy registered for its type. Unknown types are ignored.
func reduceSlice[T state.Keyed](s state.Slice[T], a state.Action, merges map[string]state.Merge) state.Slice[T] {
	switch opName(a) {
	case opReset:
		return s.Reset()
	case opClearSelected:
		return s.ClearSelected()
	}
	merge, ok := merges[a.Type]
	if !ok {
		return s
	}
	return state.Reduce(s, a, merge)
}

func resetAction(domain string) state.Action {
	return state.Action{Type: domain + "/" + opReset}
}

func clearSelectedAction(domain string) state.Action {
	return state.Action{Type: domain + "/" + opClearSelected}
}

// Reset returns the status flags of one container to idle. Collections stay.
func (s *Store) Reset(domain string) {
	s.Dispatch(resetAction(domain))
}

// ClearSelected drops the single selected item of one container.
func (s *Store) ClearSelected(domain string) {
	s.Dispatch(clearSelectedAction(domain))
}
