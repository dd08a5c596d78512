// Package devbackend is an in-memory implementation of the marketplace REST
// API. It backs the integration tests and local runs of the client; it is not
// a production server.
package devbackend

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("not allowed")
	ErrSlotTaken          = errors.New("time slot already booked")
	ErrEmptyCart          = errors.New("cart is empty")
)

// SlotTakenMessage is what availability checks answer for a held slot.
const SlotTakenMessage = "This time slot is already booked"

type Principal struct {
	Role marketplace.Role
	ID   string
}

type patientAccount struct {
	password string
	user     marketplace.User
}

func (a patientAccount) Key() string { return a.user.ID }

type doctorAccount struct {
	password string
	doctor   marketplace.Doctor
}

func (a doctorAccount) Key() string { return a.doctor.ID }

type cart struct {
	owner string
	items []marketplace.CartItem
}

func (c cart) Key() string { return c.owner }

// table keeps rows in insertion order so listings are stable.
type table[T marketplace.Keyed] struct {
	order []string
	rows  map[string]T
}

func newTable[T marketplace.Keyed]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) put(v T) {
	if _, ok := t.rows[v.Key()]; !ok {
		t.order = append(t.order, v.Key())
	}
	t.rows[v.Key()] = v
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, k := range t.order {
		if k == id {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) list(keep func(T) bool) []T {
	out := make([]T, 0, len(t.order))
	for _, k := range t.order {
		v := t.rows[k]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

type Backend struct {
	mu  sync.RWMutex
	now func() time.Time

	tokens        map[string]Principal
	patients      *table[patientAccount]
	doctors       *table[doctorAccount]
	clinics       *table[marketplace.Clinic]
	products      *table[marketplace.Product]
	blogs         *table[marketplace.Blog]
	appointments  *table[marketplace.Appointment]
	carts         *table[cart]
	labTests      *table[marketplace.LabTest]
	labBookings   *table[marketplace.LabBooking]
	conversations *table[marketplace.Conversation]
	orders        *table[marketplace.Order]
}

func New() *Backend {
	return &Backend{
		now:           time.Now,
		tokens:        make(map[string]Principal),
		patients:      newTable[patientAccount](),
		doctors:       newTable[doctorAccount](),
		clinics:       newTable[marketplace.Clinic](),
		products:      newTable[marketplace.Product](),
		blogs:         newTable[marketplace.Blog](),
		appointments:  newTable[marketplace.Appointment](),
		carts:         newTable[cart](),
		labTests:      newTable[marketplace.LabTest](),
		labBookings:   newTable[marketplace.LabBooking](),
		conversations: newTable[marketplace.Conversation](),
		orders:        newTable[marketplace.Order](),
	}
}

func newID() string {
	return uuid.NewString()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (b *Backend) issueToken(p Principal) string {
	tok := uuid.NewString()
	b.tokens[tok] = p
	return tok
}

// Authenticate resolves a bearer token issued by a login or registration.
func (b *Backend) Authenticate(token string) (Principal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.tokens[token]
	return p, ok
}

func (b *Backend) IsAdmin(p Principal) bool {
	if p.Role != marketplace.RolePatient {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	acct, ok := b.patients.get(p.ID)
	return ok && acct.user.IsAdmin
}

// Patients

func (b *Backend) RegisterUser(reg marketplace.UserRegistration) (marketplace.UserSession, error) {
	return b.addUser(reg, false)
}

func (b *Backend) addUser(reg marketplace.UserRegistration, admin bool) (marketplace.UserSession, error) {
	email := normalizeEmail(reg.Email)
	if email == "" || reg.Password == "" || strings.TrimSpace(reg.Name) == "" {
		return marketplace.UserSession{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.emailInUse(email) {
		return marketplace.UserSession{}, ErrEmailTaken
	}
	user := marketplace.User{ID: newID(), Name: reg.Name, Email: email, Phone: reg.Phone, IsAdmin: admin}
	b.patients.put(patientAccount{password: reg.Password, user: user})
	return marketplace.UserSession{Token: b.issueToken(Principal{Role: marketplace.RolePatient, ID: user.ID}), User: user}, nil
}

func (b *Backend) emailInUse(email string) bool {
	for _, a := range b.patients.list(nil) {
		if a.user.Email == email {
			return true
		}
	}
	for _, d := range b.doctors.list(nil) {
		if d.doctor.Email == email {
			return true
		}
	}
	return false
}

func (b *Backend) LoginUser(creds marketplace.Credentials) (marketplace.UserSession, error) {
	email := normalizeEmail(creds.Email)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.patients.list(nil) {
		if a.user.Email == email && a.password == creds.Password {
			return marketplace.UserSession{Token: b.issueToken(Principal{Role: marketplace.RolePatient, ID: a.user.ID}), User: a.user}, nil
		}
	}
	return marketplace.UserSession{}, ErrInvalidCredentials
}

func (b *Backend) User(id string) (marketplace.User, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.patients.get(id)
	if !ok {
		return marketplace.User{}, ErrNotFound
	}
	return a.user, nil
}

// UpdateUser changes the editable profile fields. Email and admin flag stay.
func (b *Backend) UpdateUser(id string, in marketplace.User) (marketplace.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.patients.get(id)
	if !ok {
		return marketplace.User{}, ErrNotFound
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		a.user.Name = name
	}
	a.user.Phone = in.Phone
	b.patients.put(a)
	return a.user, nil
}

func (b *Backend) Users() []marketplace.User {
	b.mu.RLock()
	defer b.mu.RUnlock()
	accts := b.patients.list(nil)
	out := make([]marketplace.User, 0, len(accts))
	for _, a := range accts {
		out = append(out, a.user)
	}
	return out
}

func (b *Backend) DeleteUser(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.patients.remove(id) {
		return ErrNotFound
	}
	b.revoke(id)
	return nil
}

func (b *Backend) revoke(id string) {
	for tok, p := range b.tokens {
		if p.ID == id {
			delete(b.tokens, tok)
		}
	}
}

// Doctors

func (b *Backend) RegisterDoctor(reg marketplace.DoctorRegistration) (marketplace.DoctorSession, error) {
	email := normalizeEmail(reg.Email)
	if email == "" || reg.Password == "" || strings.TrimSpace(reg.Name) == "" || reg.Specialization == "" {
		return marketplace.DoctorSession{}, fmt.Errorf("%w: name, email, password and specialization are required", ErrInvalidInput)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.emailInUse(email) {
		return marketplace.DoctorSession{}, ErrEmailTaken
	}
	doc := marketplace.Doctor{
		ID:             newID(),
		Name:           reg.Name,
		Email:          email,
		Specialization: reg.Specialization,
		Experience:     reg.Experience,
		Fees:           reg.Fees,
		ClinicID:       reg.ClinicID,
	}
	if reg.Photo != nil && reg.Photo.Filename != "" {
		doc.Image = "/uploads/doctors/" + doc.ID + "/" + reg.Photo.Filename
	}
	b.doctors.put(doctorAccount{password: reg.Password, doctor: doc})
	return marketplace.DoctorSession{Token: b.issueToken(Principal{Role: marketplace.RoleDoctor, ID: doc.ID}), Doctor: doc}, nil
}

func (b *Backend) LoginDoctor(creds marketplace.Credentials) (marketplace.DoctorSession, error) {
	email := normalizeEmail(creds.Email)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range b.doctors.list(nil) {
		if d.doctor.Email == email && d.password == creds.Password {
			return marketplace.DoctorSession{Token: b.issueToken(Principal{Role: marketplace.RoleDoctor, ID: d.doctor.ID}), Doctor: d.doctor}, nil
		}
	}
	return marketplace.DoctorSession{}, ErrInvalidCredentials
}

func (b *Backend) Doctors() []marketplace.Doctor {
	b.mu.RLock()
	defer b.mu.RUnlock()
	accts := b.doctors.list(nil)
	out := make([]marketplace.Doctor, 0, len(accts))
	for _, a := range accts {
		out = append(out, a.doctor)
	}
	return out
}

func (b *Backend) Doctor(id string) (marketplace.Doctor, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.doctors.get(id)
	if !ok {
		return marketplace.Doctor{}, ErrNotFound
	}
	return a.doctor, nil
}

func (b *Backend) UpdateDoctor(id string, in marketplace.Doctor) (marketplace.Doctor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.doctors.get(id)
	if !ok {
		return marketplace.Doctor{}, ErrNotFound
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		a.doctor.Name = name
	}
	if in.Specialization != "" {
		a.doctor.Specialization = in.Specialization
	}
	if in.Experience > 0 {
		a.doctor.Experience = in.Experience
	}
	if in.Fees > 0 {
		a.doctor.Fees = in.Fees
	}
	if in.ClinicID != "" {
		a.doctor.ClinicID = in.ClinicID
	}
	b.doctors.put(a)
	return a.doctor, nil
}

func (b *Backend) DeleteDoctor(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.doctors.remove(id) {
		return ErrNotFound
	}
	b.revoke(id)
	return nil
}
