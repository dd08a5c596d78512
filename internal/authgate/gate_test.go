package authgate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
	"github.com/hackgods/healthcare-marketplace/internal/store"
)

type fixedState struct{ st store.State }

func (f *fixedState) State() store.State { return f.st }

func signedIn(patient, admin, doctor bool) store.State {
	var st store.State
	if patient {
		st.Auth = st.Auth.SignIn(marketplace.User{ID: "u1", IsAdmin: admin}, "patient-token")
	}
	if doctor {
		st.DoctorAuth = st.DoctorAuth.SignIn(marketplace.Doctor{ID: "d1"}, "doctor-token")
	}
	return st
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		state store.State
		role  marketplace.Role
		want  Decision
	}{
		{"patient allowed", signedIn(true, false, false), marketplace.RolePatient, Decision{Allowed: true, Target: "/cart"}},
		{"patient redirected", signedIn(false, false, false), marketplace.RolePatient, Decision{Redirect: "/login", Target: "/cart"}},
		{"doctor allowed", signedIn(false, false, true), marketplace.RoleDoctor, Decision{Allowed: true, Target: "/cart"}},
		{"patient session does not open doctor views", signedIn(true, false, false), marketplace.RoleDoctor, Decision{Redirect: "/doctor/login", Target: "/cart"}},
		{"doctor session does not open patient views", signedIn(false, false, true), marketplace.RolePatient, Decision{Redirect: "/login", Target: "/cart"}},
		{"admin allowed", signedIn(true, true, false), marketplace.RoleAdmin, Decision{Allowed: true, Target: "/cart"}},
		{"non-admin patient", signedIn(true, false, false), marketplace.RoleAdmin, Decision{Redirect: "/login", Target: "/cart"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.state, tt.role, "/cart"))
		})
	}
}

func TestCheckIsRecomputed(t *testing.T) {
	src := &fixedState{st: signedIn(true, false, false)}
	gate := New(src)

	assert.True(t, gate.Check(marketplace.RolePatient, "/appointments").Allowed)

	src.st.Auth = src.st.Auth.SignOut()
	d := gate.Check(marketplace.RolePatient, "/appointments")
	assert.False(t, d.Allowed)
	assert.Equal(t, PatientLogin, d.Redirect)
	assert.Equal(t, "/appointments", d.Target)
}
