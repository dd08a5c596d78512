// Package authgate decides whether a protected view may be entered.
package authgate

import (
	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
	"github.com/hackgods/healthcare-marketplace/internal/store"
)

const (
	PatientLogin = "/login"
	DoctorLogin  = "/doctor/login"
)

// Decision is the outcome of one check. When Allowed is false, Redirect is
// the login view and Target is the view to return to afterwards.
type Decision struct {
	Allowed  bool
	Redirect string
	Target   string
}

// StateSource is satisfied by *store.Store.
type StateSource interface {
	State() store.State
}

type Gate struct {
	src StateSource
}

func New(src StateSource) *Gate {
	return &Gate{src: src}
}

// Check reads the current identities on every call; nothing is cached, so a
// logout is honoured on the next check.
func (g *Gate) Check(role marketplace.Role, target string) Decision {
	return Evaluate(g.src.State(), role, target)
}

// Evaluate is Check against an explicit state.
func Evaluate(st store.State, role marketplace.Role, target string) Decision {
	switch role {
	case marketplace.RoleDoctor:
		if st.DoctorAuth.IsAuthenticated() {
			return Decision{Allowed: true, Target: target}
		}
		return Decision{Redirect: DoctorLogin, Target: target}
	case marketplace.RoleAdmin:
		if st.Auth.IsAuthenticated() && st.Auth.Principal.IsAdmin {
			return Decision{Allowed: true, Target: target}
		}
		return Decision{Redirect: PatientLogin, Target: target}
	default:
		if st.Auth.IsAuthenticated() {
			return Decision{Allowed: true, Target: target}
		}
		return Decision{Redirect: PatientLogin, Target: target}
	}
}
