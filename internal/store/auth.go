package store

import (
	"context"
	"fmt"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
	"github.com/hackgods/healthcare-marketplace/internal/notify"
	"github.com/hackgods/healthcare-marketplace/internal/session"
	"github.com/hackgods/healthcare-marketplace/internal/state"
)

const (
	OpLogin         = KeyAuth + "/login"
	OpRegister      = KeyAuth + "/register"
	OpFetchProfile  = KeyAuth + "/fetchProfile"
	OpUpdateProfile = KeyAuth + "/updateProfile"
	OpLogout        = KeyAuth + "/logout"

	OpDoctorLogin         = KeyDoctorAuth + "/login"
	OpDoctorRegister      = KeyDoctorAuth + "/register"
	OpDoctorUpdateProfile = KeyDoctorAuth + "/updateProfile"
	OpDoctorLogout        = KeyDoctorAuth + "/logout"
)

// Login signs a patient in and persists the token and profile.
func (s *Store) Login(ctx context.Context, creds marketplace.Credentials) (marketplace.UserSession, error) {
	op := operation(OpLogin, creds.Email, func(ctx context.Context) (marketplace.UserSession, error) {
		sess, err := s.client.Users().Login(ctx, creds)
		if err != nil {
			_ = s.session.Delete(ctx, session.KeyUser, session.KeyUserToken)
			return sess, err
		}
		return sess, s.persistUser(ctx, sess)
	}).notifying("Login successful")
	return run[marketplace.UserSession](ctx, s, op)
}

func (s *Store) Register(ctx context.Context, reg marketplace.UserRegistration) (marketplace.UserSession, error) {
	op := operation(OpRegister, reg.Email, func(ctx context.Context) (marketplace.UserSession, error) {
		sess, err := s.client.Users().Register(ctx, reg)
		if err != nil {
			return sess, err
		}
		return sess, s.persistUser(ctx, sess)
	}).notifying("Registration successful")
	return run[marketplace.UserSession](ctx, s, op)
}

func (s *Store) FetchProfile(ctx context.Context) (marketplace.User, error) {
	op := operation(OpFetchProfile, nil, s.client.Users().Profile).quiet()
	return run[marketplace.User](ctx, s, op)
}

func (s *Store) UpdateProfile(ctx context.Context, user marketplace.User) (marketplace.User, error) {
	op := operation(OpUpdateProfile, user.ID, func(ctx context.Context) (marketplace.User, error) {
		updated, err := s.client.Users().UpdateProfile(ctx, user)
		if err != nil {
			return updated, err
		}
		if err := session.SaveJSON(ctx, s.session, session.KeyUser, updated); err != nil {
			return updated, fmt.Errorf("save profile: %w", err)
		}
		return updated, nil
	}).notifying("Profile updated")
	return run[marketplace.User](ctx, s, op)
}

// Logout clears the persisted patient keys, which is the only logout mechanism.
func (s *Store) Logout(ctx context.Context) error {
	err := s.session.Delete(ctx, session.KeyUser, session.KeyUserToken)
	s.Dispatch(state.Action{Type: OpLogout})
	if err != nil {
		return fmt.Errorf("clear patient session: %w", err)
	}
	s.notifier.Notify(notify.Info, "Logged out")
	return nil
}

func (s *Store) DoctorLogin(ctx context.Context, creds marketplace.Credentials) (marketplace.DoctorSession, error) {
	op := operation(OpDoctorLogin, creds.Email, func(ctx context.Context) (marketplace.DoctorSession, error) {
		sess, err := s.client.Doctors().Login(ctx, creds)
		if err != nil {
			_ = s.session.Delete(ctx, session.KeyDoctor, session.KeyDoctorToken)
			return sess, err
		}
		return sess, s.persistDoctor(ctx, sess)
	}).notifying("Login successful")
	return run[marketplace.DoctorSession](ctx, s, op)
}

func (s *Store) DoctorRegister(ctx context.Context, reg marketplace.DoctorRegistration) (marketplace.DoctorSession, error) {
	op := operation(OpDoctorRegister, reg.Email, func(ctx context.Context) (marketplace.DoctorSession, error) {
		sess, err := s.client.Doctors().Register(ctx, reg)
		if err != nil {
			return sess, err
		}
		return sess, s.persistDoctor(ctx, sess)
	}).notifying("Registration successful")
	return run[marketplace.DoctorSession](ctx, s, op)
}

func (s *Store) DoctorUpdateProfile(ctx context.Context, doc marketplace.Doctor) (marketplace.Doctor, error) {
	op := operation(OpDoctorUpdateProfile, doc.ID, func(ctx context.Context) (marketplace.Doctor, error) {
		updated, err := s.client.Doctors().UpdateProfile(ctx, doc)
		if err != nil {
			return updated, err
		}
		if err := session.SaveJSON(ctx, s.session, session.KeyDoctor, updated); err != nil {
			return updated, fmt.Errorf("save profile: %w", err)
		}
		return updated, nil
	}).notifying("Profile updated")
	return run[marketplace.Doctor](ctx, s, op)
}

func (s *Store) DoctorLogout(ctx context.Context) error {
	err := s.session.Delete(ctx, session.KeyDoctor, session.KeyDoctorToken)
	s.Dispatch(state.Action{Type: OpDoctorLogout})
	if err != nil {
		return fmt.Errorf("clear doctor session: %w", err)
	}
	s.notifier.Notify(notify.Info, "Logged out")
	return nil
}

// persistUser saves the patient token and profile. On any failure both keys
// are removed, so no token survives without its profile.
func (s *Store) persistUser(ctx context.Context, sess marketplace.UserSession) error {
	return s.persist(ctx, session.KeyUser, session.KeyUserToken, sess.Token, sess.User)
}

func (s *Store) persistDoctor(ctx context.Context, sess marketplace.DoctorSession) error {
	return s.persist(ctx, session.KeyDoctor, session.KeyDoctorToken, sess.Token, sess.Doctor)
}

func (s *Store) persist(ctx context.Context, principalKey, tokenKey, token string, principal any) error {
	err := s.session.Set(ctx, tokenKey, token)
	if err != nil {
		err = fmt.Errorf("save token: %w", err)
	} else if err = session.SaveJSON(ctx, s.session, principalKey, principal); err != nil {
		err = fmt.Errorf("save %s: %w", principalKey, err)
	}
	if err != nil {
		_ = s.session.Delete(ctx, principalKey, tokenKey)
		return err
	}
	return nil
}

func reduceUserIdentity(id state.Identity[marketplace.User], a state.Action) state.Identity[marketplace.User] {
	switch a.Type {
	case OpLogout:
		return id.SignOut().Reset()
	case KeyAuth + "/" + opReset:
		return id.Reset()
	case OpLogin, OpRegister:
		id.Tracker = id.Tracker.Track(a)
		switch a.Phase {
		case state.Fulfilled:
			if sess, ok := a.Payload.(marketplace.UserSession); ok {
				id = id.SignIn(sess.User, sess.Token)
			}
		case state.Rejected:
			if a.Type == OpLogin {
				id = id.SignOut()
			}
		}
	case OpFetchProfile, OpUpdateProfile:
		id.Tracker = id.Tracker.Track(a)
		if u, ok := a.Payload.(marketplace.User); ok && a.Phase == state.Fulfilled && id.Principal != nil {
			id.Principal = &u
		}
	}
	return id
}

func reduceDoctorIdentity(id state.Identity[marketplace.Doctor], a state.Action) state.Identity[marketplace.Doctor] {
	switch a.Type {
	case OpDoctorLogout:
		return id.SignOut().Reset()
	case KeyDoctorAuth + "/" + opReset:
		return id.Reset()
	case OpDoctorLogin, OpDoctorRegister:
		id.Tracker = id.Tracker.Track(a)
		switch a.Phase {
		case state.Fulfilled:
			if sess, ok := a.Payload.(marketplace.DoctorSession); ok {
				id = id.SignIn(sess.Doctor, sess.Token)
			}
		case state.Rejected:
			if a.Type == OpDoctorLogin {
				id = id.SignOut()
			}
		}
	case OpDoctorUpdateProfile:
		id.Tracker = id.Tracker.Track(a)
		if d, ok := a.Payload.(marketplace.Doctor); ok && a.Phase == state.Fulfilled && id.Principal != nil {
			id.Principal = &d
		}
	}
	return id
}
