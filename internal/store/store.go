// Package store composes every domain container into one state tree and runs
// asynchronous operations against the backend. A Store is built once and
// handed to whoever renders or drives the client; there is no global instance.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
	"github.com/hackgods/healthcare-marketplace/internal/notify"
	"github.com/hackgods/healthcare-marketplace/internal/remote"
	"github.com/hackgods/healthcare-marketplace/internal/session"
	"github.com/hackgods/healthcare-marketplace/internal/state"
)

var ErrBlocked = errors.New("login required")

// Operation is one asynchronous interaction with the backend.
type Operation struct {
	Type    string
	Arg     any
	Call    func(ctx context.Context) (any, error)
	Success string // notification shown on success, empty for none
	Quiet   bool   // no failure notification
}

// Result is how an operation settled. Err carries the normalized failure,
// which is also recorded in the owning container.
type Result struct {
	Payload any
	Err     error
	Blocked bool
}

// DispatchFunc forwards an action and reports whether it was accepted.
type DispatchFunc func(a state.Action) bool

// MiddlewareAPI is what a middleware can see of the store.
type MiddlewareAPI struct {
	GetState func() State
	Notifier notify.Notifier
}

type Middleware func(api MiddlewareAPI, next DispatchFunc) DispatchFunc

type Deps struct {
	Client   *remote.Client
	Session  session.Storage
	Notifier notify.Notifier
	Logger   zerolog.Logger
	// Middleware replaces the default chain, which is only the patient auth guard.
	Middleware []Middleware
}

type Store struct {
	client   *remote.Client
	session  session.Storage
	notifier notify.Notifier
	logger   zerolog.Logger

	mu    sync.RWMutex
	state State

	dispatch DispatchFunc

	subMu      sync.Mutex
	subs       map[int]func(State)
	nextSub    int
	publishing bool
	dirty      bool
}

// New builds a store and restores both identities from session storage.
func New(ctx context.Context, deps Deps) (*Store, error) {
	if deps.Client == nil {
		return nil, errors.New("store: remote client is required")
	}
	if deps.Session == nil {
		deps.Session = session.NewMemory()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewLogNotifier(deps.Logger)
	}
	if deps.Middleware == nil {
		deps.Middleware = []Middleware{AuthGuard(PatientOnly)}
	}

	s := &Store{
		client:   deps.Client,
		session:  deps.Session,
		notifier: deps.Notifier,
		logger:   deps.Logger,
		subs:     make(map[int]func(State)),
	}

	initial, err := restoreIdentities(ctx, deps.Session, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("store: restore session: %w", err)
	}
	s.state = initial

	api := MiddlewareAPI{GetState: s.State, Notifier: s.notifier}
	next := DispatchFunc(s.reduce)
	for i := len(deps.Middleware) - 1; i >= 0; i-- {
		next = deps.Middleware[i](api, next)
	}
	s.dispatch = next

	return s, nil
}

// State returns the current tree. Collections inside it are never mutated in
// place, so the snapshot stays valid after later dispatches.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch sends a through the middleware chain into the reducers.
func (s *Store) Dispatch(a state.Action) bool {
	return s.dispatch(a)
}

// Subscribe registers fn to receive the tree after every accepted action.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) reduce(a state.Action) bool {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	s.mu.Unlock()

	s.publish()
	return true
}

// publish delivers the current tree to every listener. Only one goroutine
// delivers at a time and it re-reads the tree for every round, so listeners
// never see an older tree after a newer one. Dispatches made while a round is
// running, including from inside a listener, are folded into the next round.
func (s *Store) publish() {
	s.subMu.Lock()
	s.dirty = true
	if s.publishing {
		s.subMu.Unlock()
		return
	}
	s.publishing = true
	locked := true
	defer func() {
		if !locked {
			s.subMu.Lock()
		}
		s.publishing = false
		s.subMu.Unlock()
	}()

	for s.dirty {
		s.dirty = false
		listeners := make([]func(State), 0, len(s.subs))
		for _, fn := range s.subs {
			listeners = append(listeners, fn)
		}
		s.subMu.Unlock()
		locked = false

		snapshot := s.State()
		for _, fn := range listeners {
			fn(snapshot)
		}
		s.subMu.Lock()
		locked = true
	}
}

// Run dispatches pending, performs the call and dispatches the outcome.
// Failures are folded into state and returned, never panicked.
func (s *Store) Run(ctx context.Context, op Operation) Result {
	if !s.Dispatch(state.Action{Type: op.Type, Phase: state.Pending, Arg: op.Arg}) {
		return Result{Blocked: true, Err: ErrBlocked}
	}

	payload, err := op.Call(ctx)
	if err != nil {
		msg := remote.Message(err)
		s.Dispatch(state.Action{Type: op.Type, Phase: state.Rejected, Arg: op.Arg, Err: msg})
		if !op.Quiet {
			s.notifier.Notify(notify.Error, msg)
		}
		return Result{Err: err}
	}

	s.Dispatch(state.Action{Type: op.Type, Phase: state.Fulfilled, Arg: op.Arg, Payload: payload})
	if op.Success != "" {
		s.notifier.Notify(notify.Success, op.Success)
	}
	return Result{Payload: payload}
}

// Go runs op on its own goroutine. The channel yields exactly one Result.
func (s *Store) Go(ctx context.Context, op Operation) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		ch <- s.Run(ctx, op)
	}()
	return ch
}

func operation[T any](typ string, arg any, fn func(ctx context.Context) (T, error)) Operation {
	return Operation{
		Type: typ,
		Arg:  arg,
		Call: func(ctx context.Context) (any, error) {
			v, err := fn(ctx)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

func deletion(typ, id string, fn func(ctx context.Context, id string) error) Operation {
	return Operation{
		Type: typ,
		Arg:  id,
		Call: func(ctx context.Context) (any, error) {
			return nil, fn(ctx, id)
		},
	}
}

func (o Operation) notifying(success string) Operation {
	o.Success = success
	return o
}

func (o Operation) quiet() Operation {
	o.Quiet = true
	return o
}

func run[T any](ctx context.Context, s *Store, op Operation) (T, error) {
	res := s.Run(ctx, op)
	var zero T
	if res.Err != nil {
		return zero, res.Err
	}
	v, _ := res.Payload.(T)
	return v, nil
}

func restoreIdentities(ctx context.Context, store session.Storage, logger zerolog.Logger) (State, error) {
	var st State

	user, tok, err := restoreIdentity[marketplace.User](ctx, store, logger, session.KeyUser, session.KeyUserToken)
	if err != nil {
		return State{}, err
	}
	if user != nil {
		st.Auth = st.Auth.SignIn(*user, tok)
	}

	doctor, tok, err := restoreIdentity[marketplace.Doctor](ctx, store, logger, session.KeyDoctor, session.KeyDoctorToken)
	if err != nil {
		return State{}, err
	}
	if doctor != nil {
		st.DoctorAuth = st.DoctorAuth.SignIn(*doctor, tok)
	}

	return st, nil
}

// restoreIdentity loads one role's principal and token. Missing keys leave the
// role signed out. A principal that no longer decodes is dropped together with
// its token, so a damaged entry cannot lock the client out.
func restoreIdentity[P any](ctx context.Context, store session.Storage, logger zerolog.Logger, principalKey, tokenKey string) (*P, string, error) {
	var p P
	err := session.LoadJSON(ctx, store, principalKey, &p)
	switch {
	case errors.Is(err, session.ErrNotFound):
		return nil, "", nil
	case errors.Is(err, session.ErrCorrupt):
		logger.Warn().Err(err).Str("key", principalKey).Msg("discarding unreadable session")
		if err := store.Delete(ctx, principalKey, tokenKey); err != nil {
			return nil, "", fmt.Errorf("clear %s session: %w", principalKey, err)
		}
		return nil, "", nil
	case err != nil:
		return nil, "", err
	}

	tok, err := store.Get(ctx, tokenKey)
	if errors.Is(err, session.ErrNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return &p, tok, nil
}
