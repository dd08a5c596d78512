// Package state holds the generic pieces every domain container is built from:
// the request lifecycle, actions, and the pure reducers that fold settled
// requests into client-side collections.
package state

import "strings"

type Phase int

const (
	Idle Phase = iota
	Pending
	Fulfilled
	Rejected
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "idle"
	}
}

// Request is the lifecycle of one asynchronous operation.
// Only one phase is current at a time, so the derived flags can never disagree.
type Request struct {
	Phase  Phase
	Reason string
}

func (r Request) Begin() Request {
	return Request{Phase: Pending}
}

func (r Request) Fulfill() Request {
	return Request{Phase: Fulfilled}
}

func (r Request) Reject(reason string) Request {
	return Request{Phase: Rejected, Reason: reason}
}

// Status is the flag view of a Request read by the presentation layer.
type Status struct {
	IsLoading bool
	IsSuccess bool
	IsError   bool
	Message   string
}

func (r Request) Status() Status {
	return Status{
		IsLoading: r.Phase == Pending,
		IsSuccess: r.Phase == Fulfilled,
		IsError:   r.Phase == Rejected,
		Message:   r.Reason,
	}
}

// Action is what reducers fold into state. Type is "<domain>/<operation>".
type Action struct {
	Type    string
	Phase   Phase
	Arg     any
	Payload any
	Err     string
}

// Domain returns the part of Type before the first slash.
func (a Action) Domain() string {
	domain, _, _ := strings.Cut(a.Type, "/")
	return domain
}

// Apply moves r according to the phase of a. Idle actions leave r alone.
func (r Request) Apply(a Action) Request {
	switch a.Phase {
	case Pending:
		return r.Begin()
	case Fulfilled:
		return r.Fulfill()
	case Rejected:
		return r.Reject(a.Err)
	default:
		return r
	}
}
