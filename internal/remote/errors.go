package remote

import (
	"errors"
	"net/http"
)

var ErrNotAuthenticated = errors.New("no token for protected call")

// Error is the single failure shape every resource call returns.
// Status is 0 for transport and precondition failures.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the backend refused the caller's credentials.
func (e *Error) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || errors.Is(e.Err, ErrNotAuthenticated)
}

// Message normalizes any error into the string stored in container state.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var re *Error
	if errors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}
