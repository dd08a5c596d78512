package store

import (
	"github.com/rs/zerolog"

	"github.com/hackgods/healthcare-marketplace/internal/notify"
	"github.com/hackgods/healthcare-marketplace/internal/state"
)

const loginRequired = "Please login to continue"

// PatientOnly lists the operations that need a signed-in patient before any
// request is sent.
var PatientOnly = map[string]bool{
	OpFetchCart:          true,
	OpAddToCart:          true,
	OpUpdateCartQuantity: true,
	OpRemoveFromCart:     true,
	OpClearCart:          true,
	OpCreateOrder:        true,
	OpCheckAvailability:  true,
	OpBookAppointment:    true,
	OpBookLabTest:        true,
}

// AuthGuard stops pending actions listed in guarded while no patient is
// authenticated. Blocked actions never reach a reducer and the user is told
// to log in. Everything else passes through unchanged.
func AuthGuard(guarded map[string]bool) Middleware {
	return func(api MiddlewareAPI, next DispatchFunc) DispatchFunc {
		return func(a state.Action) bool {
			if a.Phase == state.Pending && guarded[a.Type] && !api.GetState().Auth.IsAuthenticated() {
				if api.Notifier != nil {
					api.Notifier.Notify(notify.Warning, loginRequired)
				}
				return false
			}
			return next(a)
		}
	}
}

// Logging records every action that reaches it at debug level. Rejections
// are logged at warn with the recorded message.
func Logging(logger zerolog.Logger) Middleware {
	return func(api MiddlewareAPI, next DispatchFunc) DispatchFunc {
		return func(a state.Action) bool {
			ok := next(a)
			ev := logger.Debug()
			if a.Phase == state.Rejected {
				ev = logger.Warn().Str("error", a.Err)
			}
			ev.Str("action", a.Type).Stringer("phase", a.Phase).Msg("dispatch")
			return ok
		}
	}
}
