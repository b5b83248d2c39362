package action

import (
	"context"

	"devflow/internal/httperr"
	"devflow/internal/session"
	"devflow/internal/validation"
)

// Options describes what the gateway checks before an operation runs.
type Options[T any] struct {
	Params    *T
	Schema    *validation.Schema[T]
	Authorize bool
	Sessions  session.Provider
}

// Result carries the validated (defaulted) params and the session, which is nil for
// anonymous callers of unauthorized operations.
type Result[T any] struct {
	Params  T
	Session *session.Session
}

// Run validates, then authorizes, stopping at the first failure. A nil Params is
// validated as the zero value of T, so required fields fail rather than pass. It has no
// side effects and performs no I/O beyond asking Sessions for the current session.
func Run[T any](ctx context.Context, opts Options[T]) (Result[T], error) {
	var res Result[T]
	if opts.Params != nil {
		res.Params = *opts.Params
	}

	if opts.Schema != nil {
		validated, err := opts.Schema.Validate(res.Params)
		if err != nil {
			if verrs, ok := err.(*validation.Errors); ok {
				return res, httperr.NewValidationError(verrs.Details())
			}
			return res, err
		}
		res.Params = validated
	}

	if opts.Authorize {
		if opts.Sessions == nil {
			return res, httperr.NewUnauthorizedError()
		}
		s, err := opts.Sessions.Current(ctx)
		if err != nil || s == nil {
			return res, httperr.NewUnauthorizedError()
		}
		res.Session = s
	}

	return res, nil
}
