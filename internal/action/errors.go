package action

import (
	"errors"
	"net/http"

	"devflow/internal/httperr"
	"devflow/internal/logger"
	"devflow/internal/validation"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Mode selects how a failure is delivered. ModeAPI failures become the HTTP status of
// a JSON response; ModeServer failures are returned to in-process callers with the
// status inside the envelope.
type Mode int

const (
	ModeServer Mode = iota
	ModeAPI
)

func (m Mode) String() string {
	if m == ModeAPI {
		return "api"
	}
	return "server"
}

const (
	unexpectedMessage = "Unexpected error occurred"
	timeoutMessage    = "Request timed out"
)

// Failure is a normalized failure.
type Failure struct {
	Status int
	Body   ErrorBody
}

// HandleError classifies failure, logs it exactly once and returns the status and body
// to send. It never panics; failure may be any value, including a recovered panic.
func HandleError(failure any, mode Mode) Failure {
	f, kind, cause := classify(failure)

	fields := []zap.Field{
		zap.Int("status", f.Status),
		zap.String("kind", kind),
		zap.String("mode", mode.String()),
	}
	var schema *validation.Errors
	if errors.As(cause, &schema) {
		fields = append(fields, zap.Strings("fields", schema.Fields()))
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	} else if failure != nil {
		fields = append(fields, zap.Any("error", failure))
	}

	log := logger.L()
	if f.Status >= http.StatusInternalServerError && kind != "timeout" {
		log.Error("action failed", fields...)
	} else {
		log.Warn("action failed", fields...)
	}
	return f
}

func classify(failure any) (f Failure, kind string, cause error) {
	err, isErr := failure.(error)
	if !isErr || err == nil {
		return Failure{Status: http.StatusInternalServerError, Body: ErrorBody{Message: unexpectedMessage}}, "unexpected", nil
	}

	var (
		reqErr  *httperr.RequestError
		timeout *httperr.TimeoutError
		schema  *validation.Errors
		verrs   validator.ValidationErrors
	)
	switch {
	case errors.As(err, &reqErr):
		kind = "request"
		if reqErr.Details != nil {
			kind = "validation"
		}
		return Failure{
			Status: reqErr.StatusCode,
			Body:   ErrorBody{Message: reqErr.Message, Details: reqErr.Details},
		}, kind, err
	case errors.As(err, &timeout):
		return Failure{Status: http.StatusGatewayTimeout, Body: ErrorBody{Message: timeoutMessage}}, "timeout", err
	case errors.As(err, &schema):
		return validationFailure(schema.Details()), "validation", err
	case errors.As(err, &verrs):
		return validationFailure(validation.FromValidator(verrs)), "validation", err
	default:
		msg := err.Error()
		if msg == "" {
			msg = unexpectedMessage
		}
		return Failure{Status: http.StatusInternalServerError, Body: ErrorBody{Message: msg}}, "error", err
	}
}

func validationFailure(details map[string][]string) Failure {
	return Failure{
		Status: http.StatusBadRequest,
		Body:   ErrorBody{Message: "Validation failed", Details: details},
	}
}
