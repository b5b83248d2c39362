// Package action is the common path every domain operation takes: the gateway that
// validates and authorizes a call, and the normalizer that turns any failure into
// the uniform response envelope.
package action

// ErrorBody is the error half of the envelope.
type ErrorBody struct {
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

// Response is the envelope returned by every domain operation. Status is the HTTP
// status the failure (or success) maps to.
type Response[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data,omitzero"`
	Error   *ErrorBody `json:"error,omitempty"`
	Status  int        `json:"status,omitempty"`
}

// OK wraps data in a successful response.
func OK[T any](data T) Response[T] {
	return Response[T]{Success: true, Data: data, Status: 200}
}

// Fail normalizes err and logs it once.
func Fail[T any](err error) Response[T] {
	f := HandleError(err, ModeServer)
	return Response[T]{Success: false, Error: &f.Body, Status: f.Status}
}

// Propagate re-types a failed response without normalizing or logging it again.
func Propagate[T, U any](r Response[U]) Response[T] {
	return Response[T]{Success: false, Error: r.Error, Status: r.Status}
}

// FailAPI is Fail for failures that end an HTTP request outside any domain operation,
// such as a recovered panic or a malformed body. failure may be any value.
func FailAPI[T any](failure any) Response[T] {
	f := HandleError(failure, ModeAPI)
	return Response[T]{Success: false, Error: &f.Body, Status: f.Status}
}
