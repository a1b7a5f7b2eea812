package failure

import (
	"errors"
	"net/http"
)

// Kind classifies a Failure independently of its transport code.
type Kind string

const (
	KindValidation    Kind = "VALIDATION"
	KindNotFound      Kind = "NOT_FOUND"
	KindConflict      Kind = "CONFLICT"
	KindInvalidState  Kind = "INVALID_STATE"
	KindForbidden     Kind = "FORBIDDEN"
	KindUnauthorized  Kind = "UNAUTHORIZED"
	KindInternal      Kind = "INTERNAL"
	KindUnimplemented Kind = "UNIMPLEMENTED"
)

var statusByKind = map[Kind]int{
	KindValidation:    http.StatusBadRequest,
	KindInvalidState:  http.StatusBadRequest,
	KindNotFound:      http.StatusNotFound,
	KindConflict:      http.StatusConflict,
	KindForbidden:     http.StatusForbidden,
	KindUnauthorized:  http.StatusUnauthorized,
	KindInternal:      http.StatusInternalServerError,
	KindUnimplemented: http.StatusNotImplemented,
}

// Failure is an error that carries the HTTP status it should be answered with.
// Message is shown to clients verbatim.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

var (
	ForbiddenError          = New(KindForbidden, "You don't have the required permissions")
	ResourceRestrictedError = New(KindForbidden, "You don't have permission to access this resource")
)

// New builds a Failure whose code follows from kind.
func New(kind Kind, message string) *Failure {
	code, ok := statusByKind[kind]
	if !ok {
		code = http.StatusInternalServerError
	}

	return &Failure{Code: code, Message: message, Kind: kind}
}

func (e *Failure) Error() string {
	return e.Message
}

func fromError(kind Kind, err error) error {
	if err == nil {
		return nil
	}

	return New(kind, err.Error())
}

// BadRequest turns err into a validation failure. A nil err stays nil.
func BadRequest(err error) error {
	return fromError(KindValidation, err)
}

func BadRequestFromString(msg string) error {
	return New(KindValidation, msg)
}

// InvalidState reports an operation that is not permitted from the entity's current status.
func InvalidState(msg string) error {
	return New(KindInvalidState, msg)
}

func Unauthorized(msg string) error {
	return New(KindUnauthorized, msg)
}

// InternalError exposes err's text with a 500. A nil err stays nil.
func InternalError(err error) error {
	return fromError(KindInternal, err)
}

func Unimplemented(methodName string) error {
	return New(KindUnimplemented, methodName)
}

func NotFound(msg string) error {
	return New(KindNotFound, msg)
}

// Conflict is used for overlapping bookings and unique violations.
func Conflict(msg string) error {
	return New(KindConflict, msg)
}

func Forbidden(msg string) error {
	return New(KindForbidden, msg)
}

func as(err error) (*Failure, bool) {
	var fail *Failure
	ok := errors.As(err, &fail)

	return fail, ok
}

// GetCode returns the HTTP status of err, 500 when it is not a Failure.
func GetCode(err error) int {
	if fail, ok := as(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the kind of err, KindInternal when it is not a Failure.
func GetKind(err error) Kind {
	if fail, ok := as(err); ok && fail.Kind != "" {
		return fail.Kind
	}

	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && GetKind(err) == kind
}
