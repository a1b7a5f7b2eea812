package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JustAdi10/Booking/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	assert.Equal(t, "test error message", f.Error())
}

func TestPredefinedFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure *failure.Failure
		code    int
		kind    failure.Kind
	}{
		{name: "ForbiddenError", failure: failure.ForbiddenError, code: http.StatusForbidden, kind: failure.KindForbidden},
		{name: "ResourceRestrictedError", failure: failure.ResourceRestrictedError, code: http.StatusForbidden, kind: failure.KindForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.failure.Code)
			assert.Equal(t, tt.kind, tt.failure.Kind)
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		kind    failure.Kind
		message string
	}{
		{
			name:    "bad request from error",
			err:     failure.BadRequest(errors.New("validation failed")),
			code:    http.StatusBadRequest,
			kind:    failure.KindValidation,
			message: "validation failed",
		},
		{
			name:    "bad request from string",
			err:     failure.BadRequestFromString("startDate is required"),
			code:    http.StatusBadRequest,
			kind:    failure.KindValidation,
			message: "startDate is required",
		},
		{
			name:    "invalid state",
			err:     failure.InvalidState("Booking cannot be cancelled"),
			code:    http.StatusBadRequest,
			kind:    failure.KindInvalidState,
			message: "Booking cannot be cancelled",
		},
		{
			name:    "not found",
			err:     failure.NotFound("booking not found"),
			code:    http.StatusNotFound,
			kind:    failure.KindNotFound,
			message: "booking not found",
		},
		{
			name:    "conflict",
			err:     failure.Conflict("The selected dates are not available"),
			code:    http.StatusConflict,
			kind:    failure.KindConflict,
			message: "The selected dates are not available",
		},
		{
			name:    "forbidden",
			err:     failure.Forbidden("Access denied"),
			code:    http.StatusForbidden,
			kind:    failure.KindForbidden,
			message: "Access denied",
		},
		{
			name:    "unauthorized",
			err:     failure.Unauthorized("Missing authorization header"),
			code:    http.StatusUnauthorized,
			kind:    failure.KindUnauthorized,
			message: "Missing authorization header",
		},
		{
			name:    "internal",
			err:     failure.InternalError(errors.New("boom")),
			code:    http.StatusInternalServerError,
			kind:    failure.KindInternal,
			message: "boom",
		},
		{
			name:    "unimplemented",
			err:     failure.Unimplemented("Calendar"),
			code:    http.StatusNotImplemented,
			kind:    failure.KindUnimplemented,
			message: "Calendar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, failure.GetCode(tt.err))
			assert.Equal(t, tt.kind, failure.GetKind(tt.err))
			assert.True(t, failure.IsKind(tt.err, tt.kind))
			assert.EqualError(t, tt.err, tt.message)
		})
	}
}

func TestNilInputs(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestGetCodeAndKind_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("failed to create booking: %w", failure.Conflict("The selected dates are not available"))

	assert.Equal(t, http.StatusConflict, failure.GetCode(wrapped))
	assert.True(t, failure.IsKind(wrapped, failure.KindConflict))
}

func TestNew_UnknownKind(t *testing.T) {
	f := failure.New(failure.Kind("TEAPOT"), "short and stout")

	assert.Equal(t, http.StatusInternalServerError, f.Code)
	assert.Equal(t, failure.Kind("TEAPOT"), failure.GetKind(f))
}

func TestGetCodeAndKind_PlainError(t *testing.T) {
	err := errors.New("database down")

	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	assert.Equal(t, failure.KindInternal, failure.GetKind(err))
	assert.False(t, failure.IsKind(nil, failure.KindInternal))
}
