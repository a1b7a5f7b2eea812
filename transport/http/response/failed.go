package response

import (
	"net/http"

	"github.com/JustAdi10/Booking/infras/otel"
	"github.com/JustAdi10/Booking/shared/failure"
	"github.com/JustAdi10/Booking/shared/validator"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Failed records err on the handler span, logs it and writes the error body.
// Client mistakes are logged at warn so they do not drown server faults.
func Failed(writer http.ResponseWriter, scope otel.Scope, err error, msg string) {
	scope.TraceError(err)

	level := zerolog.WarnLevel
	if failure.GetCode(err) >= http.StatusInternalServerError {
		level = zerolog.ErrorLevel
	}

	log.WithLevel(level).Err(err).Msg(msg)

	WithError(writer, err)
}

// Bind decodes and validates the request body into dst.
// It reports false once the error response has been written.
func Bind[T any](writer http.ResponseWriter, request *http.Request, scope otel.Scope, dst *T) bool {
	if err := validator.Validate(request.Body, dst); err != nil {
		Failed(writer, scope, err, "failed to validate request body")

		return false
	}

	return true
}
