package response

import (
	"encoding/json"
	"net/http"

	"github.com/JustAdi10/Booking/shared/constant"
	"github.com/JustAdi10/Booking/shared/failure"
	"github.com/JustAdi10/Booking/shared/logger"
)

// Envelope is the body of every response: {success, data?, error?, message?}.
type Envelope struct {
	Success bool    `json:"success"`
	Data    any     `json:"data,omitempty"`
	Error   *string `json:"error,omitempty"`
	Message *string `json:"message,omitempty"`
}

// Data documents a successful payload of type T.
type Data[T any] struct {
	Success bool    `json:"success" example:"true"`
	Data    T       `json:"data"`
	Message *string `json:"message,omitempty"`
}

type Error struct {
	Success bool    `json:"success" example:"false"`
	Error   *string `json:"error,omitempty"`
}

type Message struct {
	Success bool    `json:"success" example:"true"`
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Envelope{Success: code < http.StatusBadRequest, Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Envelope{Success: true, Data: payload})
}

// WithJSONMessage sends the payload together with a human readable message.
func WithJSONMessage(writer http.ResponseWriter, code int, payload any, message string) {
	write(writer, code, Envelope{Success: true, Data: payload, Message: &message})
}

// WithError answers with the status carried by err. Unclassified errors never leak their text.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)

	text := err.Error()
	if code >= http.StatusInternalServerError {
		text = http.StatusText(code)
	}

	write(writer, code, Envelope{Error: &text})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, envelope Envelope) {
	body, err := json.Marshal(envelope)
	if err != nil {
		logger.ErrorWithStack(err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
