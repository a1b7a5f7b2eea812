package otel_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JustAdi10/Booking/infras/otel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScope(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "booking.Create")
	scope := otel.NewScope(span)

	scope.SetAttributes(map[string]any{
		"booking.type": "ROOM",
		"guests":       2,
		"locked":       true,
		"amount":       5000.0,
	})
	scope.TraceIfError(nil)
	scope.TraceError(errors.New("The selected dates are not available"))
	scope.AddEvent("conflict")
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	ended := spans[0]
	assert.Equal(t, "booking.Create", ended.Name())
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Equal(t, "The selected dates are not available", ended.Status().Description)
	assert.Len(t, ended.Attributes(), 4)

	names := []string{}
	for _, event := range ended.Events() {
		names = append(names, event.Name)
	}

	assert.Contains(t, names, "conflict")
}

func TestScope_TraceIfErrorSeesFinalResult(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	run := func() (err error) {
		_, span := provider.Tracer("test").Start(context.Background(), "booking.Cancel")
		scope := otel.NewScope(span)

		defer scope.End()
		defer scope.TraceIfError(&err)

		err = errors.New("Booking already cancelled")

		return err
	}

	require.Error(t, run())

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "Booking already cancelled", spans[0].Status().Description)
}
