package response_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JustAdi10/Booking/infras/otel/mocks"
	"github.com/JustAdi10/Booking/shared/failure"
	"github.com/JustAdi10/Booking/transport/http/response"

	"github.com/stretchr/testify/assert"
)

type cancelRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func TestBind(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantCode int
	}{
		{name: "valid", body: `{"reason":"plans changed"}`, wantOK: true, wantCode: http.StatusOK},
		{name: "missing field", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "malformed", body: `{"reason":`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(tt.body))

			var req cancelRequest

			ok := response.Bind(recorder, request, mocks.NewScope(), &req)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCode, recorder.Code)

			if ok {
				assert.Equal(t, "plans changed", req.Reason)
			}
		})
	}
}

func TestFailed(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.Failed(recorder, mocks.NewScope(), failure.NotFound("Booking not found"), "failed to get booking")

	body := decode(t, recorder)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "Booking not found", body["error"])
}
