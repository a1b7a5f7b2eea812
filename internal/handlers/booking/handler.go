package booking

import (
	"net/http"

	"github.com/JustAdi10/Booking/infras/otel"
	"github.com/JustAdi10/Booking/internal/domains/booking/model"
	"github.com/JustAdi10/Booking/internal/domains/booking/model/dto"
	"github.com/JustAdi10/Booking/internal/domains/booking/service"
	"github.com/JustAdi10/Booking/shared"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/validator"
	"github.com/JustAdi10/Booking/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/my-bookings", handler.GetMyBookings)
		routerGroup.Get("/calendar", handler.GetCalendar)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Put("/{id}", handler.UpdateBooking)
		routerGroup.Delete("/{id}", handler.CancelBooking)
	})
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Book a ground facility or a room. The window must be free of pending and confirmed bookings.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Booking created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	var req dto.CreateBookingRequest
	if !response.Bind(writer, request, scope, &req) {
		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		response.Failed(writer, scope, err, "failed to create booking")

		return
	}

	response.WithJSONMessage(writer, http.StatusCreated, booking, "Booking created successfully")
}

// GetBookings retrieves bookings based on query parameters.
// @Summary Get all bookings
// @Description Admins see every booking; other users only their own.
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param user_id query string false "Filter by user (admin only)"
// @Param facility_id query string false "Filter by facility"
// @Param room_id query string false "Filter by room"
// @Param booking_type query string false "GROUND or ROOM"
// @Param status query string false "Filter by status"
// @Param start_date query string false "Window start"
// @Param end_date query string false "Window end"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	filter := dto.BookingFilter{}

	if err := filter.FromRequest(request); err != nil {
		response.Failed(writer, scope, err, "invalid query parameters")

		return
	}

	if err := validator.ValidateStruct(&filter); err != nil {
		response.Failed(writer, scope, err, "failed to validate booking filter")

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		response.Failed(writer, scope, err, "failed to get bookings")

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetMyBookings lists the caller's bookings ordered by start date.
// @Summary Get my bookings
// @Tags Booking
// @Produce json
// @Param status query string false "Filter by status"
// @Param upcoming query boolean false "Only bookings that have not started"
// @Success 200 {object} response.Data[[]dto.BookingResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/my-bookings [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	query := request.URL.Query()
	status := query.Get(model.FieldStatus)

	if err := validator.ValidateVar(status, "omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED"); err != nil {
		response.Failed(writer, scope, err, "invalid query parameters")

		return
	}

	upcoming := shared.ConvertStringToBool(query.Get("upcoming"))

	bookings, err := handler.service.MyBookings(ctx, status, upcoming != nil && *upcoming)
	if err != nil {
		response.Failed(writer, scope, err, "failed to get my bookings")

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetCalendar maps active bookings inside a range to calendar events.
// @Summary Get booking calendar
// @Tags Booking
// @Produce json
// @Param start query string true "Range start"
// @Param end query string true "Range end"
// @Param facility_id query string false "Filter by facility"
// @Param room_id query string false "Filter by room"
// @Success 200 {object} response.Data[[]dto.CalendarEvent] "Calendar events"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/calendar [get]
// @Security BearerAuth
func (handler *Handler) GetCalendar(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCalendar")
	defer scope.End()

	req := dto.CalendarRequest{}
	req.FromRequest(request)

	events, err := handler.service.Calendar(ctx, req)
	if err != nil {
		response.Failed(writer, scope, err, "failed to get booking calendar")

		return
	}

	response.WithJSON(writer, http.StatusOK, events)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Description Owner or admin only.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		response.Failed(writer, scope, err, "failed to get booking by ID")

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// UpdateBooking applies a partial update.
// @Summary Update a booking by ID
// @Description Pending bookings are editable by their owner. Admins may only change the status of confirmed bookings.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Update Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	var req dto.UpdateBookingRequest
	if !response.Bind(writer, request, scope, &req) {
		return
	}

	booking, err := handler.service.Update(ctx, req, id)
	if err != nil {
		response.Failed(writer, scope, err, "failed to update booking")

		return
	}

	response.WithJSONMessage(writer, http.StatusOK, booking, "Booking updated successfully")
}

// CancelBooking cancels a pending or confirmed booking.
// @Summary Cancel a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking cancelled successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) CancelBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	booking, err := handler.service.Cancel(ctx, id)
	if err != nil {
		response.Failed(writer, scope, err, "failed to cancel booking")

		return
	}

	response.WithJSONMessage(writer, http.StatusOK, booking, "Booking cancelled successfully")
}
