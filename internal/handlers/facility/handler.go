package facility

import (
	"net/http"

	"github.com/JustAdi10/Booking/infras/otel"
	bookingDto "github.com/JustAdi10/Booking/internal/domains/booking/model/dto"
	bookingService "github.com/JustAdi10/Booking/internal/domains/booking/service"
	"github.com/JustAdi10/Booking/internal/domains/facility/model"
	"github.com/JustAdi10/Booking/internal/domains/facility/model/dto"
	"github.com/JustAdi10/Booking/internal/domains/facility/service"
	roomModel "github.com/JustAdi10/Booking/internal/domains/room/model"
	roomDto "github.com/JustAdi10/Booking/internal/domains/room/model/dto"
	"github.com/JustAdi10/Booking/shared"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/validator"
	"github.com/JustAdi10/Booking/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service  service.Facility
	bookings bookingService.Booking
	otel     otel.Otel
}

func New(service service.Facility, bookings bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		bookings: bookings,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/facilities", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateFacility)
		routerGroup.Get("/", handler.GetFacilities)
		routerGroup.Get("/{id}", handler.GetFacilityByID)
		routerGroup.Put("/{id}", handler.UpdateFacility)
		routerGroup.Delete("/{id}", handler.DeleteFacility)
		routerGroup.Get("/{id}/rooms", handler.GetFacilityRooms)
		routerGroup.Post("/{id}/rooms", handler.AddRoom)
		routerGroup.Get("/{id}/availability", handler.CheckAvailability)
	})
}

// CreateFacility handles the creation of a new facility.
// @Summary Create a new facility
// @Description Create a ground or building facility.
// @Tags Facility
// @Accept json
// @Produce json
// @Param request body dto.CreateFacilityRequest true "Create Facility Request"
// @Success 201 {object} response.Data[dto.FacilityResponse] "Facility created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/facilities [post]
// @Security BearerAuth
func (handler *Handler) CreateFacility(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateFacility")
	defer scope.End()

	var req dto.CreateFacilityRequest
	if !response.Bind(writer, request, scope, &req) {
		return
	}

	facility, err := handler.service.Create(ctx, req)
	if err != nil {
		response.Failed(writer, scope, err, "failed to create facility")

		return
	}

	response.WithJSONMessage(writer, http.StatusCreated, facility, "Facility created successfully")
}

// GetFacilities retrieves facilities based on query parameters.
// @Summary Get all facilities
// @Description Retrieve facilities with optional filtering and pagination.
// @Tags Facility
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param type query string false "GROUND or BUILDING"
// @Param state query string false "Filter by state"
// @Param city query string false "Filter by city"
// @Param active query boolean false "Filter by active status"
// @Param search query string false "Search name, description and location"
// @Success 200 {object} response.Data[dto.GetFacilitiesResponse] "List of facilities"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/facilities [get]
// @Security BearerAuth
func (handler *Handler) GetFacilities(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFacilities")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	filter := dto.FacilityFilter{}
	filter.FromRequest(request)

	if err := validator.ValidateStruct(&filter); err != nil {
		response.Failed(writer, scope, err, "failed to validate facility filter")

		return
	}

	facilities, err := handler.service.GetAll(ctx, queryParams, filter.FilterGroup())
	if err != nil {
		response.Failed(writer, scope, err, "failed to get facilities")

		return
	}

	response.WithJSON(writer, http.StatusOK, facilities)
}

// GetFacilityByID retrieves a facility by its ID.
// @Summary Get a facility by ID
// @Tags Facility
// @Produce json
// @Param id path string true "Facility ID"
// @Success 200 {object} response.Data[dto.FacilityResponse] "Facility details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/facilities/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetFacilityByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFacilityByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	facility, err := handler.service.Get(ctx, id)
	if err != nil {
		response.Failed(writer, scope, err, "failed to get facility by ID")

		return
	}

	response.WithJSON(writer, http.StatusOK, facility)
}

// UpdateFacility updates an existing facility.
// @Summary Update a facility by ID
// @Tags Facility
// @Accept json
// @Produce json
// @Param id path string true "Facility ID"
// @Param request body dto.UpdateFacilityRequest true "Update Facility Request"
// @Success 200 {object} response.Message "Facility updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/facilities/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateFacility(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateFacility")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	var req dto.UpdateFacilityRequest
	if !response.Bind(writer, request, scope, &req) {
		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		response.Failed(writer, scope, err, "failed to update facility")

		return
	}

	response.WithMessage(writer, http.StatusOK, "Facility updated successfully")
}

// DeleteFacility deletes a facility and its rooms.
// @Summary Delete a facility by ID
// @Description Rejected while the facility or any of its rooms has pending or confirmed bookings.
// @Tags Facility
// @Produce json
// @Param id path string true "Facility ID"
// @Success 200 {object} response.Message "Facility deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/facilities/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteFacility(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteFacility")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		response.Failed(writer, scope, err, "failed to delete facility")

		return
	}

	response.WithMessage(writer, http.StatusOK, "Facility deleted successfully")
}

// GetFacilityRooms lists the rooms of a facility.
// @Summary Get the rooms of a facility
// @Description Only active rooms unless active=false is given.
// @Tags Facility
// @Produce json
// @Param id path string true "Facility ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[roomDto.GetRoomsResponse] "List of rooms"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/facilities/{id}/rooms [get]
// @Security BearerAuth
func (handler *Handler) GetFacilityRooms(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFacilityRooms")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	active := shared.ConvertStringToBool(request.URL.Query().Get(roomModel.FieldActive))
	if active == nil {
		enabled := true
		active = &enabled
	}

	rooms, err := handler.service.Rooms(ctx, id, queryParams, active)
	if err != nil {
		response.Failed(writer, scope, err, "failed to get facility rooms")

		return
	}

	response.WithJSON(writer, http.StatusOK, rooms)
}

// AddRoom creates a room inside a building.
// @Summary Add a room to a facility
// @Description Only BUILDING facilities accept rooms.
// @Tags Facility
// @Accept json
// @Produce json
// @Param id path string true "Facility ID"
// @Param request body roomDto.CreateRoomRequest true "Create Room Request"
// @Success 201 {object} response.Data[roomDto.RoomResponse] "Room created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/facilities/{id}/rooms [post]
// @Security BearerAuth
func (handler *Handler) AddRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddRoom")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	var req roomDto.CreateRoomRequest
	if !response.Bind(writer, request, scope, &req) {
		return
	}

	room, err := handler.service.AddRoom(ctx, id, req)
	if err != nil {
		response.Failed(writer, scope, err, "failed to add room")

		return
	}

	scope.AddEvent("Room " + room.ID + " added to facility " + id)

	response.WithJSONMessage(writer, http.StatusCreated, room, "Room created successfully")
}

// CheckAvailability reports whether a ground facility is free for a window.
// @Summary Check facility availability
// @Tags Facility
// @Produce json
// @Param id path string true "Facility ID"
// @Param start_date query string true "RFC3339 or YYYY-MM-DD"
// @Param end_date query string true "RFC3339 or YYYY-MM-DD"
// @Success 200 {object} response.Data[bookingDto.AvailabilityResponse] "Availability"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/facilities/{id}/availability [get]
// @Security BearerAuth
func (handler *Handler) CheckAvailability(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckAvailability")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := bookingDto.AvailabilityRequest{}
	req.FromRequest(request)

	availability, err := handler.bookings.CheckFacilityAvailability(ctx, id, req)
	if err != nil {
		response.Failed(writer, scope, err, "failed to check facility availability")

		return
	}

	scope.SetAttribute(model.EntityName+".available", availability.IsAvailable)

	response.WithJSON(writer, http.StatusOK, availability)
}
