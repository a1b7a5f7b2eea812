package service

import (
	"context"
	"fmt"
	"time"

	"github.com/JustAdi10/Booking/config"
	"github.com/JustAdi10/Booking/infras/kafka"
	"github.com/JustAdi10/Booking/infras/otel"
	"github.com/JustAdi10/Booking/internal/domains/booking/model"
	"github.com/JustAdi10/Booking/internal/domains/booking/model/dto"
	"github.com/JustAdi10/Booking/internal/domains/booking/repository"
	facilityRepo "github.com/JustAdi10/Booking/internal/domains/facility/repository"
	taskRepo "github.com/JustAdi10/Booking/internal/domains/housekeeping/repository"
	roomRepo "github.com/JustAdi10/Booking/internal/domains/room/repository"
	"github.com/JustAdi10/Booking/shared"
	"github.com/JustAdi10/Booking/shared/cache"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/failure"
	gModel "github.com/JustAdi10/Booking/shared/model"
	"github.com/JustAdi10/Booking/shared/timezone"
	"github.com/JustAdi10/Booking/shared/transaction"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

const (
	MessageBookingNotFound  = "Booking not found"
	MessageFacilityNotFound = "Facility not found"
	MessageRoomNotFound     = "Room not found"
	MessageNotBookable      = "Only ground facilities can be booked directly"
	MessageFacilityInactive = "Facility is not active"
	MessageRoomInactive     = "Room is not active"
	MessageDatesUnavailable = "The selected dates are not available"
	MessageOnlyPending      = "Only pending bookings can be updated"
	MessageStatusOnly       = "Only the status of a non-pending booking can be changed"
	MessageBookingClosed    = "Cancelled or completed bookings cannot be changed"
	MessageStatusAdminOnly  = "Only admins can change the booking status"
	MessageCannotCancel     = "Only pending or confirmed bookings can be cancelled"
	MessageNoFieldsToUpdate = "No fields to update"
	MessageNotAuthenticated = constant.MessageUnauthorized
)

var sortableColumns = []string{
	model.FieldStartDate, model.FieldEndDate, model.FieldStatus, model.FieldTotalAmount, constant.FieldCreatedAt,
}

// Booking is the availability and booking engine plus its read side.
type Booking interface {
	CheckFacilityAvailability(ctx context.Context, facilityID string, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
	CheckRoomAvailability(ctx context.Context, roomID string, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.BookingFilter) (dto.GetBookingsResponse, error)
	MyBookings(ctx context.Context, status string, upcoming bool) ([]dto.BookingResponse, error)
	Calendar(ctx context.Context, req dto.CalendarRequest) ([]dto.CalendarEvent, error)
}

type serviceImpl struct {
	repo       repository.Booking
	facilities facilityRepo.Facility
	rooms      roomRepo.Room
	tasks      taskRepo.Task
	transactor transaction.Transactor
	publisher  kafka.Publisher
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	now        func() time.Time
}

func New(
	repo repository.Booking,
	facilities facilityRepo.Facility,
	rooms roomRepo.Room,
	tasks taskRepo.Task,
	transactor transaction.Transactor,
	publisher kafka.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return NewWithClock(repo, facilities, rooms, tasks, transactor, publisher, cfg, cache, otel, timezone.Now)
}

// NewWithClock is New with an injectable clock for the past-date rule.
func NewWithClock(
	repo repository.Booking,
	facilities facilityRepo.Facility,
	rooms roomRepo.Room,
	tasks taskRepo.Task,
	transactor transaction.Transactor,
	publisher kafka.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	now func() time.Time,
) Booking {
	return &serviceImpl{
		repo:       repo,
		facilities: facilities,
		rooms:      rooms,
		tasks:      tasks,
		transactor: transactor,
		publisher:  publisher,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		now:        now,
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if !gModel.ActorFromContext(ctx).CanActOn(booking.UserID) {
		return res, failure.ResourceRestrictedError
	}

	res.FromModel(booking)

	return res, nil
}

// GetAll lists bookings. Non-admins only ever see their own.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.BookingFilter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor := gModel.ActorFromContext(ctx)
	if !actor.IsAdmin() {
		filter.UserID = actor.ID
	}

	req.RestrictSort(constant.FieldCreatedAt, sortableColumns...)
	req.SortBy = model.TableName + "." + req.SortBy

	group := filter.FilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, group)

	return cache.Remember(ctx, s.cache, cacheKey, s.cfg.Cache.TTL, func(ctx context.Context) (res dto.GetBookingsResponse, err error) {
		total, err := s.count(ctx, req, group)
		if err != nil {
			log.Error().Err(err).Msg("failed to count bookings")

			return res, fmt.Errorf("failed to count bookings: %w", err)
		}

		models, err := s.repo.GetAll(ctx, req, group)
		if err != nil {
			log.Error().Err(err).Msg("failed to get bookings")

			return res, fmt.Errorf("failed to get bookings: %w", err)
		}

		res.FromModels(models, total, req.Limit)

		return res, nil
	})
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	return cache.Remember(ctx, s.cache, cacheKey, s.cfg.Cache.TTL, func(ctx context.Context) (res int, err error) {
		res, err = s.repo.Count(ctx, filter)
		if err != nil {
			return res, fmt.Errorf("failed to count bookings: %w", err)
		}

		return res, nil
	})
}

func (s *serviceImpl) MyBookings(ctx context.Context, status string, upcoming bool) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MyBookings")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor := gModel.ActorFromContext(ctx)
	if actor.ID == constant.Empty {
		return res, failure.Unauthorized(MessageNotAuthenticated) // nolint:wrapcheck
	}

	filter := dto.BookingFilter{UserID: actor.ID, Status: status}

	if upcoming {
		now := s.now()
		filter.Upcoming = &now
	}

	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldStartDate, SortDir: gDto.SortDirAsc}

	models, err := s.repo.GetAll(ctx, params, filter.FilterGroup())
	if err != nil {
		log.Error().Err(err).Msg("failed to get user bookings")

		return res, fmt.Errorf("failed to get user bookings: %w", err)
	}

	return dto.FromModels(models), nil
}

// Calendar returns the active bookings fully inside the requested range as calendar events.
func (s *serviceImpl) Calendar(ctx context.Context, req dto.CalendarRequest) (res []dto.CalendarEvent, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Calendar")
	defer scope.End()
	defer scope.TraceIfError(&err)

	group, err := req.FilterGroup()
	if err != nil {
		return res, err
	}

	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldStartDate, SortDir: gDto.SortDirAsc}

	models, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get calendar bookings")

		return res, fmt.Errorf("failed to get calendar bookings: %w", err)
	}

	res = make([]dto.CalendarEvent, len(models))
	for i, booking := range models {
		res[i].FromModel(booking)
	}

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound(MessageBookingNotFound) // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

// publish sends the lifecycle event after commit. Delivery failures never fail the write.
func (s *serviceImpl) publish(ctx context.Context, event string, booking model.Booking) {
	if !s.cfg.Kafka.Enable || s.publisher == nil {
		return
	}

	message := kafka.Message{
		Key:   booking.ResourceID(),
		Value: dto.NewBookingEvent(event, booking, s.now()),
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.publisher.Publish(c, s.cfg.Kafka.Topics.Booking, message); err != nil {
			log.Error().Err(err).Str("event", event).Str("booking_id", booking.ID).Msg("failed to publish booking event")
		}
	}()
}
