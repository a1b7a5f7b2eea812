package service

import (
	"context"
	"fmt"

	"github.com/JustAdi10/Booking/config"
	"github.com/JustAdi10/Booking/infras/otel"
	"github.com/JustAdi10/Booking/infras/postgres"
	bookingModel "github.com/JustAdi10/Booking/internal/domains/booking/model"
	bookingRepo "github.com/JustAdi10/Booking/internal/domains/booking/repository"
	"github.com/JustAdi10/Booking/internal/domains/facility/model"
	"github.com/JustAdi10/Booking/internal/domains/facility/model/dto"
	"github.com/JustAdi10/Booking/internal/domains/facility/repository"
	roomModel "github.com/JustAdi10/Booking/internal/domains/room/model"
	roomDto "github.com/JustAdi10/Booking/internal/domains/room/model/dto"
	roomRepo "github.com/JustAdi10/Booking/internal/domains/room/repository"
	roomService "github.com/JustAdi10/Booking/internal/domains/room/service"
	"github.com/JustAdi10/Booking/shared"
	"github.com/JustAdi10/Booking/shared/cache"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/failure"
	"github.com/JustAdi10/Booking/shared/transaction"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetFacility    = "facility:get"
	cacheGetAllFacility = "facility:gets"
	cacheCountFacility  = "facility:count"
)

const (
	MessageFacilityNotFound          = "Facility not found"
	MessageFacilityHasActiveBookings = "Cannot delete facility with active bookings"
	MessageFacilityHasBookingHistory = "Cannot delete facility with booking history, deactivate it instead"
	MessageRoomsOnlyInBuildings      = "Rooms can only be added to buildings"
	MessageNoFieldsToUpdate          = "No fields to update"
)

var sortableColumns = []string{
	model.FieldName, model.FieldType, model.FieldCity, model.FieldState, model.FieldCapacity, constant.FieldCreatedAt,
}

type Facility interface {
	Create(ctx context.Context, req dto.CreateFacilityRequest) (dto.FacilityResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetFacilitiesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.FacilityResponse, error)
	Update(ctx context.Context, req dto.UpdateFacilityRequest, id string) error
	Delete(ctx context.Context, id string) error
	Rooms(ctx context.Context, id string, params gDto.QueryParams, active *bool) (roomDto.GetRoomsResponse, error)
	AddRoom(ctx context.Context, id string, req roomDto.CreateRoomRequest) (roomDto.RoomResponse, error)
}

type serviceImpl struct {
	repo       repository.Facility
	rooms      roomRepo.Room
	roomSvc    roomService.Room
	bookings   bookingRepo.Booking
	transactor transaction.Transactor
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Facility,
	rooms roomRepo.Room,
	roomSvc roomService.Room,
	bookings bookingRepo.Booking,
	transactor transaction.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Facility {
	return &serviceImpl{
		repo:       repo,
		rooms:      rooms,
		roomSvc:    roomSvc,
		bookings:   bookings,
		transactor: transactor,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateFacilityRequest) (res dto.FacilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	facility := req.ToModel(user)

	if err = s.repo.Insert(ctx, facility); err != nil {
		log.Error().Err(err).Msg("failed to create facility")

		return res, fmt.Errorf("failed to create facility: %w", err)
	}

	res.FromModel(facility)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllFacility)
		shared.InvalidateCaches(c, s.cache, cacheCountFacility)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetFacilitiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	req.RestrictSort(constant.FieldCreatedAt, sortableColumns...)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllFacility, req, filter)

	return cache.Remember(ctx, s.cache, cacheKey, s.cfg.Cache.TTL, func(ctx context.Context) (res dto.GetFacilitiesResponse, err error) {
		total, err := s.Count(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to count facilities")

			return res, fmt.Errorf("failed to count facilities: %w", err)
		}

		models, err := s.repo.GetAll(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to get facilities")

			return res, fmt.Errorf("failed to get facilities: %w", err)
		}

		res.FromModels(models, total, req.Limit)

		return res, nil
	})
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountFacility, req, filter)

	return cache.Remember(ctx, s.cache, cacheKey, s.cfg.Cache.TTL, func(ctx context.Context) (res int, err error) {
		res, err = s.repo.Count(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to count facilities")

			return res, fmt.Errorf("failed to count facilities: %w", err)
		}

		return res, nil
	})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.FacilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetFacility, id)

	return cache.Remember(ctx, s.cache, cacheKey, s.cfg.Cache.TTL, func(ctx context.Context) (res dto.FacilityResponse, err error) {
		facility, err := s.get(ctx, id)
		if err != nil {
			return res, err
		}

		res.FromModel(facility)

		return res, nil
	})
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Facility, error) {
	facility, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get facility")

		return facility, fmt.Errorf("failed to get facility: %w", err)
	}

	if facility.ID == constant.Empty {
		return facility, failure.NotFound(MessageFacilityNotFound) // nolint:wrapcheck
	}

	return facility, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateFacilityRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.IsEmpty() {
		return failure.BadRequestFromString(MessageNoFieldsToUpdate) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check facility existence")

		return fmt.Errorf("failed to check facility existence: %w", err)
	}

	if !exist {
		return failure.NotFound(MessageFacilityNotFound) // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update facility")

		return fmt.Errorf("failed to update facility: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete removes the facility and, through the foreign keys, its rooms. Active bookings on the
// facility or on any of its rooms block the delete, as does any booking history.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if facility exists")

		return fmt.Errorf("failed to check if facility exists: %w", err)
	}

	if !exist {
		return failure.NotFound(MessageFacilityNotFound) // nolint:wrapcheck
	}

	rooms, err := s.rooms.GetAll(ctx, gDto.QueryParams{}, (&roomDto.RoomFilter{FacilityID: id}).FilterGroup(), roomModel.FieldID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms of facility")

		return fmt.Errorf("failed to get rooms of facility: %w", err)
	}

	roomIDs := make([]string, len(rooms))
	keys := []string{transaction.LockKey(bookingModel.TypeGround, id)}

	for i, room := range rooms {
		roomIDs[i] = room.ID
		keys = append(keys, transaction.LockKey(bookingModel.TypeRoom, room.ID))
	}

	err = s.transactor.WithLocks(ctx, keys, func(ctx context.Context, tx *sqlx.Tx) error {
		busy, err := s.hasActiveBookings(ctx, tx, id, roomIDs)
		if err != nil {
			return err
		}

		if busy {
			return failure.BadRequestFromString(MessageFacilityHasActiveBookings) // nolint:wrapcheck
		}

		if err = s.repo.DeleteTx(ctx, tx, filter); err != nil {
			if postgres.IsErrorCode(err, constant.PqErrorCodeForeignKeyViolation) {
				return failure.BadRequestFromString(MessageFacilityHasBookingHistory) // nolint:wrapcheck
			}

			log.Error().Err(err).Msg("failed to delete facility")

			return fmt.Errorf("failed to delete facility: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)

	go roomService.InvalidateAll(context.WithoutCancel(ctx), s.cache)

	return nil
}

func (s *serviceImpl) hasActiveBookings(ctx context.Context, tx *sqlx.Tx, id string, roomIDs []string) (bool, error) {
	activeStatus := gDto.Filter{Field: bookingModel.FieldStatus, Value: bookingModel.ActiveStatuses, Operator: gDto.FilterOperatorIn, Table: bookingModel.TableName}

	busy, err := s.bookings.ExistTx(ctx, tx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldFacilityID, Value: id, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
			activeStatus,
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check active bookings of facility")

		return false, fmt.Errorf("failed to check active bookings of facility: %w", err)
	}

	if busy || len(roomIDs) == 0 {
		return busy, nil
	}

	busy, err = s.bookings.ExistTx(ctx, tx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldRoomID, Value: roomIDs, Operator: gDto.FilterOperatorIn, Table: bookingModel.TableName},
			activeStatus,
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check active bookings of rooms")

		return false, fmt.Errorf("failed to check active bookings of rooms: %w", err)
	}

	return busy, nil
}

// Rooms lists the rooms of a facility; a nil active means active rooms only.
func (s *serviceImpl) Rooms(ctx context.Context, id string, params gDto.QueryParams, active *bool) (res roomDto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Rooms")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if _, err = s.get(ctx, id); err != nil {
		return res, err
	}

	if active == nil {
		onlyActive := true
		active = &onlyActive
	}

	filter := roomDto.RoomFilter{FacilityID: id, Active: active}

	return s.roomSvc.GetAll(ctx, params, filter.FilterGroup()) //nolint:wrapcheck
}

func (s *serviceImpl) AddRoom(ctx context.Context, id string, req roomDto.CreateRoomRequest) (res roomDto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddRoom")
	defer scope.End()
	defer scope.TraceIfError(&err)

	facility, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	if !facility.HasRooms() {
		return res, failure.BadRequestFromString(MessageRoomsOnlyInBuildings) // nolint:wrapcheck
	}

	return s.roomSvc.Create(ctx, facility.ID, req) //nolint:wrapcheck
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetFacility, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete facility from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllFacility)
		shared.InvalidateCaches(c, s.cache, cacheCountFacility)
	}()
}
