package service

import (
	"context"
	"fmt"

	"github.com/JustAdi10/Booking/config"
	"github.com/JustAdi10/Booking/infras/otel"
	"github.com/JustAdi10/Booking/infras/postgres"
	bookingModel "github.com/JustAdi10/Booking/internal/domains/booking/model"
	bookingRepo "github.com/JustAdi10/Booking/internal/domains/booking/repository"
	"github.com/JustAdi10/Booking/internal/domains/room/model"
	"github.com/JustAdi10/Booking/internal/domains/room/model/dto"
	"github.com/JustAdi10/Booking/internal/domains/room/repository"
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
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"
)

const (
	MessageRoomNotFound          = "Room not found"
	MessageRoomHasActiveBookings = "Cannot delete room with active bookings"
	MessageRoomHasBookingHistory = "Cannot delete room with booking history, deactivate it instead"
	MessageNoFieldsToUpdate      = "No fields to update"
)

var sortableColumns = []string{
	model.FieldName, model.FieldRoomNumber, model.FieldFloorNumber, model.FieldPricePerNight, model.FieldCapacity, constant.FieldCreatedAt,
}

type Room interface {
	Create(ctx context.Context, facilityID string, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo       repository.Room
	bookings   bookingRepo.Booking
	transactor transaction.Transactor
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Room,
	bookings bookingRepo.Booking,
	transactor transaction.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Room {
	return &serviceImpl{
		repo:       repo,
		bookings:   bookings,
		transactor: transactor,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

// Create adds a room to facilityID. The caller has already checked that the facility is a building.
func (s *serviceImpl) Create(ctx context.Context, facilityID string, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	room := req.ToModel(user, facilityID)

	if err = s.repo.Insert(ctx, room); err != nil {
		log.Error().Err(err).Msg("failed to create room")

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	res.FromModel(room)
	s.invalidate(ctx, "")

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	req.RestrictSort(model.FieldName, sortableColumns...)

	key := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (page dto.GetRoomsResponse, err error) {
		total, err := s.Count(ctx, req, filter)
		if err != nil {
			return page, err
		}

		rooms, err := s.repo.GetAll(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to get rooms")

			return page, fmt.Errorf("failed to get rooms: %w", err)
		}

		page.FromModels(rooms, total, req.Limit)

		return page, nil
	})
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (int, error) {
		total, err := s.repo.Count(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to count rooms")

			return 0, fmt.Errorf("failed to count rooms: %w", err)
		}

		return total, nil
	})
}

// Get serves a single room. A missing room is never cached.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetRoom, id), s.cfg.Cache.TTL, func(ctx context.Context) (res dto.RoomResponse, err error) {
		room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get room")

			return res, fmt.Errorf("failed to get room: %w", err)
		}

		if room.ID == constant.Empty {
			return res, failure.NotFound(MessageRoomNotFound) // nolint:wrapcheck
		}

		res.FromModel(room)

		return res, nil
	})
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
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
		log.Error().Err(err).Msg("failed to check room existence")

		return fmt.Errorf("failed to check room existence: %w", err)
	}

	if !exist {
		return failure.NotFound(MessageRoomNotFound) // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update room")

		return fmt.Errorf("failed to update room: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return failure.NotFound(MessageRoomNotFound) // nolint:wrapcheck
	}

	// same key as the booking engine
	err = s.transactor.WithLock(ctx, transaction.LockKey(bookingModel.TypeRoom, id), func(ctx context.Context, tx *sqlx.Tx) error {
		busy, err := s.bookings.ExistTx(ctx, tx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{Field: bookingModel.FieldRoomID, Value: id, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
				gDto.Filter{Field: bookingModel.FieldStatus, Value: bookingModel.ActiveStatuses, Operator: gDto.FilterOperatorIn, Table: bookingModel.TableName},
			},
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to check active bookings of room")

			return fmt.Errorf("failed to check active bookings of room: %w", err)
		}

		if busy {
			return failure.BadRequestFromString(MessageRoomHasActiveBookings) // nolint:wrapcheck
		}

		if err = s.repo.DeleteTx(ctx, tx, filter); err != nil {
			if postgres.IsErrorCode(err, constant.PqErrorCodeForeignKeyViolation) {
				return failure.BadRequestFromString(MessageRoomHasBookingHistory) // nolint:wrapcheck
			}

			log.Error().Err(err).Msg("failed to delete room")

			return fmt.Errorf("failed to delete room: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)

	return nil
}

// invalidate drops the listings and, when id is set, the cached room itself.
func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func(ctx context.Context) {
		if id != "" {
			if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
				log.Warn().Err(err).Str("room_id", id).Msg("failed to delete room from cache")
			}
		}

		shared.InvalidateCaches(ctx, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(ctx, s.cache, cacheCountRoom)
	}(context.WithoutCancel(ctx))
}

// InvalidateAll drops every cached room read, used when rooms disappear with their facility.
func InvalidateAll(ctx context.Context, redisCache cache.RedisCache) {
	shared.InvalidateCaches(ctx, redisCache, cacheGetRoom)
	shared.InvalidateCaches(ctx, redisCache, cacheGetAllRoom)
	shared.InvalidateCaches(ctx, redisCache, cacheCountRoom)
}
