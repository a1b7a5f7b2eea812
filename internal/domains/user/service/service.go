package service

import (
	"context"
	"fmt"

	"github.com/JustAdi10/Booking/config"
	"github.com/JustAdi10/Booking/infras/otel"
	bookingModel "github.com/JustAdi10/Booking/internal/domains/booking/model"
	bookingRepo "github.com/JustAdi10/Booking/internal/domains/booking/repository"
	taskModel "github.com/JustAdi10/Booking/internal/domains/housekeeping/model"
	taskRepo "github.com/JustAdi10/Booking/internal/domains/housekeeping/repository"
	"github.com/JustAdi10/Booking/internal/domains/user/model"
	"github.com/JustAdi10/Booking/internal/domains/user/model/dto"
	"github.com/JustAdi10/Booking/internal/domains/user/repository"
	"github.com/JustAdi10/Booking/shared"
	"github.com/JustAdi10/Booking/shared/cache"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/failure"
	gModel "github.com/JustAdi10/Booking/shared/model"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser    = "user:get"
	cacheGetAllUser = "user:gets"
	cacheCountUser  = "user:count"
)

const (
	MessageUserNotFound          = "User not found"
	MessageNoFieldsToUpdate      = "No fields to update"
	MessageCannotDeactivateSelf  = "You cannot deactivate your own account"
	MessageUserHasActiveBookings = "Cannot deactivate user with active bookings"
	MessageUserHasPendingTasks   = "Cannot deactivate user with pending tasks"
)

// password is never sortable
var sortableColumns = []string{
	model.FieldName, model.FieldEmail, model.FieldRole, model.FieldLastLogin, constant.FieldCreatedAt,
}

var publicColumns = []string{
	model.FieldID, model.FieldName, model.FieldEmail, model.FieldPhone, model.FieldRole, model.FieldActive,
	model.FieldLastLogin, constant.FieldCreatedAt, constant.FieldModifiedAt, constant.FieldCreatedBy, constant.FieldModifiedBy,
}

type User interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.UserFilter) (dto.GetUsersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Me(ctx context.Context) (dto.UserResponse, error)
	Update(ctx context.Context, req dto.UpdateUserRequest, id string) error
	UpdateMe(ctx context.Context, req dto.UpdateProfileRequest) (dto.UserResponse, error)
	Deactivate(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.User
	bookings bookingRepo.Booking
	tasks    taskRepo.Task
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.User, bookings bookingRepo.Booking, tasks taskRepo.Task, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:     repo,
		bookings: bookings,
		tasks:    tasks,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.UserFilter) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	req.RestrictSort(constant.FieldCreatedAt, sortableColumns...)

	group := filter.FilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllUser, req, group)

	return cache.Remember(ctx, s.cache, cacheKey, s.cfg.Cache.TTL, func(ctx context.Context) (res dto.GetUsersResponse, err error) {
		total, err := s.Count(ctx, req, group)
		if err != nil {
			log.Error().Err(err).Msg("failed to count users")

			return res, fmt.Errorf("failed to count users: %w", err)
		}

		models, err := s.repo.GetAll(ctx, req, group, publicColumns...)
		if err != nil {
			log.Error().Err(err).Msg("failed to get users")

			return res, fmt.Errorf("failed to get users: %w", err)
		}

		res.FromModels(models, total, req.Limit)

		return res, nil
	})
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountUser, req, filter)

	return cache.Remember(ctx, s.cache, cacheKey, s.cfg.Cache.TTL, func(ctx context.Context) (res int, err error) {
		res, err = s.repo.Count(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to count users")

			return res, fmt.Errorf("failed to count users: %w", err)
		}

		return res, nil
	})
}

// Get is open to admins and to the user themself.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !gModel.ActorFromContext(ctx).CanActOn(id) {
		return res, failure.ResourceRestrictedError
	}

	return s.load(ctx, id)
}

func (s *serviceImpl) Me(ctx context.Context) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Me")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor := gModel.ActorFromContext(ctx)
	if actor.ID == constant.Empty {
		return res, failure.Unauthorized(constant.MessageUnauthorized) // nolint:wrapcheck
	}

	return s.load(ctx, actor.ID)
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateUserRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.IsEmpty() {
		return failure.BadRequestFromString(MessageNoFieldsToUpdate) // nolint:wrapcheck
	}

	actor := gModel.ActorFromContext(ctx)
	if actor.ID == id && req.Active != nil && !*req.Active {
		return failure.BadRequestFromString(MessageCannotDeactivateSelf) // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return failure.NotFound(MessageUserNotFound) // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, actor.ID), filter); err != nil {
		log.Error().Err(err).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UpdateMe(ctx context.Context, req dto.UpdateProfileRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateMe")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor := gModel.ActorFromContext(ctx)
	if actor.ID == constant.Empty {
		return res, failure.Unauthorized(constant.MessageUnauthorized) // nolint:wrapcheck
	}

	if req.IsEmpty() {
		return res, failure.BadRequestFromString(MessageNoFieldsToUpdate) // nolint:wrapcheck
	}

	filter := shared.FilterByID(actor.ID, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, shared.TransformFields(req, actor.ID), filter); err != nil {
		log.Error().Err(err).Msg("failed to update profile")

		return res, fmt.Errorf("failed to update profile: %w", err)
	}

	s.invalidate(ctx, actor.ID)

	return s.fetch(ctx, actor.ID)
}

// Deactivate soft-deletes a user. Accounts still holding active bookings or open tasks are kept.
func (s *serviceImpl) Deactivate(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Deactivate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor := gModel.ActorFromContext(ctx)
	if actor.ID == id {
		return failure.BadRequestFromString(MessageCannotDeactivateSelf) // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return failure.NotFound(MessageUserNotFound) // nolint:wrapcheck
	}

	hasBookings, err := s.bookings.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldUserID, Value: id, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
			gDto.Filter{Field: bookingModel.FieldStatus, Value: bookingModel.ActiveStatuses, Operator: gDto.FilterOperatorIn, Table: bookingModel.TableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check user bookings")

		return fmt.Errorf("failed to check user bookings: %w", err)
	}

	if hasBookings {
		return failure.BadRequestFromString(MessageUserHasActiveBookings) // nolint:wrapcheck
	}

	hasTasks, err := s.tasks.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: taskModel.FieldAssignedTo, Value: id, Operator: gDto.FilterOperatorEq, Table: taskModel.TableName},
			gDto.Filter{Field: taskModel.FieldStatus, Value: taskModel.OpenStatuses, Operator: gDto.FilterOperatorIn, Table: taskModel.TableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check user tasks")

		return fmt.Errorf("failed to check user tasks: %w", err)
	}

	if hasTasks {
		return failure.BadRequestFromString(MessageUserHasPendingTasks) // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, dto.DeactivateFields(actor.ID), filter); err != nil {
		log.Error().Err(err).Msg("failed to deactivate user")

		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (dto.UserResponse, error) {
	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetUser, id), s.cfg.Cache.TTL, func(ctx context.Context) (dto.UserResponse, error) {
		return s.fetch(ctx, id)
	})
}

func (s *serviceImpl) fetch(ctx context.Context, id string) (res dto.UserResponse, err error) {
	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName), publicColumns...)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return res, failure.NotFound(MessageUserNotFound) // nolint:wrapcheck
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetUser, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete user from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllUser)
		shared.InvalidateCaches(c, s.cache, cacheCountUser)
	}()
}
