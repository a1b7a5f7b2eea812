package service

import (
	"context"
	"fmt"

	"github.com/JustAdi10/Booking/config"
	"github.com/JustAdi10/Booking/infras/otel"
	"github.com/JustAdi10/Booking/internal/domains/housekeeping/model"
	"github.com/JustAdi10/Booking/internal/domains/housekeeping/model/dto"
	"github.com/JustAdi10/Booking/internal/domains/housekeeping/repository"
	roomModel "github.com/JustAdi10/Booking/internal/domains/room/model"
	roomRepo "github.com/JustAdi10/Booking/internal/domains/room/repository"
	userModel "github.com/JustAdi10/Booking/internal/domains/user/model"
	userRepo "github.com/JustAdi10/Booking/internal/domains/user/repository"
	"github.com/JustAdi10/Booking/shared"
	"github.com/JustAdi10/Booking/shared/cache"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/failure"
	gModel "github.com/JustAdi10/Booking/shared/model"
	"github.com/JustAdi10/Booking/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllTask  = "task:gets"
	cacheCountTask   = "task:count"
	cacheTaskHistory = cacheGetAllTask + ":history"
)

const (
	MessageTaskNotFound     = "Housekeeping task not found"
	MessageRoomNotFound     = "Room not found"
	MessageAssigneeNotFound = "Assigned user not found"
	MessageAssigneeRole     = "User must have housekeeping or admin role"
	MessageNotAssignee      = "You can only manage tasks assigned to you"
	MessageNoFieldsToUpdate = "No fields to update"
)

var sortableColumns = []string{
	model.FieldDeadline, model.FieldPriority, model.FieldStatus, constant.FieldCreatedAt,
}

type Housekeeping interface {
	Create(ctx context.Context, req dto.CreateTaskRequest) (dto.TaskResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.TaskFilter) (dto.GetTasksResponse, error)
	Get(ctx context.Context, id string) (dto.TaskResponse, error)
	Update(ctx context.Context, req dto.UpdateTaskRequest, id string) (dto.TaskResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateTaskStatusRequest, id string) (dto.TaskResponse, error)
	Delete(ctx context.Context, id string) error
	MyTasks(ctx context.Context, filter dto.TaskFilter) ([]dto.TaskResponse, error)
	History(ctx context.Context, req gDto.QueryParams, filter dto.HistoryFilter) (dto.GetTasksResponse, error)
}

type serviceImpl struct {
	repo  repository.Task
	rooms roomRepo.Room
	users userRepo.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Task, rooms roomRepo.Room, users userRepo.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Housekeeping {
	return &serviceImpl{
		repo:  repo,
		rooms: rooms,
		users: users,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTaskRequest) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor := gModel.ActorFromContext(ctx)

	exist, err := s.rooms.Exist(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check room existence")

		return res, fmt.Errorf("failed to check room existence: %w", err)
	}

	if !exist {
		return res, failure.NotFound(MessageRoomNotFound) // nolint:wrapcheck
	}

	assignee, err := s.users.Get(ctx, shared.FilterByID(req.AssignedTo, userModel.FieldID, userModel.TableName), userModel.FieldID, userModel.FieldRole)
	if err != nil {
		log.Error().Err(err).Msg("failed to get assignee")

		return res, fmt.Errorf("failed to get assignee: %w", err)
	}

	if assignee.ID == constant.Empty {
		return res, failure.NotFound(MessageAssigneeNotFound) // nolint:wrapcheck
	}

	if !assignee.CanBeAssignedTasks() {
		return res, failure.BadRequestFromString(MessageAssigneeRole) // nolint:wrapcheck
	}

	task, err := req.ToModel(actor.ID, timezone.Now())
	if err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, task); err != nil {
		log.Error().Err(err).Msg("failed to create housekeeping task")

		return res, fmt.Errorf("failed to create housekeeping task: %w", err)
	}

	s.invalidate(ctx)

	return s.load(ctx, task.ID)
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.TaskFilter) (res dto.GetTasksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor := gModel.ActorFromContext(ctx)
	if actor.IsHousekeeping() {
		filter.AssignedTo = actor.ID
	}

	req.RestrictSort(constant.FieldCreatedAt, sortableColumns...)
	req.SortBy = model.TableName + "." + req.SortBy

	group := filter.FilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTask, req, group)

	return cache.Remember(ctx, s.cache, cacheKey, s.cfg.Cache.TTL, func(ctx context.Context) (res dto.GetTasksResponse, err error) {
		total, err := s.count(ctx, req, group)
		if err != nil {
			return res, err
		}

		models, err := s.repo.GetAll(ctx, req, group)
		if err != nil {
			log.Error().Err(err).Msg("failed to get housekeeping tasks")

			return res, fmt.Errorf("failed to get housekeeping tasks: %w", err)
		}

		res.FromModels(models, total, req.Limit)

		return res, nil
	})
}

// History pages through completed tasks, latest completion first. Anyone but an admin only sees their own.
func (s *serviceImpl) History(ctx context.Context, req gDto.QueryParams, filter dto.HistoryFilter) (res dto.GetTasksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".History")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if actor := gModel.ActorFromContext(ctx); !actor.IsAdmin() {
		filter.AssignedTo = actor.ID
	}

	req.SortBy = model.TableName + "." + model.FieldCompletedAt
	req.SortDir = gDto.SortDirDesc

	group := filter.FilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(cacheTaskHistory, req, group)

	return cache.Remember(ctx, s.cache, cacheKey, s.cfg.Cache.TTL, func(ctx context.Context) (res dto.GetTasksResponse, err error) {
		total, err := s.count(ctx, req, group)
		if err != nil {
			return res, err
		}

		models, err := s.repo.GetAll(ctx, req, group)
		if err != nil {
			log.Error().Err(err).Msg("failed to get housekeeping history")

			return res, fmt.Errorf("failed to get housekeeping history: %w", err)
		}

		res.FromModels(models, total, req.Limit)

		return res, nil
	})
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error) {
	key := shared.BuildCacheKeyWithQuery(cacheCountTask, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (int, error) {
		total, err := s.repo.Count(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to count housekeeping tasks")

			return 0, fmt.Errorf("failed to count housekeeping tasks: %w", err)
		}

		return total, nil
	})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	task, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	if actor := gModel.ActorFromContext(ctx); !actor.CanActOn(task.AssignedTo) {
		return res, failure.Forbidden(MessageNotAssignee) // nolint:wrapcheck
	}

	res.FromModel(task)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTaskRequest, id string) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString(MessageNoFieldsToUpdate) // nolint:wrapcheck
	}

	task, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	actor := gModel.ActorFromContext(ctx)
	if !actor.CanActOn(task.AssignedTo) {
		return res, failure.Forbidden(MessageNotAssignee) // nolint:wrapcheck
	}

	fields, err := req.Fields(task, actor.ID, timezone.Now())
	if err != nil {
		return res, err
	}

	return s.update(ctx, id, fields)
}

// UpdateStatus is the assignee's path for moving a task along.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateTaskStatusRequest, id string) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(&err)

	task, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	actor := gModel.ActorFromContext(ctx)
	if !actor.CanActOn(task.AssignedTo) {
		return res, failure.Forbidden(MessageNotAssignee) // nolint:wrapcheck
	}

	return s.update(ctx, id, req.Fields(task, actor.ID, timezone.Now()))
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if housekeeping task exists")

		return fmt.Errorf("failed to check if housekeeping task exists: %w", err)
	}

	if !exist {
		return failure.NotFound(MessageTaskNotFound) // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete housekeeping task")

		return fmt.Errorf("failed to delete housekeeping task: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

// MyTasks lists the caller's tasks, soonest deadline first.
func (s *serviceImpl) MyTasks(ctx context.Context, filter dto.TaskFilter) (res []dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MyTasks")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor := gModel.ActorFromContext(ctx)
	if actor.ID == constant.Empty {
		return res, failure.Unauthorized(constant.MessageUnauthorized) // nolint:wrapcheck
	}

	filter.AssignedTo = actor.ID

	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldDeadline, SortDir: gDto.SortDirAsc}

	models, err := s.repo.GetAll(ctx, params, filter.FilterGroup())
	if err != nil {
		log.Error().Err(err).Msg("failed to get assigned housekeeping tasks")

		return res, fmt.Errorf("failed to get assigned housekeeping tasks: %w", err)
	}

	return dto.FromModels(models), nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Task, error) {
	task, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get housekeeping task")

		return task, fmt.Errorf("failed to get housekeeping task: %w", err)
	}

	if task.ID == constant.Empty {
		return task, failure.NotFound(MessageTaskNotFound) // nolint:wrapcheck
	}

	return task, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (res dto.TaskResponse, err error) {
	task, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(task)

	return res, nil
}

func (s *serviceImpl) update(ctx context.Context, id string, fields map[string]any) (dto.TaskResponse, error) {
	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update housekeeping task")

		return dto.TaskResponse{}, fmt.Errorf("failed to update housekeeping task: %w", err)
	}

	s.invalidate(ctx)

	return s.load(ctx, id)
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllTask)
		shared.InvalidateCaches(c, s.cache, cacheCountTask)
	}()
}
