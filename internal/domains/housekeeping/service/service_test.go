package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JustAdi10/Booking/config"
	"github.com/JustAdi10/Booking/infras/otel/mocks"
	taskMocks "github.com/JustAdi10/Booking/internal/domains/housekeeping/mocks"
	"github.com/JustAdi10/Booking/internal/domains/housekeeping/model"
	"github.com/JustAdi10/Booking/internal/domains/housekeeping/model/dto"
	"github.com/JustAdi10/Booking/internal/domains/housekeeping/service"
	roomMocks "github.com/JustAdi10/Booking/internal/domains/room/mocks"
	userMocks "github.com/JustAdi10/Booking/internal/domains/user/mocks"
	userModel "github.com/JustAdi10/Booking/internal/domains/user/model"
	cacheMocks "github.com/JustAdi10/Booking/shared/cache/mocks"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo  *taskMocks.MockTask
	rooms *roomMocks.MockRoom
	users *userMocks.MockUser
	cache *cacheMocks.MockRedisCache
	svc   service.Housekeeping
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:  taskMocks.NewMockTask(ctrl),
		rooms: roomMocks.NewMockRoom(ctrl),
		users: userMocks.NewMockUser(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.rooms, f.users, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func actorContext(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestHousekeepingService_Create(t *testing.T) {
	req := dto.CreateTaskRequest{RoomID: "room-1", AssignedTo: "staff-1", TaskType: model.TypeCleaning}

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantErr   string
	}{
		{
			name: "successful creation",
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.users.EXPECT().
					Get(gomock.Any(), gomock.Any(), userModel.FieldID, userModel.FieldRole).
					Return(userModel.User{ID: "staff-1", Role: constant.RoleHousekeeping}, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, task model.Task) error {
						assert.Equal(t, model.PriorityMedium, task.Priority)
						assert.Equal(t, model.StatusPending, task.Status)
						assert.Equal(t, "admin-1", task.CreatedBy)

						return nil
					})
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Task{ID: "task-1", RoomID: "room-1", RoomName: "Suite"}, nil)
			},
		},
		{
			name: "room missing",
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr: service.MessageRoomNotFound,
		},
		{
			name: "assignee missing",
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.users.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantErr: service.MessageAssigneeNotFound,
		},
		{
			name: "assignee is a guest user",
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.users.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(userModel.User{ID: "staff-1", Role: constant.RoleUser}, nil)
			},
			wantErr: service.MessageAssigneeRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(actorContext("admin-1", constant.RoleAdmin), req)

			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Suite", res.Room.Name)
		})
	}
}

func TestHousekeepingService_GetAll_StaffSeeOwnTasks(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Task, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, "staff-1", args[model.FieldAssignedTo])
			assert.Equal(t, "housekeeping_tasks.created_at", params.SortBy)

			return []model.Task{{ID: "task-1", AssignedTo: "staff-1"}}, nil
		})

	res, err := f.svc.GetAll(actorContext("staff-1", constant.RoleHousekeeping), gDto.QueryParams{Page: 1, Limit: 10}, dto.TaskFilter{AssignedTo: "staff-2"})

	require.NoError(t, err)
	assert.Len(t, res.Tasks, 1)
}

func TestHousekeepingService_History(t *testing.T) {
	tests := []struct {
		name         string
		role         string
		filter       dto.HistoryFilter
		wantAssignee string
	}{
		{name: "staff see their own", role: constant.RoleHousekeeping, filter: dto.HistoryFilter{AssignedTo: "staff-2"}, wantAssignee: "caller-1"},
		{name: "users see their own", role: constant.RoleUser, wantAssignee: "caller-1"},
		{name: "admin filters by anyone", role: constant.RoleAdmin, filter: dto.HistoryFilter{AssignedTo: "staff-2"}, wantAssignee: "staff-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			completedAt := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

			f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
			f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
			f.repo.EXPECT().
				GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Task, error) {
					_, args := filter.GetWhereClause()
					assert.Equal(t, tt.wantAssignee, args[model.FieldAssignedTo])
					assert.Equal(t, model.StatusCompleted, args[model.FieldStatus])
					assert.Equal(t, "housekeeping_tasks.completed_at", params.SortBy)
					assert.Equal(t, gDto.SortDirDesc, params.SortDir)

					return []model.Task{{ID: "task-1", AssignedTo: tt.wantAssignee, Status: model.StatusCompleted, CompletedAt: &completedAt}}, nil
				})

			res, err := f.svc.History(actorContext("caller-1", tt.role), gDto.QueryParams{Page: 1, Limit: 20, SortBy: "deadline"}, tt.filter)

			require.NoError(t, err)
			require.Len(t, res.Tasks, 1)
			assert.Equal(t, &completedAt, res.Tasks[0].CompletedAt)
			assert.Equal(t, 1, res.TotalData)
		})
	}
}

func TestHousekeepingService_UpdateStatus(t *testing.T) {
	completedAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		ctx       context.Context
		current   model.Task
		setupMock func(f fixture)
		wantKind  failure.Kind
		wantStamp bool
	}{
		{
			name:      "assignee completes task",
			ctx:       actorContext("staff-1", constant.RoleHousekeeping),
			current:   model.Task{ID: "task-1", AssignedTo: "staff-1", Status: model.StatusInProgress},
			wantStamp: true,
		},
		{
			name:    "completion is stamped once",
			ctx:     actorContext("admin-1", constant.RoleAdmin),
			current: model.Task{ID: "task-1", AssignedTo: "staff-1", Status: model.StatusCompleted, CompletedAt: &completedAt},
		},
		{
			name:     "other staff member is rejected",
			ctx:      actorContext("staff-2", constant.RoleHousekeeping),
			current:  model.Task{ID: "task-1", AssignedTo: "staff-1", Status: model.StatusPending},
			wantKind: failure.KindForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.current, nil)

			if tt.wantKind == "" {
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						_, stamped := fields[model.FieldCompletedAt]
						assert.Equal(t, tt.wantStamp, stamped)
						assert.Equal(t, model.StatusCompleted, fields[model.FieldStatus])

						return nil
					})
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.current, nil)
			}

			_, err := f.svc.UpdateStatus(tt.ctx, dto.UpdateTaskStatusRequest{Status: model.StatusCompleted}, "task-1")

			if tt.wantKind != "" {
				assert.True(t, failure.IsKind(err, tt.wantKind))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHousekeepingService_Get(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Task{}, nil)

		_, err := f.svc.Get(actorContext("admin-1", constant.RoleAdmin), "task-1")

		assert.EqualError(t, err, service.MessageTaskNotFound)
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Task{}, errors.New("database error"))

		_, err := f.svc.Get(actorContext("admin-1", constant.RoleAdmin), "task-1")

		assert.True(t, failure.IsKind(err, failure.KindInternal))
	})
}

func TestHousekeepingService_Delete(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, f.svc.Delete(actorContext("admin-1", constant.RoleAdmin), "task-1"))
}

func TestHousekeepingService_MyTasks(t *testing.T) {
	t.Run("requires a caller", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.MyTasks(context.Background(), dto.TaskFilter{})

		assert.True(t, failure.IsKind(err, failure.KindUnauthorized))
	})

	t.Run("lists caller tasks by deadline", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Task, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "staff-1", args[model.FieldAssignedTo])
				assert.Equal(t, gDto.SortDirAsc, params.SortDir)

				return []model.Task{{ID: "a"}, {ID: "b"}}, nil
			})

		res, err := f.svc.MyTasks(actorContext("staff-1", constant.RoleHousekeeping), dto.TaskFilter{})

		require.NoError(t, err)
		assert.Len(t, res, 2)
	})
}
