package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JustAdi10/Booking/config"
	"github.com/JustAdi10/Booking/infras/otel/mocks"
	bookingMocks "github.com/JustAdi10/Booking/internal/domains/booking/mocks"
	taskMocks "github.com/JustAdi10/Booking/internal/domains/housekeeping/mocks"
	userMocks "github.com/JustAdi10/Booking/internal/domains/user/mocks"
	"github.com/JustAdi10/Booking/internal/domains/user/model"
	"github.com/JustAdi10/Booking/internal/domains/user/model/dto"
	"github.com/JustAdi10/Booking/internal/domains/user/service"
	cacheMocks "github.com/JustAdi10/Booking/shared/cache/mocks"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo     *userMocks.MockUser
	bookings *bookingMocks.MockBooking
	tasks    *taskMocks.MockTask
	cache    *cacheMocks.MockRedisCache
	svc      service.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:     userMocks.NewMockUser(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
		tasks:    taskMocks.NewMockTask(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.bookings, f.tasks, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func actorContext(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestUserService_Get(t *testing.T) {
	user := model.User{ID: "user-1", Name: "Asha", Email: "asha@example.com", Role: constant.RoleUser, Active: true}

	t.Run("self", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "user:get:user-1", gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(user, nil)

		res, err := f.svc.Get(actorContext("user-1", constant.RoleUser), "user-1")

		require.NoError(t, err)
		assert.Equal(t, "Asha", res.Name)
	})

	t.Run("admin reads anyone", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(user, nil)

		_, err := f.svc.Get(actorContext("admin-1", constant.RoleAdmin), "user-1")

		require.NoError(t, err)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Get(actorContext("user-2", constant.RoleUser), "user-1")

		assert.Equal(t, failure.KindForbidden, failure.GetKind(err))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		_, err := f.svc.Get(actorContext("admin-1", constant.RoleAdmin), "missing")

		assert.EqualError(t, err, service.MessageUserNotFound)
		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})
}

func TestUserService_Me(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Me(context.Background())

		assert.Equal(t, failure.KindUnauthorized, failure.GetKind(err))
	})

	t.Run("cache hit", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), "user:get:user-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest any) error {
				res, ok := dest.(*dto.UserResponse)
				require.True(t, ok)

				res.ID = "user-1"

				return nil
			})

		res, err := f.svc.Me(actorContext("user-1", constant.RoleUser))

		require.NoError(t, err)
		assert.Equal(t, "user-1", res.ID)
	})
}

func TestUserService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error) {
			assert.Equal(t, constant.FieldCreatedAt, params.SortBy)
			assert.NotContains(t, columns, model.FieldPassword)

			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "OR")
			assert.Equal(t, "%asha%", args["search_name"])

			return []model.User{{ID: "user-1", Name: "Asha"}}, nil
		})

	res, err := f.svc.GetAll(
		actorContext("admin-1", constant.RoleAdmin),
		gDto.QueryParams{Page: 1, Limit: 10, SortBy: model.FieldPassword},
		dto.UserFilter{Search: "asha"},
	)

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Users, 1)
}

func TestUserService_Update(t *testing.T) {
	inactive := false

	tests := []struct {
		name     string
		req      dto.UpdateUserRequest
		id       string
		setup    func(f fixture)
		wantKind failure.Kind
	}{
		{
			name: "promote to housekeeping",
			req:  dto.UpdateUserRequest{Role: constant.RoleHousekeeping},
			id:   "user-1",
			setup: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, constant.RoleHousekeeping, fields[model.FieldRole])
						assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

						return nil
					})
			},
		},
		{
			name:     "empty request",
			req:      dto.UpdateUserRequest{},
			id:       "user-1",
			setup:    func(fixture) {},
			wantKind: failure.KindValidation,
		},
		{
			name:     "admin cannot deactivate self",
			req:      dto.UpdateUserRequest{Active: &inactive},
			id:       "admin-1",
			setup:    func(fixture) {},
			wantKind: failure.KindValidation,
		},
		{
			name: "unknown user",
			req:  dto.UpdateUserRequest{Name: "Someone"},
			id:   "missing",
			setup: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			err := f.svc.Update(actorContext("admin-1", constant.RoleAdmin), tt.req, tt.id)

			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserService_UpdateMe(t *testing.T) {
	f := newFixture(t)

	phone := "+919876543210"

	f.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
			assert.Equal(t, &phone, fields[model.FieldPhone])
			assert.NotContains(t, fields, model.FieldRole)

			_, args := filter.GetWhereClause()
			assert.Equal(t, "user-1", args[model.FieldID])

			return nil
		})
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.User{ID: "user-1", Phone: &phone}, nil)

	res, err := f.svc.UpdateMe(actorContext("user-1", constant.RoleUser), dto.UpdateProfileRequest{Phone: &phone})

	require.NoError(t, err)
	assert.Equal(t, &phone, res.Phone)
}

func TestUserService_Deactivate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		setup   func(f fixture)
		wantErr string
	}{
		{
			name: "deactivated",
			id:   "user-1",
			setup: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.tasks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						active, ok := fields[model.FieldActive].(*bool)
						require.True(t, ok)
						assert.False(t, *active)

						return nil
					})
			},
		},
		{
			name:    "self",
			id:      "admin-1",
			setup:   func(fixture) {},
			wantErr: service.MessageCannotDeactivateSelf,
		},
		{
			name: "not found",
			id:   "missing",
			setup: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr: service.MessageUserNotFound,
		},
		{
			name: "active bookings",
			id:   "user-1",
			setup: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: service.MessageUserHasActiveBookings,
		},
		{
			name: "pending tasks",
			id:   "user-1",
			setup: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.tasks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: service.MessageUserHasPendingTasks,
		},
		{
			name: "booking lookup fails",
			id:   "user-1",
			setup: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
			},
			wantErr: "failed to check user bookings: db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			err := f.svc.Deactivate(actorContext("admin-1", constant.RoleAdmin), tt.id)

			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
