package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JustAdi10/Booking/config"
	"github.com/JustAdi10/Booking/infras/otel/mocks"
	bookingMocks "github.com/JustAdi10/Booking/internal/domains/booking/mocks"
	roomMocks "github.com/JustAdi10/Booking/internal/domains/room/mocks"
	"github.com/JustAdi10/Booking/internal/domains/room/model"
	"github.com/JustAdi10/Booking/internal/domains/room/model/dto"
	"github.com/JustAdi10/Booking/internal/domains/room/service"
	cacheMocks "github.com/JustAdi10/Booking/shared/cache/mocks"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/failure"
	"github.com/JustAdi10/Booking/shared/transaction"
	transactionMocks "github.com/JustAdi10/Booking/shared/transaction/mocks"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo       *roomMocks.MockRoom
	bookings   *bookingMocks.MockBooking
	transactor *transactionMocks.MockTransactor
	cache      *cacheMocks.MockRedisCache
	svc        service.Room
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:       roomMocks.NewMockRoom(ctrl),
		bookings:   bookingMocks.NewMockBooking(ctrl),
		transactor: transactionMocks.NewMockTransactor(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.bookings, f.transactor, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func adminContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func TestRoomService_Create(t *testing.T) {
	f := newFixture(t)

	req := dto.CreateRoomRequest{Name: "Deluxe", Type: model.TypeSuite, Capacity: 2, PricePerNight: 2500}

	f.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, room model.Room) error {
			assert.Equal(t, "facility-1", room.FacilityID)
			assert.True(t, room.Active)
			assert.Equal(t, "admin-1", room.CreatedBy)

			return nil
		})

	res, err := f.svc.Create(adminContext(), "facility-1", req)

	require.NoError(t, err)
	assert.Equal(t, "Deluxe", res.Name)
	assert.Equal(t, 2500.0, res.PricePerNight)
	assert.Empty(t, res.Amenities)
}

func TestRoomService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "cache hit",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "room:get:room-1", gomock.Any()).Return(nil)
			},
		},
		{
			name: "loaded from repository",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "room-1", Name: "Deluxe"}, nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, errors.New("database error"))
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			_, err := f.svc.Get(context.Background(), "room-1")

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_GetAll(t *testing.T) {
	f := newFixture(t)

	active := true
	filter := (&dto.RoomFilter{FacilityID: "facility-1", Active: &active}).FilterGroup()

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), filter).Return(2, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), filter).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Room, error) {
			assert.Equal(t, model.FieldName, params.SortBy)

			return []model.Room{{ID: "r1"}, {ID: "r2"}}, nil
		})

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "password"}, filter)

	require.NoError(t, err)
	assert.Len(t, res.Rooms, 2)
	assert.Equal(t, 1, res.TotalPage)
}

func TestRoomService_Update(t *testing.T) {
	capacity := 4

	tests := []struct {
		name      string
		req       dto.UpdateRoomRequest
		setupMock func(f fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "successful update",
			req:  dto.UpdateRoomRequest{Capacity: &capacity},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, &capacity, fields[model.FieldCapacity])
						assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

						return nil
					})
			},
		},
		{
			name:      "empty request",
			req:       dto.UpdateRoomRequest{},
			setupMock: func(fixture) {},
			wantErr:   true,
			wantKind:  failure.KindValidation,
		},
		{
			name: "not found",
			req:  dto.UpdateRoomRequest{Name: "Renamed"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(adminContext(), tt.req, "room-1")

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// lockRoom runs the locked section inline after checking it is keyed like the booking engine.
func lockRoom(f fixture) {
	f.transactor.EXPECT().
		WithLock(gomock.Any(), transaction.LockKey("ROOM", "room-1"), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, fn transaction.TxFunc) error {
			return fn(ctx, nil)
		})
}

func TestRoomService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantErr   string
	}{
		{
			name: "successful delete",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				lockRoom(f)
				gomock.InOrder(
					f.bookings.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil),
					f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
				)
			},
		},
		{
			name: "room has active bookings",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				lockRoom(f)
				f.bookings.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: service.MessageRoomHasActiveBookings,
		},
		{
			name: "room has booking history",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				lockRoom(f)
				f.bookings.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().
					DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("failed to delete data (room): %w", &pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeForeignKeyViolation)}))
			},
			wantErr: service.MessageRoomHasBookingHistory,
		},
		{
			name: "room not found",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr: service.MessageRoomNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(adminContext(), "room-1")

			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
