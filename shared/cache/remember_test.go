package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JustAdi10/Booking/shared/cache"
	"github.com/JustAdi10/Booking/shared/cache/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type facilitySnapshot struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestRemember_Hit(t *testing.T) {
	ctrl := gomock.NewController(t)
	redis := mocks.NewMockRedisCache(ctrl)

	redis.EXPECT().
		Get(gomock.Any(), "facility:get:f1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			*value.(*facilitySnapshot) = facilitySnapshot{ID: "f1", Name: "Main Ground"}

			return nil
		})

	got, err := cache.Remember(context.Background(), redis, "facility:get:f1", 60, func(context.Context) (facilitySnapshot, error) {
		t.Fatal("loader must not run on a hit")

		return facilitySnapshot{}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Main Ground", got.Name)
}

func TestRemember_MissLoadsAndSaves(t *testing.T) {
	ctrl := gomock.NewController(t)
	redis := mocks.NewMockRedisCache(ctrl)

	saved := make(chan facilitySnapshot, 1)

	redis.EXPECT().Get(gomock.Any(), "facility:get:f1", gomock.Any()).Return(cache.Nil)
	redis.EXPECT().
		Save(gomock.Any(), "facility:get:f1", gomock.Any(), 60).
		DoAndReturn(func(_ context.Context, _ string, value any, _ int) error {
			saved <- value.(facilitySnapshot)

			return nil
		})

	got, err := cache.Remember(context.Background(), redis, "facility:get:f1", 60, func(context.Context) (facilitySnapshot, error) {
		return facilitySnapshot{ID: "f1", Name: "Main Ground"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "f1", got.ID)

	select {
	case value := <-saved:
		assert.Equal(t, got, value)
	case <-time.After(time.Second):
		t.Fatal("value was not written back")
	}
}

func TestRemember_LoadErrorIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	redis := mocks.NewMockRedisCache(ctrl)

	redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	_, err := cache.Remember(context.Background(), redis, "facility:get:missing", 60, func(context.Context) (facilitySnapshot, error) {
		return facilitySnapshot{}, errors.New("Facility not found")
	})

	assert.EqualError(t, err, "Facility not found")
}
