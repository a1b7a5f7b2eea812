package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/JustAdi10/Booking/config"
	"github.com/JustAdi10/Booking/infras/kafka"
	kafkaMocks "github.com/JustAdi10/Booking/infras/kafka/mocks"
	"github.com/JustAdi10/Booking/infras/otel/mocks"
	"github.com/JustAdi10/Booking/internal/domains/booking/model"
	"github.com/JustAdi10/Booking/internal/domains/booking/model/dto"
	"github.com/JustAdi10/Booking/internal/domains/booking/repository"
	"github.com/JustAdi10/Booking/internal/domains/booking/service"
	facilityMocks "github.com/JustAdi10/Booking/internal/domains/facility/mocks"
	facilityModel "github.com/JustAdi10/Booking/internal/domains/facility/model"
	taskMocks "github.com/JustAdi10/Booking/internal/domains/housekeeping/mocks"
	taskModel "github.com/JustAdi10/Booking/internal/domains/housekeeping/model"
	roomMocks "github.com/JustAdi10/Booking/internal/domains/room/mocks"
	roomModel "github.com/JustAdi10/Booking/internal/domains/room/model"
	cacheMocks "github.com/JustAdi10/Booking/shared/cache/mocks"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/failure"
	txMocks "github.com/JustAdi10/Booking/shared/transaction/mocks"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	roomID     = "9f1c2a4e-0000-4000-8000-000000000001"
	groundID   = "9f1c2a4e-0000-4000-8000-000000000002"
	buildingID = "9f1c2a4e-0000-4000-8000-000000000003"
	ownerID    = "user-1"
	otherID    = "user-2"
)

var clock = time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2030, time.June, d, 0, 0, 0, 0, time.UTC)
}

func stamp(d int) string {
	return day(d).Format(time.RFC3339)
}

type engine struct {
	store      *memoryStore
	facilities *facilityMocks.MockFacility
	rooms      *roomMocks.MockRoom
	tasks      *taskMocks.MockTask
	redis      *cacheMocks.MockRedisCache
	svc        service.Booking
}

func newEngine(t *testing.T, seed ...model.Booking) engine {
	t.Helper()

	ctrl := gomock.NewController(t)

	e := engine{
		store:      newMemoryStore(seed...),
		facilities: facilityMocks.NewMockFacility(ctrl),
		rooms:      roomMocks.NewMockRoom(ctrl),
		tasks:      taskMocks.NewMockTask(ctrl),
		redis:      cacheMocks.NewMockRedisCache(ctrl),
	}

	redis := e.redis
	redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).AnyTimes()
	redis.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redis.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	e.rooms.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(roomModel.Room{ID: roomID, Name: "Deluxe", PricePerNight: 2500, Active: true, Capacity: 2}, nil).
		AnyTimes()

	e.svc = e.over(e.store)

	return e
}

// over builds the engine on top of repo instead of the plain store.
func (e engine) over(repo repository.Booking) service.Booking {
	return service.NewWithClock(
		repo, e.facilities, e.rooms, e.tasks, txMocks.NewLocalTransactor(), nil,
		&config.Config{}, e.redis, mocks.NewOtel(), func() time.Time { return clock },
	)
}

func as(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func roomBooking(id, user string, start, end int, status string) model.Booking {
	room := roomID

	return model.Booking{
		ID:          id,
		UserID:      user,
		RoomID:      &room,
		BookingType: model.TypeRoom,
		StartDate:   day(start),
		EndDate:     day(end),
		GuestsCount: 1,
		TotalAmount: 2500 * float64(end-start),
		Status:      status,
	}
}

func roomRequest(start, end int) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		BookingType: model.TypeRoom,
		RoomID:      roomID,
		StartDate:   stamp(start),
		EndDate:     stamp(end),
	}
}

// assertNoOverlap checks that no two active bookings on the same resource overlap.
func assertNoOverlap(t *testing.T, bookings []model.Booking) {
	t.Helper()

	for i, a := range bookings {
		for _, b := range bookings[i+1:] {
			if !a.IsActive() || !b.IsActive() || a.ResourceID() != b.ResourceID() {
				continue
			}

			assert.False(t, a.Overlaps(b.StartDate, b.EndDate), "%s overlaps %s", a.ID, b.ID)
		}
	}
}

func TestCreate_RoomPricingAndDefaults(t *testing.T) {
	e := newEngine(t)

	res, err := e.svc.Create(as(ownerID, constant.RoleUser), roomRequest(10, 12))

	require.NoError(t, err)
	assert.Equal(t, 5000.0, res.TotalAmount)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.Equal(t, 1, res.GuestsCount)
	assert.Equal(t, ownerID, res.UserID)
	assert.Len(t, e.store.all(), 1)
}

func TestCreate_GroundIsFree(t *testing.T) {
	e := newEngine(t)

	e.facilities.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(facilityModel.Facility{ID: groundID, Type: facilityModel.TypeGround, Active: true}, nil)

	res, err := e.svc.Create(as(ownerID, constant.RoleUser), dto.CreateBookingRequest{
		BookingType: model.TypeGround,
		FacilityID:  groundID,
		StartDate:   stamp(10),
		EndDate:     stamp(11),
		StartTime:   "09:00",
		EndTime:     "12:00",
		GuestsCount: 22,
	})

	require.NoError(t, err)
	assert.Zero(t, res.TotalAmount)
	assert.Equal(t, 22, res.GuestsCount)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateBookingRequest
		wantErr string
	}{
		{name: "missing dates", req: dto.CreateBookingRequest{BookingType: model.TypeRoom, RoomID: roomID}, wantErr: dto.MsgRequiredFields},
		{name: "unknown type", req: dto.CreateBookingRequest{BookingType: "HALL", StartDate: stamp(10), EndDate: stamp(11)}, wantErr: dto.MsgInvalidBookingType},
		{name: "room without room id", req: dto.CreateBookingRequest{BookingType: model.TypeRoom, StartDate: stamp(10), EndDate: stamp(11)}, wantErr: dto.MsgRoomIDRequired},
		{name: "ground without facility id", req: dto.CreateBookingRequest{BookingType: model.TypeGround, StartDate: stamp(10), EndDate: stamp(11)}, wantErr: dto.MsgFacilityIDRequired},
		{name: "start in the past", req: dto.CreateBookingRequest{BookingType: model.TypeRoom, RoomID: roomID, StartDate: "2030-05-20", EndDate: stamp(11)}, wantErr: dto.MsgStartInPast},
		{name: "end before start", req: roomRequest(12, 10), wantErr: dto.MsgEndBeforeStart},
		{name: "empty range", req: roomRequest(12, 12), wantErr: dto.MsgEndBeforeStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t)

			_, err := e.svc.Create(as(ownerID, constant.RoleUser), tt.req)

			assert.EqualError(t, err, tt.wantErr)
			assert.Equal(t, failure.KindValidation, failure.GetKind(err))
			assert.Empty(t, e.store.all())
		})
	}
}

func TestCreate_BoundaryDayConflicts(t *testing.T) {
	e := newEngine(t, roomBooking("b1", otherID, 10, 12, model.StatusConfirmed))

	_, err := e.svc.Create(as(ownerID, constant.RoleUser), roomRequest(12, 14))

	assert.EqualError(t, err, service.MessageDatesUnavailable)
	assert.Equal(t, failure.KindConflict, failure.GetKind(err))

	_, err = e.svc.Create(as(ownerID, constant.RoleUser), roomRequest(13, 15))

	require.NoError(t, err)
	assertNoOverlap(t, e.store.all())
}

func TestCreate_IgnoresInactiveBookings(t *testing.T) {
	e := newEngine(t,
		roomBooking("b1", otherID, 10, 12, model.StatusCancelled),
		roomBooking("b2", otherID, 10, 12, model.StatusCompleted),
	)

	_, err := e.svc.Create(as(ownerID, constant.RoleUser), roomRequest(10, 12))

	require.NoError(t, err)
}

func TestCreate_InactiveRoom(t *testing.T) {
	ctrl := gomock.NewController(t)
	rooms := roomMocks.NewMockRoom(ctrl)
	rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: roomID, Active: false}, nil)

	svc := service.NewWithClock(
		newMemoryStore(), facilityMocks.NewMockFacility(ctrl), rooms, taskMocks.NewMockTask(ctrl),
		txMocks.NewLocalTransactor(), nil, &config.Config{}, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel(),
		func() time.Time { return clock },
	)

	_, err := svc.Create(as(ownerID, constant.RoleUser), roomRequest(10, 12))

	assert.EqualError(t, err, service.MessageRoomInactive)
}

func TestCreate_BuildingIsNotBookable(t *testing.T) {
	e := newEngine(t)

	e.facilities.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(facilityModel.Facility{ID: buildingID, Type: facilityModel.TypeBuilding, Active: true}, nil)

	_, err := e.svc.Create(as(ownerID, constant.RoleUser), dto.CreateBookingRequest{
		BookingType: model.TypeGround,
		FacilityID:  buildingID,
		StartDate:   stamp(10),
		EndDate:     stamp(11),
	})

	assert.EqualError(t, err, service.MessageNotBookable)
}

func TestCreate_ConcurrentOverlappingRequests(t *testing.T) {
	e := newEngine(t)

	const attempts = 25

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := range attempts {
		wg.Add(1)

		go func() {
			defer wg.Done()

			// every window contains day 15
			_, err := e.svc.Create(as(ownerID, constant.RoleUser), roomRequest(10+i%5, 15+i%3))

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				succeeded++
			case failure.IsKind(err, failure.KindConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
	assertNoOverlap(t, e.store.all())
}

func TestCreate_RandomSequenceKeepsInvariant(t *testing.T) {
	e := newEngine(t)

	windows := [][2]int{{2, 4}, {4, 6}, {5, 7}, {7, 9}, {8, 8}, {10, 11}, {3, 12}, {11, 13}, {14, 20}, {20, 21}, {22, 25}, {21, 22}}

	for _, w := range windows {
		before := e.store.all()

		_, err := e.svc.Create(as(ownerID, constant.RoleUser), roomRequest(w[0], w[1]))
		if err != nil {
			if !failure.IsKind(err, failure.KindConflict) {
				continue
			}

			overlapped := false
			for _, b := range before {
				overlapped = overlapped || (b.IsActive() && b.Overlaps(day(w[0]), day(w[1])))
			}

			assert.True(t, overlapped, "window %v rejected without an overlap", w)
		}

		assertNoOverlap(t, e.store.all())
	}
}

func TestUpdate_SelfExclusion(t *testing.T) {
	e := newEngine(t, roomBooking("b1", ownerID, 10, 12, model.StatusPending))

	start := stamp(10)
	end := stamp(12)
	notes := "late check-in"

	res, err := e.svc.Update(as(ownerID, constant.RoleUser), dto.UpdateBookingRequest{StartDate: &start, EndDate: &end, SpecialRequests: &notes}, "b1")

	require.NoError(t, err)
	assert.Equal(t, notes, res.SpecialRequests)
	assert.Equal(t, 5000.0, res.TotalAmount)
}

func TestUpdate_ExtendsAndReprices(t *testing.T) {
	e := newEngine(t, roomBooking("b1", ownerID, 10, 12, model.StatusPending))

	end := stamp(13)

	res, err := e.svc.Update(as(ownerID, constant.RoleUser), dto.UpdateBookingRequest{EndDate: &end}, "b1")

	require.NoError(t, err)
	assert.Equal(t, 7500.0, res.TotalAmount)
	assert.Equal(t, end, res.EndDate)
}

func TestUpdate_ConflictWithAnotherBooking(t *testing.T) {
	e := newEngine(t,
		roomBooking("b1", ownerID, 10, 12, model.StatusPending),
		roomBooking("b2", otherID, 14, 16, model.StatusConfirmed),
	)

	end := stamp(14)

	_, err := e.svc.Update(as(ownerID, constant.RoleUser), dto.UpdateBookingRequest{EndDate: &end}, "b1")

	assert.Equal(t, failure.KindConflict, failure.GetKind(err))
	assertNoOverlap(t, e.store.all())
}

func TestUpdate_StatusGate(t *testing.T) {
	confirmed := model.StatusConfirmed
	guests := 3

	tests := []struct {
		name     string
		seed     model.Booking
		ctx      context.Context
		req      dto.UpdateBookingRequest
		wantKind failure.Kind
		wantErr  string
	}{
		{
			name:     "user edits confirmed booking",
			seed:     roomBooking("b1", ownerID, 10, 12, model.StatusConfirmed),
			ctx:      as(ownerID, constant.RoleUser),
			req:      dto.UpdateBookingRequest{GuestsCount: &guests},
			wantKind: failure.KindInvalidState,
			wantErr:  service.MessageOnlyPending,
		},
		{
			name:     "user sets status",
			seed:     roomBooking("b1", ownerID, 10, 12, model.StatusPending),
			ctx:      as(ownerID, constant.RoleUser),
			req:      dto.UpdateBookingRequest{Status: &confirmed},
			wantKind: failure.KindForbidden,
		},
		{
			name:     "admin edits fields of confirmed booking",
			seed:     roomBooking("b1", ownerID, 10, 12, model.StatusConfirmed),
			ctx:      as("admin-1", constant.RoleAdmin),
			req:      dto.UpdateBookingRequest{GuestsCount: &guests},
			wantKind: failure.KindInvalidState,
			wantErr:  service.MessageStatusOnly,
		},
		{
			name:     "admin reopens cancelled booking",
			seed:     roomBooking("b1", ownerID, 10, 12, model.StatusCancelled),
			ctx:      as("admin-1", constant.RoleAdmin),
			req:      dto.UpdateBookingRequest{Status: &confirmed},
			wantKind: failure.KindInvalidState,
			wantErr:  service.MessageBookingClosed,
		},
		{
			name:     "someone else's booking",
			seed:     roomBooking("b1", otherID, 10, 12, model.StatusPending),
			ctx:      as(ownerID, constant.RoleUser),
			req:      dto.UpdateBookingRequest{GuestsCount: &guests},
			wantKind: failure.KindForbidden,
		},
		{
			name: "admin confirms",
			seed: roomBooking("b1", ownerID, 10, 12, model.StatusPending),
			ctx:  as("admin-1", constant.RoleAdmin),
			req:  dto.UpdateBookingRequest{Status: &confirmed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, tt.seed)

			_, err := e.svc.Update(tt.ctx, tt.req, "b1")

			if tt.wantKind == "" {
				require.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantKind, failure.GetKind(err))

			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			}

			assert.Equal(t, tt.seed, e.store.all()[0])
		})
	}
}

func TestUpdate_PastDateOnMerge(t *testing.T) {
	e := newEngine(t, roomBooking("b1", ownerID, 10, 12, model.StatusPending))

	start := "2030-05-30T00:00:00Z"

	_, err := e.svc.Update(as(ownerID, constant.RoleUser), dto.UpdateBookingRequest{StartDate: &start}, "b1")

	assert.EqualError(t, err, dto.MsgStartInPast)
}

func TestUpdate_NotFound(t *testing.T) {
	e := newEngine(t)
	guests := 2

	_, err := e.svc.Update(as(ownerID, constant.RoleUser), dto.UpdateBookingRequest{GuestsCount: &guests}, "missing")

	assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
}

func TestCancel_IsTerminal(t *testing.T) {
	e := newEngine(t, roomBooking("b1", ownerID, 10, 12, model.StatusConfirmed))

	res, err := e.svc.Cancel(as(ownerID, constant.RoleUser), "b1")

	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, res.Status)
	assert.Equal(t, 5000.0, res.TotalAmount)
	assert.Equal(t, stamp(10), res.StartDate)

	_, err = e.svc.Cancel(as(ownerID, constant.RoleUser), "b1")

	assert.EqualError(t, err, service.MessageCannotCancel)
	assert.Equal(t, failure.KindInvalidState, failure.GetKind(err))

	// the window is free again
	_, err = e.svc.Create(as(otherID, constant.RoleUser), roomRequest(10, 12))

	require.NoError(t, err)
}

func TestCancel_Ownership(t *testing.T) {
	e := newEngine(t, roomBooking("b1", otherID, 10, 12, model.StatusPending))

	_, err := e.svc.Cancel(as(ownerID, constant.RoleUser), "b1")

	assert.Equal(t, failure.KindForbidden, failure.GetKind(err))

	_, err = e.svc.Cancel(as("admin-1", constant.RoleAdmin), "b1")

	require.NoError(t, err)
}

func TestCheckRoomAvailability(t *testing.T) {
	urgent := day(11)
	routine := day(12)

	tests := []struct {
		name      string
		seed      []model.Booking
		tasks     []taskModel.Task
		available bool
		notes     string
	}{
		{name: "free", available: true, notes: dto.NoteRoomAvailable},
		{
			name:  "booked",
			seed:  []model.Booking{roomBooking("b1", otherID, 12, 14, model.StatusPending)},
			notes: dto.NoteRoomBooked,
		},
		{
			name:  "urgent maintenance",
			tasks: []taskModel.Task{{ID: "t1", RoomID: roomID, Priority: taskModel.PriorityUrgent, Status: taskModel.StatusPending, Deadline: &urgent}},
			notes: dto.NoteRoomUrgentTasks,
		},
		{
			name:      "routine cleaning does not block",
			tasks:     []taskModel.Task{{ID: "t2", RoomID: roomID, Priority: taskModel.PriorityHigh, Status: taskModel.StatusInProgress, Deadline: &routine}},
			available: true,
			notes:     dto.NoteRoomAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, tt.seed...)

			e.tasks.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.tasks, nil).Times(2)

			req := dto.AvailabilityRequest{StartDate: stamp(10), EndDate: stamp(12)}

			first, err := e.svc.CheckRoomAvailability(as(ownerID, constant.RoleUser), roomID, req)
			require.NoError(t, err)

			second, err := e.svc.CheckRoomAvailability(as(ownerID, constant.RoleUser), roomID, req)
			require.NoError(t, err)

			assert.Equal(t, tt.available, first.IsAvailable)
			assert.Equal(t, tt.notes, first.AvailabilityNotes)
			assert.Len(t, first.HousekeepingTasks, len(tt.tasks))
			assert.Equal(t, first, second)
		})
	}
}

func TestCheckFacilityAvailability(t *testing.T) {
	ground := groundID
	booked := model.Booking{ID: "g1", UserID: otherID, FacilityID: &ground, BookingType: model.TypeGround, StartDate: day(10), EndDate: day(11), Status: model.StatusConfirmed}

	e := newEngine(t, booked)

	e.facilities.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(facilityModel.Facility{ID: groundID, Name: "Oval", Type: facilityModel.TypeGround, Active: true}, nil).
		Times(2)

	res, err := e.svc.CheckFacilityAvailability(as(ownerID, constant.RoleUser), groundID, dto.AvailabilityRequest{StartDate: stamp(11), EndDate: stamp(12)})

	require.NoError(t, err)
	assert.False(t, res.IsAvailable)
	assert.Equal(t, dto.NoteFacilityBooked, res.AvailabilityNotes)
	assert.Len(t, res.Bookings, 1)

	res, err = e.svc.CheckFacilityAvailability(as(ownerID, constant.RoleUser), groundID, dto.AvailabilityRequest{StartDate: stamp(12), EndDate: stamp(13)})

	require.NoError(t, err)
	assert.True(t, res.IsAvailable)
	assert.Equal(t, dto.NoteFacilityAvailable, res.AvailabilityNotes)
}

func TestCheckAvailability_Errors(t *testing.T) {
	e := newEngine(t)

	_, err := e.svc.CheckRoomAvailability(as(ownerID, constant.RoleUser), roomID, dto.AvailabilityRequest{StartDate: stamp(12), EndDate: stamp(10)})
	assert.EqualError(t, err, dto.MsgEndBeforeStart)

	_, err = e.svc.CheckRoomAvailability(as(ownerID, constant.RoleUser), roomID, dto.AvailabilityRequest{StartDate: stamp(12)})
	assert.EqualError(t, err, dto.MsgDatesRequired)

	e.facilities.EXPECT().Get(gomock.Any(), gomock.Any()).Return(facilityModel.Facility{}, nil)

	_, err = e.svc.CheckFacilityAvailability(as(ownerID, constant.RoleUser), groundID, dto.AvailabilityRequest{StartDate: stamp(10), EndDate: stamp(12)})
	assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
}

func TestCreate_PublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)

	rooms := roomMocks.NewMockRoom(ctrl)
	rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: roomID, PricePerNight: 100, Active: true}, nil)

	redis := cacheMocks.NewMockRedisCache(ctrl)
	redis.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Kafka.Enable = true
	cfg.Kafka.Topics.Booking = "booking.events"

	published := make(chan kafka.Message, 1)

	publisher := kafkaMocks.NewMockPublisher(ctrl)
	publisher.EXPECT().
		Publish(gomock.Any(), "booking.events", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			published <- messages[0]

			return nil
		})

	svc := service.NewWithClock(
		newMemoryStore(), facilityMocks.NewMockFacility(ctrl), rooms, taskMocks.NewMockTask(ctrl),
		txMocks.NewLocalTransactor(), publisher, cfg, redis, mocks.NewOtel(),
		func() time.Time { return clock },
	)

	res, err := svc.Create(as(ownerID, constant.RoleUser), roomRequest(10, 11))
	require.NoError(t, err)

	select {
	case msg := <-published:
		assert.Equal(t, roomID, msg.Key)

		event, ok := msg.Value.(dto.BookingEvent)
		require.True(t, ok)
		assert.Equal(t, dto.EventCreated, event.Event)
		assert.Equal(t, res.ID, event.BookingID)
		assert.Equal(t, model.StatusPending, event.Status)
	case <-time.After(time.Second):
		t.Fatal("booking event was not published")
	}
}

// laggingReplica serves reads outside a transaction from a replica that has not caught up.
type laggingReplica struct {
	*memoryStore
}

func (laggingReplica) Get(context.Context, gDto.FilterGroup, ...string) (model.Booking, error) {
	return model.Booking{}, nil
}

func TestCreate_ReadsBackOnWriteTransaction(t *testing.T) {
	e := newEngine(t)

	res, err := e.over(laggingReplica{e.store}).Create(as(ownerID, constant.RoleUser), roomRequest(10, 12))

	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, 5000.0, res.TotalAmount)
	assert.Len(t, e.store.all(), 1)
}

// exclusionStore behaves like a table whose exclusion constraint rejects every write.
type exclusionStore struct {
	*memoryStore
}

func exclusionViolation() error {
	return fmt.Errorf("failed to insert data (booking): %w", &pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeExclusionViolation)})
}

func (exclusionStore) InsertTx(context.Context, *sqlx.Tx, model.Booking) error {
	return exclusionViolation()
}

func (exclusionStore) UpdateTx(context.Context, *sqlx.Tx, map[string]any, gDto.FilterGroup) error {
	return exclusionViolation()
}

func TestExclusionConstraintReportsConflict(t *testing.T) {
	e := newEngine(t, roomBooking("b1", ownerID, 10, 12, model.StatusPending))
	svc := e.over(exclusionStore{e.store})

	_, err := svc.Create(as(ownerID, constant.RoleUser), roomRequest(20, 22))

	require.Error(t, err)
	assert.Equal(t, failure.KindConflict, failure.GetKind(err))
	assert.EqualError(t, err, service.MessageDatesUnavailable)

	end := stamp(13)

	_, err = svc.Update(as(ownerID, constant.RoleUser), dto.UpdateBookingRequest{EndDate: &end}, "b1")

	require.Error(t, err)
	assert.Equal(t, failure.KindConflict, failure.GetKind(err))
	assert.EqualError(t, err, service.MessageDatesUnavailable)
	assert.Len(t, e.store.all(), 1)
}

func TestCreate_UrgentTasksOnlyAffectAvailability(t *testing.T) {
	e := newEngine(t)

	// no expectations on e.tasks: create must not read housekeeping tasks
	res, err := e.svc.Create(as(ownerID, constant.RoleUser), roomRequest(10, 12))

	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, res.Status)
}
