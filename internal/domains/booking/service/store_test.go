package service_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/JustAdi10/Booking/internal/domains/booking/model"
	"github.com/JustAdi10/Booking/internal/domains/booking/model/dto"
	gDto "github.com/JustAdi10/Booking/shared/dto"

	"github.com/jmoiron/sqlx"
)

// memoryStore is an in-memory booking repository. It understands the id lookup
// and the overlap query, which is all the engine issues.
type memoryStore struct {
	mu       sync.Mutex
	bookings map[string]model.Booking
	order    []string
}

func newMemoryStore(seed ...model.Booking) *memoryStore {
	store := &memoryStore{bookings: map[string]model.Booking{}}

	for _, booking := range seed {
		store.put(booking)
	}

	return store
}

func (m *memoryStore) put(booking model.Booking) {
	if _, ok := m.bookings[booking.ID]; !ok {
		m.order = append(m.order, booking.ID)
	}

	m.bookings[booking.ID] = booking
}

func (m *memoryStore) all() []model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]model.Booking, 0, len(m.order))
	for _, id := range m.order {
		res = append(res, m.bookings[id])
	}

	return res
}

func (m *memoryStore) match(filter gDto.FilterGroup) []model.Booking {
	_, args := filter.GetWhereClause()

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := args[model.FieldID].(string); ok {
		if booking, found := m.bookings[id]; found {
			return []model.Booking{booking}
		}

		return nil
	}

	start, hasStart := args["window_start"].(time.Time)
	end, hasEnd := args["window_end"].(time.Time)

	if !hasStart || !hasEnd {
		return nil
	}

	query := model.OverlapQuery{Start: start, End: end}
	query.FacilityID, _ = args[model.FieldFacilityID].(string)
	query.RoomID, _ = args[model.FieldRoomID].(string)
	query.ExcludeID, _ = args["exclude_id"].(string)

	res := []model.Booking{}

	for _, id := range m.order {
		if booking := m.bookings[id]; query.Matches(booking) {
			res = append(res, booking)
		}
	}

	slices.SortFunc(res, func(a, b model.Booking) int { return a.StartDate.Compare(b.StartDate) })

	return res
}

func (m *memoryStore) Insert(_ context.Context, booking model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.put(booking)

	return nil
}

func (m *memoryStore) InsertTx(ctx context.Context, _ *sqlx.Tx, booking model.Booking) error {
	return m.Insert(ctx, booking)
}

func (m *memoryStore) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
	if found := m.match(filter); len(found) > 0 {
		return found[0], nil
	}

	return model.Booking{}, nil
}

func (m *memoryStore) GetTx(ctx context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error) {
	return m.Get(ctx, filter, columns...)
}

func (m *memoryStore) GetAll(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
	return m.match(filter), nil
}

func (m *memoryStore) GetAllTx(ctx context.Context, _ *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error) {
	return m.GetAll(ctx, params, filter, columns...)
}

func (m *memoryStore) Exist(_ context.Context, filter gDto.FilterGroup) (bool, error) {
	return len(m.match(filter)) > 0, nil
}

func (m *memoryStore) ExistTx(ctx context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (bool, error) {
	return m.Exist(ctx, filter)
}

func (m *memoryStore) Count(_ context.Context, filter gDto.FilterGroup) (int, error) {
	return len(m.match(filter)), nil
}

func (m *memoryStore) Update(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
	found := m.match(filter)

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, booking := range found {
		(&dto.UpdateBookingRequest{}).Apply(&booking, fields)
		m.put(booking)
	}

	return nil
}

func (m *memoryStore) UpdateTx(ctx context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
	return m.Update(ctx, fields, filter)
}
