package repository

import (
	"context"
	"testing"

	"github.com/JustAdi10/Booking/infras/otel/mocks"
	"github.com/JustAdi10/Booking/shared/dto"

	"github.com/stretchr/testify/assert"
)

type audit struct {
	CreatedBy string `db:"created_by"`
}

type slot struct {
	audit
	ID       string `db:"id"`
	RoomID   string `db:"room_id"`
	RoomName string `column:"name" db:"room_name" table:"rooms"`
	Scratch  string
}

func (slot) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = slots.room_id"
}

func newSlotRepository() Repository[slot] {
	return NewRepository[slot]("slot", "slots", "id", nil, mocks.NewOtel())
}

func TestNewRepository_Columns(t *testing.T) {
	repo := newSlotRepository()

	assert.Equal(t, []string{"created_by", "id", "room_id"}, repo.InsertColumns)
	assert.Equal(t, "LEFT JOIN rooms ON rooms.id = slots.room_id", repo.join)
	assert.Equal(t, []column{
		{name: "created_by", table: "slots"},
		{name: "id", table: "slots"},
		{name: "room_id", table: "slots"},
		{name: "name", table: "rooms", alias: "room_name"},
	}, repo.columns)
}

func TestRepository_SelectQuery(t *testing.T) {
	repo := newSlotRepository()

	assert.Equal(t,
		"SELECT slots.created_by, slots.id, slots.room_id, rooms.name AS room_name FROM slots LEFT JOIN rooms ON rooms.id = slots.room_id WHERE (slots.id = :id)",
		repo.selectQuery(nil, "WHERE (slots.id = :id)", ""),
	)

	assert.Equal(t,
		"SELECT slots.id FROM slots LEFT JOIN rooms ON rooms.id = slots.room_id",
		repo.selectQuery([]string{"id"}, "", ""),
	)
}

func TestRepository_InsertAndUpdateQuery(t *testing.T) {
	repo := newSlotRepository()

	assert.Equal(t, "INSERT INTO slots (created_by, id, room_id) VALUES (:created_by, :id, :room_id)", repo.insertQuery())
	assert.Equal(t,
		"UPDATE slots SET modified_by = :modified_by, room_id = :room_id WHERE id = :id",
		repo.updateQuery(map[string]any{"room_id": "r2", "modified_by": "admin"}, "WHERE id = :id"),
	)
}

func TestPageClause(t *testing.T) {
	tests := []struct {
		name     string
		params   dto.QueryParams
		want     string
		wantArgs map[string]any
	}{
		{name: "nothing", params: dto.QueryParams{}, want: "", wantArgs: map[string]any{}},
		{
			name:     "paged",
			params:   dto.QueryParams{Page: 3, Limit: 10},
			want:     "LIMIT :limit OFFSET :offset",
			wantArgs: map[string]any{"limit": 10, "offset": 20},
		},
		{
			name:     "sorted and paged",
			params:   dto.QueryParams{Page: 1, Limit: 5, SortBy: "start_date", SortDir: dto.SortDirDesc},
			want:     "ORDER BY start_date DESC LIMIT :limit OFFSET :offset",
			wantArgs: map[string]any{"limit": 5, "offset": 0},
		},
		{name: "direction without column", params: dto.QueryParams{SortDir: dto.SortDirAsc}, want: "", wantArgs: map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]any{}

			assert.Equal(t, tt.want, pageClause(tt.params, args))
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestRepository_BuildWhereClause(t *testing.T) {
	repo := newSlotRepository()

	where, args := repo.BuildWhereClause(context.Background(), dto.FilterGroup{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = repo.BuildWhereClause(context.Background(), dto.FilterGroup{
		Filters: []any{dto.Filter{Field: "room_id", Value: "r1", Operator: dto.FilterOperatorEq, Table: "slots"}},
	})
	assert.Equal(t, "WHERE (slots.room_id = :room_id)", where)
	assert.Equal(t, map[string]any{"room_id": "r1"}, args)
}
