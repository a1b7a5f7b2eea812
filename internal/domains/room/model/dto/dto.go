package dto

import (
	"github.com/JustAdi10/Booking/internal/domains/room/model"
	"github.com/JustAdi10/Booking/shared"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	gModel "github.com/JustAdi10/Booking/shared/model"
	"github.com/JustAdi10/Booking/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateRoomRequest struct {
	Name          string   `json:"name"            validate:"required,max=100"`
	RoomNumber    string   `json:"room_number"     validate:"omitempty,max=20"`
	Type          string   `json:"type"            validate:"required,oneof=SINGLE DOUBLE SUITE DORMITORY"`
	Capacity      int      `json:"capacity"        validate:"required,gte=1"`
	FloorNumber   int      `json:"floor_number"    validate:"omitempty"`
	PricePerNight float64  `json:"price_per_night" validate:"omitempty,gte=0"`
	Amenities     []string `json:"amenities"       validate:"omitempty,dive,required,max=100"`
	Active        *bool    `json:"active"          validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user, facilityID string) model.Room {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	amenities := c.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	return model.Room{
		ID:            uuid.NewString(),
		FacilityID:    facilityID,
		Name:          c.Name,
		RoomNumber:    c.RoomNumber,
		Type:          c.Type,
		Capacity:      c.Capacity,
		FloorNumber:   c.FloorNumber,
		PricePerNight: c.PricePerNight,
		Amenities:     amenities,
		Active:        active,
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdateRoomRequest struct {
	Name          string         `db:"name"            json:"name"            validate:"omitempty,max=100"`
	RoomNumber    string         `db:"room_number"     json:"room_number"     validate:"omitempty,max=20"`
	Type          string         `db:"type"            json:"type"            validate:"omitempty,oneof=SINGLE DOUBLE SUITE DORMITORY"`
	Capacity      *int           `db:"capacity"        json:"capacity"        validate:"omitempty,gte=1"`
	FloorNumber   *int           `db:"floor_number"    json:"floor_number"    validate:"omitempty"`
	PricePerNight *float64       `db:"price_per_night" json:"price_per_night" validate:"omitempty,gte=0"`
	Amenities     pq.StringArray `db:"amenities"       json:"amenities"       validate:"omitempty,dive,required,max=100"`
	Active        *bool          `db:"active"          json:"active"          validate:"omitempty"`
}

func (u *UpdateRoomRequest) IsEmpty() bool {
	return u.Name == constant.Empty && u.RoomNumber == constant.Empty && u.Type == constant.Empty &&
		u.Capacity == nil && u.FloorNumber == nil && u.PricePerNight == nil && u.Amenities == nil && u.Active == nil
}

type RoomResponse struct {
	ID            string   `json:"id"`
	FacilityID    string   `json:"facility_id"`
	Name          string   `json:"name"`
	RoomNumber    string   `json:"room_number"`
	Type          string   `json:"type"`
	Capacity      int      `json:"capacity"`
	FloorNumber   int      `json:"floor_number"`
	PricePerNight float64  `json:"price_per_night"`
	Amenities     []string `json:"amenities"`
	Active        bool     `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.FacilityID = model.FacilityID
	r.Name = model.Name
	r.RoomNumber = model.RoomNumber
	r.Type = model.Type
	r.Capacity = model.Capacity
	r.FloorNumber = model.FloorNumber
	r.PricePerNight = model.PricePerNight
	r.Amenities = []string(model.Amenities)
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)

	if r.Amenities == nil {
		r.Amenities = []string{}
	}
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

// RoomFilter lists the rooms of one facility. A nil Active matches both states.
type RoomFilter struct {
	FacilityID string
	Active     *bool
}

func (f *RoomFilter) FilterGroup() gDto.FilterGroup {
	filters := []any{
		gDto.Filter{Field: model.FieldFacilityID, Value: f.FacilityID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}

	if f.Active != nil {
		filters = append(filters, gDto.Filter{Field: model.FieldActive, Value: *f.Active, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
}
