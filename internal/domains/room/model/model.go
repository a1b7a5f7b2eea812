package model

import (
	"github.com/JustAdi10/Booking/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID            = "id"
	FieldFacilityID    = "facility_id"
	FieldName          = "name"
	FieldRoomNumber    = "room_number"
	FieldType          = "type"
	FieldCapacity      = "capacity"
	FieldFloorNumber   = "floor_number"
	FieldPricePerNight = "price_per_night"
	FieldAmenities     = "amenities"
	FieldActive        = "active"
)

const (
	TypeSingle    = "SINGLE"
	TypeDouble    = "DOUBLE"
	TypeSuite     = "SUITE"
	TypeDormitory = "DORMITORY"
)

type Room struct {
	ID            string         `db:"id"`
	FacilityID    string         `db:"facility_id"`
	Name          string         `db:"name"`
	RoomNumber    string         `db:"room_number"`
	Type          string         `db:"type"`
	Capacity      int            `db:"capacity"`
	FloorNumber   int            `db:"floor_number"`
	PricePerNight float64        `db:"price_per_night"`
	Amenities     pq.StringArray `db:"amenities"`
	Active        bool           `db:"active"`
	model.Metadata
}
