package model

import (
	"github.com/JustAdi10/Booking/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "facilities"
	EntityName = "facility"

	FieldID          = "id"
	FieldType        = "type"
	FieldName        = "name"
	FieldDescription = "description"
	FieldLocation    = "location"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldState       = "state"
	FieldCapacity    = "capacity"
	FieldAmenities   = "amenities"
	FieldActive      = "active"
)

const (
	TypeGround   = "GROUND"
	TypeBuilding = "BUILDING"
)

type Facility struct {
	ID          string         `db:"id"`
	Type        string         `db:"type"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Location    string         `db:"location"`
	Address     string         `db:"address"`
	City        string         `db:"city"`
	State       string         `db:"state"`
	Capacity    int            `db:"capacity"`
	Amenities   pq.StringArray `db:"amenities"`
	Active      bool           `db:"active"`
	model.Metadata
}

// IsBookable reports whether the facility is booked as a whole.
func (f Facility) IsBookable() bool {
	return f.Type == TypeGround
}

func (f Facility) HasRooms() bool {
	return f.Type == TypeBuilding
}
