package model

import (
	"math"
	"slices"
	"time"

	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldUserID          = "user_id"
	FieldFacilityID      = "facility_id"
	FieldRoomID          = "room_id"
	FieldBookingType     = "booking_type"
	FieldStartDate       = "start_date"
	FieldEndDate         = "end_date"
	FieldStartTime       = "start_time"
	FieldEndTime         = "end_time"
	FieldGuestsCount     = "guests_count"
	FieldTotalAmount     = "total_amount"
	FieldStatus          = "status"
	FieldSpecialRequests = "special_requests"
)

const (
	TypeGround = "GROUND"
	TypeRoom   = "ROOM"
)

const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// ActiveStatuses are the statuses that occupy a resource.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

type Booking struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	FacilityID      *string   `db:"facility_id"`
	RoomID          *string   `db:"room_id"`
	BookingType     string    `db:"booking_type"`
	StartDate       time.Time `db:"start_date"`
	EndDate         time.Time `db:"end_date"`
	StartTime       *string   `db:"start_time"`
	EndTime         *string   `db:"end_time"`
	GuestsCount     int       `db:"guests_count"`
	TotalAmount     float64   `db:"total_amount"`
	Status          string    `db:"status"`
	SpecialRequests string    `db:"special_requests"`

	FacilityName *string `column:"name"        db:"facility_name" table:"facilities"`
	RoomName     *string `column:"name"        db:"room_name"     table:"rooms"`
	RoomNumber   *string `column:"room_number" db:"room_number"   table:"rooms"`
	UserName     string  `column:"name"        db:"user_name"     table:"users"`
	UserEmail    string  `column:"email"       db:"user_email"    table:"users"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN facilities ON facilities.id = bookings.facility_id " +
		"LEFT JOIN rooms ON rooms.id = bookings.room_id " +
		"LEFT JOIN users ON users.id = bookings.user_id"
}

// ResourceID is the id of whichever resource the booking occupies.
func (b Booking) ResourceID() string {
	if b.BookingType == TypeRoom && b.RoomID != nil {
		return *b.RoomID
	}

	if b.FacilityID != nil {
		return *b.FacilityID
	}

	return constant.Empty
}

func (b Booking) IsActive() bool {
	return slices.Contains(ActiveStatuses, b.Status)
}

func (b Booking) Overlaps(start, end time.Time) bool {
	return Overlaps(b.StartDate, b.EndDate, start, end)
}

// Overlaps is the inclusive range test: ranges sharing a boundary instant conflict.
func Overlaps(existingStart, existingEnd, start, end time.Time) bool {
	return !existingStart.After(end) && !existingEnd.Before(start)
}

// Nights rounds a stay up to whole 24 hour periods of wall clock time in the zone of start,
// so a night across a DST change is still one night.
func Nights(start, end time.Time) int {
	hours := wallClock(end.In(start.Location())).Sub(wallClock(start)).Hours()
	if hours <= 0 {
		return 0
	}

	return int(math.Ceil(hours / constant.HoursPerNight))
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// TotalAmount prices a stay. Ground bookings have no price model and are always 0.
func TotalAmount(bookingType string, pricePerNight float64, start, end time.Time) float64 {
	if bookingType != TypeRoom {
		return 0
	}

	return pricePerNight * float64(Nights(start, end))
}

// OverlapQuery selects the bookings on one resource that occupy any part of [Start, End].
type OverlapQuery struct {
	FacilityID string
	RoomID     string
	Start      time.Time
	End        time.Time
	ExcludeID  string
}

func (q OverlapQuery) FilterGroup() gDto.FilterGroup {
	resource := gDto.Filter{Field: FieldFacilityID, Value: q.FacilityID, Operator: gDto.FilterOperatorEq, Table: TableName}
	if q.RoomID != constant.Empty {
		resource = gDto.Filter{Field: FieldRoomID, Value: q.RoomID, Operator: gDto.FilterOperatorEq, Table: TableName}
	}

	filters := []any{
		resource,
		gDto.Filter{Field: FieldStatus, Value: ActiveStatuses, Operator: gDto.FilterOperatorIn, Table: TableName},
		gDto.Filter{ArgName: "window_end", Field: FieldStartDate, Value: q.End, Operator: gDto.FilterOperatorLessEq, Table: TableName},
		gDto.Filter{ArgName: "window_start", Field: FieldEndDate, Value: q.Start, Operator: gDto.FilterOperatorGreaterEq, Table: TableName},
	}

	if q.ExcludeID != constant.Empty {
		filters = append(filters, gDto.Filter{ArgName: "exclude_id", Field: FieldID, Value: q.ExcludeID, Operator: gDto.FilterOperatorNotEq, Table: TableName})
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
}

// Matches applies the same predicate as FilterGroup in memory.
func (q OverlapQuery) Matches(b Booking) bool {
	if q.RoomID != constant.Empty {
		if b.RoomID == nil || *b.RoomID != q.RoomID {
			return false
		}
	} else if b.FacilityID == nil || *b.FacilityID != q.FacilityID {
		return false
	}

	if q.ExcludeID != constant.Empty && b.ID == q.ExcludeID {
		return false
	}

	return b.IsActive() && b.Overlaps(q.Start, q.End)
}
