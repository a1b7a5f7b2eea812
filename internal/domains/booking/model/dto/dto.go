package dto

import (
	"net/http"
	"strings"
	"time"

	"github.com/JustAdi10/Booking/internal/domains/booking/model"
	facilityDto "github.com/JustAdi10/Booking/internal/domains/facility/model/dto"
	taskModel "github.com/JustAdi10/Booking/internal/domains/housekeeping/model"
	taskDto "github.com/JustAdi10/Booking/internal/domains/housekeeping/model/dto"
	roomDto "github.com/JustAdi10/Booking/internal/domains/room/model/dto"
	"github.com/JustAdi10/Booking/shared"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/failure"
	gModel "github.com/JustAdi10/Booking/shared/model"
	"github.com/JustAdi10/Booking/shared/timezone"

	"github.com/google/uuid"
)

const (
	ColorConfirmed = "#10b981"
	ColorPending   = "#f59e0b"

	calendarEventType = "booking"
)

const (
	MsgRequiredFields      = "Booking type, start date, and end date are required"
	MsgInvalidBookingType  = "Invalid booking type"
	MsgFacilityIDRequired  = "Facility ID is required for ground bookings"
	MsgRoomIDRequired      = "Room ID is required for room bookings"
	MsgFacilityIDForbidden = "Facility ID must not be set for room bookings"
	MsgRoomIDForbidden     = "Room ID must not be set for ground bookings"
	MsgStartInPast         = "Start date cannot be in the past"
	MsgEndBeforeStart      = "End date must be after start date"
	MsgInvalidStartDate    = "Invalid start date"
	MsgInvalidEndDate      = "Invalid end date"
	MsgDatesRequired       = "Start date and end date are required"
	MsgRangeRequired       = "Start and end dates are required"
)

const (
	NoteRoomBooked        = "Room is booked for this period"
	NoteRoomUrgentTasks   = "Room has urgent maintenance tasks"
	NoteRoomAvailable     = "Room is available"
	NoteFacilityBooked    = "Facility is booked for this period"
	NoteFacilityAvailable = "Facility is available"
)

// CreateBookingRequest leaves presence, type and date checks to Window so their order and messages stay fixed.
type CreateBookingRequest struct {
	BookingType     string `json:"booking_type"     example:"ROOM"`
	FacilityID      string `json:"facility_id"      validate:"omitempty,uuid"`
	RoomID          string `json:"room_id"          validate:"omitempty,uuid"`
	StartDate       string `json:"start_date"       example:"2030-06-10"`
	EndDate         string `json:"end_date"         example:"2030-06-12"`
	StartTime       string `json:"start_time"       validate:"omitempty,time_of_day"`
	EndTime         string `json:"end_time"         validate:"omitempty,time_of_day"`
	GuestsCount     int    `json:"guests_count"     validate:"omitempty,gte=1"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=1000"`
}

// Window runs the ordered request checks and returns the parsed range.
// Each failing check yields its own validation failure.
func (c *CreateBookingRequest) Window(now time.Time) (start, end time.Time, err error) {
	if c.BookingType == constant.Empty || c.StartDate == constant.Empty || c.EndDate == constant.Empty {
		return start, end, failure.BadRequestFromString(MsgRequiredFields) //nolint:wrapcheck
	}

	switch c.BookingType {
	case model.TypeGround:
		if c.FacilityID == constant.Empty {
			return start, end, failure.BadRequestFromString(MsgFacilityIDRequired) //nolint:wrapcheck
		}

		if c.RoomID != constant.Empty {
			return start, end, failure.BadRequestFromString(MsgRoomIDForbidden) //nolint:wrapcheck
		}
	case model.TypeRoom:
		if c.RoomID == constant.Empty {
			return start, end, failure.BadRequestFromString(MsgRoomIDRequired) //nolint:wrapcheck
		}

		if c.FacilityID != constant.Empty {
			return start, end, failure.BadRequestFromString(MsgFacilityIDForbidden) //nolint:wrapcheck
		}
	default:
		return start, end, failure.BadRequestFromString(MsgInvalidBookingType) //nolint:wrapcheck
	}

	return ValidateWindow(c.StartDate, c.EndDate, now)
}

func (c *CreateBookingRequest) ResourceID() string {
	if c.BookingType == model.TypeRoom {
		return c.RoomID
	}

	return c.FacilityID
}

func (c *CreateBookingRequest) ToModel(userID string, start, end time.Time, totalAmount float64, now time.Time) model.Booking {
	guests := c.GuestsCount
	if guests < 1 {
		guests = 1
	}

	return model.Booking{
		ID:              uuid.NewString(),
		UserID:          userID,
		FacilityID:      optional(c.FacilityID),
		RoomID:          optional(c.RoomID),
		BookingType:     c.BookingType,
		StartDate:       start,
		EndDate:         end,
		StartTime:       optional(c.StartTime),
		EndTime:         optional(c.EndTime),
		GuestsCount:     guests,
		TotalAmount:     totalAmount,
		Status:          model.StatusPending,
		SpecialRequests: c.SpecialRequests,
		Metadata:        gModel.NewMetadata(userID, now),
	}
}

// ValidateWindow parses both bounds and checks that start is not in the past and end is after start.
func ValidateWindow(startDate, endDate string, now time.Time) (start, end time.Time, err error) {
	start, err = timezone.ParseDateTime(startDate)
	if err != nil {
		return start, end, failure.BadRequestFromString(MsgInvalidStartDate) //nolint:wrapcheck
	}

	end, err = timezone.ParseDateTime(endDate)
	if err != nil {
		return start, end, failure.BadRequestFromString(MsgInvalidEndDate) //nolint:wrapcheck
	}

	return start, end, CheckWindow(start, end, now)
}

func CheckWindow(start, end, now time.Time) error {
	if start.Before(now) {
		return failure.BadRequestFromString(MsgStartInPast) //nolint:wrapcheck
	}

	if !end.After(start) {
		return failure.BadRequestFromString(MsgEndBeforeStart) //nolint:wrapcheck
	}

	return nil
}

type UpdateBookingRequest struct {
	StartDate       *string `json:"start_date"       validate:"omitempty,datetime_any"`
	EndDate         *string `json:"end_date"         validate:"omitempty,datetime_any"`
	StartTime       *string `json:"start_time"       validate:"omitempty,time_of_day"`
	EndTime         *string `json:"end_time"         validate:"omitempty,time_of_day"`
	GuestsCount     *int    `json:"guests_count"     validate:"omitempty,gte=1"`
	SpecialRequests *string `json:"special_requests" validate:"omitempty,max=1000"`
	Status          *string `json:"status"           validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
}

func (u *UpdateBookingRequest) IsEmpty() bool {
	return *u == UpdateBookingRequest{}
}

func (u *UpdateBookingRequest) ChangesDates() bool {
	return u.StartDate != nil || u.EndDate != nil
}

// OnlyStatus reports whether status is the sole field being changed.
func (u *UpdateBookingRequest) OnlyStatus() bool {
	return u.Status != nil && *u == UpdateBookingRequest{Status: u.Status}
}

// MergedWindow overlays the requested dates on the stored ones.
func (u *UpdateBookingRequest) MergedWindow(current model.Booking, now time.Time) (start, end time.Time, err error) {
	startDate := timezone.Format(current.StartDate, constant.DateFormat)
	if u.StartDate != nil {
		startDate = *u.StartDate
	}

	endDate := timezone.Format(current.EndDate, constant.DateFormat)
	if u.EndDate != nil {
		endDate = *u.EndDate
	}

	return ValidateWindow(startDate, endDate, now)
}

// Fields builds the column patch. start and end are only applied when dates change.
func (u *UpdateBookingRequest) Fields(start, end time.Time, totalAmount *float64, user string, now time.Time) map[string]any {
	fields := map[string]any{}

	if u.ChangesDates() {
		fields[model.FieldStartDate] = start
		fields[model.FieldEndDate] = end
	}

	if totalAmount != nil {
		fields[model.FieldTotalAmount] = *totalAmount
	}

	if u.StartTime != nil {
		fields[model.FieldStartTime] = *u.StartTime
	}

	if u.EndTime != nil {
		fields[model.FieldEndTime] = *u.EndTime
	}

	if u.GuestsCount != nil {
		fields[model.FieldGuestsCount] = *u.GuestsCount
	}

	if u.SpecialRequests != nil {
		fields[model.FieldSpecialRequests] = *u.SpecialRequests
	}

	if u.Status != nil {
		fields[model.FieldStatus] = *u.Status
	}

	fields[constant.FieldModifiedAt] = now
	fields[constant.FieldModifiedBy] = user

	return fields
}

// Apply mirrors Fields onto a loaded booking so the caller can answer without re-reading.
func (u *UpdateBookingRequest) Apply(booking *model.Booking, fields map[string]any) {
	for key, value := range fields {
		switch key {
		case model.FieldStartDate:
			booking.StartDate, _ = value.(time.Time)
		case model.FieldEndDate:
			booking.EndDate, _ = value.(time.Time)
		case model.FieldTotalAmount:
			booking.TotalAmount, _ = value.(float64)
		case model.FieldStartTime:
			booking.StartTime = optional(value.(string))
		case model.FieldEndTime:
			booking.EndTime = optional(value.(string))
		case model.FieldGuestsCount:
			booking.GuestsCount, _ = value.(int)
		case model.FieldSpecialRequests:
			booking.SpecialRequests, _ = value.(string)
		case model.FieldStatus:
			booking.Status, _ = value.(string)
		case constant.FieldModifiedAt:
			booking.ModifiedAt, _ = value.(time.Time)
		case constant.FieldModifiedBy:
			booking.ModifiedBy, _ = value.(string)
		}
	}
}

type AvailabilityRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime_any"`
	EndDate   string `json:"end_date"   validate:"required,datetime_any"`
}

func (a *AvailabilityRequest) FromRequest(r *http.Request) {
	query := r.URL.Query()

	a.StartDate = query.Get(constant.RequestParamStartDate)
	a.EndDate = query.Get(constant.RequestParamEndDate)
}

// Window parses the range. Availability may be asked for past ranges, so only ordering is checked.
func (a *AvailabilityRequest) Window() (start, end time.Time, err error) {
	if a.StartDate == constant.Empty || a.EndDate == constant.Empty {
		return start, end, failure.BadRequestFromString(MsgDatesRequired) //nolint:wrapcheck
	}

	start, err = timezone.ParseDateTime(a.StartDate)
	if err != nil {
		return start, end, failure.BadRequestFromString(MsgInvalidStartDate) //nolint:wrapcheck
	}

	end, err = timezone.ParseDateTime(a.EndDate)
	if err != nil {
		return start, end, failure.BadRequestFromString(MsgInvalidEndDate) //nolint:wrapcheck
	}

	if !end.After(start) {
		return start, end, failure.BadRequestFromString(MsgEndBeforeStart) //nolint:wrapcheck
	}

	return start, end, nil
}

// AvailabilityResponse answers an availability check. Room is set for room checks, Facility otherwise.
type AvailabilityResponse struct {
	Facility          *facilityDto.FacilityResponse `json:"facility,omitempty"`
	Room              *roomDto.RoomResponse         `json:"room,omitempty"`
	Bookings          []BookingResponse             `json:"bookings"`
	HousekeepingTasks []taskDto.TaskResponse        `json:"housekeeping_tasks,omitempty"`
	IsAvailable       bool                          `json:"is_available"`
	AvailabilityNotes string                        `json:"availability_notes"`
}

// FacilityAvailability is free when no active booking overlaps the window.
func FacilityAvailability(facility facilityDto.FacilityResponse, bookings []model.Booking) AvailabilityResponse {
	res := AvailabilityResponse{
		Facility:          &facility,
		Bookings:          FromModels(bookings),
		IsAvailable:       len(bookings) == 0,
		AvailabilityNotes: NoteFacilityAvailable,
	}

	if !res.IsAvailable {
		res.AvailabilityNotes = NoteFacilityBooked
	}

	return res
}

// RoomAvailability also reports the open tasks due in the window. Only urgent ones make the room unavailable.
func RoomAvailability(room roomDto.RoomResponse, bookings []model.Booking, tasks []taskModel.Task) AvailabilityResponse {
	urgent := 0

	for _, task := range tasks {
		if task.IsUrgent() {
			urgent++
		}
	}

	res := AvailabilityResponse{
		Room:              &room,
		Bookings:          FromModels(bookings),
		HousekeepingTasks: taskDto.FromModels(tasks),
		IsAvailable:       len(bookings) == 0 && urgent == 0,
	}

	switch {
	case len(bookings) > 0:
		res.AvailabilityNotes = NoteRoomBooked
	case urgent > 0:
		res.AvailabilityNotes = NoteRoomUrgentTasks
	default:
		res.AvailabilityNotes = NoteRoomAvailable
	}

	return res
}

// BookingFilter is the typed listing query. Empty fields are not applied.
type BookingFilter struct {
	UserID      string
	FacilityID  string
	RoomID      string
	BookingType string `validate:"omitempty,oneof=GROUND ROOM"`
	Status      string `validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
	StartDate   *time.Time
	EndDate     *time.Time
	Upcoming    *time.Time
}

func (f *BookingFilter) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	f.UserID = query.Get("user_id")
	f.FacilityID = query.Get("facility_id")
	f.RoomID = query.Get("room_id")
	f.BookingType = strings.ToUpper(query.Get("booking_type"))
	f.Status = strings.ToUpper(query.Get("status"))

	if value := query.Get(constant.RequestParamStartDate); value != constant.Empty {
		start, err := timezone.ParseDateTime(value)
		if err != nil {
			return failure.BadRequestFromString(MsgInvalidStartDate) //nolint:wrapcheck
		}

		f.StartDate = &start
	}

	if value := query.Get(constant.RequestParamEndDate); value != constant.Empty {
		end, err := timezone.ParseDateTime(value)
		if err != nil {
			return failure.BadRequestFromString(MsgInvalidEndDate) //nolint:wrapcheck
		}

		f.EndDate = &end
	}

	return nil
}

func (f *BookingFilter) FilterGroup() gDto.FilterGroup {
	filters := []any{}

	eq := func(field, value string) {
		if value != constant.Empty {
			filters = append(filters, gDto.Filter{Field: field, Value: value, Operator: gDto.FilterOperatorEq, Table: model.TableName})
		}
	}

	eq(model.FieldUserID, f.UserID)
	eq(model.FieldFacilityID, f.FacilityID)
	eq(model.FieldRoomID, f.RoomID)
	eq(model.FieldBookingType, f.BookingType)
	eq(model.FieldStatus, f.Status)

	switch {
	case f.StartDate != nil && f.EndDate != nil:
		filters = append(filters,
			gDto.Filter{ArgName: "window_end", Field: model.FieldStartDate, Value: *f.EndDate, Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
			gDto.Filter{ArgName: "window_start", Field: model.FieldEndDate, Value: *f.StartDate, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
		)
	case f.StartDate != nil:
		filters = append(filters, gDto.Filter{ArgName: "window_start", Field: model.FieldStartDate, Value: *f.StartDate, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName})
	case f.EndDate != nil:
		filters = append(filters, gDto.Filter{ArgName: "window_end", Field: model.FieldEndDate, Value: *f.EndDate, Operator: gDto.FilterOperatorLessEq, Table: model.TableName})
	}

	if f.Upcoming != nil {
		filters = append(filters, gDto.Filter{ArgName: "upcoming", Field: model.FieldStartDate, Value: *f.Upcoming, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName})
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
}

type CalendarRequest struct {
	Start      string `json:"start"       validate:"required,datetime_any"`
	End        string `json:"end"         validate:"required,datetime_any"`
	FacilityID string `json:"facility_id" validate:"omitempty,uuid"`
	RoomID     string `json:"room_id"     validate:"omitempty,uuid"`
}

func (c *CalendarRequest) FromRequest(r *http.Request) {
	query := r.URL.Query()

	c.Start = query.Get(constant.RequestParamStart)
	c.End = query.Get(constant.RequestParamEnd)
	c.FacilityID = query.Get("facility_id")
	c.RoomID = query.Get("room_id")
}

// FilterGroup selects active bookings fully contained in [Start, End].
func (c *CalendarRequest) FilterGroup() (gDto.FilterGroup, error) {
	if c.Start == constant.Empty || c.End == constant.Empty {
		return gDto.FilterGroup{}, failure.BadRequestFromString(MsgRangeRequired) //nolint:wrapcheck
	}

	start, err := timezone.ParseDateTime(c.Start)
	if err != nil {
		return gDto.FilterGroup{}, failure.BadRequestFromString(MsgInvalidStartDate) //nolint:wrapcheck
	}

	end, err := timezone.ParseDateTime(c.End)
	if err != nil {
		return gDto.FilterGroup{}, failure.BadRequestFromString(MsgInvalidEndDate) //nolint:wrapcheck
	}

	filters := []any{
		gDto.Filter{ArgName: "range_start", Field: model.FieldStartDate, Value: start, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
		gDto.Filter{ArgName: "range_end", Field: model.FieldEndDate, Value: end, Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldStatus, Value: model.ActiveStatuses, Operator: gDto.FilterOperatorIn, Table: model.TableName},
	}

	if c.FacilityID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldFacilityID, Value: c.FacilityID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if c.RoomID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldRoomID, Value: c.RoomID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}, nil
}

type ResourceSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	RoomNumber *string `json:"room_number,omitempty"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type BookingResponse struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	FacilityID      *string          `json:"facility_id"`
	RoomID          *string          `json:"room_id"`
	BookingType     string           `json:"booking_type"`
	StartDate       string           `json:"start_date"`
	EndDate         string           `json:"end_date"`
	StartTime       *string          `json:"start_time"`
	EndTime         *string          `json:"end_time"`
	GuestsCount     int              `json:"guests_count"`
	TotalAmount     float64          `json:"total_amount"`
	Status          string           `json:"status"`
	SpecialRequests string           `json:"special_requests"`
	Facility        *ResourceSummary `json:"facility,omitempty"`
	Room            *ResourceSummary `json:"room,omitempty"`
	User            *UserSummary     `json:"user,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.FacilityID = model.FacilityID
	r.RoomID = model.RoomID
	r.BookingType = model.BookingType
	r.StartDate = timezone.Format(model.StartDate, constant.DateFormat)
	r.EndDate = timezone.Format(model.EndDate, constant.DateFormat)
	r.StartTime = model.StartTime
	r.EndTime = model.EndTime
	r.GuestsCount = model.GuestsCount
	r.TotalAmount = model.TotalAmount
	r.Status = model.Status
	r.SpecialRequests = model.SpecialRequests

	if model.FacilityID != nil && model.FacilityName != nil {
		r.Facility = &ResourceSummary{ID: *model.FacilityID, Name: *model.FacilityName}
	}

	if model.RoomID != nil && model.RoomName != nil {
		r.Room = &ResourceSummary{ID: *model.RoomID, Name: *model.RoomName, RoomNumber: model.RoomNumber}
	}

	if model.UserName != constant.Empty || model.UserEmail != constant.Empty {
		r.User = &UserSummary{ID: model.UserID, Name: model.UserName, Email: model.UserEmail}
	}

	r.Metadata.FromModel(model.Metadata)
}

func FromModels(models []model.Booking) []BookingResponse {
	res := make([]BookingResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Bookings = FromModels(models)
}

type CalendarEvent struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Start         string              `json:"start"`
	End           string              `json:"end"`
	Type          string              `json:"type"`
	Status        string              `json:"status"`
	Color         string              `json:"color"`
	ExtendedProps CalendarEventDetail `json:"extended_props"`
}

type CalendarEventDetail struct {
	Booking     BookingResponse `json:"booking"`
	BookingType string          `json:"booking_type"`
	GuestsCount int             `json:"guests_count"`
	TotalAmount float64         `json:"total_amount"`
}

func (e *CalendarEvent) FromModel(booking model.Booking) {
	var detail BookingResponse

	detail.FromModel(booking)

	resourceName := constant.Empty

	switch {
	case booking.FacilityName != nil:
		resourceName = *booking.FacilityName
	case booking.RoomName != nil:
		resourceName = *booking.RoomName
	}

	e.ID = booking.ID
	e.Title = resourceName + " - " + booking.UserName
	e.Start = detail.StartDate
	e.End = detail.EndDate
	e.Type = calendarEventType
	e.Status = booking.Status
	e.Color = ColorPending

	if booking.Status == model.StatusConfirmed {
		e.Color = ColorConfirmed
	}

	e.ExtendedProps = CalendarEventDetail{
		Booking:     detail,
		BookingType: booking.BookingType,
		GuestsCount: booking.GuestsCount,
		TotalAmount: booking.TotalAmount,
	}
}

func optional(value string) *string {
	if value == constant.Empty {
		return nil
	}

	return &value
}

const (
	EventCreated   = "booking.created"
	EventUpdated   = "booking.updated"
	EventCancelled = "booking.cancelled"
)

// BookingEvent is the lifecycle message published after a booking write commits.
type BookingEvent struct {
	Event       string `json:"event"`
	BookingID   string `json:"booking_id"`
	UserID      string `json:"user_id"`
	BookingType string `json:"booking_type"`
	ResourceID  string `json:"resource_id"`
	Status      string `json:"status"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	OccurredAt  string `json:"occurred_at"`
}

func NewBookingEvent(event string, booking model.Booking, now time.Time) BookingEvent {
	return BookingEvent{
		Event:       event,
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		BookingType: booking.BookingType,
		ResourceID:  booking.ResourceID(),
		Status:      booking.Status,
		StartDate:   timezone.Format(booking.StartDate, constant.DateFormat),
		EndDate:     timezone.Format(booking.EndDate, constant.DateFormat),
		OccurredAt:  timezone.Format(now, constant.DateFormat),
	}
}
