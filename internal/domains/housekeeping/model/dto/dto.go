package dto

import (
	"net/http"
	"strings"
	"time"

	"github.com/JustAdi10/Booking/internal/domains/housekeeping/model"
	"github.com/JustAdi10/Booking/shared"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/failure"
	gModel "github.com/JustAdi10/Booking/shared/model"
	"github.com/JustAdi10/Booking/shared/timezone"

	"github.com/google/uuid"
)

const (
	MsgInvalidDeadline     = "Deadline must be an RFC3339 timestamp or a YYYY-MM-DD date"
	MsgInvalidHistoryRange = "start_date and end_date must be dates with start_date not after end_date"
)

type CreateTaskRequest struct {
	RoomID      string `json:"room_id"     validate:"required,uuid"`
	AssignedTo  string `json:"assigned_to" validate:"required,uuid"`
	TaskType    string `json:"task_type"   validate:"required,oneof=CLEANING MAINTENANCE INSPECTION"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Deadline    string `json:"deadline"    validate:"omitempty,datetime_any"`
}

func (c *CreateTaskRequest) ToModel(user string, now time.Time) (model.Task, error) {
	deadline, err := parseDeadline(c.Deadline)
	if err != nil {
		return model.Task{}, err
	}

	priority := c.Priority
	if priority == constant.Empty {
		priority = model.PriorityMedium
	}

	return model.Task{
		ID:          uuid.NewString(),
		RoomID:      c.RoomID,
		AssignedTo:  c.AssignedTo,
		TaskType:    c.TaskType,
		Priority:    priority,
		Status:      model.StatusPending,
		Description: c.Description,
		Deadline:    deadline,
		Metadata:    gModel.NewMetadata(user, now),
	}, nil
}

type UpdateTaskRequest struct {
	TaskType        string  `json:"task_type"        validate:"omitempty,oneof=CLEANING MAINTENANCE INSPECTION"`
	Priority        string  `json:"priority"         validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status          string  `json:"status"           validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED NEEDS_REPAIR"`
	Description     *string `json:"description"      validate:"omitempty,max=2000"`
	Deadline        string  `json:"deadline"         validate:"omitempty,datetime_any"`
	CompletionNotes *string `json:"completion_notes" validate:"omitempty,max=2000"`
}

func (u *UpdateTaskRequest) IsEmpty() bool {
	return u.TaskType == constant.Empty && u.Priority == constant.Empty && u.Status == constant.Empty &&
		u.Description == nil && u.Deadline == constant.Empty && u.CompletionNotes == nil
}

// Fields builds the column changes against the task's current state.
func (u *UpdateTaskRequest) Fields(current model.Task, user string, now time.Time) (map[string]any, error) {
	fields := map[string]any{
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if u.TaskType != constant.Empty {
		fields[model.FieldTaskType] = u.TaskType
	}

	if u.Priority != constant.Empty {
		fields[model.FieldPriority] = u.Priority
	}

	if u.Description != nil {
		fields[model.FieldDescription] = *u.Description
	}

	if u.CompletionNotes != nil {
		fields[model.FieldCompletionNotes] = *u.CompletionNotes
	}

	if u.Deadline != constant.Empty {
		deadline, err := parseDeadline(u.Deadline)
		if err != nil {
			return nil, err
		}

		fields[model.FieldDeadline] = *deadline
	}

	if u.Status != constant.Empty {
		statusFields(fields, current, u.Status, now)
	}

	return fields, nil
}

type UpdateTaskStatusRequest struct {
	Status          string `json:"status"           validate:"required,oneof=PENDING IN_PROGRESS COMPLETED NEEDS_REPAIR"`
	CompletionNotes string `json:"completion_notes" validate:"omitempty,max=2000"`
}

func (u *UpdateTaskStatusRequest) Fields(current model.Task, user string, now time.Time) map[string]any {
	fields := map[string]any{
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if u.CompletionNotes != constant.Empty {
		fields[model.FieldCompletionNotes] = u.CompletionNotes
	}

	statusFields(fields, current, u.Status, now)

	return fields
}

// statusFields stamps completed_at only on the first move into COMPLETED.
func statusFields(fields map[string]any, current model.Task, status string, now time.Time) {
	fields[model.FieldStatus] = status

	if status == model.StatusCompleted && current.Status != model.StatusCompleted && current.CompletedAt == nil {
		fields[model.FieldCompletedAt] = now
	}
}

func parseDeadline(value string) (*time.Time, error) {
	if value == constant.Empty {
		return nil, nil
	}

	deadline, err := timezone.ParseDateTime(value)
	if err != nil {
		return nil, failure.BadRequestFromString(MsgInvalidDeadline) //nolint:wrapcheck
	}

	return &deadline, nil
}

// TaskFilter is the typed listing query.
type TaskFilter struct {
	AssignedTo string
	RoomID     string
	TaskType   string `validate:"omitempty,oneof=CLEANING MAINTENANCE INSPECTION"`
	Priority   string `validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status     string `validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED NEEDS_REPAIR"`
	Deadline   *time.Time
}

func (f *TaskFilter) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	f.AssignedTo = query.Get("assigned_to")
	f.RoomID = query.Get("room_id")
	f.TaskType = strings.ToUpper(query.Get("task_type"))
	f.Priority = strings.ToUpper(query.Get("priority"))
	f.Status = strings.ToUpper(query.Get("status"))

	deadline, err := parseDeadline(query.Get("deadline"))
	if err != nil {
		return err
	}

	f.Deadline = deadline

	return nil
}

func (f *TaskFilter) FilterGroup() gDto.FilterGroup {
	filters := []any{}

	eq := func(field, value string) {
		if value != constant.Empty {
			filters = append(filters, gDto.Filter{Field: field, Value: value, Operator: gDto.FilterOperatorEq, Table: model.TableName})
		}
	}

	eq(model.FieldAssignedTo, f.AssignedTo)
	eq(model.FieldRoomID, f.RoomID)
	eq(model.FieldTaskType, f.TaskType)
	eq(model.FieldPriority, f.Priority)
	eq(model.FieldStatus, f.Status)

	if f.Deadline != nil {
		filters = append(filters, gDto.Filter{Field: model.FieldDeadline, Value: *f.Deadline, Operator: gDto.FilterOperatorLessEq, Table: model.TableName})
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
}

// HistoryFilter narrows the completed-task history. The completion window only applies
// when both ends are given.
type HistoryFilter struct {
	AssignedTo    string
	RoomID        string
	CompletedFrom *time.Time
	CompletedTo   *time.Time
}

func (f *HistoryFilter) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	f.AssignedTo = query.Get("assigned_to")
	f.RoomID = query.Get("room_id")

	from, to := query.Get("start_date"), query.Get("end_date")
	if from == constant.Empty || to == constant.Empty {
		return nil
	}

	start, err := timezone.ParseDateTime(from)
	if err != nil {
		return failure.BadRequestFromString(MsgInvalidHistoryRange) //nolint:wrapcheck
	}

	end, err := timezone.ParseDateTime(to)
	if err != nil || end.Before(start) {
		return failure.BadRequestFromString(MsgInvalidHistoryRange) //nolint:wrapcheck
	}

	f.CompletedFrom, f.CompletedTo = &start, &end

	return nil
}

func (f *HistoryFilter) FilterGroup() gDto.FilterGroup {
	filters := []any{
		gDto.Filter{Field: model.FieldStatus, Value: model.StatusCompleted, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}

	if f.AssignedTo != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldAssignedTo, Value: f.AssignedTo, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.RoomID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldRoomID, Value: f.RoomID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.CompletedFrom != nil && f.CompletedTo != nil {
		filters = append(filters,
			gDto.Filter{ArgName: "completed_from", Field: model.FieldCompletedAt, Value: *f.CompletedFrom, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
			gDto.Filter{ArgName: "completed_to", Field: model.FieldCompletedAt, Value: *f.CompletedTo, Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
		)
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
}

type RoomSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RoomNumber string `json:"room_number"`
}

type TaskResponse struct {
	ID              string      `json:"id"`
	Room            RoomSummary `json:"room"`
	AssignedTo      string      `json:"assigned_to"`
	AssigneeName    *string     `json:"assignee_name,omitempty"`
	TaskType        string      `json:"task_type"`
	Priority        string      `json:"priority"`
	Status          string      `json:"status"`
	Description     string      `json:"description"`
	Deadline        *time.Time  `json:"deadline,omitempty"`
	CompletionNotes string      `json:"completion_notes"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
	gDto.Metadata
}

func (r *TaskResponse) FromModel(model model.Task) {
	r.ID = model.ID
	r.Room = RoomSummary{ID: model.RoomID, Name: model.RoomName, RoomNumber: model.RoomNumber}
	r.AssignedTo = model.AssignedTo
	r.AssigneeName = model.AssigneeName
	r.TaskType = model.TaskType
	r.Priority = model.Priority
	r.Status = model.Status
	r.Description = model.Description
	r.Deadline = model.Deadline
	r.CompletionNotes = model.CompletionNotes
	r.CompletedAt = model.CompletedAt
	r.Metadata.FromModel(model.Metadata)
}

func FromModels(models []model.Task) []TaskResponse {
	res := make([]TaskResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}

type GetTasksResponse struct {
	Tasks     []TaskResponse `json:"tasks"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetTasksResponse) FromModels(models []model.Task, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Tasks = FromModels(models)
}
