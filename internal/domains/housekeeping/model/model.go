package model

import (
	"slices"
	"time"

	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/model"
)

const (
	TableName  = "housekeeping_tasks"
	EntityName = "housekeeping_task"

	FieldID              = "id"
	FieldRoomID          = "room_id"
	FieldAssignedTo      = "assigned_to"
	FieldTaskType        = "task_type"
	FieldPriority        = "priority"
	FieldStatus          = "status"
	FieldDescription     = "description"
	FieldDeadline        = "deadline"
	FieldCompletionNotes = "completion_notes"
	FieldCompletedAt     = "completed_at"
)

const (
	TypeCleaning    = "CLEANING"
	TypeMaintenance = "MAINTENANCE"
	TypeInspection  = "INSPECTION"
)

const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

const (
	StatusPending     = "PENDING"
	StatusInProgress  = "IN_PROGRESS"
	StatusCompleted   = "COMPLETED"
	StatusNeedsRepair = "NEEDS_REPAIR"
)

// OpenStatuses are the statuses of work that still has to happen.
var OpenStatuses = []string{StatusPending, StatusInProgress}

type Task struct {
	ID              string     `db:"id"`
	RoomID          string     `db:"room_id"`
	AssignedTo      string     `db:"assigned_to"`
	TaskType        string     `db:"task_type"`
	Priority        string     `db:"priority"`
	Status          string     `db:"status"`
	Description     string     `db:"description"`
	Deadline        *time.Time `db:"deadline"`
	CompletionNotes string     `db:"completion_notes"`
	CompletedAt     *time.Time `db:"completed_at"`

	RoomName     string  `column:"name"        db:"room_name"     table:"rooms"`
	RoomNumber   string  `column:"room_number" db:"room_number"   table:"rooms"`
	AssigneeName *string `column:"name"        db:"assignee_name" table:"users"`
	model.Metadata
}

func (Task) GetJoinQuery() string {
	return "JOIN rooms ON rooms.id = housekeeping_tasks.room_id " +
		"LEFT JOIN users ON users.id = housekeeping_tasks.assigned_to"
}

func (t Task) IsUrgent() bool {
	return t.Priority == PriorityUrgent
}

func (t Task) IsOpen() bool {
	return slices.Contains(OpenStatuses, t.Status)
}

// DueWithin selects the open tasks of a room whose deadline falls inside [Start, End].
type DueWithin struct {
	RoomID string
	Start  time.Time
	End    time.Time
}

func (q DueWithin) FilterGroup() gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: FieldRoomID, Value: q.RoomID, Operator: gDto.FilterOperatorEq, Table: TableName},
			gDto.Filter{Field: FieldStatus, Value: OpenStatuses, Operator: gDto.FilterOperatorIn, Table: TableName},
			gDto.Filter{ArgName: "deadline_from", Field: FieldDeadline, Value: q.Start, Operator: gDto.FilterOperatorGreaterEq, Table: TableName},
			gDto.Filter{ArgName: "deadline_to", Field: FieldDeadline, Value: q.End, Operator: gDto.FilterOperatorLessEq, Table: TableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}
}

// Matches applies the same predicate as FilterGroup in memory.
func (q DueWithin) Matches(t Task) bool {
	if t.RoomID != q.RoomID || !t.IsOpen() || t.Deadline == nil {
		return false
	}

	return !t.Deadline.Before(q.Start) && !t.Deadline.After(q.End)
}
