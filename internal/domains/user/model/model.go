package model

import (
	"time"

	"github.com/JustAdi10/Booking/shared/constant"
	"github.com/JustAdi10/Booking/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldName      = "name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldPassword  = "password"
	FieldRole      = "role"
	FieldActive    = "active"
	FieldLastLogin = "last_login"
)

type User struct {
	ID        string     `db:"id"`
	Name      string     `db:"name"`
	Email     string     `db:"email"`
	Phone     *string    `db:"phone"`
	Password  string     `db:"password"`
	Role      string     `db:"role"`
	Active    bool       `db:"active"`
	LastLogin *time.Time `db:"last_login"`
	model.Metadata
}

// CanBeAssignedTasks reports whether housekeeping work may be assigned to the user.
func (u User) CanBeAssignedTasks() bool {
	return u.Role == constant.RoleHousekeeping || u.Role == constant.RoleAdmin
}
