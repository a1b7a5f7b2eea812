package dto

import (
	"net/http"
	"strings"
	"time"

	"github.com/JustAdi10/Booking/internal/domains/user/model"
	"github.com/JustAdi10/Booking/shared"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
)

type UserResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone,omitempty"`
	Role      string     `json:"role"`
	Active    bool       `json:"active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
	r.Phone = model.Phone
	r.Role = model.Role
	r.Active = model.Active
	r.LastLogin = model.LastLogin
	r.Metadata.FromModel(model.Metadata)
}

// UpdateUserRequest is the admin-side edit.
type UpdateUserRequest struct {
	Name   string `db:"name"   json:"name"   validate:"omitempty,min=2,max=100"`
	Role   string `db:"role"   json:"role"   validate:"omitempty,oneof=ADMIN HOUSEKEEPING USER"`
	Active *bool  `db:"active" json:"active" validate:"omitempty"`
}

func (u *UpdateUserRequest) IsEmpty() bool {
	return u.Name == constant.Empty && u.Role == constant.Empty && u.Active == nil
}

// UpdateProfileRequest is what users may change about themselves.
type UpdateProfileRequest struct {
	Name  string  `db:"name"  json:"name"  validate:"omitempty,min=2,max=100"`
	Phone *string `db:"phone" json:"phone" validate:"omitempty,e164"`
}

func (u *UpdateProfileRequest) IsEmpty() bool {
	return u.Name == constant.Empty && u.Phone == nil
}

type deactivateRequest struct {
	Active *bool `db:"active"`
}

// DeactivateFields is the update applied when an admin removes a user.
func DeactivateFields(user string) map[string]any {
	inactive := false

	return shared.TransformFields(deactivateRequest{Active: &inactive}, user)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

type UserFilter struct {
	Role   string `validate:"omitempty,oneof=ADMIN HOUSEKEEPING USER"`
	Active *bool
	Search string
}

func (f *UserFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.Role = strings.ToUpper(query.Get("role"))
	f.Active = shared.ConvertStringToBool(query.Get("active"))
	f.Search = strings.TrimSpace(query.Get("search"))
}

func (f *UserFilter) FilterGroup() gDto.FilterGroup {
	filters := []any{}

	if f.Role != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldRole, Value: f.Role, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.Active != nil {
		filters = append(filters, gDto.Filter{Field: model.FieldActive, Value: *f.Active, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.Search != constant.Empty {
		filters = append(filters, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{ArgName: "search_name", Field: model.FieldName, Value: f.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
				gDto.Filter{ArgName: "search_email", Field: model.FieldEmail, Value: f.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
			},
			Operator: gDto.FilterGroupOperatorOr,
		})
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
}
