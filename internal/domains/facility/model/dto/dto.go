package dto

import (
	"net/http"
	"strings"

	"github.com/JustAdi10/Booking/internal/domains/facility/model"
	"github.com/JustAdi10/Booking/shared"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	gModel "github.com/JustAdi10/Booking/shared/model"
	"github.com/JustAdi10/Booking/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateFacilityRequest struct {
	Type        string   `json:"type"        validate:"required,oneof=GROUND BUILDING"`
	Name        string   `json:"name"        validate:"required,max=255"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	Location    string   `json:"location"    validate:"required,max=255"`
	Address     string   `json:"address"     validate:"omitempty,max=500"`
	City        string   `json:"city"        validate:"required,max=100"`
	State       string   `json:"state"       validate:"required,max=100"`
	Capacity    int      `json:"capacity"    validate:"omitempty,gte=0"`
	Amenities   []string `json:"amenities"   validate:"omitempty,dive,required,max=100"`
}

func (c *CreateFacilityRequest) ToModel(user string) model.Facility {
	amenities := c.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	return model.Facility{
		ID:          uuid.NewString(),
		Type:        c.Type,
		Name:        c.Name,
		Description: c.Description,
		Location:    c.Location,
		Address:     c.Address,
		City:        c.City,
		State:       c.State,
		Capacity:    c.Capacity,
		Amenities:   amenities,
		Active:      true,
		Metadata:    gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdateFacilityRequest struct {
	Name        string         `db:"name"        json:"name"        validate:"omitempty,max=255"`
	Description string         `db:"description" json:"description" validate:"omitempty,max=2000"`
	Location    string         `db:"location"    json:"location"    validate:"omitempty,max=255"`
	Address     string         `db:"address"     json:"address"     validate:"omitempty,max=500"`
	City        string         `db:"city"        json:"city"        validate:"omitempty,max=100"`
	State       string         `db:"state"       json:"state"       validate:"omitempty,max=100"`
	Capacity    *int           `db:"capacity"    json:"capacity"    validate:"omitempty,gte=0"`
	Amenities   pq.StringArray `db:"amenities"   json:"amenities"   validate:"omitempty,dive,required,max=100"`
	Active      *bool          `db:"active"      json:"active"      validate:"omitempty"`
}

func (u *UpdateFacilityRequest) IsEmpty() bool {
	return u.Name == constant.Empty && u.Description == constant.Empty && u.Location == constant.Empty &&
		u.Address == constant.Empty && u.City == constant.Empty && u.State == constant.Empty &&
		u.Capacity == nil && u.Amenities == nil && u.Active == nil
}

// FacilityFilter is the typed listing query.
type FacilityFilter struct {
	Type   string `validate:"omitempty,oneof=GROUND BUILDING"`
	State  string
	City   string
	Active *bool
	Search string
}

func (f *FacilityFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.Type = strings.ToUpper(query.Get("type"))
	f.State = query.Get("state")
	f.City = query.Get("city")
	f.Active = shared.ConvertStringToBool(query.Get("active"))
	f.Search = strings.TrimSpace(query.Get("search"))
}

func (f *FacilityFilter) FilterGroup() gDto.FilterGroup {
	filters := []any{}

	if f.Type != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldType, Value: f.Type, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.State != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldState, Value: f.State, Operator: gDto.FilterOperatorLike, Table: model.TableName})
	}

	if f.City != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldCity, Value: f.City, Operator: gDto.FilterOperatorLike, Table: model.TableName})
	}

	if f.Active != nil {
		filters = append(filters, gDto.Filter{Field: model.FieldActive, Value: *f.Active, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.Search != constant.Empty {
		filters = append(filters, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{ArgName: "search_name", Field: model.FieldName, Value: f.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
				gDto.Filter{ArgName: "search_description", Field: model.FieldDescription, Value: f.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
				gDto.Filter{ArgName: "search_location", Field: model.FieldLocation, Value: f.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
			},
		})
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
}

type FacilityResponse struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Capacity    int      `json:"capacity"`
	Amenities   []string `json:"amenities"`
	Active      bool     `json:"active"`
	gDto.Metadata
}

func (r *FacilityResponse) FromModel(model model.Facility) {
	r.ID = model.ID
	r.Type = model.Type
	r.Name = model.Name
	r.Description = model.Description
	r.Location = model.Location
	r.Address = model.Address
	r.City = model.City
	r.State = model.State
	r.Capacity = model.Capacity
	r.Amenities = []string(model.Amenities)
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)

	if r.Amenities == nil {
		r.Amenities = []string{}
	}
}

type GetFacilitiesResponse struct {
	Facilities []FacilityResponse `json:"facilities"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetFacilitiesResponse) FromModels(models []model.Facility, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Facilities = make([]FacilityResponse, len(models))
	for i, mod := range models {
		r.Facilities[i].FromModel(mod)
	}
}
