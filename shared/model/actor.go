package model

import (
	"context"

	"github.com/JustAdi10/Booking/shared/constant"
)

// Actor is the authenticated principal on whose behalf a mutation runs.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == constant.RoleAdmin
}

func (a Actor) IsHousekeeping() bool {
	return a.Role == constant.RoleHousekeeping
}

// CanActOn reports whether the actor owns the resource or is an admin.
func (a Actor) CanActOn(ownerID string) bool {
	return a.IsAdmin() || (a.ID != "" && a.ID == ownerID)
}

func ActorFromContext(ctx context.Context) Actor {
	id, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return Actor{ID: id, Role: role}
}
