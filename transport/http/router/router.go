package router

import (
	"net/http"

	"github.com/JustAdi10/Booking/internal/handlers/auth"
	"github.com/JustAdi10/Booking/internal/handlers/booking"
	"github.com/JustAdi10/Booking/internal/handlers/facility"
	"github.com/JustAdi10/Booking/internal/handlers/housekeeping"
	"github.com/JustAdi10/Booking/internal/handlers/room"
	"github.com/JustAdi10/Booking/internal/handlers/user"
	"github.com/JustAdi10/Booking/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	User         user.Handler
	Facility     facility.Handler
	Room         room.Handler
	Booking      booking.Handler
	Housekeeping housekeeping.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
	App            middleware.AppMiddleware
}

// SetupRoutes mounts every domain under /v1. Public endpoints are marked skip in permissions.json.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.App.RateLimit())
		routerGroup.Use(r.AuthRole.APIKey)
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Facility.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Housekeeping.Router(routerGroup)
	})
}

// Tracing wraps the whole mux so the span covers routing and middleware.
func (r *Router) Tracing(next http.Handler) http.Handler {
	return r.App.Tracing(next)
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole, app middleware.AppMiddleware) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
		App:            app,
	}
}
