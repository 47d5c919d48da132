package router

import (
	"voyage/internal/handlers/booking"
	"voyage/internal/handlers/catalog"
	"voyage/internal/handlers/draft"
	"voyage/internal/handlers/payment"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Catalog catalog.Handler
	Draft   draft.Handler
	Booking booking.Handler
	Payment payment.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Catalog.Router(routerGroup)
		r.DomainHandlers.Draft.Router(routerGroup)

		routerGroup.Route("/bookings", func(bookings chi.Router) {
			r.DomainHandlers.Booking.Router(bookings)
			r.DomainHandlers.Payment.Router(bookings)
		})

		routerGroup.Route("/me", r.DomainHandlers.Booking.MeRouter)

		routerGroup.Route("/admin/bookings/{id}", func(admin chi.Router) {
			r.DomainHandlers.Booking.AdminRouter(admin)
			r.DomainHandlers.Payment.AdminRouter(admin)
		})
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
