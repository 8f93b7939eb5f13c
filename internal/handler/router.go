package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// APIRoutes mounts the user and contact endpoints on r. requireAuth
// guards everything except registration and login.
func APIRoutes(r chi.Router, users *UserHandler, contacts *ContactHandler, requireAuth func(http.Handler) http.Handler) {
	r.Post("/users", users.Register)
	r.Post("/users/login", users.Login)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/users/current", users.Current)
		r.Patch("/users/current", users.UpdateCurrent)
		r.Delete("/users/logout", users.Logout)

		r.Route("/contacts", func(r chi.Router) {
			r.Post("/", contacts.Create)
			r.Get("/", contacts.List)
			r.Get("/{id}", contacts.Get)
			r.Put("/{id}", contacts.Update)
			r.Delete("/{id}", contacts.Delete)
		})
	})
}
