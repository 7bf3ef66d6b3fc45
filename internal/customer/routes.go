package customer

import "github.com/go-chi/chi/v5"

// MountRoutes registers the customer API on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createCustomer)
	r.Post("/with-password", h.createCustomerWithPassword)
	r.Post("/register", h.register)
	r.Post("/confirm-email", h.confirmEmail)
	r.Post("/login", h.login)
}
