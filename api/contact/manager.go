package contact

import (
	"restoran_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ContactRoutesManager struct {
	logger         *gecho.Logger
	contactService *services.ContactService
}

func NewContactRoutesManager(logger *gecho.Logger, contactService *services.ContactService) *ContactRoutesManager {
	return &ContactRoutesManager{
		logger:         logger,
		contactService: contactService,
	}
}

func (crm *ContactRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/contact", func(r chi.Router) {
		r.Post("/", crm.CreateMessage)
		r.Get("/", crm.ListMessages)
		r.Patch("/{id}/read", crm.MarkRead)
		r.Delete("/{id}", crm.DeleteMessage)
	})
}
