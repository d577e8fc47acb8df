package tables

import (
	"restoran_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type TableRoutesManager struct {
	logger              *gecho.Logger
	tableService        *services.TableService
	availabilityService *services.AvailabilityService
}

func NewTableRoutesManager(logger *gecho.Logger, tableService *services.TableService, availabilityService *services.AvailabilityService) *TableRoutesManager {
	return &TableRoutesManager{
		logger:              logger,
		tableService:        tableService,
		availabilityService: availabilityService,
	}
}

func (trm *TableRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/tables", func(r chi.Router) {
		r.Get("/", trm.ListTables)
		r.Get("/available", trm.AvailableTables)
		r.Get("/{id}", trm.GetTable)
		r.Get("/{id}/bookings", trm.TableBookings)
	})
}
