package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/app"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/config"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/application/handlers"
	appsvcs "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/application/services"
)

// CatalogRoutes registers the read-only catalog endpoints on r.
func CatalogRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	items := handlers.NewItemHandlers(svcs.Query, a.Config.Environment == config.EnvProduction)
	r.Route("/catalog/items", func(r chi.Router) {
		r.Get("/", items.List)
		r.Get("/{id}", items.Get)
	})
}
