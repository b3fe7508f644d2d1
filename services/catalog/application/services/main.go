package services

import (
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/app"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/cache"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/repositories"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/infrastructure/cachestore"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/infrastructure/persistence/sqlstore"
)

// Services is the application-layer service container for the catalog.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Snapshots *SnapshotService
	Query     *QueryService
}

// New wires the catalog services with infrastructure from the Application
// container. Sinks missing from a stay disabled.
func New(a *app.Application) *Services {
	var (
		repo   repositories.CatalogRepository
		store  repositories.CatalogCache
		reader recordReader
	)
	if a.Db != nil {
		repo = sqlstore.NewCatalogRepository(a.Db, a.EventBus)
	}
	if a.Redis != nil {
		rc := cachestore.NewRecordCache(cache.NewCatalogCache(a.Redis))
		store, reader = rc, rc
	}
	return &Services{
		Snapshots: NewSnapshotService(repo, store, a.EventBus != nil, a.Logger),
		Query:     NewQueryService(repo, reader, a.Logger),
	}
}
