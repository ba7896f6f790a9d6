package repositories

import (
	"context"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
)

// EntityRepository is the store of tracked entities.
type EntityRepository interface {
	// GetTrackedEntities returns every entity known to the store, tracked or not.
	GetTrackedEntities(ctx context.Context) ([]entities.TrackedEntity, error)

	// UpdateEntity upserts the entity by name.
	UpdateEntity(ctx context.Context, entity entities.TrackedEntity) error
}
