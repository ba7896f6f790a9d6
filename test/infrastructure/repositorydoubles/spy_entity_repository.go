//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	"github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
)

// SpyEntityRepository implements repositories.EntityRepository as a
// configurable spy. UpdateEntity writes back into Entities, so a second
// cycle sees the state recorded by the first.
type SpyEntityRepository struct {
	// --- GetTrackedEntities ---
	Entities []entities.TrackedEntity
	GetErr   error

	// --- UpdateEntity ---
	UpdateErr error
	// spy: entities received, in order
	Updated []entities.TrackedEntity
}

var _ repositories.EntityRepository = (*SpyEntityRepository)(nil)

func (s *SpyEntityRepository) GetTrackedEntities(_ context.Context) ([]entities.TrackedEntity, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	result := make([]entities.TrackedEntity, 0, len(s.Entities))
	for _, entity := range s.Entities {
		result = append(result, entity.Clone())
	}
	return result, nil
}

func (s *SpyEntityRepository) UpdateEntity(_ context.Context, entity entities.TrackedEntity) error {
	s.Updated = append(s.Updated, entity.Clone())
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	for i := range s.Entities {
		if s.Entities[i].Name == entity.Name {
			s.Entities[i] = entity.Clone()
			return nil
		}
	}
	s.Entities = append(s.Entities, entity.Clone())
	return nil
}
