package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	"github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
)

// stateDocument is the on-disk layout of the state file.
type stateDocument struct {
	Entities []entities.TrackedEntity `yaml:"entities"`
}

// MemoryEntityRepository keeps tracked entities in memory, seeded from the
// settings. When a state file is configured, the check results survive
// restarts: they are merged back on load and rewritten on every update.
type MemoryEntityRepository struct {
	mu        sync.Mutex
	order     []string
	entities  map[string]entities.TrackedEntity
	stateFile string
}

var _ repositories.EntityRepository = (*MemoryEntityRepository)(nil)

// NewMemoryEntityRepository creates a store holding the configured entities.
func NewMemoryEntityRepository(settings *entities.Settings) (*MemoryEntityRepository, error) {
	repo := &MemoryEntityRepository{
		entities:  make(map[string]entities.TrackedEntity, len(settings.Entities)),
		stateFile: settings.StateFile,
	}
	for _, entity := range settings.Entities {
		repo.put(entity.Clone())
	}

	if repo.stateFile != "" {
		if err := repo.loadState(); err != nil {
			return nil, err
		}
	}

	return repo, nil
}

// GetTrackedEntities returns a copy of every stored entity, in insertion order.
func (r *MemoryEntityRepository) GetTrackedEntities(_ context.Context) ([]entities.TrackedEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]entities.TrackedEntity, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.entities[name].Clone())
	}
	return result, nil
}

// UpdateEntity upserts the entity by name and rewrites the state file.
func (r *MemoryEntityRepository) UpdateEntity(_ context.Context, entity entities.TrackedEntity) error {
	if entity.Name == "" {
		return errors.New("entity name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.put(entity.Clone())

	if r.stateFile == "" {
		return nil
	}
	return r.saveState()
}

func (r *MemoryEntityRepository) put(entity entities.TrackedEntity) {
	if _, ok := r.entities[entity.Name]; !ok {
		r.order = append(r.order, entity.Name)
	}
	r.entities[entity.Name] = entity
}

// loadState merges the recorded check results into the configured entities.
// The configuration stays authoritative: state for entities that are no
// longer configured, or whose repository changed, is dropped.
func (r *MemoryEntityRepository) loadState() error {
	data, err := os.ReadFile(r.stateFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read state file %q: %w", r.stateFile, err)
	}

	var doc stateDocument
	if unmarshalErr := yaml.Unmarshal(data, &doc); unmarshalErr != nil {
		return fmt.Errorf("failed to parse state file %q: %w", r.stateFile, unmarshalErr)
	}

	restored := 0
	for _, saved := range doc.Entities {
		current, ok := r.entities[saved.Name]
		if !ok || !current.IsTracked() || saved.Upstream == nil ||
			saved.Upstream.Repo != current.Upstream.Repo {
			continue
		}
		current.Upstream.LatestVersion = saved.Upstream.LatestVersion
		current.Upstream.LatestURL = saved.Upstream.LatestURL
		current.Upstream.LastCheckedAt = saved.Upstream.LastCheckedAt
		current.Upstream.LastError = saved.Upstream.LastError
		restored++
	}

	logger.Debugf("Restored upstream state for %d entity(ies) from %q", restored, r.stateFile)
	return nil
}

// saveState writes the state file atomically (temp file + rename).
func (r *MemoryEntityRepository) saveState() error {
	doc := stateDocument{Entities: make([]entities.TrackedEntity, 0, len(r.order))}
	for _, name := range r.order {
		doc.Entities = append(doc.Entities, r.entities[name])
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.stateFile), ".upstreamwatch-state-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, writeErr := tmp.Write(data); writeErr != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		return fmt.Errorf("failed to write state file: %w", closeErr)
	}

	if renameErr := os.Rename(tmp.Name(), r.stateFile); renameErr != nil {
		return fmt.Errorf("failed to replace state file %q: %w", r.stateFile, renameErr)
	}
	return nil
}
