package commands

import (
	"context"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	"github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories"
)

// Check is the interface for one upstream check cycle.
type Check interface {
	RunCycle(ctx context.Context) ([]entities.CheckReport, error)
}

// CheckCommand runs the upstream check over every tracked entity, one at a
// time, pausing between entities so the shared provider quota is not burst.
type CheckCommand struct {
	sources   *infraRepos.VersionSourceRegistry
	store     repositories.EntityRepository
	publisher repositories.ReportPublisher
	pacer     Pacer
	now       func() time.Time
}

// NewCheckCommand creates a new CheckCommand.
func NewCheckCommand(
	sources *infraRepos.VersionSourceRegistry,
	store repositories.EntityRepository,
	publisher repositories.ReportPublisher,
	pacer Pacer,
) *CheckCommand {
	return &CheckCommand{
		sources:   sources,
		store:     store,
		publisher: publisher,
		pacer:     pacer,
		now:       time.Now,
	}
}

// RunCycle checks every entity with upstream tracking configured and returns
// one report per checked entity. Entities whose repository reference cannot
// be parsed are skipped and produce no report. A failing entity never stops
// the cycle; only a cancelled context does, in which case the reports
// produced so far are returned with the context error. A check cut short by
// the cancellation is neither recorded nor reported.
func (it *CheckCommand) RunCycle(ctx context.Context) ([]entities.CheckReport, error) {
	all, err := it.store.GetTrackedEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked entities: %w", err)
	}

	tracked := make([]entities.TrackedEntity, 0, len(all))
	for _, entity := range all {
		if entity.IsTracked() {
			tracked = append(tracked, entity)
		}
	}

	if len(tracked) == 0 {
		logger.Debug("No entities with upstream tracking configured")
		return nil, nil
	}

	logger.Infof("Checking upstream for %d entity(ies)", len(tracked))

	var cycleErr error
	reports := make([]entities.CheckReport, 0, len(tracked))
	for i, entity := range tracked {
		if i > 0 {
			if waitErr := it.pacer.Wait(ctx); waitErr != nil {
				logger.Warnf("Upstream check cycle interrupted: %v", waitErr)
				cycleErr = waitErr
				break
			}
		}

		if report, ok := it.checkEntity(ctx, entity); ok {
			reports = append(reports, report)
			it.publisher.PublishReport(report)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Warnf("Upstream check cycle interrupted: %v", ctxErr)
			cycleErr = ctxErr
			break
		}
	}

	if len(reports) > 0 {
		it.publisher.PublishReports(reports)
	}

	if updates := entities.CountChanged(reports); updates > 0 {
		logger.Infof("Found %d upstream update(s)", updates)
	} else {
		logger.Info("All upstreams are up to date")
	}

	return reports, cycleErr
}

// checkEntity resolves the latest upstream version of one entity and
// records the outcome. It returns false when the entity was skipped.
func (it *CheckCommand) checkEntity(
	ctx context.Context,
	entity entities.TrackedEntity,
) (entities.CheckReport, bool) {
	entity = entity.Clone()
	upstream := entity.Upstream
	entry := logger.WithFields(logger.Fields{
		"entity":   entity.Name,
		"upstream": upstream.Repo,
	})

	ref, err := entities.ParseRepoRef(upstream.Repo)
	if err != nil {
		entry.Warnf("Skipping upstream check: %v", err)
		return entities.CheckReport{}, false
	}

	entry.Debug("Checking upstream")

	result, err := it.resolve(ctx, upstream, ref)
	checkedAt := it.now().UTC()
	if err != nil {
		if ctx.Err() != nil {
			entry.Debugf("Upstream check abandoned: %v", err)
			return entities.CheckReport{}, false
		}
		kind := entities.ClassifyError(err)
		entry.WithField("kind", kind).Warnf("Upstream check failed: %v", err)
		upstream.RecordFailure(err, checkedAt)
		it.persist(ctx, entry, entity)
		return entities.CheckReport{
			Entity:          entity,
			PreviousVersion: upstream.LatestVersion,
			ErrorKind:       kind,
		}, true
	}

	updateKnown := upstream.UpdateAvailable()
	previous := upstream.RecordSuccess(result, checkedAt)
	it.persist(ctx, entry, entity)

	changed := previous != "" && previous != result.Tag
	if changed {
		entry.Infof("Upstream update: %s → %s", previous, result.Tag)
	} else {
		entry.Debugf("Upstream latest: %s", result.Tag)
	}
	if !updateKnown && upstream.UpdateAvailable() {
		entry.Infof("Upstream %s is newer than base version %s", result.Tag, upstream.Version)
	}

	return entities.CheckReport{
		Entity:          entity,
		PreviousVersion: previous,
		Changed:         changed,
	}, true
}

func (it *CheckCommand) resolve(
	ctx context.Context,
	upstream *entities.UpstreamConfig,
	ref entities.RepoRef,
) (entities.VersionResult, error) {
	source, err := it.sources.Get(upstream.ProviderName())
	if err != nil {
		return entities.VersionResult{}, err
	}
	return source.ResolveLatestVersion(ctx, ref, upstream.IncludePrereleases)
}

func (it *CheckCommand) persist(ctx context.Context, entry *logger.Entry, entity entities.TrackedEntity) {
	if err := it.store.UpdateEntity(ctx, entity); err != nil {
		entry.Errorf("Failed to store upstream state: %v", err)
	}
}
