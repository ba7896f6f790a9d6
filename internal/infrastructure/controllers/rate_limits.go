package controllers

import (
	logger "github.com/sirupsen/logrus"

	domainRepos "github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories"
)

// logRateLimits reports the last quota seen by every source that tracks one.
// Sources that have not answered yet stay silent.
func logRateLimits(sources *infraRepos.VersionSourceRegistry) {
	for _, name := range sources.Names() {
		source, err := sources.Get(name)
		if err != nil {
			continue
		}
		reporter, ok := source.(domainRepos.RateLimitReporter)
		if !ok {
			continue
		}
		if remaining, known := reporter.RateLimitRemaining(); known {
			logger.WithField("provider", name).Infof("API quota: %d request(s) remaining", remaining)
		}
	}
}
