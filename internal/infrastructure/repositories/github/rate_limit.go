package github

import (
	"net/http"
	"strconv"
	"sync"

	logger "github.com/sirupsen/logrus"
)

const (
	rateLimitHeader   = "X-RateLimit-Remaining"
	rateLimitLowWater = 10
)

// rateLimitState remembers the last quota GitHub reported. It is advisory:
// a low value is logged, requests are never held back.
type rateLimitState struct {
	mu        sync.Mutex
	remaining int
	known     bool
}

func (s *rateLimitState) update(header http.Header) {
	raw := header.Get(rateLimitHeader)
	if raw == "" {
		return
	}
	remaining, err := strconv.Atoi(raw)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.remaining = remaining
	s.known = true
	s.mu.Unlock()

	if remaining < rateLimitLowWater {
		logger.Warnf("GitHub API rate limit low: %d requests remaining", remaining)
	}
}

func (s *rateLimitState) get() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining, s.known
}
