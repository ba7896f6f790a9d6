package entities

import "errors"

var (
	// ErrInvalidRepoRef marks an upstream repository that is not "owner/repo".
	ErrInvalidRepoRef = errors.New("invalid upstream repository format")

	// ErrNoReleases is returned by the release path when the provider reports
	// that the repository has no releases. It triggers the tag fallback.
	ErrNoReleases = errors.New("no releases found")

	// ErrVersionNotFound is terminal: neither a release nor a tag exists.
	ErrVersionNotFound = errors.New("no releases or tags found")

	// ErrRateLimited marks a provider quota rejection. It is never retried.
	ErrRateLimited = errors.New("provider API rate limited")

	// ErrUnknownProvider is returned when an entity names an unregistered provider.
	ErrUnknownProvider = errors.New("unknown upstream provider")

	// ErrAlreadyScheduled is returned when the scheduler is started twice.
	ErrAlreadyScheduled = errors.New("upstream checks already scheduled")
)

// ErrorKind is the class of a version resolution failure.
type ErrorKind string

const (
	ErrorKindNone      ErrorKind = ""
	ErrorKindNotFound  ErrorKind = "NotFound"
	ErrorKindRateLimit ErrorKind = "RateLimited"
	ErrorKindTransient ErrorKind = "TransientOrUnknown"
)

// ClassifyError maps an error returned by a version source to its kind.
func ClassifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrVersionNotFound):
		return ErrorKindNotFound
	case errors.Is(err, ErrRateLimited):
		return ErrorKindRateLimit
	default:
		return ErrorKindTransient
	}
}
