package entities

// CheckReport is the outcome of one upstream check for one entity.
type CheckReport struct {
	Entity          TrackedEntity
	PreviousVersion string
	// Changed is true only when a previous version was known and the newly
	// resolved tag differs from it. A first resolution is not a change.
	Changed bool
	// ErrorKind classifies the failure; ErrorKindNone when the check succeeded.
	ErrorKind ErrorKind
}

// Failed reports whether the check recorded an error.
func (r CheckReport) Failed() bool {
	return r.ErrorKind != ErrorKindNone
}

// CountChanged returns the number of reports flagged as changed.
func CountChanged(reports []CheckReport) int {
	count := 0
	for _, report := range reports {
		if report.Changed {
			count++
		}
	}
	return count
}
