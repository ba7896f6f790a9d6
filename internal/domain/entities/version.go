package entities

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// VersionResult is one resolved "latest version", whether it came from a
// release or from a tag.
type VersionResult struct {
	Tag string
	URL string
}

// NormalizeVersion prefixes a "v" so that tags like "1.2.3" are accepted by
// the semver package.
func NormalizeVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// IsPrerelease reports whether the tag carries a semver prerelease suffix.
// Tags that are not valid semver are never considered prereleases.
func IsPrerelease(tag string) bool {
	v := NormalizeVersion(tag)
	return semver.IsValid(v) && semver.Prerelease(v) != ""
}

// IsNewerVersion reports whether candidate is newer than current. When
// either side is not valid semver, any difference counts as newer.
func IsNewerVersion(candidate, current string) bool {
	v1 := NormalizeVersion(candidate)
	v2 := NormalizeVersion(current)
	if semver.IsValid(v1) && semver.IsValid(v2) {
		return semver.Compare(v1, v2) > 0
	}
	return candidate != current
}

// SortVersionsDescending orders tags newest first. Valid semver tags are
// compared semantically, anything else lexically.
func SortVersionsDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		v1 := NormalizeVersion(versions[i])
		v2 := NormalizeVersion(versions[j])
		valid1, valid2 := semver.IsValid(v1), semver.IsValid(v2)
		switch {
		case valid1 && valid2:
			return semver.Compare(v1, v2) > 0
		case valid1 != valid2:
			return valid1
		default:
			return versions[i] > versions[j]
		}
	})
}
