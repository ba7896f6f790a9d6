package entities

import (
	"fmt"
	"strings"
)

// RepoRef identifies a remote repository by owner and name.
type RepoRef struct {
	Owner string
	Repo  string
}

// ParseRepoRef parses an "owner/repo" string. Exactly two non-empty
// segments are accepted; anything else wraps ErrInvalidRepoRef.
func ParseRepoRef(raw string) (RepoRef, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, fmt.Errorf("%w: %q (expected \"owner/repo\")", ErrInvalidRepoRef, raw)
	}
	return RepoRef{Owner: parts[0], Repo: parts[1]}, nil
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Repo
}
