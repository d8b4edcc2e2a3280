package entities

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
)

// ReleaseTag is the upstream tag a run publishes, e.g. "v9.1.0450".
type ReleaseTag struct {
	Name string
}

// NewReleaseTag validates a tag name. The name must contain at least one digit so
// that a numeric version can be derived from it.
func NewReleaseTag(name string) (ReleaseTag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ReleaseTag{}, fmt.Errorf("%w: empty tag name", ErrUpstreamFetch)
	}
	if !strings.ContainsFunc(name, unicode.IsDigit) {
		return ReleaseTag{}, fmt.Errorf("%w: tag %q has no numeric version", ErrUpstreamFetch, name)
	}
	return ReleaseTag{Name: name}, nil
}

// Version returns the tag with its leading non-numeric prefix removed ("v9.1.0450" -> "9.1.0450").
func (t ReleaseTag) Version() string {
	return strings.TrimLeftFunc(t.Name, func(r rune) bool {
		return !unicode.IsDigit(r)
	})
}

func (t ReleaseTag) String() string { return t.Name }

// IsOlderThan reports whether the tag version sorts before the given version.
// Versions that do not parse are never considered older.
func (t ReleaseTag) IsOlderThan(version string) bool {
	next, err := semver.NewVersion(t.Version())
	if err != nil {
		return false
	}
	current, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return next.LessThan(current)
}
