package version

import (
	"errors"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var ErrEmptyVersion = errors.New("empty version value")

// Version is a requested Node.js version. It is either a concrete semantic
// version or a named channel ("latest", "lts", "lts/hydrogen", a user
// alias) that still needs resolving against the remote release index.
//
// The string form of a concrete version is "v<major>.<minor>.<patch>". It is
// embedded verbatim in download paths and install-directory names and must
// stay byte-stable for existing installs to remain addressable.
type Version struct {
	semver *semver.Version
	name   string
}

func FromSemver(v *semver.Version) Version {
	return Version{semver: v}
}

func Named(name string) Version {
	return Version{name: name}
}

// Parse turns a user-supplied token into a Version. Tokens that look like a
// version number ("18.2.0", "v18.2.0") become the structured form; anything
// else is treated as an opaque channel or alias name.
func Parse(token string) (Version, error) {
	if token == "" {
		return Version{}, ErrEmptyVersion
	}
	if c := token[0]; c == 'v' || ('0' <= c && c <= '9') {
		if sv, err := semver.NewVersion(strings.TrimPrefix(token, "v")); err == nil {
			return Version{semver: sv}, nil
		}
	}
	return Version{name: token}, nil
}

// Semver returns the structured form of the version, if it has one.
func (v Version) Semver() (*semver.Version, bool) {
	return v.semver, v.semver != nil
}

// IsNamed reports whether the version is a channel or alias reference
// rather than a concrete release.
func (v Version) IsNamed() bool {
	return v.semver == nil
}

func (v Version) String() string {
	if v.semver != nil {
		return "v" + v.semver.String()
	}
	return v.name
}
