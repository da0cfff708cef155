package dialect

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)`)

// Version is the major/minor pair a backend reports. Patch levels are ignored for gating.
type Version struct {
	Major int
	Minor int
}

// String renders the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v is equal to or newer than minimum.
func (v Version) AtLeast(minimum Version) bool {
	if v.Major != minimum.Major {
		return v.Major > minimum.Major
	}

	return v.Minor >= minimum.Minor
}

// IsZero reports whether no version was set.
func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0
}

// ParseVersion extracts the first "major.minor" pair from s, e.g. "10.14.2.0 - (1828579)" -> 10.14.
func ParseVersion(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, errors.Join(ErrDetectionFailed, fmt.Errorf("no version number in %q", s))
	}

	return versionFromParts(m[1], m[2])
}

// ParseVersionWith applies pattern to s. The pattern needs two submatches: major and minor.
// A nil pattern falls back to ParseVersion.
func ParseVersionWith(pattern *regexp.Regexp, s string) (Version, error) {
	if pattern == nil {
		return ParseVersion(s)
	}

	m := pattern.FindStringSubmatch(s)
	if len(m) < 3 {
		return Version{}, errors.Join(ErrDetectionFailed, fmt.Errorf("version pattern %q does not match %q", pattern.String(), s))
	}

	return versionFromParts(m[1], m[2])
}

func versionFromParts(major, minor string) (Version, error) {
	ma, err := strconv.Atoi(major)
	if err != nil {
		return Version{}, errors.Join(ErrDetectionFailed, err)
	}

	if minor == "" {
		return Version{Major: ma}, nil
	}

	mi, err := strconv.Atoi(minor)
	if err != nil {
		return Version{}, errors.Join(ErrDetectionFailed, err)
	}

	return Version{Major: ma, Minor: mi}, nil
}
