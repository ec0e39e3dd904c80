package model

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinorVersion returns the "major.minor" part of a version string. Strings that
// are not semantic versions are cut after the second dot.
func MinorVersion(version string) string {
	if v, err := semver.NewVersion(version); err == nil {
		return fmt.Sprintf("%d.%d", v.Major(), v.Minor())
	}
	parts := strings.SplitN(strings.TrimPrefix(version, "v"), ".", 3)
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}
