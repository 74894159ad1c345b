package metadata

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// VersionAtLeast reports whether the record's declared version is at least
// min. Records without a parseable version fail the check; a leading "v" on
// either side is tolerated.
func (r Record) VersionAtLeast(min string) bool {
	have, err := semver.NewVersion(strings.TrimPrefix(r.Version, "v"))
	if err != nil {
		return false
	}
	want, err := semver.NewVersion(strings.TrimPrefix(min, "v"))
	if err != nil {
		return false
	}
	return !have.LessThan(want)
}
